package planner

import (
	"math/rand"
	"slices"
	"sort"

	"rescue_ai/internal/grid"
)

// GAParams tunes OptimizeRoute.
type GAParams struct {
	Population   int
	Generations  int
	Elite        int
	ParentPool   int
	MutationRate float64
}

func DefaultGAParams() GAParams {
	return GAParams{Population: 10, Generations: 50, Elite: 2, ParentPool: 5, MutationRate: 0.3}
}

// RouteCost charges every task as a separate round trip from start:
// sum of 2*manhattan(start, task). Visiting order therefore never changes the
// cost; this is a known approximation of a real tour length and is kept as is.
func RouteCost(order []grid.Cell, start grid.Cell) int {
	total := 0
	for _, t := range order {
		total += 2 * grid.Manhattan(start, t)
	}
	return total
}

type candidate struct {
	order []grid.Cell
	cost  int
}

// OptimizeRoute searches for a low-cost visiting order of tasks with a
// genetic algorithm: elitism, parents drawn from the best few, ordered
// crossover and single-swap mutation. Zero or one task is returned as a copy
// without consuming randomness.
func OptimizeRoute(tasks []grid.Cell, start grid.Cell, rng *rand.Rand, p GAParams) []grid.Cell {
	if len(tasks) <= 1 {
		return slices.Clone(tasks)
	}
	popSize := max(p.Population, 2)
	elite := min(max(p.Elite, 0), popSize)
	eval := func(order []grid.Cell) candidate { return candidate{order: order, cost: RouteCost(order, start)} }

	pop := make([]candidate, popSize)
	for i := range pop {
		perm := slices.Clone(tasks)
		rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		pop[i] = eval(perm)
	}

	for gen := 0; gen < p.Generations; gen++ {
		sort.SliceStable(pop, func(i, j int) bool { return pop[i].cost < pop[j].cost })
		pool := min(max(p.ParentPool, 2), len(pop))
		next := make([]candidate, 0, popSize)
		next = append(next, pop[:elite]...)
		for len(next) < popSize {
			a := rng.Intn(pool)
			b := rng.Intn(pool - 1)
			if b >= a {
				b++
			}
			child := crossover(pop[a].order, pop[b].order, rng)
			if rng.Float64() < p.MutationRate {
				mutate(child, rng)
			}
			next = append(next, eval(child))
		}
		pop = next
	}

	best := pop[0]
	for _, c := range pop[1:] {
		if c.cost < best.cost {
			best = c
		}
	}
	return best.order
}

// crossover keeps a random prefix of a, then appends b's tasks in b's order,
// skipping ones already used. Tasks are counted so that duplicate positions
// keep their multiplicity.
func crossover(a, b []grid.Cell, rng *rand.Rand) []grid.Cell {
	if len(a) < 2 {
		return slices.Clone(a)
	}
	hi := max(1, len(a)-2)
	cut := 1 + rng.Intn(hi)
	child := make([]grid.Cell, 0, len(a))
	child = append(child, a[:cut]...)
	used := make(map[grid.Cell]int, cut)
	for _, c := range child {
		used[c]++
	}
	for _, c := range b {
		if used[c] > 0 {
			used[c]--
			continue
		}
		child = append(child, c)
	}
	return child
}

// mutate swaps two distinct positions in place.
func mutate(order []grid.Cell, rng *rand.Rand) {
	if len(order) < 2 {
		return
	}
	i := rng.Intn(len(order))
	j := rng.Intn(len(order) - 1)
	if j >= i {
		j++
	}
	order[i], order[j] = order[j], order[i]
}
