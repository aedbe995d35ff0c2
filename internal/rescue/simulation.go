package rescue

import (
	"math/rand"

	"github.com/google/uuid"

	"rescue_ai/internal/config"
	"rescue_ai/internal/grid"
	"rescue_ai/internal/planner"
	"rescue_ai/internal/util"
)

// Simulation is the whole mutable state of one rescue run. It is not safe for
// concurrent use; callers serialize Tick and View.
type Simulation struct {
	ID         string
	Seed       int64
	Grid       *grid.Grid
	Pool       *SurvivorPool
	Agents     []*Agent
	Assignment Assignment

	// Emit, if set, receives every event as it happens.
	Emit func(Event)

	tick int
}

// NewSimulation places agents (IDs follow slice order) and survivors on g.
// The advisory assignment starts empty; see Plan.
func NewSimulation(g *grid.Grid, agents, survivors []grid.Cell) *Simulation {
	s := &Simulation{
		ID:         uuid.NewString(),
		Grid:       g,
		Pool:       NewSurvivorPool(survivors),
		Assignment: Assignment{},
	}
	for i, pos := range agents {
		s.Agents = append(s.Agents, &Agent{ID: AgentID(i), Position: pos})
	}
	return s
}

type BuildParams struct {
	Agents    int
	Survivors int
	Obstacles int
	Seed      int64 // 0 = cfg.Sim.Seed, and if that is 0 too, the clock
}

func (p BuildParams) validate(lim config.LimitsConfig) error {
	switch {
	case p.Agents < 1:
		return invalid("num_agents", "must be at least 1, got %d", p.Agents)
	case p.Agents > lim.MaxAgents:
		return invalid("num_agents", "must be at most %d, got %d", lim.MaxAgents, p.Agents)
	case p.Survivors < 0:
		return invalid("num_survivors", "must not be negative, got %d", p.Survivors)
	case p.Survivors > lim.MaxSurvivors:
		return invalid("num_survivors", "must be at most %d, got %d", lim.MaxSurvivors, p.Survivors)
	case p.Obstacles < 0:
		return invalid("num_obstacles", "must not be negative, got %d", p.Obstacles)
	case p.Obstacles > lim.MaxObstacles:
		return invalid("num_obstacles", "must be at most %d, got %d", lim.MaxObstacles, p.Obstacles)
	}
	return nil
}

// BuildGrid generates a fresh simulation: agents, survivors and obstacles are
// placed uniformly at random, in that order, with no collision checks between
// them. The advisory assignment is computed from the same random stream, so a
// fixed seed reproduces the whole run.
func BuildGrid(p BuildParams, cfg *config.Config) (*Simulation, error) {
	if err := p.validate(cfg.Limits); err != nil {
		return nil, err
	}
	seed := p.Seed
	if seed == 0 {
		seed = cfg.Sim.Seed
	}
	seed = util.ResolveSeed(seed)
	rng := util.New(seed)

	size := cfg.Grid.Size
	randomCells := func(n int) []grid.Cell {
		out := make([]grid.Cell, n)
		for i := range out {
			out[i] = grid.Cell{Row: rng.Intn(size), Col: rng.Intn(size)}
		}
		return out
	}
	agents := randomCells(p.Agents)
	survivors := randomCells(p.Survivors)
	obstacles := randomCells(p.Obstacles)

	s := NewSimulation(grid.New(size, obstacles, cfg.ExitCells()), agents, survivors)
	s.Seed = seed
	s.Plan(cfg, rng)
	return s, nil
}

// Plan clusters the current survivors among agents and orders each cluster.
// The result is stored as the advisory Assignment only.
func (s *Simulation) Plan(cfg *config.Config, rng *rand.Rand) {
	starts := make([]grid.Cell, len(s.Agents))
	for i, a := range s.Agents {
		starts[i] = a.Position
	}
	clusters := planner.Cluster(s.Pool.Positions(), starts, cfg.Planner.KMeansIterations)
	s.Assignment = make(Assignment, len(s.Agents))
	for i, a := range s.Agents {
		s.Assignment[a.ID] = planner.OptimizeRoute(clusters[i], a.Position, rng, cfg.GAParams())
	}
}

func (s *Simulation) CurrentTick() int { return s.tick }

func (s *Simulation) AllCompleted() bool {
	for _, a := range s.Agents {
		if !a.Completed {
			return false
		}
	}
	return true
}

func (s *Simulation) TotalSteps() int {
	n := 0
	for _, a := range s.Agents {
		n += a.Steps
	}
	return n
}

func (s *Simulation) Agent(id AgentID) (*Agent, bool) {
	if id < 0 || int(id) >= len(s.Agents) {
		return nil, false
	}
	return s.Agents[id], true
}
