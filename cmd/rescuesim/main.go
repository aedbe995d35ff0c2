package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rescue_ai/internal/config"
	"rescue_ai/internal/rescue"
)

func main() {
	var cfgDir, out string
	var seed int64
	var n, agents, survivors, obstacles, ticks int
	var saveLog bool
	flag.StringVar(&cfgDir, "config", "", "YAML config file (empty = defaults)")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&seed, "seed", 12345, "seed (0 = now)")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&agents, "agents", 3, "agents per grid")
	flag.IntVar(&survivors, "survivors", 8, "survivors per grid")
	flag.IntVar(&obstacles, "obstacles", 20, "obstacles per grid")
	flag.IntVar(&ticks, "ticks", 0, "tick cap per run (0 = sim.max_ticks)")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.Parse()

	cfg, err := config.Load(cfgDir)
	if err != nil {
		panic(err)
	}
	if ticks <= 0 {
		ticks = cfg.Sim.MaxTicks
	}
	params := rescue.BuildParams{Agents: agents, Survivors: survivors, Obstacles: obstacles, Seed: seed}

	if n <= 1 {
		sim, err := rescue.BuildGrid(params, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		res := rescue.RunToEnd(sim, ticks, saveLog)
		if err := os.WriteFile(out, rescue.MarshalPretty(res), 0644); err != nil {
			panic(err)
		}
		fmt.Printf("Single rescuesim finished. Done=%v, ticks=%d, rescued=%d/%d, steps=%d -> %s\n",
			res.AllCompleted, res.Ticks, res.Rescued, survivors, res.TotalSteps, out)
		return
	}

	var st batchStats
	var mu sync.Mutex
	var firstErr error
	wg := sync.WaitGroup{}
	workers := 8
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				p := params
				p.Seed = runSeed(seed, workerID, i)
				sim, err := rescue.BuildGrid(p, cfg)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				res := rescue.RunToEnd(sim, ticks, false)

				mu.Lock()
				st.add(res)
				mu.Unlock()
			}
		}(w)
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		fmt.Fprintln(os.Stderr, firstErr)
		os.Exit(2)
	}

	if err := os.WriteFile(out, rescue.MarshalPretty(st.summary()), 0644); err != nil {
		panic(err)
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
}

// runSeed derives a distinct, reproducible seed per batch job.
func runSeed(base int64, workerID, i int) int64 {
	if base == 0 {
		return 0
	}
	return base + int64(workerID)*7919 + int64(i)
}

type batchStats struct {
	Runs      int
	Completed int
	Stalled   int
	SumTicks  int
	SumSteps  int
	Rescued   int
	Remaining int
}

func (s *batchStats) add(r rescue.RunResult) {
	s.Runs++
	if r.AllCompleted {
		s.Completed++
	}
	if r.Stalled {
		s.Stalled++
	}
	s.SumTicks += r.Ticks
	s.SumSteps += r.TotalSteps
	s.Rescued += r.Rescued
	s.Remaining += r.Remaining
}

func (s *batchStats) summary() map[string]any {
	avg := func(v int) float64 {
		if s.Runs == 0 {
			return 0
		}
		return float64(v) / float64(s.Runs)
	}
	return map[string]any{
		"runs":            s.Runs,
		"completion_rate": avg(s.Completed),
		"stall_rate":      avg(s.Stalled),
		"avg_ticks":       avg(s.SumTicks),
		"avg_steps":       avg(s.SumSteps),
		"avg_rescued":     avg(s.Rescued),
		"avg_remaining":   avg(s.Remaining),
	}
}
