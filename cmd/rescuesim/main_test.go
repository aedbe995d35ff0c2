package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rescue_ai/internal/config"
	"rescue_ai/internal/rescue"
)

func TestRunSeed(t *testing.T) {
	assert.EqualValues(t, 0, runSeed(0, 3, 4), "clock seeding stays clock seeding")
	assert.EqualValues(t, 100, runSeed(100, 0, 0))
	assert.EqualValues(t, 100+7919+2, runSeed(100, 1, 2))
}

func TestBatchStats_Summary(t *testing.T) {
	var st batchStats
	assert.Equal(t, 0.0, st.summary()["avg_ticks"])

	st.add(rescue.RunResult{AllCompleted: true, Ticks: 10, TotalSteps: 20, Rescued: 3})
	st.add(rescue.RunResult{Stalled: true, Ticks: 4, TotalSteps: 6, Rescued: 1, Remaining: 2})

	sum := st.summary()
	assert.Equal(t, 2, sum["runs"])
	assert.Equal(t, 0.5, sum["completion_rate"])
	assert.Equal(t, 0.5, sum["stall_rate"])
	assert.Equal(t, 7.0, sum["avg_ticks"])
	assert.Equal(t, 13.0, sum["avg_steps"])
	assert.Equal(t, 2.0, sum["avg_rescued"])
	assert.Equal(t, 1.0, sum["avg_remaining"])
}

func TestBatchStats_FromRealRuns(t *testing.T) {
	cfg := config.Default()
	var st batchStats
	for i := 0; i < 5; i++ {
		sim, err := rescue.BuildGrid(rescue.BuildParams{Agents: 2, Survivors: 4, Obstacles: 10, Seed: runSeed(9, 0, i)}, cfg)
		if !assert.NoError(t, err) {
			return
		}
		res := rescue.RunToEnd(sim, cfg.Sim.MaxTicks, false)
		assert.True(t, res.AllCompleted || res.Stalled, "run %d hit the tick cap", i)
		assert.Equal(t, 4, res.Rescued+res.Remaining+carried(sim), "run %d lost a survivor", i)
		st.add(res)
	}
	assert.Equal(t, 5, st.Runs)
}

func carried(sim *rescue.Simulation) int {
	n := 0
	for _, a := range sim.Agents {
		if a.Carrying {
			n++
		}
	}
	return n
}
