package rescue

import (
	"encoding/json"
)

type RunResult struct {
	ID           string          `json:"id"`
	Seed         int64           `json:"seed"`
	Ticks        int             `json:"ticks"`
	AllCompleted bool            `json:"all_completed"`
	Stalled      bool            `json:"stalled"`
	Rescued      int             `json:"rescued"`
	Remaining    int             `json:"remaining"`
	TotalSteps   int             `json:"total_steps"`
	StepsByAgent map[AgentID]int `json:"steps_by_agent"`
	Events       []Event         `json:"events,omitempty"`
	Final        *View           `json:"final,omitempty"`
}

// RunToEnd ticks s until every agent is completed, a tick passes with no
// movement (nothing can change after that), or maxTicks is reached.
func RunToEnd(s *Simulation, maxTicks int, record bool) RunResult {
	res := RunResult{ID: s.ID, Seed: s.Seed, StepsByAgent: map[AgentID]int{}}
	for res.Ticks < maxTicks && !s.AllCompleted() {
		rep, _ := s.Tick(nil) // nil order cannot fail
		res.Ticks++
		res.Rescued += rep.Count(EventDropoff)
		if record {
			res.Events = append(res.Events, rep.Events...)
		}
		if len(rep.Moved) == 0 {
			res.Stalled = true
			break
		}
	}
	res.AllCompleted = s.AllCompleted()
	res.Remaining = s.Pool.Len()
	res.TotalSteps = s.TotalSteps()
	for _, a := range s.Agents {
		res.StepsByAgent[a.ID] = a.Steps
	}
	if record {
		v := s.View()
		res.Final = &v
	}
	return res
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
