package rescue

import (
	"slices"

	"rescue_ai/internal/grid"
)

// View is the read model handed to transports. It shares nothing with the
// live simulation.
type View struct {
	ID           string   `json:"id"`
	Seed         int64    `json:"seed"`
	Tick         int      `json:"tick"`
	Grid         GridView `json:"grid"`
	AgentStates  []Agent  `json:"agent_states"`
	AllCompleted bool     `json:"all_completed"`
	TotalSteps   int      `json:"total_steps"`
}

type GridView struct {
	Agents      []grid.Cell `json:"agents"`
	Survivors   []Survivor  `json:"survivors"`
	Obstacles   []grid.Cell `json:"obstacles"`
	Hazards     []grid.Cell `json:"hazards"` // same cells as obstacles
	Exits       []grid.Cell `json:"exits"`
	Size        int         `json:"size"`
	Assignments Assignment  `json:"assignments"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

func (s *Simulation) View() View {
	v := View{
		ID:           s.ID,
		Seed:         s.Seed,
		Tick:         s.tick,
		AgentStates:  make([]Agent, len(s.Agents)),
		AllCompleted: s.AllCompleted(),
		TotalSteps:   s.TotalSteps(),
		Grid: GridView{
			Agents:      make([]grid.Cell, len(s.Agents)),
			Survivors:   nonNil(s.Pool.Survivors()),
			Obstacles:   nonNil(s.Grid.Obstacles),
			Hazards:     nonNil(s.Grid.Obstacles),
			Exits:       nonNil(s.Grid.Exits),
			Size:        s.Grid.Size,
			Assignments: make(Assignment, len(s.Assignment)),
		},
	}
	for i, a := range s.Agents {
		st := *a
		if a.CurrentTarget != nil {
			t := *a.CurrentTarget
			st.CurrentTarget = &t
		}
		v.AgentStates[i] = st
		v.Grid.Agents[i] = a.Position
	}
	for id, tasks := range s.Assignment {
		v.Grid.Assignments[id] = nonNil(tasks)
	}
	return v
}
