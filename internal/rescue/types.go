package rescue

import (
	"fmt"

	"rescue_ai/internal/grid"
)

// AgentID is the stable identity of an agent, assigned in creation order.
type AgentID int

type Agent struct {
	ID            AgentID    `json:"id"`
	Position      grid.Cell  `json:"position"`
	Steps         int        `json:"steps"`
	Carrying      bool       `json:"carrying"`
	Completed     bool       `json:"completed"`
	CurrentTarget *grid.Cell `json:"current_target"`
}

// Phase names the decision branch the agent will take on its next tick.
func (a *Agent) Phase() string {
	switch {
	case a.Completed:
		return "completed"
	case a.Carrying:
		return "carrying"
	default:
		return "seeking"
	}
}

type Survivor struct {
	Position grid.Cell `json:"position"`
}

// Assignment is the advisory per-agent task order computed at generation.
// The tick policy never reads it.
type Assignment map[AgentID][]grid.Cell

const (
	EventMove      = "move"
	EventPickup    = "pickup"
	EventDropoff   = "dropoff"
	EventCompleted = "completed"
	EventIdle      = "idle"
)

type Event struct {
	Tick   int        `json:"tick"`
	Type   string     `json:"type"`
	Agent  AgentID    `json:"agent"`
	Cell   grid.Cell  `json:"cell"`
	Target *grid.Cell `json:"target,omitempty"`
}

func (e Event) String() string {
	return fmt.Sprintf("[T=%03d] A%-2d %-9s %v", e.Tick, e.Agent, e.Type, e.Cell)
}

// TickReport describes what one Tick did.
type TickReport struct {
	Tick   int       `json:"tick"`
	Moved  []AgentID `json:"moved"`
	Events []Event   `json:"events"`
}

func (r TickReport) Count(typ string) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}
