package rescue

import (
	"rescue_ai/internal/grid"
	"rescue_ai/internal/pathfind"
)

// Tick advances every agent by at most one cell, in the given order. A nil
// order means creation order. Agents run strictly one after another, so an
// agent later in the order sees the pool already reduced by earlier pickups:
// contention for a survivor is won by order, not by distance.
func (s *Simulation) Tick(order []AgentID) (TickReport, error) {
	agents, err := s.resolveOrder(order)
	if err != nil {
		return TickReport{}, err
	}
	s.tick++
	rep := TickReport{Tick: s.tick, Moved: []AgentID{}, Events: []Event{}}
	emit := func(ev Event) {
		ev.Tick = s.tick
		rep.Events = append(rep.Events, ev)
		if s.Emit != nil {
			s.Emit(ev)
		}
	}
	for _, a := range agents {
		if s.step(a, emit) {
			rep.Moved = append(rep.Moved, a.ID)
		}
	}
	return rep, nil
}

func (s *Simulation) resolveOrder(order []AgentID) ([]*Agent, error) {
	if order == nil {
		return s.Agents, nil
	}
	seen := make(map[AgentID]bool, len(order))
	out := make([]*Agent, 0, len(order))
	for _, id := range order {
		a, ok := s.Agent(id)
		if !ok {
			return nil, invalid("order", "unknown agent %d", id)
		}
		if seen[id] {
			return nil, invalid("order", "agent %d listed twice", id)
		}
		seen[id] = true
		out = append(out, a)
	}
	return out, nil
}

// step runs the decision policy for one agent and reports whether it moved.
func (s *Simulation) step(a *Agent, emit func(Event)) bool {
	switch {
	case a.Completed:
		return false
	case a.Carrying:
		return s.seekExit(a, emit)
	case s.Pool.Empty():
		return s.seekExit(a, emit)
	default:
		return s.seekSurvivor(a, emit)
	}
}

// seekExit moves toward the closest reachable exit (first in exit order on a
// tie). Arriving while carrying drops the survivor; the agent is done once
// nothing is left to collect.
func (s *Simulation) seekExit(a *Agent, emit func(Event)) bool {
	_, path := pathfind.Nearest(s.Grid, a.Position, s.Grid.Exits)
	if len(path) == 0 {
		emit(Event{Type: EventIdle, Agent: a.ID, Cell: a.Position})
		return false
	}
	s.advance(a, path[0], emit)
	if !s.Grid.IsExit(a.Position) {
		return true
	}
	if a.Carrying {
		a.Carrying = false
		a.CurrentTarget = nil
		emit(Event{Type: EventDropoff, Agent: a.ID, Cell: a.Position})
		if !s.Pool.Empty() {
			return true
		}
	}
	a.Completed = true
	emit(Event{Type: EventCompleted, Agent: a.ID, Cell: a.Position})
	return true
}

// seekSurvivor retargets every tick: the survivor with the shortest path
// wins, first in pool order on a tie.
func (s *Simulation) seekSurvivor(a *Agent, emit func(Event)) bool {
	idx, path := pathfind.Nearest(s.Grid, a.Position, s.Pool.Positions())
	if idx < 0 {
		emit(Event{Type: EventIdle, Agent: a.ID, Cell: a.Position})
		return false
	}
	target := s.Pool.At(idx)
	a.CurrentTarget = &target
	s.advance(a, path[0], emit)
	if a.Position != target {
		return true
	}
	s.Pool.RemoveAt(idx)
	a.Carrying = true
	a.CurrentTarget = nil
	emit(Event{Type: EventPickup, Agent: a.ID, Cell: a.Position})
	return true
}

func (s *Simulation) advance(a *Agent, next grid.Cell, emit func(Event)) {
	a.Position = next
	a.Steps++
	emit(Event{Type: EventMove, Agent: a.ID, Cell: next, Target: a.CurrentTarget})
}
