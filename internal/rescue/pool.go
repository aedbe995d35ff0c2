package rescue

import (
	"slices"

	"rescue_ai/internal/grid"
)

// SurvivorPool is the ordered set of survivors still waiting for pickup.
// All agents in a tick share one pool; removals are visible immediately.
type SurvivorPool struct {
	survivors []Survivor
}

func NewSurvivorPool(cells []grid.Cell) *SurvivorPool {
	p := &SurvivorPool{survivors: make([]Survivor, len(cells))}
	for i, c := range cells {
		p.survivors[i] = Survivor{Position: c}
	}
	return p
}

func (p *SurvivorPool) Len() int              { return len(p.survivors) }
func (p *SurvivorPool) Empty() bool           { return len(p.survivors) == 0 }
func (p *SurvivorPool) At(i int) grid.Cell    { return p.survivors[i].Position }
func (p *SurvivorPool) Survivors() []Survivor { return slices.Clone(p.survivors) }

func (p *SurvivorPool) Positions() []grid.Cell {
	out := make([]grid.Cell, len(p.survivors))
	for i, s := range p.survivors {
		out[i] = s.Position
	}
	return out
}

// RemoveAt deletes the i-th survivor, keeping the order of the rest.
func (p *SurvivorPool) RemoveAt(i int) Survivor {
	s := p.survivors[i]
	p.survivors = slices.Delete(p.survivors, i, i+1)
	return s
}

// Remove deletes the first survivor at c.
func (p *SurvivorPool) Remove(c grid.Cell) bool {
	for i, s := range p.survivors {
		if s.Position == c {
			p.RemoveAt(i)
			return true
		}
	}
	return false
}
