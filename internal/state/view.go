package state

import "shotchart/internal/domain"

// View is the render branch chosen from a Snapshot. It is either Empty or
// Populated; no other implementations exist.
type View interface {
	isView()
}

// Empty is shown while no player has been selected.
type Empty struct{}

// Populated carries the inputs of the three detail panes. Player and Filter
// come from the same Snapshot.
type Populated struct {
	Player domain.Player
	Filter domain.Filter
}

func (Empty) isView()     {}
func (Populated) isView() {}

// View picks the branch for s.
func (s Snapshot) View() View {
	if p, ok := s.Selection.Get(); ok {
		return Populated{Player: p, Filter: s.Filter}
	}
	return Empty{}
}
