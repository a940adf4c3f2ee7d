package state

import (
	"sync"

	"shotchart/internal/domain"
)

// Snapshot is a consistent read-only copy of the session state.
type Snapshot struct {
	Selection domain.Optional[domain.Player] `json:"selection"`
	Filter    domain.Filter                  `json:"filter"`
}

// Callbacks are the only write paths handed to child components.
type Callbacks struct {
	// OnPlayerSelect replaces the selection. It is called once per user
	// selection with a fully resolved player.
	OnPlayerSelect func(domain.Player)
	// OnFilterChange replaces the whole filter record.
	OnFilterChange func(domain.Filter)
	// OnFilterEdit builds the next record from the current one and replaces
	// it in one step. A returned error leaves the filter untouched.
	OnFilterEdit func(func(prev domain.Filter) (domain.Filter, error)) error
}

// Reader exposes state for rendering only.
type Reader interface {
	Snapshot() Snapshot
}

// Root owns the selection and filter cells of one session.
type Root struct {
	mu        sync.RWMutex
	selection domain.Optional[domain.Player]
	filter    domain.Filter
	version   uint64
}

// New returns a Root with no selection and the default filter.
func New() *Root {
	return &Root{
		selection: domain.None[domain.Player](),
		filter:    domain.DefaultFilter(),
	}
}

// Select replaces the current selection with p. Any previous selection is
// discarded; selecting the same player again is not an error.
func (r *Root) Select(p domain.Player) {
	r.mu.Lock()
	r.selection = domain.Some(p)
	r.version++
	r.mu.Unlock()
}

// UpdateFilter replaces the filter with f. There is no merge: keys omitted
// by the caller are whatever f carries.
func (r *Root) UpdateFilter(f domain.Filter) {
	r.mu.Lock()
	r.filter = f
	r.version++
	r.mu.Unlock()
}

// EditFilter computes the next filter from the current one while holding the
// write lock, so edits from overlapping requests are applied in turn instead
// of overwriting each other. edit must not call back into r.
func (r *Root) EditFilter(edit func(prev domain.Filter) (domain.Filter, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := edit(r.filter)
	if err != nil {
		return err
	}
	r.filter = next
	r.version++
	return nil
}

// Snapshot returns both cells as read at one instant.
func (r *Root) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{Selection: r.selection, Filter: r.filter}
}

// Version counts applied transitions. It only grows.
func (r *Root) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Callbacks returns the transition functions bound to r.
func (r *Root) Callbacks() Callbacks {
	return Callbacks{
		OnPlayerSelect: r.Select,
		OnFilterChange: r.UpdateFilter,
		OnFilterEdit:   r.EditFilter,
	}
}

// View derives the render branch from the current state.
func (r *Root) View() View {
	return r.Snapshot().View()
}
