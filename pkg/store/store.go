// Package store holds the route-selection state shared by the planner,
// the terminal UI and the map export: the last fetched route collection,
// the highlighted route, a loading flag and an error slot.
package store

import (
	"sync"

	"github.com/kass/pitstop/pkg/models"
)

// NoSelection is the highlight index when no route is selected
const NoSelection = -1

// Token identifies one route request. Only the outcome of the latest
// token is applied; older ones are discarded.
type Token uint64

// Snapshot is an immutable copy of the state
type Snapshot struct {
	Routes     []models.RouteResult
	Selected   int
	Loading    bool
	Err        error
	Generation Token
}

// Current returns the highlighted route, if any
func (s Snapshot) Current() (models.RouteResult, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Routes) {
		return models.RouteResult{}, false
	}
	return s.Routes[s.Selected], true
}

// State is the set of operations the rest of the client uses to read and
// mutate route state. Nothing else may alias the collection.
type State interface {
	Routes() []models.RouteResult
	Current() (models.RouteResult, int, bool)
	Loading() bool
	Err() error
	Snapshot() Snapshot

	SetRoutes(routes []models.RouteResult)
	SetCurrentRoute(index int) bool
	Select(index int) bool
	ClearRoutes()
	SetLoading(loading bool)
	SetError(err error)

	Begin() Token
	Finish(token Token, routes []models.RouteResult, err error) bool
	Subscribe(fn func(Snapshot)) (cancel func())
}

// RouteStore is the State implementation. All methods are safe for
// concurrent use; listeners run after the lock is released.
type RouteStore struct {
	mu         sync.RWMutex
	routes     []models.RouteResult
	selected   int
	loading    bool
	err        error
	generation Token

	listenerMu sync.Mutex
	listeners  map[int]func(Snapshot)
	nextID     int
}

var _ State = (*RouteStore)(nil)

// New creates an empty store with nothing selected
func New() *RouteStore {
	return &RouteStore{
		selected:  NoSelection,
		listeners: make(map[int]func(Snapshot)),
	}
}

// Routes returns a copy of the current route collection
func (s *RouteStore) Routes() []models.RouteResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRoutes(s.routes)
}

// Current returns the highlighted route and its index
func (s *RouteStore) Current() (models.RouteResult, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == NoSelection {
		return models.RouteResult{}, NoSelection, false
	}
	return s.routes[s.selected], s.selected, true
}

// Loading reports whether a route request is in flight
func (s *RouteStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last route-planning error
func (s *RouteStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns a consistent copy of the whole state
func (s *RouteStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SetRoutes replaces the collection and clears the highlight
func (s *RouteStore) SetRoutes(routes []models.RouteResult) {
	s.update(func() bool {
		s.routes = cloneRoutes(routes)
		s.selected = NoSelection
		return true
	})
}

// SetCurrentRoute highlights the route at index, or clears the highlight
// when index is NoSelection. It returns false for an out-of-range index.
func (s *RouteStore) SetCurrentRoute(index int) bool {
	return s.update(func() bool {
		if index != NoSelection && (index < 0 || index >= len(s.routes)) {
			return false
		}
		s.selected = index
		return true
	})
}

// Select toggles the highlight: selecting the highlighted route clears it,
// selecting any other route highlights that one.
func (s *RouteStore) Select(index int) bool {
	return s.update(func() bool {
		if index < 0 || index >= len(s.routes) {
			return false
		}
		if s.selected == index {
			s.selected = NoSelection
		} else {
			s.selected = index
		}
		return true
	})
}

// ClearRoutes drops the collection and the highlight
func (s *RouteStore) ClearRoutes() {
	s.update(func() bool {
		s.routes = nil
		s.selected = NoSelection
		return true
	})
}

// SetLoading sets the loading flag
func (s *RouteStore) SetLoading(loading bool) {
	s.update(func() bool {
		s.loading = loading
		return true
	})
}

// SetError sets or clears the error slot
func (s *RouteStore) SetError(err error) {
	s.update(func() bool {
		s.err = err
		return true
	})
}

// Begin starts a new route request. It clears the previous collection and
// highlight, clears the error, raises the loading flag and returns the token
// the request must present to Finish.
func (s *RouteStore) Begin() Token {
	var token Token
	s.update(func() bool {
		s.generation++
		token = s.generation
		s.routes = nil
		s.selected = NoSelection
		s.loading = true
		s.err = nil
		return true
	})
	return token
}

// Finish applies the outcome of the request identified by token. A stale
// token (superseded by a later Begin) changes nothing and returns false.
// On error the collection stays empty and the error slot is set.
func (s *RouteStore) Finish(token Token, routes []models.RouteResult, err error) bool {
	return s.update(func() bool {
		if token != s.generation {
			return false
		}
		s.loading = false
		if err != nil {
			s.err = err
			s.routes = nil
		} else {
			s.err = nil
			s.routes = cloneRoutes(routes)
		}
		s.selected = NoSelection
		return true
	})
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned function removes the listener.
func (s *RouteStore) Subscribe(fn func(Snapshot)) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

// update runs mutate under the write lock and notifies listeners when it
// reports a change.
func (s *RouteStore) update(mutate func() bool) bool {
	s.mu.Lock()
	changed := mutate()
	var snap Snapshot
	if changed {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if changed {
		s.notify(snap)
	}
	return changed
}

func (s *RouteStore) notify(snap Snapshot) {
	s.listenerMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *RouteStore) snapshotLocked() Snapshot {
	return Snapshot{
		Routes:     cloneRoutes(s.routes),
		Selected:   s.selected,
		Loading:    s.loading,
		Err:        s.err,
		Generation: s.generation,
	}
}

// cloneRoutes copies the slice so callers never alias the store's
// collection. Routes are immutable once received, so a shallow copy of
// each element is enough.
func cloneRoutes(routes []models.RouteResult) []models.RouteResult {
	if routes == nil {
		return nil
	}
	out := make([]models.RouteResult, len(routes))
	copy(out, routes)
	return out
}
