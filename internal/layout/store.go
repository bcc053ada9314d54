// Package layout holds the immutable venue layout for one exhibition
// snapshot. A Store is loaded once per layout version and is read-only
// afterwards; the only mutation is replacing the whole snapshot with a
// higher version via Load. All consumers (selection, pricing, booking
// assembly, rendering) share the same snapshot.
package layout

import (
	"errors"
	"fmt"
	"sync"

	"github.com/iliyamo/expo-stall-booking/internal/geometry"
	"github.com/iliyamo/expo-stall-booking/internal/model"
)

// Sentinel errors returned when an id is dereferenced against entities
// absent from the current snapshot, or when a snapshot is rejected.
var (
	ErrStallNotFound     = errors.New("stall not found")
	ErrHallNotFound      = errors.New("hall not found")
	ErrStallTypeNotFound = errors.New("stall type not found")
	ErrNoLayout          = errors.New("no layout loaded")
	ErrStaleVersion      = errors.New("stale layout version")
)

// snapshot is one fully-indexed layout version. It is never mutated
// after construction, so readers can use it without locking once they
// hold the pointer.
type snapshot struct {
	layout     model.Layout
	stalls     map[string]*model.Stall
	halls      map[string]*model.Hall
	stallTypes map[string]*model.StallType
	byHall     map[string][]*model.Stall
}

// Store provides read access to the current layout snapshot. Load swaps
// the snapshot atomically; no partial layout is ever visible.
type Store struct {
	mu  sync.RWMutex
	cur *snapshot
}

// NewStore returns an empty Store. Every lookup fails with ErrNoLayout
// until the first Load succeeds.
func NewStore() *Store { return &Store{} }

// Load validates and indexes a layout snapshot, then replaces the current
// one. It fails with geometry.ErrInvalidGeometry when any stall carries
// malformed dimensions and with ErrStaleVersion when the snapshot's
// version does not exceed the currently loaded one. On failure the
// previous snapshot stays in place untouched.
func (s *Store) Load(l model.Layout) error {
	next := &snapshot{
		layout:     l,
		stalls:     make(map[string]*model.Stall, len(l.Stalls)),
		halls:      make(map[string]*model.Hall, len(l.Halls)),
		stallTypes: make(map[string]*model.StallType, len(l.StallTypes)),
		byHall:     make(map[string][]*model.Stall, len(l.Halls)),
	}
	for i := range l.Halls {
		h := &l.Halls[i]
		next.halls[h.ID] = h
	}
	for i := range l.StallTypes {
		st := &l.StallTypes[i]
		next.stallTypes[st.ID] = st
	}
	for i := range l.Stalls {
		st := &l.Stalls[i]
		if err := geometry.Validate(st.Dimensions); err != nil {
			return fmt.Errorf("stall %s: %w", st.ID, err)
		}
		if _, ok := next.halls[st.HallID]; !ok {
			return fmt.Errorf("stall %s references hall %s: %w", st.ID, st.HallID, ErrHallNotFound)
		}
		next.stalls[st.ID] = st
		next.byHall[st.HallID] = append(next.byHall[st.HallID], st)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil && l.Version <= s.cur.layout.Version {
		return fmt.Errorf("%w: have %d, got %d", ErrStaleVersion, s.cur.layout.Version, l.Version)
	}
	s.cur = next
	return nil
}

func (s *Store) current() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil, ErrNoLayout
	}
	return s.cur, nil
}

// Version returns the version of the loaded snapshot, or 0 when none is
// loaded.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return 0
	}
	return s.cur.layout.Version
}

// Layout returns a copy of the loaded layout document.
func (s *Store) Layout() (model.Layout, error) {
	snap, err := s.current()
	if err != nil {
		return model.Layout{}, err
	}
	return snap.layout, nil
}

// Stall returns the stall with the given id.
func (s *Store) Stall(id string) (model.Stall, error) {
	snap, err := s.current()
	if err != nil {
		return model.Stall{}, err
	}
	st, ok := snap.stalls[id]
	if !ok {
		return model.Stall{}, fmt.Errorf("%s: %w", id, ErrStallNotFound)
	}
	return *st, nil
}

// Hall returns the hall with the given id.
func (s *Store) Hall(id string) (model.Hall, error) {
	snap, err := s.current()
	if err != nil {
		return model.Hall{}, err
	}
	h, ok := snap.halls[id]
	if !ok {
		return model.Hall{}, fmt.Errorf("%s: %w", id, ErrHallNotFound)
	}
	return *h, nil
}

// StallType returns the stall type with the given id.
func (s *Store) StallType(id string) (model.StallType, error) {
	snap, err := s.current()
	if err != nil {
		return model.StallType{}, err
	}
	st, ok := snap.stallTypes[id]
	if !ok {
		return model.StallType{}, fmt.Errorf("%s: %w", id, ErrStallTypeNotFound)
	}
	return *st, nil
}

// StallsByHall returns the stalls of a hall in document order.
func (s *Store) StallsByHall(hallID string) ([]model.Stall, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	if _, ok := snap.halls[hallID]; !ok {
		return nil, fmt.Errorf("%s: %w", hallID, ErrHallNotFound)
	}
	src := snap.byHall[hallID]
	out := make([]model.Stall, len(src))
	for i, st := range src {
		out[i] = *st
	}
	return out, nil
}

// HallSummary carries a hall together with its derived counts. The
// counts are recomputed from stall statuses on every call; they are
// never stored, so they cannot drift.
type HallSummary struct {
	Hall            model.Hall `json:"hall"`
	StallCount      int        `json:"stallCount"`
	AvailableStalls int        `json:"availableStalls"`
}

// HallSummary returns the hall with its stall counts derived from the
// current snapshot.
func (s *Store) HallSummary(hallID string) (HallSummary, error) {
	snap, err := s.current()
	if err != nil {
		return HallSummary{}, err
	}
	h, ok := snap.halls[hallID]
	if !ok {
		return HallSummary{}, fmt.Errorf("%s: %w", hallID, ErrHallNotFound)
	}
	sum := HallSummary{Hall: *h}
	for _, st := range snap.byHall[hallID] {
		sum.StallCount++
		if st.Status == model.StallAvailable {
			sum.AvailableStalls++
		}
	}
	return sum, nil
}

// HallSummaries returns summaries for every hall in document order.
func (s *Store) HallSummaries() ([]HallSummary, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	out := make([]HallSummary, 0, len(snap.layout.Halls))
	for i := range snap.layout.Halls {
		sum, err := s.HallSummary(snap.layout.Halls[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// ContentBounds returns the bounding box of the layout's spaces, used by
// the viewport's fit-to-screen operation. With no spaces it falls back
// to the union of hall extents.
func (s *Store) ContentBounds() (geometry.Size, error) {
	snap, err := s.current()
	if err != nil {
		return geometry.Size{}, err
	}
	var b geometry.Size
	for _, sp := range snap.layout.Spaces {
		if sp.Width > b.Width {
			b.Width = sp.Width
		}
		if sp.Height > b.Height {
			b.Height = sp.Height
		}
	}
	if b.Width > 0 && b.Height > 0 {
		return b, nil
	}
	for _, h := range snap.layout.Halls {
		if r := h.X + h.Width; r > b.Width {
			b.Width = r
		}
		if btm := h.Y + h.Height; btm > b.Height {
			b.Height = btm
		}
	}
	return b, nil
}
