// Package selection tracks which stalls a browsing session has selected
// or hovered, enforcing availability against the live layout store. The
// manager is purely in-memory and scoped to one session; it never talks
// to a backend. Every successful selection mutation synchronously
// recomputes the booking calculations, so a read that follows a
// mutation can never observe a stale result.
package selection

import (
	"errors"
	"fmt"

	"github.com/iliyamo/expo-stall-booking/internal/geometry"
	"github.com/iliyamo/expo-stall-booking/internal/layout"
	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/pricing"
	"github.com/iliyamo/expo-stall-booking/internal/viewport"
)

// ErrStallUnavailable is returned when a selection is attempted on a
// stall whose live status is not available.
var ErrStallUnavailable = errors.New("stall unavailable")

// Manager is the per-session selection state machine. Construct one per
// browsing session with New; it is not safe for concurrent use, matching
// the single event-loop it serves.
type Manager struct {
	store  *layout.Store
	engine *pricing.Engine
	public bool

	selected map[string]struct{}
	order    []string
	hovered  string
	calc     model.BookingCalculations
}

// New returns a Manager bound to a layout store and pricing engine.
// Public selects the public discount list for recomputation.
func New(store *layout.Store, engine *pricing.Engine, public bool) *Manager {
	m := &Manager{
		store:    store,
		engine:   engine,
		public:   public,
		selected: make(map[string]struct{}),
	}
	// Seed the zero-value calculations so Calculations() is always valid.
	m.calc, _ = engine.Calculate(nil, public)
	return m
}

// Select adds a stall to the selection. Selecting an already-selected
// stall is a no-op. It fails with layout.ErrStallNotFound for unknown
// ids and ErrStallUnavailable when the stall's live status is not
// available; on failure the selection set is unchanged.
func (m *Manager) Select(stallID string) error {
	if _, ok := m.selected[stallID]; ok {
		return nil
	}
	st, err := m.store.Stall(stallID)
	if err != nil {
		return err
	}
	if st.Status != model.StallAvailable {
		return fmt.Errorf("stall %s is %s: %w", stallID, st.Status, ErrStallUnavailable)
	}
	m.selected[stallID] = struct{}{}
	m.order = append(m.order, stallID)
	return m.recompute()
}

// Deselect removes a stall from the selection. Removing a stall that is
// not selected is a no-op.
func (m *Manager) Deselect(stallID string) error {
	if _, ok := m.selected[stallID]; !ok {
		return nil
	}
	delete(m.selected, stallID)
	for i, id := range m.order {
		if id == stallID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return m.recompute()
}

// Clear empties the selection. Clearing an empty selection is a no-op.
func (m *Manager) Clear() error {
	if len(m.selected) == 0 {
		return nil
	}
	m.selected = make(map[string]struct{})
	m.order = nil
	return m.recompute()
}

// SetHovered marks a single stall as hovered, or clears the hover when
// given an empty id. Hover is orthogonal to selection.
func (m *Manager) SetHovered(stallID string) { m.hovered = stallID }

// IsSelected reports whether the stall is in the selection set.
func (m *Manager) IsSelected(stallID string) bool {
	_, ok := m.selected[stallID]
	return ok
}

// IsHovered reports whether the stall is the current hover target.
func (m *Manager) IsHovered(stallID string) bool {
	return stallID != "" && m.hovered == stallID
}

// IsAvailable reports the stall's live availability from the layout
// store. Unknown stalls report false.
func (m *Manager) IsAvailable(stallID string) bool {
	st, err := m.store.Stall(stallID)
	return err == nil && st.Status == model.StallAvailable
}

// SelectedIDs returns the selected stall ids in selection order.
func (m *Manager) SelectedIDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Calculations returns the breakdown matching the current selection.
// It is recomputed synchronously on every mutation, never deferred.
func (m *Manager) Calculations() model.BookingCalculations { return m.calc }

// recompute rebuilds the line items from the live store and runs the
// pricing engine. Called after every successful mutation.
func (m *Manager) recompute() error {
	items := make([]pricing.LineItem, 0, len(m.order))
	for _, id := range m.order {
		st, err := m.store.Stall(id)
		if err != nil {
			return err
		}
		item := pricing.LineItem{Stall: st}
		if st.StallTypeID != "" {
			if typ, err := m.store.StallType(st.StallTypeID); err == nil {
				item.StallType = &typ
			}
		}
		items = append(items, item)
	}
	calc, err := m.engine.Calculate(items, m.public)
	if err != nil {
		return err
	}
	m.calc = calc
	return nil
}

// RenderState is the per-stall state the drawing layer needs to paint
// one stall: selection flags plus screen-space position and size.
type RenderState struct {
	StallID         string         `json:"stallId"`
	Selected        bool           `json:"selected"`
	Hovered         bool           `json:"hovered"`
	Available       bool           `json:"available"`
	DisplayPosition viewport.Point `json:"displayPosition"`
	DisplaySize     geometry.Size  `json:"displaySize"`
}

// RenderStateFor resolves the render state of a stall under the given
// viewport. The stall position is hall-relative in the layout document,
// so it is offset by the hall origin before projection.
func (m *Manager) RenderStateFor(stallID string, vp *viewport.Viewport) (RenderState, error) {
	st, err := m.store.Stall(stallID)
	if err != nil {
		return RenderState{}, err
	}
	hall, err := m.store.Hall(st.HallID)
	if err != nil {
		return RenderState{}, err
	}
	bounds, err := geometry.BoundingSize(st.Dimensions)
	if err != nil {
		return RenderState{}, err
	}
	pos := vp.LogicalToScreen(viewport.Point{X: hall.X + st.X, Y: hall.Y + st.Y})
	return RenderState{
		StallID:         stallID,
		Selected:        m.IsSelected(stallID),
		Hovered:         m.IsHovered(stallID),
		Available:       st.Status == model.StallAvailable,
		DisplayPosition: pos,
		DisplaySize: geometry.Size{
			Width:  bounds.Width * vp.Zoom,
			Height: bounds.Height * vp.Zoom,
		},
	}, nil
}
