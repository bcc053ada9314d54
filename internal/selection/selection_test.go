package selection

import (
	"errors"
	"testing"

	"github.com/iliyamo/expo-stall-booking/internal/geometry"
	"github.com/iliyamo/expo-stall-booking/internal/layout"
	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/pricing"
	"github.com/iliyamo/expo-stall-booking/internal/viewport"
)

func testStore(t *testing.T) *layout.Store {
	t.Helper()
	s := layout.NewStore()
	err := s.Load(model.Layout{
		ExhibitionID: 1,
		Version:      1,
		Spaces:       []model.Space{{ID: "space-1", Width: 100, Height: 100, Zoom: 1}},
		Halls: []model.Hall{
			{ID: "hall-a", SpaceID: "space-1", Name: "Hall A", X: 10, Y: 20, Width: 80, Height: 60},
		},
		StallTypes: []model.StallType{
			{ID: "type-1", Name: "Standard", DefaultRatePerSqm: 40, IsActive: true},
		},
		Stalls: []model.Stall{
			{
				ID: "stall-open", HallID: "hall-a", Number: "A-1", X: 5, Y: 5,
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 20, Height: 15},
				RatePerSqm: 100, Status: model.StallAvailable,
			},
			{
				ID: "stall-taken", HallID: "hall-a", Number: "A-2", X: 30, Y: 5,
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 10, Height: 10},
				RatePerSqm: 100, Status: model.StallBooked,
			},
			{
				ID: "stall-blocked", HallID: "hall-a", Number: "A-3", X: 45, Y: 5,
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 10, Height: 10},
				RatePerSqm: 100, Status: model.StallBlocked,
			},
			{
				ID: "stall-typed", HallID: "hall-a", Number: "A-4", X: 60, Y: 5, StallTypeID: "type-1",
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 5, Height: 5},
				Status:     model.StallAvailable,
			},
		},
	})
	if err != nil {
		t.Fatalf("load layout: %v", err)
	}
	return s
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	engine := pricing.New(pricing.Config{
		Taxes: []model.TaxConfig{{Name: "GST", Rate: 18, IsActive: true}},
	})
	return New(testStore(t), engine, false)
}

func TestSelectRecomputesSynchronously(t *testing.T) {
	m := newManager(t)
	if got := m.Calculations().TotalAmount; got != 0 {
		t.Fatalf("initial total = %g, want 0", got)
	}
	if err := m.Select("stall-open"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	calc := m.Calculations()
	if calc.TotalBaseAmount != 30000 || calc.TotalAmount != 35400 {
		t.Fatalf("calc after select = %+v", calc)
	}
	if err := m.Deselect("stall-open"); err != nil {
		t.Fatalf("Deselect: %v", err)
	}
	if got := m.Calculations().TotalAmount; got != 0 {
		t.Fatalf("total after deselect = %g, want 0", got)
	}
}

func TestSelectIdempotent(t *testing.T) {
	m := newManager(t)
	if err := m.Select("stall-open"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := m.Select("stall-open"); err != nil {
		t.Fatalf("second Select: %v", err)
	}
	if ids := m.SelectedIDs(); len(ids) != 1 {
		t.Fatalf("SelectedIDs = %v, want one entry", ids)
	}
	if len(m.Calculations().Stalls) != 1 {
		t.Fatalf("calc has %d lines, want 1", len(m.Calculations().Stalls))
	}
}

func TestSelectUnavailableStall(t *testing.T) {
	m := newManager(t)
	for _, id := range []string{"stall-taken", "stall-blocked"} {
		if err := m.Select(id); !errors.Is(err, ErrStallUnavailable) {
			t.Fatalf("Select(%s) = %v, want ErrStallUnavailable", id, err)
		}
	}
	if ids := m.SelectedIDs(); len(ids) != 0 {
		t.Fatalf("selection changed on failure: %v", ids)
	}
}

func TestSelectUnknownStall(t *testing.T) {
	m := newManager(t)
	if err := m.Select("nope"); !errors.Is(err, layout.ErrStallNotFound) {
		t.Fatalf("Select unknown = %v, want ErrStallNotFound", err)
	}
}

func TestClearIdempotent(t *testing.T) {
	m := newManager(t)
	_ = m.Select("stall-open")
	_ = m.Select("stall-typed")
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if len(m.SelectedIDs()) != 0 || m.Calculations().TotalAmount != 0 {
		t.Fatalf("selection not empty after Clear")
	}
	// Deselect of a non-selected stall is also a no-op, not an error.
	if err := m.Deselect("stall-open"); err != nil {
		t.Fatalf("Deselect after Clear: %v", err)
	}
}

func TestHoverSingleTarget(t *testing.T) {
	m := newManager(t)
	m.SetHovered("stall-open")
	if !m.IsHovered("stall-open") {
		t.Fatalf("stall-open not hovered")
	}
	m.SetHovered("stall-taken")
	if m.IsHovered("stall-open") || !m.IsHovered("stall-taken") {
		t.Fatalf("hover should move to the new target")
	}
	m.SetHovered("")
	if m.IsHovered("stall-taken") {
		t.Fatalf("hover should be cleared")
	}
	// Hover is orthogonal to selection.
	_ = m.Select("stall-open")
	m.SetHovered("stall-open")
	if !m.IsSelected("stall-open") || !m.IsHovered("stall-open") {
		t.Fatalf("selection and hover must hold simultaneously")
	}
}

func TestStallTypeDefaultRateUsed(t *testing.T) {
	m := newManager(t)
	if err := m.Select("stall-typed"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	calc := m.Calculations()
	// 5x5 at the type's default 40/sqm.
	if calc.TotalBaseAmount != 1000 {
		t.Fatalf("base = %g, want 1000", calc.TotalBaseAmount)
	}
}

func TestRenderStateFor(t *testing.T) {
	m := newManager(t)
	_ = m.Select("stall-open")
	vp := viewport.New(800, 600)
	vp.SetZoom(2)

	rs, err := m.RenderStateFor("stall-open", vp)
	if err != nil {
		t.Fatalf("RenderStateFor: %v", err)
	}
	if !rs.Selected || rs.Hovered || !rs.Available {
		t.Fatalf("flags = %+v", rs)
	}
	// Hall origin (10,20) + stall offset (5,5) projected at zoom 2.
	want := vp.LogicalToScreen(viewport.Point{X: 15, Y: 25})
	if rs.DisplayPosition != want {
		t.Fatalf("DisplayPosition = %+v, want %+v", rs.DisplayPosition, want)
	}
	if rs.DisplaySize.Width != 40 || rs.DisplaySize.Height != 30 {
		t.Fatalf("DisplaySize = %+v, want 40x30", rs.DisplaySize)
	}

	if _, err := m.RenderStateFor("nope", vp); !errors.Is(err, layout.ErrStallNotFound) {
		t.Fatalf("unknown stall = %v, want ErrStallNotFound", err)
	}
}
