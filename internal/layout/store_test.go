package layout

import (
	"errors"
	"testing"

	"github.com/iliyamo/expo-stall-booking/internal/geometry"
	"github.com/iliyamo/expo-stall-booking/internal/model"
)

func testLayout(version uint64) model.Layout {
	return model.Layout{
		ExhibitionID: 1,
		Version:      version,
		IsActive:     true,
		Spaces: []model.Space{
			{ID: "space-1", Width: 200, Height: 120, Zoom: 1},
		},
		Halls: []model.Hall{
			{ID: "hall-a", SpaceID: "space-1", Name: "Hall A", X: 10, Y: 10, Width: 80, Height: 60},
			{ID: "hall-b", SpaceID: "space-1", Name: "Hall B", X: 110, Y: 10, Width: 80, Height: 60},
		},
		StallTypes: []model.StallType{
			{ID: "type-premium", Name: "Premium", Color: "#d4af37", DefaultRatePerSqm: 150, IsActive: true},
		},
		Stalls: []model.Stall{
			{
				ID: "stall-1", HallID: "hall-a", Number: "A-1", StallTypeID: "type-premium",
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 20, Height: 15},
				RatePerSqm: 100, Status: model.StallAvailable,
			},
			{
				ID: "stall-2", HallID: "hall-a", Number: "A-2",
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 10, Height: 10},
				RatePerSqm: 80, Status: model.StallBooked,
			},
			{
				ID: "stall-3", HallID: "hall-b", Number: "B-1",
				Dimensions: geometry.Dimensions{
					ShapeType:  geometry.ShapeLShape,
					Rect1Width: 10, Rect1Height: 5, Rect2Width: 4, Rect2Height: 3,
					Orientation: geometry.NotchBottomRight,
				},
				RatePerSqm: 50, Status: model.StallAvailable,
			},
		},
	}
}

func TestLoadAndLookups(t *testing.T) {
	s := NewStore()
	if _, err := s.Stall("stall-1"); !errors.Is(err, ErrNoLayout) {
		t.Fatalf("lookup before load = %v, want ErrNoLayout", err)
	}
	if err := s.Load(testLayout(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st, err := s.Stall("stall-1")
	if err != nil {
		t.Fatalf("Stall: %v", err)
	}
	if st.Number != "A-1" || st.HallID != "hall-a" {
		t.Fatalf("unexpected stall: %+v", st)
	}
	h, err := s.Hall("hall-b")
	if err != nil || h.Name != "Hall B" {
		t.Fatalf("Hall = %+v, %v", h, err)
	}
	typ, err := s.StallType("type-premium")
	if err != nil || typ.DefaultRatePerSqm != 150 {
		t.Fatalf("StallType = %+v, %v", typ, err)
	}
	if _, err := s.Stall("missing"); !errors.Is(err, ErrStallNotFound) {
		t.Fatalf("missing stall = %v, want ErrStallNotFound", err)
	}
	if _, err := s.Hall("missing"); !errors.Is(err, ErrHallNotFound) {
		t.Fatalf("missing hall = %v, want ErrHallNotFound", err)
	}
	if _, err := s.StallType("missing"); !errors.Is(err, ErrStallTypeNotFound) {
		t.Fatalf("missing type = %v, want ErrStallTypeNotFound", err)
	}
}

func TestLoadRejectsStaleVersion(t *testing.T) {
	s := NewStore()
	if err := s.Load(testLayout(3)); err != nil {
		t.Fatalf("Load v3: %v", err)
	}
	if err := s.Load(testLayout(3)); !errors.Is(err, ErrStaleVersion) {
		t.Fatalf("reload v3 = %v, want ErrStaleVersion", err)
	}
	if err := s.Load(testLayout(2)); !errors.Is(err, ErrStaleVersion) {
		t.Fatalf("load v2 = %v, want ErrStaleVersion", err)
	}
	if got := s.Version(); got != 3 {
		t.Fatalf("Version = %d, want 3", got)
	}
	if err := s.Load(testLayout(4)); err != nil {
		t.Fatalf("Load v4: %v", err)
	}
}

func TestLoadRejectsBadGeometryKeepingOldSnapshot(t *testing.T) {
	s := NewStore()
	if err := s.Load(testLayout(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	bad := testLayout(2)
	bad.Stalls[0].Dimensions.Width = 0
	if err := s.Load(bad); !errors.Is(err, geometry.ErrInvalidGeometry) {
		t.Fatalf("Load bad = %v, want ErrInvalidGeometry", err)
	}
	if got := s.Version(); got != 1 {
		t.Fatalf("Version after failed load = %d, want 1", got)
	}
}

func TestLoadRejectsOrphanStall(t *testing.T) {
	s := NewStore()
	l := testLayout(1)
	l.Stalls[0].HallID = "hall-missing"
	if err := s.Load(l); !errors.Is(err, ErrHallNotFound) {
		t.Fatalf("Load orphan = %v, want ErrHallNotFound", err)
	}
}

func TestStallsByHall(t *testing.T) {
	s := NewStore()
	if err := s.Load(testLayout(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	stalls, err := s.StallsByHall("hall-a")
	if err != nil {
		t.Fatalf("StallsByHall: %v", err)
	}
	if len(stalls) != 2 || stalls[0].ID != "stall-1" || stalls[1].ID != "stall-2" {
		t.Fatalf("unexpected stalls: %+v", stalls)
	}
	if _, err := s.StallsByHall("nope"); !errors.Is(err, ErrHallNotFound) {
		t.Fatalf("unknown hall = %v, want ErrHallNotFound", err)
	}
}

func TestHallSummaryDerivedCounts(t *testing.T) {
	s := NewStore()
	if err := s.Load(testLayout(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	sum, err := s.HallSummary("hall-a")
	if err != nil {
		t.Fatalf("HallSummary: %v", err)
	}
	if sum.StallCount != 2 || sum.AvailableStalls != 1 {
		t.Fatalf("hall-a counts = %d/%d, want 2/1", sum.StallCount, sum.AvailableStalls)
	}

	// Flip the booked stall to available in a newer version; the counts
	// must follow the authoritative statuses.
	next := testLayout(2)
	next.Stalls[1].Status = model.StallAvailable
	if err := s.Load(next); err != nil {
		t.Fatalf("Load v2: %v", err)
	}
	sum, err = s.HallSummary("hall-a")
	if err != nil {
		t.Fatalf("HallSummary v2: %v", err)
	}
	if sum.AvailableStalls != 2 {
		t.Fatalf("hall-a available = %d, want 2", sum.AvailableStalls)
	}
}

func TestContentBounds(t *testing.T) {
	s := NewStore()
	if err := s.Load(testLayout(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := s.ContentBounds()
	if err != nil {
		t.Fatalf("ContentBounds: %v", err)
	}
	if b.Width != 200 || b.Height != 120 {
		t.Fatalf("ContentBounds = %+v, want 200x120", b)
	}

	// Without spaces the bounds fall back to hall extents.
	noSpaces := testLayout(2)
	noSpaces.Spaces = nil
	if err := s.Load(noSpaces); err != nil {
		t.Fatalf("Load v2: %v", err)
	}
	b, err = s.ContentBounds()
	if err != nil {
		t.Fatalf("ContentBounds v2: %v", err)
	}
	if b.Width != 190 || b.Height != 70 {
		t.Fatalf("ContentBounds fallback = %+v, want 190x70", b)
	}
}
