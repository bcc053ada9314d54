package booking

import (
	"errors"
	"testing"

	"github.com/iliyamo/expo-stall-booking/internal/geometry"
	"github.com/iliyamo/expo-stall-booking/internal/layout"
	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/pricing"
	"github.com/iliyamo/expo-stall-booking/internal/selection"
)

func fixture(t *testing.T) (*layout.Store, *selection.Manager) {
	t.Helper()
	store := layout.NewStore()
	l := model.Layout{
		ExhibitionID: 7,
		Version:      1,
		Halls:        []model.Hall{{ID: "hall-a", Name: "Hall A", Width: 100, Height: 100}},
		Stalls: []model.Stall{
			{
				ID: "s1", HallID: "hall-a", Number: "A-1",
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 20, Height: 15},
				RatePerSqm: 100, Status: model.StallAvailable,
			},
			{
				ID: "s2", HallID: "hall-a", Number: "A-2",
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 10, Height: 10},
				RatePerSqm: 50, Status: model.StallAvailable,
			},
		},
	}
	if err := store.Load(l); err != nil {
		t.Fatalf("load: %v", err)
	}
	engine := pricing.New(pricing.Config{
		Taxes: []model.TaxConfig{{Name: "GST", Rate: 18, IsActive: true}},
	})
	return store, selection.New(store, engine, false)
}

func TestAssemblePayload(t *testing.T) {
	store, sel := fixture(t)
	if err := sel.Select("s1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := sel.Select("s2"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	customer := model.CustomerDetails{Name: "Acme Corp", Email: "booth@acme.example", Phone: "555-0101", CompanyName: "Acme"}
	req, err := NewAssembler(store).Assemble(7, sel, customer, "exhibitor")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if req.ExhibitionID != 7 || req.LayoutVersion != 1 || req.BookingSource != "exhibitor" {
		t.Fatalf("header fields = %+v", req)
	}
	if len(req.StallIDs) != 2 || req.StallIDs[0] != "s1" || req.StallIDs[1] != "s2" {
		t.Fatalf("StallIDs = %v", req.StallIDs)
	}
	if req.Customer != customer {
		t.Fatalf("Customer = %+v", req.Customer)
	}
	// 30000 + 5000 = 35000 base, 18% tax.
	if req.Amount != 41300 || req.Calculations.TotalAmount != 41300 {
		t.Fatalf("Amount = %g, want 41300", req.Amount)
	}
}

func TestAssembleEmptySelection(t *testing.T) {
	store, sel := fixture(t)
	_, err := NewAssembler(store).Assemble(7, sel, model.CustomerDetails{}, "public")
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("Assemble = %v, want ErrEmptySelection", err)
	}
}

func TestAssembleCatchesStaleAvailability(t *testing.T) {
	store, sel := fixture(t)
	if err := sel.Select("s1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := sel.Select("s2"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	// Another session books s2: a newer layout version lands with the
	// stall flipped to booked. The selection still references it.
	next := model.Layout{
		ExhibitionID: 7,
		Version:      2,
		Halls:        []model.Hall{{ID: "hall-a", Name: "Hall A", Width: 100, Height: 100}},
		Stalls: []model.Stall{
			{
				ID: "s1", HallID: "hall-a", Number: "A-1",
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 20, Height: 15},
				RatePerSqm: 100, Status: model.StallAvailable,
			},
			{
				ID: "s2", HallID: "hall-a", Number: "A-2",
				Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle, Width: 10, Height: 10},
				RatePerSqm: 50, Status: model.StallBooked,
			},
		},
	}
	if err := store.Load(next); err != nil {
		t.Fatalf("load v2: %v", err)
	}

	_, err := NewAssembler(store).Assemble(7, sel, model.CustomerDetails{}, "exhibitor")
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("Assemble = %v, want UnavailableError", err)
	}
	if len(unavail.StallIDs) != 1 || unavail.StallIDs[0] != "s2" {
		t.Fatalf("unavailable = %v, want [s2]", unavail.StallIDs)
	}
	if !errors.Is(err, selection.ErrStallUnavailable) {
		t.Fatalf("error does not unwrap to ErrStallUnavailable")
	}

	// Deselecting just the stale stall lets the rest proceed.
	if err := sel.Deselect("s2"); err != nil {
		t.Fatalf("Deselect: %v", err)
	}
	req, err := NewAssembler(store).Assemble(7, sel, model.CustomerDetails{}, "exhibitor")
	if err != nil {
		t.Fatalf("Assemble after deselect: %v", err)
	}
	if len(req.StallIDs) != 1 || req.StallIDs[0] != "s1" {
		t.Fatalf("StallIDs = %v, want [s1]", req.StallIDs)
	}
}
