package pricing

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/iliyamo/expo-stall-booking/internal/geometry"
	"github.com/iliyamo/expo-stall-booking/internal/model"
)

func rectStall(id string, w, h, rate float64) model.Stall {
	return model.Stall{
		ID:     id,
		Number: id,
		Dimensions: geometry.Dimensions{
			ShapeType: geometry.ShapeRectangle, Width: w, Height: h,
		},
		RatePerSqm: rate,
		Status:     model.StallAvailable,
	}
}

func gst18() []model.TaxConfig {
	return []model.TaxConfig{{Name: "GST", Rate: 18, IsActive: true}}
}

func TestScenarioSingleRectangleNoDiscount(t *testing.T) {
	e := New(Config{Taxes: gst18()})
	calc, err := e.Calculate([]LineItem{{Stall: rectStall("stall-1", 20, 15, 100)}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(calc.Stalls) != 1 {
		t.Fatalf("want 1 stall line, got %d", len(calc.Stalls))
	}
	ln := calc.Stalls[0]
	if ln.Area != 300 || ln.BaseAmount != 30000 {
		t.Fatalf("line = %+v, want area 300 base 30000", ln)
	}
	if calc.TotalBaseAmount != 30000 || calc.TotalAmountAfterDiscount != 30000 {
		t.Fatalf("totals = %+v", calc)
	}
	if calc.TotalTaxAmount != 5400 || calc.TotalAmount != 35400 {
		t.Fatalf("tax/total = %g/%g, want 5400/35400", calc.TotalTaxAmount, calc.TotalAmount)
	}
	if len(calc.Taxes) != 1 || calc.Taxes[0].Name != "GST" || calc.Taxes[0].Amount != 5400 {
		t.Fatalf("taxes = %+v", calc.Taxes)
	}
}

func TestScenarioPercentageDiscount(t *testing.T) {
	e := New(Config{
		Taxes:     gst18(),
		Discounts: []model.DiscountConfig{{Name: "Early Bird", Type: model.DiscountPercentage, Value: 10, IsActive: true}},
	})
	calc, err := e.Calculate([]LineItem{{Stall: rectStall("stall-1", 20, 15, 100)}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	ln := calc.Stalls[0]
	if ln.AmountAfterDiscount != 27000 {
		t.Fatalf("amountAfterDiscount = %g, want 27000", ln.AmountAfterDiscount)
	}
	if ln.Discount == nil || ln.Discount.Name != "Early Bird" || ln.Discount.Amount != 3000 {
		t.Fatalf("line discount = %+v", ln.Discount)
	}
	if calc.TotalDiscountAmount != 3000 || calc.TotalTaxAmount != 4860 || calc.TotalAmount != 31860 {
		t.Fatalf("totals = discount %g tax %g total %g", calc.TotalDiscountAmount, calc.TotalTaxAmount, calc.TotalAmount)
	}
	if len(calc.AppliedDiscounts) != 1 || calc.AppliedDiscounts[0].Amount != 3000 {
		t.Fatalf("appliedDiscounts = %+v", calc.AppliedDiscounts)
	}
}

func TestScenarioLShapeArea(t *testing.T) {
	stall := model.Stall{
		ID: "stall-l", Number: "L-1",
		Dimensions: geometry.Dimensions{
			ShapeType:  geometry.ShapeLShape,
			Rect1Width: 10, Rect1Height: 5, Rect2Width: 4, Rect2Height: 3,
			Orientation: geometry.NotchTopLeft,
		},
		RatePerSqm: 50,
	}
	e := New(Config{})
	calc, err := e.Calculate([]LineItem{{Stall: stall}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if calc.Stalls[0].Area != 62 || calc.Stalls[0].BaseAmount != 3100 {
		t.Fatalf("line = %+v, want area 62 base 3100", calc.Stalls[0])
	}
}

func TestEmptySelectionYieldsZeroResult(t *testing.T) {
	e := New(Config{Taxes: gst18()})
	calc, err := e.Calculate(nil, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if calc.TotalAmount != 0 || calc.TotalBaseAmount != 0 || len(calc.Stalls) != 0 {
		t.Fatalf("empty selection = %+v, want zero value", calc)
	}
	if calc.Stalls == nil || calc.Taxes == nil || calc.AppliedDiscounts == nil {
		t.Fatalf("zero result must keep empty slices, got %+v", calc)
	}
}

func TestDeterminism(t *testing.T) {
	e := New(Config{
		Taxes: append(gst18(), model.TaxConfig{Name: "Service", Rate: 2.5, IsActive: true}),
		Discounts: []model.DiscountConfig{
			{Name: "Season", Type: model.DiscountFixed, Value: 123.45, IsActive: true},
		},
	})
	items := []LineItem{
		{Stall: rectStall("s1", 7.3, 4.1, 99.99)},
		{Stall: rectStall("s2", 3.7, 2.9, 149.5)},
		{Stall: rectStall("s3", 12, 8, 75)},
	}
	first, err := e.Calculate(items, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	second, err := e.Calculate(items, false)
	if err != nil {
		t.Fatalf("Calculate again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recalculation differs:\n%+v\n%+v", first, second)
	}
	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	if string(b1) != string(b2) {
		t.Fatalf("serialized results differ:\n%s\n%s", b1, b2)
	}
}

func TestMonotonicity(t *testing.T) {
	e := New(Config{Taxes: gst18()})
	items := []LineItem{{Stall: rectStall("s1", 5, 5, 100)}}
	small, err := e.Calculate(items, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	items = append(items, LineItem{Stall: rectStall("s2", 3, 3, 80)})
	big, err := e.Calculate(items, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if big.TotalBaseAmount < small.TotalBaseAmount || big.TotalAmount < small.TotalAmount {
		t.Fatalf("adding a stall decreased totals: %+v -> %+v", small, big)
	}
}

func hasTwoDecimals(v float64) bool {
	return math.Abs(v*100-math.Round(v*100)) < 1e-6
}

func TestRoundingEveryMonetaryField(t *testing.T) {
	e := New(Config{
		Taxes: []model.TaxConfig{{Name: "GST", Rate: 18, IsActive: true}, {Name: "Cess", Rate: 1.33, IsActive: true}},
		Discounts: []model.DiscountConfig{
			{Name: "Odd", Type: model.DiscountPercentage, Value: 7.77, IsActive: true},
		},
	})
	items := []LineItem{
		{Stall: rectStall("s1", 3.33, 2.17, 101.01)},
		{Stall: rectStall("s2", 1.19, 7.43, 88.88)},
	}
	calc, err := e.Calculate(items, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	monetary := []float64{
		calc.TotalBaseAmount, calc.TotalDiscountAmount,
		calc.TotalAmountAfterDiscount, calc.TotalTaxAmount, calc.TotalAmount,
	}
	for _, ln := range calc.Stalls {
		monetary = append(monetary, ln.BaseAmount, ln.AmountAfterDiscount)
		if ln.Discount != nil {
			monetary = append(monetary, ln.Discount.Amount)
		}
	}
	for _, tx := range calc.Taxes {
		monetary = append(monetary, tx.Amount)
	}
	for _, d := range calc.AppliedDiscounts {
		monetary = append(monetary, d.Amount)
	}
	for i, v := range monetary {
		if !hasTwoDecimals(v) {
			t.Fatalf("monetary value %d = %v has more than 2 decimals", i, v)
		}
	}
}

func TestBestDiscountWins(t *testing.T) {
	e := New(Config{
		Discounts: []model.DiscountConfig{
			{Name: "Ten Percent", Type: model.DiscountPercentage, Value: 10, IsActive: true},
			{Name: "Flat 150", Type: model.DiscountFixed, Value: 150, IsActive: true},
			{Name: "Inactive Huge", Type: model.DiscountPercentage, Value: 90, IsActive: false},
		},
	})
	// Base 1000: 10% -> 100, flat -> 150. The flat discount wins; the
	// inactive one is ignored no matter its value.
	calc, err := e.Calculate([]LineItem{{Stall: rectStall("s1", 10, 10, 10)}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(calc.AppliedDiscounts) != 1 || calc.AppliedDiscounts[0].Name != "Flat 150" {
		t.Fatalf("appliedDiscounts = %+v, want single Flat 150", calc.AppliedDiscounts)
	}
	if calc.TotalDiscountAmount != 150 || calc.TotalAmountAfterDiscount != 850 {
		t.Fatalf("totals = %+v", calc)
	}
}

func TestBestDiscountTieKeepsFirstDeclared(t *testing.T) {
	e := New(Config{
		Discounts: []model.DiscountConfig{
			{Name: "First", Type: model.DiscountFixed, Value: 100, IsActive: true},
			{Name: "Second", Type: model.DiscountFixed, Value: 100, IsActive: true},
		},
	})
	calc, err := e.Calculate([]LineItem{{Stall: rectStall("s1", 10, 10, 10)}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(calc.AppliedDiscounts) != 1 || calc.AppliedDiscounts[0].Name != "First" {
		t.Fatalf("appliedDiscounts = %+v, want First", calc.AppliedDiscounts)
	}
}

func TestFixedDiscountProportionalDistribution(t *testing.T) {
	e := New(Config{
		Discounts: []model.DiscountConfig{{Name: "Flat 30", Type: model.DiscountFixed, Value: 30, IsActive: true}},
	})
	items := []LineItem{
		{Stall: rectStall("s1", 10, 10, 1)}, // base 100
		{Stall: rectStall("s2", 10, 5, 1)},  // base 50
	}
	calc, err := e.Calculate(items, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if calc.Stalls[0].AmountAfterDiscount != 80 || calc.Stalls[1].AmountAfterDiscount != 40 {
		t.Fatalf("after-discount = %g/%g, want 80/40",
			calc.Stalls[0].AmountAfterDiscount, calc.Stalls[1].AmountAfterDiscount)
	}
	if calc.TotalDiscountAmount != 30 || calc.TotalAmountAfterDiscount != 120 {
		t.Fatalf("totals = %+v", calc)
	}
	// Per-stall shares always sum to the full value, remainder on the
	// last stall.
	var shares float64
	for _, ln := range calc.Stalls {
		if ln.Discount != nil {
			shares += ln.Discount.Amount
		}
	}
	if shares != 30 {
		t.Fatalf("shares sum = %g, want 30", shares)
	}
}

func TestFixedDiscountCappedAtBase(t *testing.T) {
	e := New(Config{
		Discounts: []model.DiscountConfig{{Name: "Flat 500", Type: model.DiscountFixed, Value: 500, IsActive: true}},
	})
	calc, err := e.Calculate([]LineItem{{Stall: rectStall("s1", 10, 10, 1)}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if calc.TotalAmountAfterDiscount != 0 || calc.TotalDiscountAmount != 100 {
		t.Fatalf("totals = %+v, want fully discounted but never negative", calc)
	}
}

func TestStallOverrideDiscount(t *testing.T) {
	override := &model.DiscountConfig{Name: "Corner Promo", Type: model.DiscountPercentage, Value: 50, IsActive: true}
	s1 := rectStall("s1", 10, 10, 1) // base 100, override 50%
	s1.Discount = override
	s2 := rectStall("s2", 10, 5, 1) // base 50, shared 10%
	e := New(Config{
		Discounts: []model.DiscountConfig{{Name: "Ten", Type: model.DiscountPercentage, Value: 10, IsActive: true}},
	})
	calc, err := e.Calculate([]LineItem{{Stall: s1}, {Stall: s2}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if calc.Stalls[0].AmountAfterDiscount != 50 {
		t.Fatalf("override line after = %g, want 50", calc.Stalls[0].AmountAfterDiscount)
	}
	if calc.Stalls[1].AmountAfterDiscount != 45 {
		t.Fatalf("shared line after = %g, want 45", calc.Stalls[1].AmountAfterDiscount)
	}
	if len(calc.AppliedDiscounts) != 2 {
		t.Fatalf("appliedDiscounts = %+v, want shared + override", calc.AppliedDiscounts)
	}
}

func TestPublicFlowUsesPublicDiscounts(t *testing.T) {
	e := New(Config{
		Discounts:       []model.DiscountConfig{{Name: "Exhibitor", Type: model.DiscountPercentage, Value: 20, IsActive: true}},
		PublicDiscounts: []model.DiscountConfig{{Name: "Public", Type: model.DiscountPercentage, Value: 5, IsActive: true}},
	})
	items := []LineItem{{Stall: rectStall("s1", 10, 10, 1)}}
	pub, err := e.Calculate(items, true)
	if err != nil {
		t.Fatalf("Calculate public: %v", err)
	}
	if len(pub.AppliedDiscounts) != 1 || pub.AppliedDiscounts[0].Name != "Public" {
		t.Fatalf("public discounts = %+v", pub.AppliedDiscounts)
	}
	if pub.TotalAmountAfterDiscount != 95 {
		t.Fatalf("public after = %g, want 95", pub.TotalAmountAfterDiscount)
	}
}

func TestTaxComputedFromPostDiscountAmount(t *testing.T) {
	items := []LineItem{{Stall: rectStall("s1", 20, 15, 100)}}
	noDiscount := New(Config{Taxes: gst18()})
	withDiscount := New(Config{
		Taxes:     gst18(),
		Discounts: []model.DiscountConfig{{Name: "Ten", Type: model.DiscountPercentage, Value: 10, IsActive: true}},
	})
	a, err := noDiscount.Calculate(items, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	b, err := withDiscount.Calculate(items, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if a.TotalTaxAmount != 5400 || b.TotalTaxAmount != 4860 {
		t.Fatalf("tax amounts = %g/%g, want 5400/4860", a.TotalTaxAmount, b.TotalTaxAmount)
	}
	// Changing the discount config never changes how tax is derived:
	// always rate% of the post-discount total.
	if b.TotalTaxAmount != Round2(18.0/100*b.TotalAmountAfterDiscount) {
		t.Fatalf("tax not derived from post-discount amount")
	}
}

func TestTaxesNotCascaded(t *testing.T) {
	e := New(Config{Taxes: []model.TaxConfig{
		{Name: "GST", Rate: 18, IsActive: true},
		{Name: "Service", Rate: 10, IsActive: true},
	}})
	calc, err := e.Calculate([]LineItem{{Stall: rectStall("s1", 10, 10, 1)}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	// Each tax on 100, not on 100 then 118.
	if calc.Taxes[0].Amount != 18 || calc.Taxes[1].Amount != 10 {
		t.Fatalf("taxes = %+v, want 18 and 10", calc.Taxes)
	}
	if calc.TotalTaxAmount != 28 || calc.TotalAmount != 128 {
		t.Fatalf("totals = %+v", calc)
	}
}

func TestDefaultRateFromStallType(t *testing.T) {
	stall := rectStall("s1", 10, 10, 0)
	typ := &model.StallType{ID: "type-1", Name: "Standard", DefaultRatePerSqm: 42, IsActive: true}
	e := New(Config{})
	calc, err := e.Calculate([]LineItem{{Stall: stall, StallType: typ}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if calc.Stalls[0].RatePerSqm != 42 || calc.Stalls[0].BaseAmount != 4200 {
		t.Fatalf("line = %+v, want rate 42 base 4200", calc.Stalls[0])
	}
}

func TestInvalidGeometrySurfaces(t *testing.T) {
	stall := model.Stall{ID: "bad", Dimensions: geometry.Dimensions{ShapeType: geometry.ShapeRectangle}}
	e := New(Config{})
	if _, err := e.Calculate([]LineItem{{Stall: stall}}, false); !errors.Is(err, geometry.ErrInvalidGeometry) {
		t.Fatalf("Calculate = %v, want ErrInvalidGeometry", err)
	}
}

func TestBasePriceFieldDoesNotAffectBaseAmount(t *testing.T) {
	stall := rectStall("stall-1", 20, 15, 100)
	stall.BasePrice = 500

	e := New(Config{Taxes: gst18()})
	calc, err := e.Calculate([]LineItem{{Stall: stall}}, false)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	ln := calc.Stalls[0]
	if ln.BaseAmount != 30000 {
		t.Fatalf("baseAmount = %g, want 30000 (area 300 x rate 100)", ln.BaseAmount)
	}
	if calc.TotalBaseAmount != 30000 || calc.TotalAmount != 35400 {
		t.Fatalf("totals = base %g total %g, want 30000/35400", calc.TotalBaseAmount, calc.TotalAmount)
	}
}
