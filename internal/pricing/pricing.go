// Package pricing computes the itemized price breakdown for a set of
// selected stalls. The computation is pure and deterministic: the same
// stalls and configuration always reproduce the same BookingCalculations
// value, because every monetary figure is rounded to two decimals at the
// point it is computed and never accumulated in raw floating form across
// steps.
package pricing

import (
	"fmt"
	"math"

	"github.com/iliyamo/expo-stall-booking/internal/geometry"
	"github.com/iliyamo/expo-stall-booking/internal/model"
)

// Config is the exhibition-level pricing input. Inactive tax and
// discount entries are treated as absent. Discounts applies to the
// authenticated exhibitor flow, PublicDiscounts to the guest flow.
type Config struct {
	Taxes           []model.TaxConfig
	Discounts       []model.DiscountConfig
	PublicDiscounts []model.DiscountConfig
}

// LineItem is one selected stall with its denormalized stall type. The
// type may be nil when the stall does not reference one; it only
// supplies the default rate when the stall itself carries none.
type LineItem struct {
	Stall     model.Stall
	StallType *model.StallType
}

// Engine computes BookingCalculations from a selection and a Config.
// It holds no hidden state; a single Engine can serve many selections.
type Engine struct {
	cfg Config
}

// New returns an Engine for the given configuration.
func New(cfg Config) *Engine { return &Engine{cfg: cfg} }

// Round2 rounds a monetary value to two decimal places. Exported so
// callers assembling payloads can round the same way the engine does.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate produces the full breakdown for the given selection. An
// empty selection yields a valid all-zero result rather than an error so
// the UI can always render the summary panel. Public selects the public
// discount list instead of the exhibitor one.
func (e *Engine) Calculate(items []LineItem, public bool) (model.BookingCalculations, error) {
	calc := model.BookingCalculations{
		Stalls:           []model.StallCalculation{},
		AppliedDiscounts: []model.AppliedDiscount{},
		Taxes:            []model.TaxCalculation{},
	}
	if len(items) == 0 {
		return calc, nil
	}

	// Step 1: base amounts from authoritative geometry.
	lines := make([]model.StallCalculation, len(items))
	var totalBase float64
	for i, it := range items {
		area, err := geometry.Area(it.Stall.Dimensions)
		if err != nil {
			return model.BookingCalculations{}, fmt.Errorf("stall %s: %w", it.Stall.ID, err)
		}
		rate := it.Stall.RatePerSqm
		if rate == 0 && it.StallType != nil {
			rate = it.StallType.DefaultRatePerSqm
		}
		base := Round2(area * rate)
		lines[i] = model.StallCalculation{
			StallID:             it.Stall.ID,
			Number:              it.Stall.Number,
			Area:                area,
			RatePerSqm:          rate,
			Dimensions:          it.Stall.Dimensions,
			BaseAmount:          base,
			AmountAfterDiscount: base,
		}
		totalBase = Round2(totalBase + base)
	}
	calc.TotalBaseAmount = totalBase

	// Step 2: discounts. Stalls carrying an explicit override discount
	// use it; all remaining stalls share the single best active discount
	// from the applicable list. Discounts never stack.
	overridden := make([]bool, len(lines))
	overrideTotals := map[string]*model.AppliedDiscount{}
	var overrideOrder []string
	for i, it := range items {
		d := it.Stall.Discount
		if d == nil || !d.IsActive {
			continue
		}
		amount := applyDiscount(&lines[i], *d)
		overridden[i] = true
		key := d.Name
		if agg, ok := overrideTotals[key]; ok {
			agg.Amount = Round2(agg.Amount + amount)
		} else {
			overrideTotals[key] = &model.AppliedDiscount{Name: d.Name, Type: d.Type, Value: d.Value, Amount: amount}
			overrideOrder = append(overrideOrder, key)
		}
	}

	if best, ok := e.bestDiscount(lines, overridden, public); ok {
		amount := applySharedDiscount(lines, overridden, best)
		if amount > 0 {
			calc.AppliedDiscounts = append(calc.AppliedDiscounts,
				model.AppliedDiscount{Name: best.Name, Type: best.Type, Value: best.Value, Amount: amount})
		}
	}
	for _, key := range overrideOrder {
		calc.AppliedDiscounts = append(calc.AppliedDiscounts, *overrideTotals[key])
	}

	// Step 3: aggregate totals.
	var totalAfter float64
	for _, ln := range lines {
		totalAfter = Round2(totalAfter + ln.AmountAfterDiscount)
	}
	calc.Stalls = lines
	calc.TotalAmountAfterDiscount = totalAfter
	calc.TotalDiscountAmount = Round2(totalBase - totalAfter)

	// Step 4: taxes, each on the post-discount total, in declaration
	// order, never compounded on each other.
	var totalTax float64
	for _, t := range e.cfg.Taxes {
		if !t.IsActive {
			continue
		}
		amount := Round2(t.Rate / 100 * totalAfter)
		calc.Taxes = append(calc.Taxes, model.TaxCalculation{Name: t.Name, Rate: t.Rate, Amount: amount})
		totalTax = Round2(totalTax + amount)
	}
	calc.TotalTaxAmount = totalTax
	calc.TotalAmount = Round2(totalAfter + totalTax)
	return calc, nil
}

// bestDiscount picks the active discount with the highest total
// reduction over the stalls not covered by an override. Ties keep the
// first-declared entry.
func (e *Engine) bestDiscount(lines []model.StallCalculation, overridden []bool, public bool) (model.DiscountConfig, bool) {
	candidates := e.cfg.Discounts
	if public {
		candidates = e.cfg.PublicDiscounts
	}
	var subtotal float64
	for i, ln := range lines {
		if !overridden[i] {
			subtotal = Round2(subtotal + ln.BaseAmount)
		}
	}
	var best model.DiscountConfig
	var bestReduction float64
	found := false
	for _, d := range candidates {
		if !d.IsActive || subtotal == 0 {
			continue
		}
		var reduction float64
		switch d.Type {
		case model.DiscountPercentage:
			for i, ln := range lines {
				if !overridden[i] {
					reduction = Round2(reduction + Round2(ln.BaseAmount*d.Value/100))
				}
			}
		case model.DiscountFixed:
			reduction = d.Value
			if reduction > subtotal {
				reduction = subtotal
			}
		default:
			continue
		}
		if reduction > bestReduction {
			best, bestReduction, found = d, reduction, true
		}
	}
	return best, found
}

// applyDiscount applies a discount to a single line and returns the
// reduction. Fixed overrides subtract from this stall's base alone.
func applyDiscount(ln *model.StallCalculation, d model.DiscountConfig) float64 {
	var amount float64
	switch d.Type {
	case model.DiscountPercentage:
		after := Round2(ln.BaseAmount * (1 - d.Value/100))
		amount = Round2(ln.BaseAmount - after)
		ln.AmountAfterDiscount = after
	case model.DiscountFixed:
		amount = d.Value
		if amount > ln.BaseAmount {
			amount = ln.BaseAmount
		}
		amount = Round2(amount)
		ln.AmountAfterDiscount = Round2(ln.BaseAmount - amount)
	default:
		return 0
	}
	if amount <= 0 {
		return 0
	}
	ln.Discount = &model.AppliedDiscount{Name: d.Name, Type: d.Type, Value: d.Value, Amount: amount}
	return amount
}

// applySharedDiscount applies one discount across all non-overridden
// lines and returns the total reduction. A fixed value is distributed
// proportionally by base-amount share, with the last line absorbing the
// rounding remainder so the shares always sum to the full value.
func applySharedDiscount(lines []model.StallCalculation, overridden []bool, d model.DiscountConfig) float64 {
	idx := make([]int, 0, len(lines))
	var subtotal float64
	for i := range lines {
		if !overridden[i] {
			idx = append(idx, i)
			subtotal = Round2(subtotal + lines[i].BaseAmount)
		}
	}
	if len(idx) == 0 || subtotal == 0 {
		return 0
	}
	var total float64
	switch d.Type {
	case model.DiscountPercentage:
		for _, i := range idx {
			total = Round2(total + applyDiscount(&lines[i], d))
		}
	case model.DiscountFixed:
		value := d.Value
		if value > subtotal {
			value = subtotal
		}
		value = Round2(value)
		var distributed float64
		for n, i := range idx {
			share := Round2(value * lines[i].BaseAmount / subtotal)
			if n == len(idx)-1 {
				share = Round2(value - distributed)
			}
			if share > lines[i].BaseAmount {
				share = lines[i].BaseAmount
			}
			lines[i].AmountAfterDiscount = Round2(lines[i].BaseAmount - share)
			if share > 0 {
				lines[i].Discount = &model.AppliedDiscount{Name: d.Name, Type: d.Type, Value: d.Value, Amount: share}
			}
			distributed = Round2(distributed + share)
		}
		total = distributed
	}
	return total
}
