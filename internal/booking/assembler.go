// Package booking assembles a submittable booking payload from the
// current selection, its price calculations and the customer-entered
// fields. The assembler performs the final client-side availability
// check against the live layout store; the authoritative check happens
// server-side when the payload is submitted.
package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/expo-stall-booking/internal/layout"
	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/selection"
)

// ErrEmptySelection is returned when assembly is attempted with no
// stalls selected. An empty quote renders fine, but an empty booking
// cannot be submitted.
var ErrEmptySelection = errors.New("empty selection")

// UnavailableError names the specific stalls that stopped being
// available between selection and submission, so the UI can deselect
// just those and let the user proceed with the remainder. It unwraps to
// selection.ErrStallUnavailable.
type UnavailableError struct {
	StallIDs []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("stalls no longer available: %s", strings.Join(e.StallIDs, ", "))
}

func (e *UnavailableError) Unwrap() error { return selection.ErrStallUnavailable }

// CreateBookingRequest is the payload shape the external booking API
// expects. The assembler builds it; submitting it over HTTP belongs to
// the caller's client layer.
type CreateBookingRequest struct {
	ExhibitionID  uint64                    `json:"exhibitionId"`
	LayoutVersion uint64                    `json:"layoutVersion"`
	StallIDs      []string                  `json:"stallIds"`
	Customer      model.CustomerDetails     `json:"customer"`
	Amount        float64                   `json:"amount"`
	Calculations  model.BookingCalculations `json:"calculations"`
	BookingSource string                    `json:"bookingSource"`
}

// Assembler builds CreateBookingRequest payloads against one layout
// store.
type Assembler struct {
	store *layout.Store
}

// NewAssembler returns an Assembler bound to the given layout store.
func NewAssembler(store *layout.Store) *Assembler {
	return &Assembler{store: store}
}

// Assemble combines the selection's stall ids and latest calculations
// with the customer fields into a submittable payload. Every selected
// stall is re-checked against the live store first: any stall whose
// status changed since selection is reported by id via UnavailableError
// and no payload is produced.
func (a *Assembler) Assemble(exhibitionID uint64, sel *selection.Manager, customer model.CustomerDetails, source string) (CreateBookingRequest, error) {
	ids := sel.SelectedIDs()
	if len(ids) == 0 {
		return CreateBookingRequest{}, ErrEmptySelection
	}
	var unavailable []string
	for _, id := range ids {
		st, err := a.store.Stall(id)
		if err != nil {
			return CreateBookingRequest{}, err
		}
		if st.Status != model.StallAvailable {
			unavailable = append(unavailable, id)
		}
	}
	if len(unavailable) > 0 {
		return CreateBookingRequest{}, &UnavailableError{StallIDs: unavailable}
	}
	calc := sel.Calculations()
	return CreateBookingRequest{
		ExhibitionID:  exhibitionID,
		LayoutVersion: a.store.Version(),
		StallIDs:      ids,
		Customer:      customer,
		Amount:        calc.TotalAmount,
		Calculations:  calc,
		BookingSource: source,
	}, nil
}
