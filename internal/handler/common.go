package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expo-stall-booking/internal/layout"
	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/pricing"
	"github.com/iliyamo/expo-stall-booking/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// exhibitionLookupError maps the error of an owner-scoped exhibition
// lookup to the right HTTP response.
func exhibitionLookupError(c echo.Context, err error) error {
	switch err {
	case repository.ErrExhibitionNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your exhibition"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
}

// loadSessionStore fetches the active layout of an exhibition, overlays
// the booked-stall set derived from blocking bookings onto stall
// statuses, and returns it loaded into a fresh layout store together
// with a pricing engine built from the exhibition's configuration. Every
// quote or booking request gets its own store, matching the
// one-session-one-store ownership of the core.
func loadSessionStore(ctx context.Context, ex *model.Exhibition, layouts *repository.LayoutRepo, bookings *repository.BookingRepo) (*layout.Store, *pricing.Engine, error) {
	doc, err := layouts.GetActive(ctx, ex.ID)
	if err != nil {
		return nil, nil, err
	}
	taken, err := bookings.BookedStallIDs(ctx, ex.ID)
	if err != nil {
		return nil, nil, err
	}
	for i := range doc.Stalls {
		if _, ok := taken[doc.Stalls[i].ID]; ok {
			doc.Stalls[i].Status = model.StallBooked
		}
	}
	store := layout.NewStore()
	if err := store.Load(*doc); err != nil {
		return nil, nil, err
	}
	engine := pricing.New(pricing.Config{
		Taxes:           ex.TaxConfig,
		Discounts:       ex.DiscountConfig,
		PublicDiscounts: ex.PublicDiscountConfig,
	})
	return store, engine, nil
}
