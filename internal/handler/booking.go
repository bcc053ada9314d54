package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expo-stall-booking/internal/booking"
	"github.com/iliyamo/expo-stall-booking/internal/layout"
	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/queue"
	"github.com/iliyamo/expo-stall-booking/internal/repository"
	"github.com/iliyamo/expo-stall-booking/internal/selection"
	queue_publisher "github.com/iliyamo/expo-stall-booking/internal/service"
)

// BookingHandler serves quotes and booking creation. Both build a
// per-request layout store with booked stalls overlaid, run the
// selection through the pricing engine, and in the booking case persist
// the result inside a transaction that re-checks stall conflicts.
type BookingHandler struct {
	Exhibitions *repository.ExhibitionRepo
	Layouts     *repository.LayoutRepo
	Bookings    *repository.BookingRepo
}

func NewBookingHandler(e *repository.ExhibitionRepo, l *repository.LayoutRepo, b *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Exhibitions: e, Layouts: l, Bookings: b}
}

// isPublic reports whether the request carries no authenticated user.
// The identity middleware sets user_id when a valid bearer token is
// present; its absence selects the public discount set.
func isPublic(c echo.Context) bool {
	_, err := getUserID(c)
	return err != nil
}

// buildSelection loads the session store and selects the requested
// stalls. Unknown ids abort immediately; unavailable ids are collected
// so the response can name all of them at once.
func buildSelection(ctx context.Context, ex *model.Exhibition, layouts *repository.LayoutRepo, bookings *repository.BookingRepo, stallIDs []string, public bool) (*layout.Store, *selection.Manager, []string, error) {
	store, engine, err := loadSessionStore(ctx, ex, layouts, bookings)
	if err != nil {
		return nil, nil, nil, err
	}
	sel := selection.New(store, engine, public)
	var unavailable []string
	for _, id := range stallIDs {
		err := sel.Select(id)
		switch {
		case err == nil:
		case errors.Is(err, selection.ErrStallUnavailable):
			unavailable = append(unavailable, id)
		default:
			return nil, nil, nil, err
		}
	}
	return store, sel, unavailable, nil
}

type quoteReq struct {
	StallIDs []string `json:"stallIds"`
}

// Quote: price a stall selection without creating anything. An empty
// selection is valid and returns an all-zero breakdown.
func (h *BookingHandler) Quote(c echo.Context) error {
	exID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ex, err := h.Exhibitions.GetByID(ctx, exID)
	if err != nil || !ex.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
	}

	store, sel, unavailable, err := buildSelection(ctx, ex, h.Layouts, h.Bookings, req.StallIDs, isPublic(c))
	if err != nil {
		switch {
		case err == repository.ErrLayoutNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no published layout"})
		case errors.Is(err, layout.ErrStallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quote failed"})
		}
	}
	if len(unavailable) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":              "stalls not available",
			"unavailable_stalls": unavailable,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"layout_version": store.Version(),
		"calculations":   sel.Calculations(),
	})
}

type createBookingReq struct {
	StallIDs []string              `json:"stallIds"`
	Customer model.CustomerDetails `json:"customer"`
}

// Create: price the selection, assemble the payload, and persist the
// booking. The insert runs in a transaction that re-reads booked stall
// ids with a row lock, so two concurrent bookings of the same stall
// cannot both succeed. On success a booking.created event is published
// best-effort.
func (h *BookingHandler) Create(c echo.Context) error {
	exID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Customer.Name == "" || req.Customer.Email == "" || req.Customer.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer name/email/phone required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ex, err := h.Exhibitions.GetByID(ctx, exID)
	if err != nil || !ex.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
	}

	public := isPublic(c)
	store, sel, unavailable, err := buildSelection(ctx, ex, h.Layouts, h.Bookings, req.StallIDs, public)
	if err != nil {
		switch {
		case err == repository.ErrLayoutNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no published layout"})
		case errors.Is(err, layout.ErrStallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}
	if len(unavailable) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":              "stalls not available",
			"unavailable_stalls": unavailable,
		})
	}

	source := "exhibitor"
	if public {
		source = "public"
	}
	payload, err := booking.NewAssembler(store).Assemble(exID, sel, req.Customer, source)
	if err != nil {
		var ua *booking.UnavailableError
		switch {
		case errors.Is(err, booking.ErrEmptySelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no stalls selected"})
		case errors.As(err, &ua):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":              "stalls not available",
				"unavailable_stalls": ua.StallIDs,
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	b := &model.Booking{
		ExhibitionID:  payload.ExhibitionID,
		LayoutVersion: payload.LayoutVersion,
		StallIDs:      payload.StallIDs,
		Customer:      payload.Customer,
		Amount:        payload.Amount,
		Calculations:  payload.Calculations,
		Status:        model.BookingPending,
		PaymentStatus: model.PaymentPending,
		BookingSource: payload.BookingSource,
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	conflicts, err := h.Bookings.Create(ctx, tx, b)
	if err != nil {
		_ = tx.Rollback()
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":              "stalls not available",
				"unavailable_stalls": conflicts,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	// Publish after commit; a broker outage must not fail the booking.
	go func(ev queue.BookingCreatedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := queue_publisher.PublishBookingCreated(pubCtx, ev); err != nil {
			log.Printf("booking: publish created event failed: %v", err)
		}
	}(queue.BookingCreatedEvent{
		BookingID:      b.ID,
		ExhibitionID:   b.ExhibitionID,
		ExhibitionName: ex.Name,
		LayoutVersion:  b.LayoutVersion,
		StallIDs:       b.StallIDs,
		CustomerName:   b.Customer.Name,
		CustomerEmail:  b.Customer.Email,
		BookingSource:  b.BookingSource,
		TotalAmount:    b.Amount,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, b)
}
