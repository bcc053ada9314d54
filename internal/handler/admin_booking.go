package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/repository"
)

// AdminBookingHandler drives the approval workflow of bookings on owned
// exhibitions. Status changes never touch the stored calculation
// snapshot; approval and payment are bookkeeping on top of it.
type AdminBookingHandler struct {
	Exhibitions *repository.ExhibitionRepo
	Bookings    *repository.BookingRepo
}

func NewAdminBookingHandler(e *repository.ExhibitionRepo, b *repository.BookingRepo) *AdminBookingHandler {
	return &AdminBookingHandler{Exhibitions: e, Bookings: b}
}

// ownedBooking loads a booking and verifies the current admin owns the
// exhibition it belongs to.
func (h *AdminBookingHandler) ownedBooking(ctx context.Context, c echo.Context) (*model.Booking, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "query failed")
	}
	if _, err := h.Exhibitions.GetByIDAndOwner(ctx, b.ExhibitionID, uid); err != nil {
		if err == repository.ErrForbidden || err == repository.ErrExhibitionNotFound {
			return nil, echo.NewHTTPError(http.StatusForbidden, "not your exhibition")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "query failed")
	}
	return b, nil
}

// ListByExhibition: all bookings of an owned exhibition, newest first.
func (h *AdminBookingHandler) ListByExhibition(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	exID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Exhibitions.GetByIDAndOwner(ctx, exID, uid); err != nil {
		return exhibitionLookupError(c, err)
	}
	list, err := h.Bookings.ListByExhibition(ctx, exID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// Get: one booking with its full calculation snapshot.
func (h *AdminBookingHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.ownedBooking(ctx, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Approve: move a pending or confirmed booking to approved. Approving
// keeps the stalls blocked; the booked overlay already counts approved
// bookings.
func (h *AdminBookingHandler) Approve(c echo.Context) error {
	return h.setStatus(c, model.BookingApproved, func(b *model.Booking) bool {
		return b.Status == model.BookingPending || b.Status == model.BookingConfirmed
	})
}

// Reject: move a pending booking to rejected, releasing its stalls.
func (h *AdminBookingHandler) Reject(c echo.Context) error {
	return h.setStatus(c, model.BookingRejected, func(b *model.Booking) bool {
		return b.Status == model.BookingPending
	})
}

// Cancel: cancel a booking that has not been rejected, releasing its stalls.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	return h.setStatus(c, model.BookingCancelled, func(b *model.Booking) bool {
		return b.Status != model.BookingRejected && b.Status != model.BookingCancelled
	})
}

func (h *AdminBookingHandler) setStatus(c echo.Context, to model.BookingStatus, allowed func(*model.Booking) bool) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.ownedBooking(ctx, c)
	if err != nil {
		return err
	}
	if !allowed(b) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition", "status": b.Status})
	}
	if err := h.Bookings.UpdateStatus(ctx, b.ID, to); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	b.Status = to
	return c.JSON(http.StatusOK, b)
}

// UpdatePayment: record a payment-state change on an owned booking.
func (h *AdminBookingHandler) UpdatePayment(c echo.Context) error {
	var req struct {
		PaymentStatus model.PaymentStatus `json:"paymentStatus"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.PaymentStatus {
	case model.PaymentPending, model.PaymentPaid, model.PaymentRefunded, model.PaymentPartial:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.ownedBooking(ctx, c)
	if err != nil {
		return err
	}
	if err := h.Bookings.UpdatePaymentStatus(ctx, b.ID, req.PaymentStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	b.PaymentStatus = req.PaymentStatus
	return c.JSON(http.StatusOK, b)
}

// GenerateInvoice: stamp invoice generation time on an approved booking.
func (h *AdminBookingHandler) GenerateInvoice(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.ownedBooking(ctx, c)
	if err != nil {
		return err
	}
	if b.Status != model.BookingApproved && b.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking not approved"})
	}
	if err := h.Bookings.MarkInvoiceGenerated(ctx, b.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	now := time.Now().UTC()
	b.InvoiceGeneratedAt = &now
	return c.JSON(http.StatusOK, b)
}
