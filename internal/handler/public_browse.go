package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expo-stall-booking/internal/repository"
	"github.com/iliyamo/expo-stall-booking/internal/viewport"
)

// BrowseHandler serves the read side of the booking flow: active
// exhibitions and their layouts with live availability. No auth
// required; these routes sit behind the response cache.
type BrowseHandler struct {
	Exhibitions *repository.ExhibitionRepo
	Layouts     *repository.LayoutRepo
	Bookings    *repository.BookingRepo
}

func NewBrowseHandler(e *repository.ExhibitionRepo, l *repository.LayoutRepo, b *repository.BookingRepo) *BrowseHandler {
	return &BrowseHandler{Exhibitions: e, Layouts: l, Bookings: b}
}

// ListExhibitions: active exhibitions open for booking.
func (h *BrowseHandler) ListExhibitions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Exhibitions.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type item struct {
		ID       uint64    `json:"id"`
		Name     string    `json:"name"`
		Venue    string    `json:"venue"`
		StartsAt time.Time `json:"startsAt"`
		EndsAt   time.Time `json:"endsAt"`
	}
	out := make([]item, 0, len(list))
	for _, e := range list {
		out = append(out, item{ID: e.ID, Name: e.Name, Venue: e.Venue, StartsAt: e.StartsAt, EndsAt: e.EndsAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"exhibitions": out})
}

// GetLayout: the active layout of an exhibition with booked stalls
// overlaid, hall availability counts, and an initial viewport fitted to
// the layout's content bounds.
func (h *BrowseHandler) GetLayout(c echo.Context) error {
	exID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ex, err := h.Exhibitions.GetByID(ctx, exID)
	if err != nil || !ex.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
	}
	store, _, err := loadSessionStore(ctx, ex, h.Layouts, h.Bookings)
	if err != nil {
		if err == repository.ErrLayoutNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no published layout"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load layout failed"})
	}
	doc, err := store.Layout()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load layout failed"})
	}
	summaries, err := store.HallSummaries()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load layout failed"})
	}

	// Default viewport for a 1280x800 canvas; clients with a different
	// canvas re-fit locally with the same rule.
	vp := viewport.New(1280, 800)
	if bounds, err := store.ContentBounds(); err == nil {
		vp.FitToScreen(bounds)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"layout":   doc,
		"halls":    summaries,
		"viewport": vp,
	})
}
