package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/repository"
)

// ExhibitionHandler bundles dependencies for admin exhibition endpoints.
// All mutating operations are scoped by owner_id: an admin can only
// touch exhibitions they created.
type ExhibitionHandler struct {
	Exhibitions *repository.ExhibitionRepo
}

func NewExhibitionHandler(e *repository.ExhibitionRepo) *ExhibitionHandler {
	return &ExhibitionHandler{Exhibitions: e}
}

type exhibitionReq struct {
	Name     string    `json:"name"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	IsActive bool      `json:"isActive"`
}

// Create: insert a new exhibition owned by the current admin.
func (h *ExhibitionHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req exhibitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if !req.EndsAt.IsZero() && req.EndsAt.Before(req.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endsAt before startsAt"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ex := &model.Exhibition{
		OwnerID:  uid,
		Name:     req.Name,
		Venue:    strings.TrimSpace(req.Venue),
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		IsActive: req.IsActive,
	}
	if err := h.Exhibitions.Create(ctx, ex); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create exhibition failed"})
	}
	return c.JSON(http.StatusCreated, ex)
}

// List: all exhibitions owned by the current admin.
func (h *ExhibitionHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Exhibitions.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"exhibitions": list})
}

// Get: one owned exhibition with its pricing configuration.
func (h *ExhibitionHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ex, err := h.Exhibitions.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		return exhibitionLookupError(c, err)
	}
	return c.JSON(http.StatusOK, ex)
}

// Update: replace the mutable descriptive fields of an owned exhibition.
// Pricing configuration has its own endpoint.
func (h *ExhibitionHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req exhibitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ex, err := h.Exhibitions.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		return exhibitionLookupError(c, err)
	}
	ex.Name = req.Name
	ex.Venue = strings.TrimSpace(req.Venue)
	ex.StartsAt = req.StartsAt
	ex.EndsAt = req.EndsAt
	ex.IsActive = req.IsActive
	if err := h.Exhibitions.UpdateByIDAndOwner(ctx, ex); err != nil {
		if err == repository.ErrExhibitionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, ex)
}

type pricingReq struct {
	Taxes           []model.TaxConfig      `json:"taxes"`
	Discounts       []model.DiscountConfig `json:"discounts"`
	PublicDiscounts []model.DiscountConfig `json:"publicDiscounts"`
}

// UpdatePricing: replace the tax and discount configuration wholesale.
// Existing bookings keep their calculation snapshots; only future quotes
// see the new configuration.
func (h *ExhibitionHandler) UpdatePricing(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req pricingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	for _, t := range req.Taxes {
		if t.Rate < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "negative tax rate"})
		}
	}
	for _, d := range append(append([]model.DiscountConfig{}, req.Discounts...), req.PublicDiscounts...) {
		if d.Type != model.DiscountPercentage && d.Type != model.DiscountFixed {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown discount type"})
		}
		if d.Value < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "negative discount value"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ex, err := h.Exhibitions.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		return exhibitionLookupError(c, err)
	}
	ex.TaxConfig = req.Taxes
	ex.DiscountConfig = req.Discounts
	ex.PublicDiscountConfig = req.PublicDiscounts
	if err := h.Exhibitions.UpdateByIDAndOwner(ctx, ex); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, ex)
}

// Delete: remove an owned exhibition. Refused while bookings reference it.
func (h *ExhibitionHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Exhibitions.DeleteByIDAndOwner(ctx, id, uid); err != nil {
		switch err {
		case repository.ErrExhibitionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "exhibition has bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
