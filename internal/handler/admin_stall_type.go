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

// StallTypeHandler manages the reusable stall-type catalog of an admin.
// Layout documents reference stall types by id for default rates and
// amenity lists.
type StallTypeHandler struct {
	StallTypes *repository.StallTypeRepo
}

func NewStallTypeHandler(s *repository.StallTypeRepo) *StallTypeHandler {
	return &StallTypeHandler{StallTypes: s}
}

type stallTypeReq struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Color              string   `json:"color"`
	DefaultRatePerSqm  float64  `json:"defaultRatePerSqm"`
	DefaultSize        string   `json:"defaultSize"`
	IncludedAmenities  []string `json:"includedAmenities"`
	AvailableAmenities []string `json:"availableAmenities"`
	IsActive           bool     `json:"isActive"`
}

func (r *stallTypeReq) toModel() *model.StallType {
	return &model.StallType{
		ID:                 strings.TrimSpace(r.ID),
		Name:               strings.TrimSpace(r.Name),
		Color:              strings.TrimSpace(r.Color),
		DefaultRatePerSqm:  r.DefaultRatePerSqm,
		DefaultSize:        strings.TrimSpace(r.DefaultSize),
		IncludedAmenities:  r.IncludedAmenities,
		AvailableAmenities: r.AvailableAmenities,
		IsActive:           r.IsActive,
	}
}

// Create: add a stall type to the current admin's catalog.
func (h *StallTypeHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req stallTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	st := req.toModel()
	if st.ID == "" || st.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id/name required"})
	}
	if st.DefaultRatePerSqm < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "negative rate"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.StallTypes.Create(ctx, uid, st); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "stall type id already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create stall type failed"})
	}
	return c.JSON(http.StatusCreated, st)
}

// List: stall types owned by the current admin.
func (h *StallTypeHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.StallTypes.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stall_types": list})
}

// Update: replace a stall type owned by the current admin.
func (h *StallTypeHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req stallTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	st := req.toModel()
	st.ID = c.Param("id")
	if st.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.StallTypes.UpdateByIDAndOwner(ctx, uid, st); err != nil {
		if err == repository.ErrStallTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stall type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, st)
}

// Delete: remove a stall type owned by the current admin. Published
// layout documents carry their own copy of the type, so deletion never
// breaks an existing layout.
func (h *StallTypeHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.StallTypes.DeleteByIDAndOwner(ctx, c.Param("id"), uid); err != nil {
		if err == repository.ErrStallTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stall type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
