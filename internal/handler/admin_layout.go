package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expo-stall-booking/internal/layout"
	"github.com/iliyamo/expo-stall-booking/internal/model"
	"github.com/iliyamo/expo-stall-booking/internal/repository"
)

// LayoutHandler manages layout documents for owned exhibitions. Layouts
// are append-only: publishing always creates the next version and marks
// it active, so existing bookings keep pointing at the version they were
// made against.
type LayoutHandler struct {
	Exhibitions *repository.ExhibitionRepo
	Layouts     *repository.LayoutRepo
}

func NewLayoutHandler(e *repository.ExhibitionRepo, l *repository.LayoutRepo) *LayoutHandler {
	return &LayoutHandler{Exhibitions: e, Layouts: l}
}

type publishLayoutReq struct {
	Spaces     []model.Space     `json:"spaces"`
	Halls      []model.Hall      `json:"halls"`
	Stalls     []model.Stall     `json:"stalls"`
	StallTypes []model.StallType `json:"stallTypes"`
}

// Publish: validate a layout document and store it as the next active
// version. Validation runs the document through an in-memory store load,
// so a document that would be rejected at serve time is rejected here.
func (h *LayoutHandler) Publish(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	exID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req publishLayoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Exhibitions.GetByIDAndOwner(ctx, exID, uid); err != nil {
		return exhibitionLookupError(c, err)
	}

	doc := model.Layout{
		ExhibitionID: exID,
		Version:      1, // store validation needs any version above zero; the repo assigns the real one
		Spaces:       req.Spaces,
		Halls:        req.Halls,
		Stalls:       req.Stalls,
		StallTypes:   req.StallTypes,
	}
	if err := layout.NewStore().Load(doc); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Layouts.CreateVersion(ctx, &doc); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "publish layout failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"exhibition_id": exID,
		"version":       doc.Version,
	})
}

// ListVersions: version history for an owned exhibition, newest first.
func (h *LayoutHandler) ListVersions(c echo.Context) error {
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
	versions, err := h.Layouts.ListVersions(ctx, exID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"versions": versions})
}

// GetVersion: fetch one stored layout document by version number.
func (h *LayoutHandler) GetVersion(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	exID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	version, err := pathID(c, "version")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid version"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Exhibitions.GetByIDAndOwner(ctx, exID, uid); err != nil {
		return exhibitionLookupError(c, err)
	}
	doc, err := h.Layouts.GetVersion(ctx, exID, version)
	if err != nil {
		if errors.Is(err, repository.ErrLayoutNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "layout version not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, doc)
}
