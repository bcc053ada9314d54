package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expo-stall-booking/internal/handler"    // admin handlers
	"github.com/iliyamo/expo-stall-booking/internal/middleware" // JWT + role middlewares
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and ADMIN role; every handler further
// scopes its queries by owner_id so admins only see their own data.
func RegisterAdmin(e *echo.Echo, ex *handler.ExhibitionHandler, lay *handler.LayoutHandler, st *handler.StallTypeHandler, bk *handler.AdminBookingHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Exhibitions ----
	g.POST("/exhibitions", ex.Create)
	g.GET("/exhibitions", ex.List)
	g.GET("/exhibitions/:id", ex.Get)
	g.PUT("/exhibitions/:id", ex.Update)
	g.PATCH("/exhibitions/:id", ex.Update) // allow partial/semantic updates via PATCH as well
	g.PUT("/exhibitions/:id/pricing", ex.UpdatePricing)
	g.DELETE("/exhibitions/:id", ex.Delete)

	// ---- Layouts ----
	// Publishing always creates the next version; old versions stay
	// readable for bookings that reference them.
	g.POST("/exhibitions/:id/layout", lay.Publish)
	g.GET("/exhibitions/:id/layout/versions", lay.ListVersions)
	g.GET("/exhibitions/:id/layout/versions/:version", lay.GetVersion)

	// ---- Stall types ----
	g.POST("/stall-types", st.Create)
	g.GET("/stall-types", st.List)
	g.PUT("/stall-types/:id", st.Update)
	g.PATCH("/stall-types/:id", st.Update)
	g.DELETE("/stall-types/:id", st.Delete)

	// ---- Bookings ----
	g.GET("/exhibitions/:id/bookings", bk.ListByExhibition)
	g.GET("/bookings/:id", bk.Get)
	g.POST("/bookings/:id/approve", bk.Approve)
	g.POST("/bookings/:id/reject", bk.Reject)
	g.POST("/bookings/:id/cancel", bk.Cancel)
	g.PUT("/bookings/:id/payment", bk.UpdatePayment)
	g.POST("/bookings/:id/invoice", bk.GenerateInvoice)
}
