package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expo-stall-booking/internal/handler"    // browse + booking handlers
	"github.com/iliyamo/expo-stall-booking/internal/middleware" // optional identity middleware
)

// RegisterPublic registers the guest-facing browse and booking endpoints.
// Browse routes carry no auth at all.  Quote and booking creation accept
// an optional bearer token: an authenticated exhibitor gets the
// exhibitor discount set, a guest gets the public one.
func RegisterPublic(e *echo.Echo, br *handler.BrowseHandler, bk *handler.BookingHandler, jwtSecret string) {
	// Expose list of active exhibitions
	e.GET("/v1/exhibitions", br.ListExhibitions)
	// Active layout with booked stalls overlaid, hall availability counts
	// and a fitted initial viewport.  Guests preview the floor plan here
	// before selecting stalls.
	e.GET("/v1/exhibitions/:id/layout", br.GetLayout)

	opt := middleware.OptionalJWT(jwtSecret)
	// Price a stall selection without creating anything.
	e.POST("/v1/exhibitions/:id/quote", bk.Quote, opt)
	// Create a booking from a stall selection.
	e.POST("/v1/exhibitions/:id/bookings", bk.Create, opt)
}
