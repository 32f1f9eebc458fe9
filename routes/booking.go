package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/7499karthik/suvidhaa/controllers"
)

// SetupBookingRoutes configures the booking ledger routes. Every route
// requires authentication.
func SetupBookingRoutes(app *fiber.App, bookings *controllers.BookingController, protected fiber.Handler) {
	group := app.Group("/api/bookings", protected)

	group.Post("/", bookings.Create)
	group.Get("/my-bookings", bookings.ListMine)
	group.Get("/", bookings.ListAll)
	group.Patch("/:id/status", bookings.UpdateStatus)
}
