package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/7499karthik/suvidhaa/controllers"
)

// SetupDashboardRoutes configures the dashboard routes.
func SetupDashboardRoutes(app *fiber.App, dashboard *controllers.DashboardController, protected fiber.Handler) {
	group := app.Group("/api/dashboard", protected)

	group.Get("/stats", dashboard.Stats)
}
