package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/7499karthik/suvidhaa/controllers"
)

// SetupContactRoutes configures the contact form routes. Submitting is
// public; reading the inbox requires authentication.
func SetupContactRoutes(app *fiber.App, contact *controllers.ContactController, protected fiber.Handler) {
	group := app.Group("/api/contact")

	group.Post("/", contact.Submit)
	group.Get("/", protected, contact.ListAll)
}
