package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/7499karthik/suvidhaa/controllers"
)

// SetupProviderRoutes configures the provider directory routes. Browsing is
// public; registration, avatar upload and reviewing require authentication.
func SetupProviderRoutes(app *fiber.App, providers *controllers.ProviderController, protected fiber.Handler) {
	group := app.Group("/api/providers")

	// Public routes
	group.Get("/", providers.List)
	group.Get("/:id", providers.Get)
	group.Get("/:id/reviews", providers.ListReviews)

	// Protected routes
	group.Post("/register", protected, providers.Register)
	group.Post("/me/avatar", protected, providers.UploadAvatar)
	group.Post("/:id/reviews", protected, providers.CreateReview)
}
