package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/7499karthik/suvidhaa/controllers"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, auth *controllers.AuthController, protected fiber.Handler) {
	group := app.Group("/api/auth")

	// Public routes
	group.Post("/signup", auth.Signup)
	group.Post("/login", auth.Login)

	// Protected routes
	group.Get("/me", protected, auth.Me)
	group.Post("/logout", protected, auth.Logout)
}
