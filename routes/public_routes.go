package routes

import (
	"github.com/dwisetyo88/bimbel_online/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/teachers", handlers.ListTeachers)
}
