package routes

import (
	"github.com/dwisetyo88/bimbel_online/handlers"
	"github.com/dwisetyo88/bimbel_online/middleware"
	"github.com/gofiber/fiber/v2"
)

func TeacherRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	teacher := api.Group("/teacher", middleware.Protected(), middleware.TeacherRequired())
	teacher.Get("/earnings", handlers.GetMyEarnings)
	teacher.Post("/withdrawals", handlers.RequestWithdraw)
	teacher.Get("/withdrawals", handlers.GetMyWithdrawRequests)
}
