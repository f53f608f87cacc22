package routes

import (
	"github.com/dwisetyo88/bimbel_online/handlers"
	"github.com/dwisetyo88/bimbel_online/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Post("/bookings", handlers.CreateManualBooking)
	admin.Get("/bookings", handlers.AdminGetAllBookings)

	admin.Get("/payments", handlers.AdminGetPayments)
	admin.Post("/payments/:paymentId/status", handlers.AdminUpdatePaymentStatus)

	admin.Get("/withdraw-requests", handlers.ListWithdrawRequests)
	admin.Post("/withdraw-requests/:requestId/process", handlers.ProcessWithdrawRequest)

	admin.Post("/teachers/:teacherId/verify", handlers.VerifyTeacher)
	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	reports := admin.Group("/reports")
	reports.Get("/transactions", handlers.GenerateTransactionReport)
}
