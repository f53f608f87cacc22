package routes

import (
	"github.com/dwisetyo88/bimbel_online/handlers"
	"github.com/dwisetyo88/bimbel_online/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Post("/:bookingId/cancel", handlers.CancelBooking)

	teacherBooking := api.Group("/teacher/bookings", middleware.Protected(), middleware.TeacherRequired())
	teacherBooking.Get("", handlers.GetMyTeacherBookings)
	teacherBooking.Post("/:bookingId/accept", handlers.AcceptBooking)
	teacherBooking.Post("/:bookingId/reject", handlers.RejectBooking)
	teacherBooking.Post("/:bookingId/complete", handlers.CompleteBooking)
}
