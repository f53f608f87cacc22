package handlers

import (
	"fmt"
	"time"

	"github.com/dwisetyo88/bimbel_online/database"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/dwisetyo88/bimbel_online/notifications"
	"github.com/dwisetyo88/bimbel_online/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	StudentID       string `json:"student_id" validate:"required,uuid"`
	TutorID         string `json:"tutor_id" validate:"required,uuid"`
	ParentID        string `json:"parent_id" validate:"required,uuid"`
	Subject         string `json:"subject" validate:"required"`
	BookingDate     string `json:"booking_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationHours   int    `json:"duration_hours" validate:"required,gt=0"`
	LearningPackage string `json:"learning_package,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	Notes           string `json:"notes,omitempty"`
	StudentNotes    string `json:"student_notes,omitempty"`
}

func (r CreateBookingRequest) toInput() services.CreateBookingInput {
	studentID, _ := uuid.Parse(r.StudentID)
	tutorID, _ := uuid.Parse(r.TutorID)
	parentID, _ := uuid.Parse(r.ParentID)
	bookingDate, _ := time.Parse(time.RFC3339, r.BookingDate)

	in := services.CreateBookingInput{
		StudentID:       studentID,
		TutorID:         tutorID,
		ParentID:        parentID,
		Subject:         r.Subject,
		BookingDate:     bookingDate,
		DurationHours:   r.DurationHours,
		LearningPackage: r.LearningPackage,
		PaymentMethod:   r.PaymentMethod,
	}
	if r.Notes != "" {
		in.Notes = &r.Notes
	}
	if r.StudentNotes != "" {
		in.StudentNotes = &r.StudentNotes
	}
	return in
}

func CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := services.NewBookingService(database.DB).Create(c.Context(), currentActor(c), req.toInput())
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

func AcceptBooking(c *fiber.Ctx) error {
	return transitionBooking(c, services.EventAccept)
}

func RejectBooking(c *fiber.Ctx) error {
	return transitionBooking(c, services.EventReject)
}

func CancelBooking(c *fiber.Ctx) error {
	return transitionBooking(c, services.EventCancel)
}

func CompleteBooking(c *fiber.Ctx) error {
	return transitionBooking(c, services.EventComplete)
}

func transitionBooking(c *fiber.Ctx, event string) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	booking, err := services.NewBookingService(database.DB).Transition(c.Context(), bookingID, event, currentActor(c))
	if err != nil {
		return serviceError(c, err)
	}

	go notifyBookingTransition(booking, event)

	return c.JSON(booking)
}

func notifyBookingTransition(booking *models.Booking, event string) {
	var student models.User
	if err := database.DB.First(&student, "id = ?", booking.StudentID).Error; err != nil {
		return
	}

	switch event {
	case services.EventAccept:
		notifications.SendEmail(student.FullName, student.Email,
			"Booking Anda Dikonfirmasi",
			fmt.Sprintf("<h1>Booking Dikonfirmasi</h1><p>Sesi %s pada %s telah dikonfirmasi oleh tutor.</p>",
				booking.Subject, booking.BookingDate.Format("02 Jan 2006 15:04")))
	case services.EventComplete:
		notifications.SendEmail(student.FullName, student.Email,
			"Sesi Belajar Selesai",
			fmt.Sprintf("<h1>Sesi Selesai</h1><p>Sesi %s telah ditandai selesai. Terima kasih!</p>", booking.Subject))
	}
}

func GetMyBookings(c *fiber.Ctx) error {
	actor := currentActor(c)

	var bookings []models.Booking
	query := database.DB.Order("booking_date desc")
	switch actor.Role {
	case models.RoleParent:
		query = query.Where("parent_id = ?", actor.UserID)
	default:
		query = query.Where("student_id = ?", actor.UserID)
	}
	query.Find(&bookings)

	return c.JSON(bookings)
}

func GetMyTeacherBookings(c *fiber.Ctx) error {
	actor := currentActor(c)

	var bookings []models.Booking
	database.DB.
		Where("tutor_id = ?", actor.UserID).
		Order("booking_date desc").
		Find(&bookings)

	return c.JSON(bookings)
}
