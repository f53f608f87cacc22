package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/dwisetyo88/bimbel_online/database"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/dwisetyo88/bimbel_online/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateManualBooking covers bookings submitted offline (phone, walk-in)
// and entered by an admin on behalf of a family. Same pricing and state
// machine as self-service bookings.
func CreateManualBooking(c *fiber.Ctx) error {
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

func AdminGetAllBookings(c *fiber.Ctx) error {
	var bookings []models.Booking
	query := database.DB.Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Find(&bookings)

	return c.JSON(bookings)
}

// VerifyTeacher flips a tutor's verification flag. Unverified tutors cannot
// receive bookings.
func VerifyTeacher(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher ID format"})
	}

	type VerifyRequest struct {
		Verified bool `json:"verified"`
	}
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	result := database.DB.Model(&models.Teacher{}).
		Where("user_id = ?", teacherID).
		Update("is_verified", req.Verified)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update teacher"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
	}

	return c.JSON(fiber.Map{"message": "Teacher verification updated"})
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var totalBookings, completedBookings, pendingWithdrawals int64
	var settledRevenue int64

	database.DB.Model(&models.Booking{}).Count(&totalBookings)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingCompleted).Count(&completedBookings)
	database.DB.Model(&models.WithdrawRequest{}).Where("status = ?", models.WithdrawPending).Count(&pendingWithdrawals)
	database.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&settledRevenue)

	return c.JSON(fiber.Map{
		"total_bookings":      totalBookings,
		"completed_bookings":  completedBookings,
		"pending_withdrawals": pendingWithdrawals,
		"settled_revenue":     settledRevenue,
	})
}

// GenerateTransactionReport exports settled payments in a date range as CSV
// for the finance spreadsheet.
func GenerateTransactionReport(c *fiber.Ctx) error {
	startDate, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	endDate, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be YYYY-MM-DD"})
	}

	var payments []models.Payment
	database.DB.
		Where("status = ? AND updated_at BETWEEN ? AND ?", models.PaymentPaid, startDate, endDate.Add(24*time.Hour)).
		Order("updated_at asc").
		Find(&payments)

	var b bytes.Buffer
	w := csv.NewWriter(&b)
	w.Write([]string{"payment_id", "booking_id", "amount", "transaction_id", "settled_at"})
	for _, p := range payments {
		txn := ""
		if p.TransactionID != nil {
			txn = *p.TransactionID
		}
		w.Write([]string{
			p.ID.String(),
			p.BookingID.String(),
			strconv.FormatInt(int64(p.Amount), 10),
			txn,
			p.UpdatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_to_%s.csv\"",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))

	return c.Send(b.Bytes())
}
