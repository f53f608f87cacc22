package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/dwisetyo88/bimbel_online/database"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/dwisetyo88/bimbel_online/notifications"
)

// SendSessionReminders emails both sides of every confirmed booking that
// starts within the next 24 hours. Runs hourly; the window below matches
// the schedule so a booking is reminded once.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(23 * time.Hour)
	upperBound := now.Add(24 * time.Hour)

	var upcoming []models.Booking
	err := database.DB.
		Where("status = ? AND booking_date BETWEEN ? AND ?", models.BookingConfirmed, lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	for _, booking := range upcoming {
		var student, tutor models.User
		if err := database.DB.First(&student, "id = ?", booking.StudentID).Error; err != nil {
			continue
		}
		if err := database.DB.First(&tutor, "id = ?", booking.TutorID).Error; err != nil {
			continue
		}

		subject := "Pengingat: Sesi Belajar Besok"
		body := fmt.Sprintf(
			"<h1>Pengingat Sesi</h1><p>Sesi %s dijadwalkan pada %s.</p>",
			booking.Subject, booking.BookingDate.Format("02 Jan 2006 15:04"),
		)

		go notifications.SendEmail(student.FullName, student.Email, subject, body)
		go notifications.SendEmail(tutor.FullName, tutor.Email, subject, body)
	}
}
