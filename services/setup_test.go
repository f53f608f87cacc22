package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to open sqlite db")

	err = db.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Student{},
		&models.Parent{},
		&models.Booking{},
		&models.Payment{},
		&models.WithdrawRequest{},
	)
	require.NoError(t, err, "failed to migrate db")
	return db
}

func seedTutor(t *testing.T, db *gorm.DB, rate ledger.Money) *models.Teacher {
	t.Helper()
	user := models.User{
		FullName: "Pak Budi Santoso",
		Email:    fmt.Sprintf("tutor-%s@bimbel.test", uuid.NewString()),
		Password: "not-a-real-hash",
		Role:     models.RoleTeacher,
	}
	require.NoError(t, db.Create(&user).Error)

	teacher := models.Teacher{
		UserID:     user.ID,
		Subjects:   "matematika,fisika",
		HourlyRate: rate,
		IsVerified: true,
	}
	require.NoError(t, db.Create(&teacher).Error)
	return &teacher
}

func futureDate() time.Time {
	return time.Now().Add(48 * time.Hour)
}

func paymentForBooking(t *testing.T, db *gorm.DB, bookingID uuid.UUID) *models.Payment {
	t.Helper()
	var payment models.Payment
	require.NoError(t, db.First(&payment, "booking_id = ?", bookingID).Error)
	return &payment
}

func tutorBalance(t *testing.T, db *gorm.DB, tutorID uuid.UUID) (available, total ledger.Money) {
	t.Helper()
	var teacher models.Teacher
	require.NoError(t, db.First(&teacher, "user_id = ?", tutorID).Error)
	return teacher.AvailableBalance, teacher.TotalEarnings
}
