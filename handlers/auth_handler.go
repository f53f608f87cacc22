package handlers

import (
	"time"

	config "github.com/dwisetyo88/bimbel_online/configs"
	"github.com/dwisetyo88/bimbel_online/database"
	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student parent teacher"`

	// student fields
	EducationLevel string `json:"education_level,omitempty" validate:"omitempty,oneof=sd smp sma kuliah"`

	// teacher fields, ignored for other roles
	Subjects   string `json:"subjects,omitempty"`
	HourlyRate int64  `json:"hourly_rate,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Role == models.RoleTeacher && (req.Subjects == "" || req.HourlyRate <= 0) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Teachers must provide subjects and a positive hourly rate"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var newUser models.User
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		newUser = models.User{
			FullName: req.FullName,
			Email:    req.Email,
			Password: string(hashedPassword),
			Role:     req.Role,
		}
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}

		switch req.Role {
		case models.RoleTeacher:
			teacher := models.Teacher{
				UserID:     newUser.ID,
				Subjects:   req.Subjects,
				HourlyRate: ledger.Money(req.HourlyRate),
			}
			return tx.Create(&teacher).Error
		case models.RoleStudent:
			level := req.EducationLevel
			if level == "" {
				level = models.LevelSMA
			}
			student := models.Student{UserID: newUser.ID, EducationLevel: level}
			return tx.Create(&student).Error
		case models.RoleParent:
			parent := models.Parent{UserID: newUser.ID}
			return tx.Create(&parent).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not create account, the email may already be in use"})
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        newUser.ID.String(),
		FullName:  newUser.FullName,
		Email:     newUser.Email,
		Role:      newUser.Role,
		CreatedAt: newUser.CreatedAt,
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This account has been deactivated"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t})
}
