package handlers

import (
	"github.com/dwisetyo88/bimbel_online/database"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/gofiber/fiber/v2"
)

// ListTeachers backs the public teacher-discovery pages. Only verified
// tutors are shown.
func ListTeachers(c *fiber.Ctx) error {
	var teachers []models.Teacher
	query := database.DB.Preload("User").Where("is_verified = ?", true)

	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subjects LIKE ?", "%"+subject+"%")
	}

	query.Find(&teachers)
	return c.JSON(teachers)
}
