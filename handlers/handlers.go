package handlers

import (
	"errors"
	"log"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/dwisetyo88/bimbel_online/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var validate = validator.New()

// currentActor rebuilds the acting identity from the JWT the Protected
// middleware verified.
func currentActor(c *fiber.Ctx) services.Actor {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	userID, _ := uuid.Parse(claims["user_id"].(string))
	role, _ := claims["role"].(string)
	return services.Actor{UserID: userID, Role: role}
}

// serviceError maps the service error taxonomy onto HTTP statuses. Unknown
// errors are storage failures: logged and surfaced as 500, never retried
// here.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "temporary conflict, please retry"})
	default:
		log.Printf("🔥 Unexpected service error: %v | Path: %s", err, c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
