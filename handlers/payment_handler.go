package handlers

import (
	"log"

	"github.com/dwisetyo88/bimbel_online/database"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/dwisetyo88/bimbel_online/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GatewayWebhookPayload is the shape the payment gateway posts back after a
// charge attempt. ResultCode 0 means the charge settled.
type GatewayWebhookPayload struct {
	PaymentID     string `json:"payment_id"`
	ResultCode    int    `json:"result_code"`
	ResultDesc    string `json:"result_desc"`
	TransactionID string `json:"transaction_id"`
}

func HandlePaymentWebhook(c *fiber.Ctx) error {
	var payload GatewayWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	paymentID, err := uuid.Parse(payload.PaymentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment reference"})
	}

	log.Printf("Received payment webhook for %s, result code %d", payload.PaymentID, payload.ResultCode)

	svc := services.NewPaymentService(database.DB)
	if payload.ResultCode != 0 {
		if _, err := svc.MarkFailed(c.Context(), paymentID); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Acknowledged failed payment"})
	}

	var txnID *string
	if payload.TransactionID != "" {
		txnID = &payload.TransactionID
	}
	if _, err := svc.MarkPaid(c.Context(), paymentID, txnID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Webhook processed successfully"})
}

type UpdatePaymentStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=paid failed refunded"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// AdminUpdatePaymentStatus lets an admin settle, fail or refund a payment by
// hand, e.g. after verifying a manual bank transfer.
func AdminUpdatePaymentStatus(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	var req UpdatePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svc := services.NewPaymentService(database.DB)

	var payment *models.Payment
	switch req.Status {
	case models.PaymentPaid:
		var txnID *string
		if req.TransactionID != "" {
			txnID = &req.TransactionID
		}
		payment, err = svc.MarkPaid(c.Context(), paymentID, txnID)
	case models.PaymentFailed:
		payment, err = svc.MarkFailed(c.Context(), paymentID)
	case models.PaymentRefunded:
		payment, err = svc.MarkRefunded(c.Context(), paymentID)
	}
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(payment)
}

func AdminGetPayments(c *fiber.Ctx) error {
	var payments []models.Payment
	query := database.DB.Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Find(&payments)

	return c.JSON(payments)
}
