package handlers

import (
	"fmt"

	"github.com/dwisetyo88/bimbel_online/database"
	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/dwisetyo88/bimbel_online/notifications"
	"github.com/dwisetyo88/bimbel_online/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WithdrawRequestBody struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	BankAccount string `json:"bank_account" validate:"required"`
}

func RequestWithdraw(c *fiber.Ctx) error {
	var req WithdrawRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.NewWithdrawService(database.DB).
		Request(c.Context(), currentActor(c), ledger.Money(req.Amount), req.BankAccount)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

func GetMyWithdrawRequests(c *fiber.Ctx) error {
	actor := currentActor(c)

	var requests []models.WithdrawRequest
	database.DB.
		Where("tutor_id = ?", actor.UserID).
		Order("requested_at desc").
		Find(&requests)

	return c.JSON(requests)
}

func GetMyEarnings(c *fiber.Ctx) error {
	actor := currentActor(c)

	available, total, err := services.NewBalanceService(database.DB).Balance(c.Context(), actor.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	var pendingWithdrawals int64
	database.DB.Model(&models.WithdrawRequest{}).
		Where("tutor_id = ? AND status = ?", actor.UserID, models.WithdrawPending).
		Count(&pendingWithdrawals)

	return c.JSON(fiber.Map{
		"available_balance":   available,
		"total_earnings":      total,
		"pending_withdrawals": pendingWithdrawals,
	})
}

func ListWithdrawRequests(c *fiber.Ctx) error {
	status := c.Query("status", models.WithdrawPending)

	var requests []models.WithdrawRequest
	database.DB.
		Where("status = ?", status).
		Order("requested_at asc").
		Find(&requests)

	return c.JSON(requests)
}

type ProcessWithdrawRequestBody struct {
	Decision   string `json:"decision" validate:"required,oneof=approve reject complete"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

func ProcessWithdrawRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID format"})
	}

	var req ProcessWithdrawRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svc := services.NewWithdrawService(database.DB)
	actor := currentActor(c)

	var request *models.WithdrawRequest
	switch req.Decision {
	case "approve":
		request, err = svc.Approve(c.Context(), actor, requestID, req.AdminNotes)
	case "reject":
		request, err = svc.Reject(c.Context(), actor, requestID, req.AdminNotes)
	case "complete":
		request, err = svc.Complete(c.Context(), actor, requestID)
	}
	if err != nil {
		return serviceError(c, err)
	}

	go notifyWithdrawDecision(request)

	return c.JSON(request)
}

func notifyWithdrawDecision(request *models.WithdrawRequest) {
	var tutor models.User
	if err := database.DB.First(&tutor, "id = ?", request.TutorID).Error; err != nil {
		return
	}

	amount := notifications.FormatRupiah(int64(request.Amount))
	switch request.Status {
	case models.WithdrawApproved:
		notifications.SendEmail(tutor.FullName, tutor.Email,
			"Penarikan Dana Disetujui",
			fmt.Sprintf("<h1>Penarikan Disetujui</h1><p>Permintaan penarikan sebesar %s telah disetujui dan sedang diproses.</p>", amount))
	case models.WithdrawRejected:
		notes := ""
		if request.AdminNotes != nil {
			notes = *request.AdminNotes
		}
		notifications.SendEmail(tutor.FullName, tutor.Email,
			"Penarikan Dana Ditolak",
			fmt.Sprintf("<h1>Penarikan Ditolak</h1><p>Permintaan penarikan sebesar %s ditolak.</p><p><b>Catatan admin:</b> %s</p>", amount, notes))
	case models.WithdrawCompleted:
		notifications.SendEmail(tutor.FullName, tutor.Email,
			"Dana Telah Ditransfer",
			fmt.Sprintf("<h1>Transfer Selesai</h1><p>Dana sebesar %s telah dikirim ke rekening Anda.</p>", amount))
	}
}
