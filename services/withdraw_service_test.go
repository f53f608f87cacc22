package services

import (
	"context"
	"testing"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestWithdrawAdvisoryCheck(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWithdrawService(db)
	balance := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)
	require.NoError(t, balance.Credit(db, tutor.UserID, 300000))
	ctx := context.Background()

	_, err := svc.Request(ctx, tutorActor(tutor.UserID), 500000, "BCA 123456")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var count int64
	require.NoError(t, db.Model(&models.WithdrawRequest{}).Count(&count).Error)
	assert.Zero(t, count, "an over-balance request must not be filed")

	request, err := svc.Request(ctx, tutorActor(tutor.UserID), 200000, "BCA 123456")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawPending, request.Status)
	assert.False(t, request.RequestedAt.IsZero())
	assert.Nil(t, request.ProcessedAt)

	// filing a request reserves nothing
	available, _ := tutorBalance(t, db, tutor.UserID)
	assert.EqualValues(t, 300000, available)
}

func TestRequestWithdrawGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWithdrawService(db)
	tutor := seedTutor(t, db, 100000)
	ctx := context.Background()

	_, err := svc.Request(ctx, studentActor(tutor.UserID), 1000, "")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Request(ctx, tutorActor(tutor.UserID), 0, "")
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestApproveDebitsExactAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWithdrawService(db)
	balance := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)
	require.NoError(t, balance.Credit(db, tutor.UserID, 300000))
	ctx := context.Background()

	request, err := svc.Request(ctx, tutorActor(tutor.UserID), 200000, "BCA 123456")
	require.NoError(t, err)

	request, err = svc.Approve(ctx, adminActor(), request.ID, "transfer scheduled")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawApproved, request.Status)
	require.NotNil(t, request.ProcessedAt)
	require.NotNil(t, request.AdminNotes)

	available, total := tutorBalance(t, db, tutor.UserID)
	assert.EqualValues(t, 100000, available)
	assert.EqualValues(t, 300000, total, "withdrawals never reduce lifetime earnings")
}

// Two pending requests both pass the advisory check; once the first is
// approved the balance can no longer cover the second, so its approval must
// fail and leave it pending.
func TestApproveRevalidatesBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWithdrawService(db)
	balance := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)
	require.NoError(t, balance.Credit(db, tutor.UserID, 300000))
	ctx := context.Background()

	first, err := svc.Request(ctx, tutorActor(tutor.UserID), 200000, "BCA 123456")
	require.NoError(t, err)
	second, err := svc.Request(ctx, tutorActor(tutor.UserID), 200000, "BCA 123456")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, adminActor(), first.ID, "")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, adminActor(), second.ID, "")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var reloaded models.WithdrawRequest
	require.NoError(t, db.First(&reloaded, "id = ?", second.ID).Error)
	assert.Equal(t, models.WithdrawPending, reloaded.Status, "failed approval must leave the request pending")
	assert.Nil(t, reloaded.ProcessedAt)

	available, _ := tutorBalance(t, db, tutor.UserID)
	assert.EqualValues(t, 100000, available)
}

func TestRejectLeavesBalanceAlone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWithdrawService(db)
	balance := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)
	require.NoError(t, balance.Credit(db, tutor.UserID, 300000))
	ctx := context.Background()

	request, err := svc.Request(ctx, tutorActor(tutor.UserID), 200000, "")
	require.NoError(t, err)

	request, err = svc.Reject(ctx, adminActor(), request.ID, "bank account mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawRejected, request.Status)
	require.NotNil(t, request.ProcessedAt)

	available, _ := tutorBalance(t, db, tutor.UserID)
	assert.EqualValues(t, 300000, available)

	// rejected is terminal
	_, err = svc.Approve(ctx, adminActor(), request.ID, "")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteOnlyFromApproved(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWithdrawService(db)
	balance := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)
	require.NoError(t, balance.Credit(db, tutor.UserID, 300000))
	ctx := context.Background()

	request, err := svc.Request(ctx, tutorActor(tutor.UserID), 100000, "")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, adminActor(), request.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Approve(ctx, adminActor(), request.ID, "")
	require.NoError(t, err)

	request, err = svc.Complete(ctx, adminActor(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawCompleted, request.Status)

	// completion has no further balance effect
	available, _ := tutorBalance(t, db, tutor.UserID)
	assert.EqualValues(t, 200000, available)

	_, err = svc.Complete(ctx, adminActor(), request.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOnlyAdminsProcessRequests(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWithdrawService(db)
	balance := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)
	require.NoError(t, balance.Credit(db, tutor.UserID, 100000))
	ctx := context.Background()

	request, err := svc.Request(ctx, tutorActor(tutor.UserID), 50000, "")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, tutorActor(tutor.UserID), request.ID, "")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Reject(ctx, tutorActor(tutor.UserID), request.ID, "")
	require.ErrorIs(t, err, ErrUnauthorized)
}
