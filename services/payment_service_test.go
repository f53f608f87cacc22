package services

import (
	"context"
	"testing"

	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPaidIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	ctx := context.Background()

	payment := models.Payment{BookingID: uuid.New(), ParentID: uuid.New(), Amount: 200000, Status: models.PaymentPending}
	require.NoError(t, db.Create(&payment).Error)

	txn := "TRX-777"
	updated, err := svc.MarkPaid(ctx, payment.ID, &txn)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.Status)
	require.NotNil(t, updated.TransactionID)
	assert.Equal(t, "TRX-777", *updated.TransactionID)

	other := "TRX-888"
	updated, err = svc.MarkPaid(ctx, payment.ID, &other)
	require.NoError(t, err, "marking an already-paid payment paid again is a no-op")
	assert.Equal(t, models.PaymentPaid, updated.Status)
	assert.Equal(t, "TRX-777", *updated.TransactionID, "the original settlement reference must survive retries")
}

func TestMarkFailedThenRetryToPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	ctx := context.Background()

	payment := models.Payment{BookingID: uuid.New(), ParentID: uuid.New(), Amount: 150000, Status: models.PaymentPending}
	require.NoError(t, db.Create(&payment).Error)

	updated, err := svc.MarkFailed(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, updated.Status)

	// a failed charge can still settle on a later gateway retry
	updated, err = svc.MarkPaid(ctx, payment.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.Status)
}

func TestMarkRefundedOnlyFromPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	ctx := context.Background()

	payment := models.Payment{BookingID: uuid.New(), ParentID: uuid.New(), Amount: 150000, Status: models.PaymentPending}
	require.NoError(t, db.Create(&payment).Error)

	_, err := svc.MarkRefunded(ctx, payment.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.MarkPaid(ctx, payment.ID, nil)
	require.NoError(t, err)

	updated, err := svc.MarkRefunded(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, updated.Status)

	// refunded is terminal
	_, err = svc.MarkPaid(ctx, payment.ID, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.MarkFailed(ctx, payment.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkPaymentNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)

	_, err := svc.MarkPaid(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, ErrNotFound)
}
