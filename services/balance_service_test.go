package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreditAndDebit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)

	require.NoError(t, svc.Credit(db, tutor.UserID, 300000))
	available, total, err := svc.Balance(context.Background(), tutor.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 300000, available)
	assert.EqualValues(t, 300000, total)

	require.NoError(t, svc.Debit(db, tutor.UserID, 100000))
	available, total, err = svc.Balance(context.Background(), tutor.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 200000, available)
	assert.EqualValues(t, 300000, total, "debits must not touch lifetime earnings")
}

func TestDebitInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)

	require.NoError(t, svc.Credit(db, tutor.UserID, 50000))

	err := svc.Debit(db, tutor.UserID, 50001)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	available, _ := tutorBalance(t, db, tutor.UserID)
	assert.EqualValues(t, 50000, available)
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)

	require.ErrorIs(t, svc.Credit(db, tutor.UserID, 0), ledger.ErrInvalidAmount)
	require.ErrorIs(t, svc.Credit(db, tutor.UserID, -100), ledger.ErrInvalidAmount)
	require.ErrorIs(t, svc.Debit(db, tutor.UserID, 0), ledger.ErrInvalidAmount)
	require.ErrorIs(t, svc.Debit(db, tutor.UserID, -100), ledger.ErrInvalidAmount)
}

func TestUnknownTutor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBalanceService(db)

	require.ErrorIs(t, svc.Credit(db, uuid.New(), 1000), ErrNotFound)
	require.ErrorIs(t, svc.Debit(db, uuid.New(), 1000), ErrNotFound)
	_, _, err := svc.Balance(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVersionAdvancesOnEveryWrite(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)

	require.NoError(t, svc.Credit(db, tutor.UserID, 1000))
	require.NoError(t, svc.Debit(db, tutor.UserID, 400))

	var teacher models.Teacher
	require.NoError(t, db.First(&teacher, "user_id = ?", tutor.UserID).Error)
	assert.EqualValues(t, 2, teacher.Version)
}

// shiftVersionAfterRead registers a query callback that bumps the tutor's
// version row right after it is read, so the conditional update that follows
// sees a stale version. keepGoing controls whether the interference repeats
// on every read or stops after the first.
func shiftVersionAfterRead(t *testing.T, db *gorm.DB, tutorID uuid.UUID, keepGoing bool) (reads *int, stop func()) {
	t.Helper()
	count := 0
	active := true
	err := db.Callback().Query().After("gorm:query").Register("shift_version", func(tx *gorm.DB) {
		if !active || tx.Statement.Table != "teachers" {
			return
		}
		if !keepGoing && count >= 1 {
			return
		}
		count++
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE teachers SET version = version + 1 WHERE user_id = ?", tutorID)
	})
	require.NoError(t, err)
	return &count, func() { active = false }
}

func TestCreditRetriesAfterVersionMiss(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)

	misses, stop := shiftVersionAfterRead(t, db, tutor.UserID, false)

	require.NoError(t, svc.Credit(db, tutor.UserID, 150000))
	stop()
	assert.Equal(t, 1, *misses, "the first attempt must lose the version race exactly once")

	available, total := tutorBalance(t, db, tutor.UserID)
	assert.EqualValues(t, 150000, available, "the credit must land on the retry")
	assert.EqualValues(t, 150000, total)
}

func TestCreditConflictWhenVersionKeepsMoving(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)

	attempts, stop := shiftVersionAfterRead(t, db, tutor.UserID, true)

	err := svc.Credit(db, tutor.UserID, 150000)
	stop()
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, balanceRetries, *attempts, "retries must stop once the budget is spent")

	available, total := tutorBalance(t, db, tutor.UserID)
	assert.Zero(t, available, "an exhausted credit must leave no partial write")
	assert.Zero(t, total)
}

func TestParallelCreditsBothLand(t *testing.T) {
	db := setupTestDB(t)
	// a single connection keeps the in-memory database free of write-lock
	// errors while the two credits still interleave statement by statement
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	svc := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)

	amounts := []ledger.Money{200000, 300000}
	errs := make([]error, len(amounts))
	var wg sync.WaitGroup
	for i, amount := range amounts {
		wg.Add(1)
		go func(i int, amount ledger.Money) {
			defer wg.Done()
			errs[i] = svc.Credit(db, tutor.UserID, amount)
		}(i, amount)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	available, total := tutorBalance(t, db, tutor.UserID)
	assert.EqualValues(t, 500000, available, "neither credit may overwrite the other")
	assert.EqualValues(t, 500000, total)
}

// Random walks of credits and debits against a shadow balance. Whatever the
// interleaving, the stored balance must track the shadow and never go
// negative.
func TestBalanceNeverNegative(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBalanceService(db)
	tutor := seedTutor(t, db, 100000)
	rng := rand.New(rand.NewSource(7))

	var shadow ledger.Money
	for i := 0; i < 300; i++ {
		amount := ledger.Money(rng.Int63n(100000) + 1)
		if rng.Intn(2) == 0 {
			require.NoError(t, svc.Credit(db, tutor.UserID, amount))
			shadow += amount
		} else {
			err := svc.Debit(db, tutor.UserID, amount)
			if amount > shadow {
				require.ErrorIs(t, err, ErrInsufficientBalance)
			} else {
				require.NoError(t, err)
				shadow -= amount
			}
		}

		available, _ := tutorBalance(t, db, tutor.UserID)
		require.GreaterOrEqual(t, available, ledger.Money(0))
		require.Equal(t, shadow, available)
	}
}
