package ledger

import (
	"context"
	"errors"
	"testing"

	"contest-arena/pkg/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCredit_RejectsNonPositiveAmount(t *testing.T) {
	s := &store{}

	_, err := s.Credit(context.Background(), "user-1", 0, models.TransactionTypeDeposit, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.Credit(context.Background(), "user-1", -50, models.TransactionTypeDeposit, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDebit_RejectsNonPositiveAmount(t *testing.T) {
	s := &store{}

	_, err := s.Debit(context.Background(), "user-1", 0, models.TransactionTypeWithdrawal, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.Debit(context.Background(), "user-1", -1, models.TransactionTypeWithdrawal, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestReplayAfterConflict_OnlyForKeyedDuplicates(t *testing.T) {
	s := &store{}

	// Without an idempotency key there is nothing to replay; the
	// duplicate came from some other unique index.
	assert.Nil(t, s.replayAfterConflict(context.Background(), "", gorm.ErrDuplicatedKey))

	// A non-duplicate error is never replayed, keyed or not.
	assert.Nil(t, s.replayAfterConflict(context.Background(), "deposit:user-1:req-9", errors.New("connection reset")))
}

func TestNewTransaction_SetsOptionalFields(t *testing.T) {
	txn := newTransaction("user-1", 25, models.TransactionTypeEntry, "contest-1", "entry:contest-1:user-1", 100, 75)

	assert.Equal(t, "user-1", txn.UserID)
	assert.Equal(t, models.TransactionTypeEntry, txn.Type)
	assert.Equal(t, 25.0, txn.Amount)
	assert.Equal(t, 100.0, txn.BalanceBefore)
	assert.Equal(t, 75.0, txn.BalanceAfter)
	if assert.NotNil(t, txn.ContestID) {
		assert.Equal(t, "contest-1", *txn.ContestID)
	}
	if assert.NotNil(t, txn.IdempotencyKey) {
		assert.Equal(t, "entry:contest-1:user-1", *txn.IdempotencyKey)
	}
}

func TestNewTransaction_OmitsEmptyOptionalFields(t *testing.T) {
	txn := newTransaction("user-1", 100, models.TransactionTypeDeposit, "", "", 0, 100)

	assert.Nil(t, txn.ContestID)
	assert.Nil(t, txn.IdempotencyKey)
}
