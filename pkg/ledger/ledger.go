// Package ledger is the single write path for money. Every balance change
// in the system goes through Credit or Debit, which atomically update the
// wallet row and append a transaction row inside one database transaction
// with the wallet row locked FOR UPDATE.
package ledger

import (
	"context"
	"errors"
	"time"

	"contest-arena/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDailyLimitExceeded = errors.New("daily limit exceeded")
	ErrInvalidAmount      = errors.New("amount must be positive")
)

// Store is the append-only money ledger.
type Store interface {
	// Credit adds funds to the user's wallet, creating the wallet on first
	// credit. ContestID and idempotencyKey may be empty.
	Credit(ctx context.Context, userID string, amount float64, txType models.TransactionType, contestID, idempotencyKey string) (*models.Transaction, error)
	// Debit removes funds from the user's wallet. It fails with
	// ErrInsufficientFunds rather than letting the balance go negative and
	// never creates a wallet.
	Debit(ctx context.Context, userID string, amount float64, txType models.TransactionType, contestID, idempotencyKey string) (*models.Transaction, error)
	// Balance returns the current wallet balance.
	Balance(ctx context.Context, userID string) (float64, error)
	// History returns the user's transactions, newest first.
	History(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
}

// Limits caps the amount a single user can move per UTC day, per direction.
// A zero value for either field disables that cap.
type Limits struct {
	MaxDailyDeposit    float64
	MaxDailyWithdrawal float64
}

type store struct {
	db     *gorm.DB
	limits Limits
	now    func() time.Time
}

func NewStore(db *gorm.DB, limits Limits) Store {
	return &store{
		db:     db,
		limits: limits,
		now:    time.Now,
	}
}

func (s *store) Credit(ctx context.Context, userID string, amount float64, txType models.TransactionType, contestID, idempotencyKey string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var result *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if idempotencyKey != "" {
			if existing, err := findByIdempotencyKey(tx, idempotencyKey); err != nil {
				return err
			} else if existing != nil {
				result = existing
				return nil
			}
		}

		var wallet models.Wallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&wallet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First credit creates the wallet
			wallet = models.Wallet{UserID: userID, Balance: 0}
			if err := tx.Create(&wallet).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if txType == models.TransactionTypeDeposit && s.limits.MaxDailyDeposit > 0 {
			total, err := s.dailyTotal(tx, userID, models.TransactionTypeDeposit)
			if err != nil {
				return err
			}
			if total+amount > s.limits.MaxDailyDeposit {
				return ErrDailyLimitExceeded
			}
		}

		balanceBefore := wallet.Balance
		wallet.Balance += amount
		if err := tx.Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		txn := newTransaction(userID, amount, txType, contestID, idempotencyKey, balanceBefore, wallet.Balance)
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		result = txn
		return nil
	})
	if err != nil {
		if replay := s.replayAfterConflict(ctx, idempotencyKey, err); replay != nil {
			return replay, nil
		}
		return nil, err
	}
	return result, nil
}

func (s *store) Debit(ctx context.Context, userID string, amount float64, txType models.TransactionType, contestID, idempotencyKey string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var result *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if idempotencyKey != "" {
			if existing, err := findByIdempotencyKey(tx, idempotencyKey); err != nil {
				return err
			} else if existing != nil {
				result = existing
				return nil
			}
		}

		var wallet models.Wallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&wallet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWalletNotFound
		}
		if err != nil {
			return err
		}

		if wallet.Balance < amount {
			return ErrInsufficientFunds
		}

		if txType == models.TransactionTypeWithdrawal && s.limits.MaxDailyWithdrawal > 0 {
			total, err := s.dailyTotal(tx, userID, models.TransactionTypeWithdrawal)
			if err != nil {
				return err
			}
			if total+amount > s.limits.MaxDailyWithdrawal {
				return ErrDailyLimitExceeded
			}
		}

		balanceBefore := wallet.Balance
		wallet.Balance -= amount
		if err := tx.Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		txn := newTransaction(userID, amount, txType, contestID, idempotencyKey, balanceBefore, wallet.Balance)
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		result = txn
		return nil
	})
	if err != nil {
		if replay := s.replayAfterConflict(ctx, idempotencyKey, err); replay != nil {
			return replay, nil
		}
		return nil, err
	}
	return result, nil
}

func (s *store) Balance(ctx context.Context, userID string) (float64, error) {
	var wallet models.Wallet
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrWalletNotFound
	}
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *store) History(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// dailyTotal sums the amounts of the given transaction type for the current
// UTC day. Runs inside the caller's transaction so the cap check is
// serialized behind the wallet row lock.
func (s *store) dailyTotal(tx *gorm.DB, userID string, txType models.TransactionType) (float64, error) {
	dayStart := s.now().UTC().Truncate(24 * time.Hour)

	var total float64
	err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND created_at >= ?", userID, txType, dayStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// replayAfterConflict resolves the race where two requests carrying the
// same idempotency key both pass the lookup and one loses the unique
// index on insert: the loser re-reads the recorded transaction instead
// of surfacing the constraint error. A duplicate from any other unique
// index returns nil and the original error stands.
func (s *store) replayAfterConflict(ctx context.Context, idempotencyKey string, err error) *models.Transaction {
	if idempotencyKey == "" || !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	existing, lookupErr := findByIdempotencyKey(s.db.WithContext(ctx), idempotencyKey)
	if lookupErr != nil {
		return nil
	}
	return existing
}

func findByIdempotencyKey(tx *gorm.DB, key string) (*models.Transaction, error) {
	var existing models.Transaction
	err := tx.Where("idempotency_key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func newTransaction(userID string, amount float64, txType models.TransactionType, contestID, idempotencyKey string, balanceBefore, balanceAfter float64) *models.Transaction {
	txn := &models.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
	}
	if contestID != "" {
		txn.ContestID = &contestID
	}
	if idempotencyKey != "" {
		txn.IdempotencyKey = &idempotencyKey
	}
	return txn
}
