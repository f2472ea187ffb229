package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeEntry      TransactionType = "contest_entry"
	TransactionTypeWinnings   TransactionType = "contest_winnings"
	TransactionTypeRefund     TransactionType = "refund"
)

type Wallet struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Balance   float64   `gorm:"default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction rows are append-only; nothing updates them after creation.
type Transaction struct {
	ID             string          `gorm:"type:uuid;primary_key" json:"id"`
	UserID         string          `gorm:"type:uuid;not null;index" json:"user_id"`
	ContestID      *string         `gorm:"type:uuid;index" json:"contest_id,omitempty"`
	Type           TransactionType `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount         float64         `gorm:"not null" json:"amount"`
	BalanceBefore  float64         `json:"balance_before"`
	BalanceAfter   float64         `json:"balance_after"`
	IdempotencyKey *string         `gorm:"uniqueIndex" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
