package usecase

import (
	"context"
	"fmt"

	"contest-arena/pkg/ledger"
	"contest-arena/pkg/logger"
	"contest-arena/pkg/models"
)

type WalletUseCase interface {
	AddFunds(ctx context.Context, userID string, amount float64, idempotencyKey string) (*models.Transaction, error)
	DeductFunds(ctx context.Context, userID string, amount float64, idempotencyKey string) (*models.Transaction, error)
	GetBalance(ctx context.Context, userID string) (float64, error)
	GetHistory(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
}

type walletUseCase struct {
	ledger ledger.Store
	logger *logger.Logger
}

func NewWalletUseCase(ledgerStore ledger.Store, logger *logger.Logger) WalletUseCase {
	return &walletUseCase{
		ledger: ledgerStore,
		logger: logger,
	}
}

func (uc *walletUseCase) AddFunds(ctx context.Context, userID string, amount float64, idempotencyKey string) (*models.Transaction, error) {
	txn, err := uc.ledger.Credit(ctx, userID, amount, models.TransactionTypeDeposit, "", idempotencyKey)
	if err != nil {
		uc.logger.Error("Failed to add funds for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to add funds: %w", err)
	}
	return txn, nil
}

func (uc *walletUseCase) DeductFunds(ctx context.Context, userID string, amount float64, idempotencyKey string) (*models.Transaction, error) {
	txn, err := uc.ledger.Debit(ctx, userID, amount, models.TransactionTypeWithdrawal, "", idempotencyKey)
	if err != nil {
		uc.logger.Error("Failed to deduct funds for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to deduct funds: %w", err)
	}
	return txn, nil
}

func (uc *walletUseCase) GetBalance(ctx context.Context, userID string) (float64, error) {
	balance, err := uc.ledger.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (uc *walletUseCase) GetHistory(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	transactions, err := uc.ledger.History(ctx, userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get transactions for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}
