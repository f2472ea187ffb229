package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contest-arena/pkg/cache"
	"contest-arena/pkg/ledger"
	"contest-arena/pkg/logger"
	"contest-arena/pkg/models"
	"contest-arena/pkg/queue"
	"contest-arena/services/contest/internal/entity"
	"contest-arena/services/contest/internal/repo/persistent"
)

type ContestUseCase interface {
	CreateContest(ctx context.Context, gameID, title, description, startStr, endStr string, entryFee, prizePool float64) (*models.Contest, error)
	GetContest(ctx context.Context, contestID string) (*models.Contest, error)
	ListActiveContests(ctx context.Context) ([]models.Contest, error)
	JoinContest(ctx context.Context, contestID, userID string) (*entity.JoinResult, error)
	CancelContest(ctx context.Context, contestID string) (*entity.CancelResult, error)
}

type contestUseCase struct {
	contestRepo persistent.ContestRepository
	gameRepo    persistent.GameRepository
	ledger      ledger.Store
	cache       *cache.Cache
	queueClient *queue.Client
	logger      *logger.Logger
	now         func() time.Time
}

func NewContestUseCase(
	contestRepo persistent.ContestRepository,
	gameRepo persistent.GameRepository,
	ledgerStore ledger.Store,
	contestCache *cache.Cache,
	queueClient *queue.Client,
	logger *logger.Logger,
) ContestUseCase {
	return &contestUseCase{
		contestRepo: contestRepo,
		gameRepo:    gameRepo,
		ledger:      ledgerStore,
		cache:       contestCache,
		queueClient: queueClient,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *contestUseCase) CreateContest(ctx context.Context, gameID, title, description, startStr, endStr string, entryFee, prizePool float64) (*models.Contest, error) {
	if _, err := uc.gameRepo.GetByID(ctx, gameID); err != nil {
		return nil, err
	}

	startTime, err := time.Parse(entity.TimeLayout, startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time, expected format %s", entity.TimeLayout)
	}
	endTime, err := time.Parse(entity.TimeLayout, endStr)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time, expected format %s", entity.TimeLayout)
	}

	if !startTime.Before(endTime) {
		return nil, entity.ErrInvalidSchedule
	}
	if entryFee < 0 {
		return nil, entity.ErrInvalidEntryFee
	}
	if prizePool <= 0 {
		return nil, entity.ErrInvalidPrizePool
	}

	existing, err := uc.contestRepo.GetActiveByGame(ctx, gameID)
	if err != nil {
		uc.logger.Error("Failed to load contests for game %s: %v", gameID, err)
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}
	for _, other := range existing {
		if entity.Overlaps(startTime, endTime, other.StartTime, other.EndTime) {
			return nil, entity.ErrScheduleOverlap
		}
	}

	contest := &models.Contest{
		GameID:      gameID,
		Title:       title,
		Description: description,
		StartTime:   startTime,
		EndTime:     endTime,
		EntryFee:    entryFee,
		PrizePool:   prizePool,
		Status:      models.ContestStatusActive,
	}
	if err := uc.contestRepo.Create(ctx, contest); err != nil {
		// The contests_no_overlap exclusion constraint backs the scan
		// above against concurrent creates for the same game.
		if strings.Contains(err.Error(), "contests_no_overlap") {
			return nil, entity.ErrScheduleOverlap
		}
		uc.logger.Error("Failed to create contest: %v", err)
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}

	uc.publishEvent(queue.EventContestCreated, contest.ID)

	return contest, nil
}

func (uc *contestUseCase) GetContest(ctx context.Context, contestID string) (*models.Contest, error) {
	cacheKey := fmt.Sprintf("contest:%s", contestID)
	if uc.cache != nil {
		var cached models.Contest
		if uc.cache.Get(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	contest, err := uc.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, cacheKey, contest)
	}
	return contest, nil
}

func (uc *contestUseCase) ListActiveContests(ctx context.Context) ([]models.Contest, error) {
	contests, err := uc.contestRepo.ListActive(ctx, uc.now())
	if err != nil {
		uc.logger.Error("Failed to list active contests: %v", err)
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}
	return contests, nil
}

// JoinContest takes the entry fee first and registers the participant
// second. If registration fails after money moved, the fee is credited
// back as a refund before the error is returned, so a failed join never
// leaves the user charged.
func (uc *contestUseCase) JoinContest(ctx context.Context, contestID, userID string) (*entity.JoinResult, error) {
	contest, err := uc.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if contest.Status != models.ContestStatusActive {
		return nil, entity.ErrContestNotActive
	}
	if !now.Before(contest.StartTime) {
		return nil, entity.ErrContestStarted
	}

	if contest.EntryFee == 0 {
		if err := uc.contestRepo.AddParticipant(ctx, contestID, userID, 0, now); err != nil {
			return nil, err
		}
		result := &entity.JoinResult{ContestID: contestID, EntryFee: 0}
		balance, err := uc.ledger.Balance(ctx, userID)
		switch {
		case err == nil:
			result.Balance = &balance
		case !errors.Is(err, ledger.ErrWalletNotFound):
			// Balance stays unset rather than reporting a bogus zero.
			uc.logger.Error("Failed to read balance after free join, contest=%s user=%s: %v", contestID, userID, err)
		}
		return result, nil
	}

	txn, err := uc.ledger.Debit(ctx, userID, contest.EntryFee, models.TransactionTypeEntry, contestID, "")
	if err != nil {
		return nil, err
	}

	if err := uc.contestRepo.AddParticipant(ctx, contestID, userID, contest.EntryFee, now); err != nil {
		refundKey := fmt.Sprintf("refund:%s:%s", contestID, userID)
		if _, refundErr := uc.ledger.Credit(ctx, userID, contest.EntryFee, models.TransactionTypeRefund, contestID, refundKey); refundErr != nil {
			uc.logger.Error("CRITICAL: failed to refund entry fee after join failure, contest=%s user=%s: %v", contestID, userID, refundErr)
		}
		return nil, err
	}

	return &entity.JoinResult{
		ContestID: contestID,
		EntryFee:  contest.EntryFee,
		Balance:   &txn.BalanceAfter,
	}, nil
}

// CancelContest refunds every participant and then cancels, all inside
// the registry's contest row lock so no join can land between the
// participant snapshot and the status flip. The first refund failure
// aborts with the refunded and pending user lists and the contest still
// active; a retried cancel resumes, with idempotency keys keeping
// already-issued refunds from paying twice.
func (uc *contestUseCase) CancelContest(ctx context.Context, contestID string) (*entity.CancelResult, error) {
	result := &entity.CancelResult{Refunded: []string{}, Pending: []string{}}
	err := uc.contestRepo.Cancel(ctx, contestID, func(participants []models.ContestParticipant) error {
		for i, p := range participants {
			if p.EntryFee == 0 {
				result.Refunded = append(result.Refunded, p.UserID)
				continue
			}
			refundKey := fmt.Sprintf("refund:%s:%s", contestID, p.UserID)
			if _, err := uc.ledger.Credit(ctx, p.UserID, p.EntryFee, models.TransactionTypeRefund, contestID, refundKey); err != nil {
				uc.logger.Error("Refund failed during cancel, contest=%s user=%s: %v", contestID, p.UserID, err)
				for _, remaining := range participants[i:] {
					result.Pending = append(result.Pending, remaining.UserID)
				}
				return fmt.Errorf("failed to refund participant %s: %w", p.UserID, err)
			}
			result.Refunded = append(result.Refunded, p.UserID)
		}
		return nil
	})
	if err != nil {
		if len(result.Refunded) == 0 && len(result.Pending) == 0 {
			return nil, err
		}
		return result, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, fmt.Sprintf("contest:%s", contestID))
	}

	uc.publishEvent(queue.EventContestCanceled, contestID)

	return result, nil
}

func (uc *contestUseCase) publishEvent(routingKey, contestID string) {
	if uc.queueClient == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"contest_id": contestID,
			"event":      routingKey,
		}
		if err := uc.queueClient.PublishContestEvent(routingKey, payload); err != nil {
			uc.logger.Error("Failed to publish %s event for contest %s: %v", routingKey, contestID, err)
		}
	}()
}
