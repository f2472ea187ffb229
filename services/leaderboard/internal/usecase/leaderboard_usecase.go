package usecase

import (
	"context"
	"fmt"
	"time"

	"contest-arena/pkg/cache"
	"contest-arena/pkg/ledger"
	"contest-arena/pkg/logger"
	"contest-arena/pkg/models"
	"contest-arena/pkg/queue"
	"contest-arena/services/leaderboard/internal/entity"
	"contest-arena/services/leaderboard/internal/repo/persistent"
)

type LeaderboardUseCase interface {
	UpdateEntry(ctx context.Context, contestID, userID, username string, score float64) error
	GetLeaderboard(ctx context.Context, contestID string) ([]entity.RankedEntry, error)
	Complete(ctx context.Context, contestID string) (*entity.SettlementResult, error)
	GetHistoricalLeaderboard(ctx context.Context, contestID string) (*entity.SettlementResult, error)
}

type leaderboardUseCase struct {
	liveRepo    persistent.LiveRepository
	archiveRepo persistent.ArchiveRepository
	contestRepo persistent.ContestRepository
	ledger      ledger.Store
	cache       *cache.Cache
	queueClient *queue.Client
	logger      *logger.Logger
	now         func() time.Time
}

func NewLeaderboardUseCase(
	liveRepo persistent.LiveRepository,
	archiveRepo persistent.ArchiveRepository,
	contestRepo persistent.ContestRepository,
	ledgerStore ledger.Store,
	contestCache *cache.Cache,
	queueClient *queue.Client,
	logger *logger.Logger,
) LeaderboardUseCase {
	return &leaderboardUseCase{
		liveRepo:    liveRepo,
		archiveRepo: archiveRepo,
		contestRepo: contestRepo,
		ledger:      ledgerStore,
		cache:       contestCache,
		queueClient: queueClient,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *leaderboardUseCase) UpdateEntry(ctx context.Context, contestID, userID, username string, score float64) error {
	if score < 0 {
		return entity.ErrInvalidScore
	}

	contest, err := uc.getContest(ctx, contestID)
	if err != nil {
		return err
	}
	if contest.Status != models.ContestStatusActive {
		return entity.ErrContestNotActive
	}

	entry := entity.Entry{UserID: userID, Username: username, Score: score}
	if err := uc.liveRepo.SetEntry(ctx, contestID, entry); err != nil {
		uc.logger.Error("Failed to write leaderboard entry, contest=%s user=%s: %v", contestID, userID, err)
		return fmt.Errorf("failed to update leaderboard: %w", err)
	}
	return nil
}

func (uc *leaderboardUseCase) GetLeaderboard(ctx context.Context, contestID string) ([]entity.RankedEntry, error) {
	if _, err := uc.getContest(ctx, contestID); err != nil {
		return nil, err
	}

	entries, err := uc.liveRepo.GetEntries(ctx, contestID)
	if err != nil {
		uc.logger.Error("Failed to read leaderboard for contest %s: %v", contestID, err)
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return Rank(entries), nil
}

// Complete settles a contest: snapshot the live board, pay the rank-1
// holders their equal split of the prize pool, archive the ranked list,
// mark the contest completed and drop the live board. The whole money
// movement runs inside the registry's contest row lock, so it cannot
// interleave with a concurrent cancel refunding the same contest. Any
// failure before the status flip leaves the contest active for a retry;
// idempotency keys on the credits and an upserting archive keep the
// retry from paying twice or tripping over the first attempt's rows.
func (uc *leaderboardUseCase) Complete(ctx context.Context, contestID string) (*entity.SettlementResult, error) {
	var result *entity.SettlementResult
	err := uc.contestRepo.Complete(ctx, contestID, func(contest *models.Contest) error {
		if contest.PrizePool <= 0 {
			return entity.ErrInvalidPrizePool
		}

		entries, err := uc.liveRepo.GetEntries(ctx, contestID)
		if err != nil {
			uc.logger.Error("Failed to snapshot leaderboard for contest %s: %v", contestID, err)
			return fmt.Errorf("failed to settle contest: %w", err)
		}
		if len(entries) == 0 {
			return entity.ErrNoLeaderboardData
		}

		ranked := Rank(entries)
		winners := Winners(ranked)
		shares := SplitPrize(contest.PrizePool, len(winners))

		for i, winner := range winners {
			key := fmt.Sprintf("winnings:%s:%s", contestID, winner)
			if _, err := uc.ledger.Credit(ctx, winner, shares[i], models.TransactionTypeWinnings, contestID, key); err != nil {
				uc.logger.Error("Winner credit failed, contest=%s user=%s: %v", contestID, winner, err)
				return fmt.Errorf("failed to credit winner %s: %w", winner, err)
			}
		}

		completedAt := uc.now().UTC()
		if err := uc.archiveRepo.Save(ctx, contestID, ranked, completedAt); err != nil {
			uc.logger.Error("Failed to archive leaderboard for contest %s: %v", contestID, err)
			return fmt.Errorf("failed to archive leaderboard: %w", err)
		}

		result = &entity.SettlementResult{
			ContestID:   contestID,
			Winners:     winners,
			PrizeShares: shares,
			Entries:     ranked,
			CompletedAt: completedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.liveRepo.Delete(ctx, contestID); err != nil {
		uc.logger.Error("Failed to delete live leaderboard for contest %s: %v", contestID, err)
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, fmt.Sprintf("contest:%s", contestID))
	}

	if uc.queueClient != nil {
		winners := result.Winners
		go func() {
			payload := map[string]interface{}{
				"contest_id": contestID,
				"event":      queue.EventContestSettled,
				"winners":    winners,
			}
			if err := uc.queueClient.PublishContestEvent(queue.EventContestSettled, payload); err != nil {
				uc.logger.Error("Failed to publish settlement event for contest %s: %v", contestID, err)
			}
		}()
	}

	return result, nil
}

func (uc *leaderboardUseCase) GetHistoricalLeaderboard(ctx context.Context, contestID string) (*entity.SettlementResult, error) {
	entries, completedAt, err := uc.archiveRepo.Get(ctx, contestID)
	if err != nil {
		return nil, err
	}

	return &entity.SettlementResult{
		ContestID:   contestID,
		Winners:     Winners(entries),
		Entries:     entries,
		CompletedAt: completedAt,
	}, nil
}

func (uc *leaderboardUseCase) getContest(ctx context.Context, contestID string) (*models.Contest, error) {
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
