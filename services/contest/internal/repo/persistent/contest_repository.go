package persistent

import (
	"context"
	"errors"
	"time"

	"contest-arena/pkg/models"
	"contest-arena/services/contest/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContestRepository interface {
	Create(ctx context.Context, contest *models.Contest) error
	GetByID(ctx context.Context, contestID string) (*models.Contest, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Contest, error)
	GetActiveByGame(ctx context.Context, gameID string) ([]models.Contest, error)
	AddParticipant(ctx context.Context, contestID, userID string, entryFee float64, now time.Time) error
	Cancel(ctx context.Context, contestID string, refundAll func(participants []models.ContestParticipant) error) error
}

type contestRepository struct {
	db *gorm.DB
}

func NewContestRepository(db *gorm.DB) ContestRepository {
	return &contestRepository{db: db}
}

func (r *contestRepository) Create(ctx context.Context, contest *models.Contest) error {
	return r.db.WithContext(ctx).Create(contest).Error
}

func (r *contestRepository) GetByID(ctx context.Context, contestID string) (*models.Contest, error) {
	var contest models.Contest
	err := r.db.WithContext(ctx).Where("id = ?", contestID).First(&contest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrContestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

func (r *contestRepository) ListActive(ctx context.Context, now time.Time) ([]models.Contest, error) {
	var contests []models.Contest
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time <= ? AND end_time >= ?", models.ContestStatusActive, now, now).
		Order("start_time ASC").
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

func (r *contestRepository) GetActiveByGame(ctx context.Context, gameID string) ([]models.Contest, error) {
	var contests []models.Contest
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND status = ?", gameID, models.ContestStatusActive).
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

// AddParticipant registers a user under the contest row lock so the
// status and start-time checks cannot race a concurrent cancel or
// settlement. The unique (contest_id, user_id) index backs up the
// duplicate check.
func (r *contestRepository) AddParticipant(ctx context.Context, contestID, userID string, entryFee float64, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contest models.Contest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", contestID).
			First(&contest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.ErrContestNotFound
		}
		if err != nil {
			return err
		}

		if contest.Status != models.ContestStatusActive {
			return entity.ErrContestNotActive
		}
		if !now.Before(contest.StartTime) {
			return entity.ErrContestStarted
		}

		var count int64
		if err := tx.Model(&models.ContestParticipant{}).
			Where("contest_id = ? AND user_id = ?", contestID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return entity.ErrAlreadyJoined
		}

		participant := models.ContestParticipant{
			ContestID: contestID,
			UserID:    userID,
			EntryFee:  entryFee,
		}
		return tx.Create(&participant).Error
	})
}

// Cancel refunds and removes every participant and flips the contest to
// canceled in one transaction holding the contest row lock. A concurrent
// join either commits before the lock is taken, which puts the
// participant in the refund pass, or blocks in AddParticipant and fails
// the status check once the cancel commits; no join can slip between
// the participant read and the status flip. refundAll runs while the
// lock is held; its error aborts the cancel with the contest left
// active, so a retry resumes where refunds stopped (issued refunds are
// idempotency keyed and will not pay twice).
func (r *contestRepository) Cancel(ctx context.Context, contestID string, refundAll func(participants []models.ContestParticipant) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contest models.Contest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", contestID).
			First(&contest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.ErrContestNotFound
		}
		if err != nil {
			return err
		}

		if contest.Status == models.ContestStatusCanceled {
			return entity.ErrAlreadyCanceled
		}
		if contest.Status == models.ContestStatusCompleted {
			return entity.ErrContestCompleted
		}

		var participants []models.ContestParticipant
		if err := tx.Where("contest_id = ?", contestID).
			Order("created_at ASC").
			Find(&participants).Error; err != nil {
			return err
		}

		if err := refundAll(participants); err != nil {
			return err
		}

		if err := tx.Where("contest_id = ?", contestID).
			Delete(&models.ContestParticipant{}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Contest{}).
			Where("id = ?", contestID).
			Update("status", models.ContestStatusCanceled).Error
	})
}
