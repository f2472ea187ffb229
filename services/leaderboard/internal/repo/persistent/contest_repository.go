package persistent

import (
	"context"
	"errors"

	"contest-arena/pkg/models"
	"contest-arena/services/leaderboard/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContestRepository is the settlement engine's view of the contest
// registry: read contests and move them to completed.
type ContestRepository interface {
	GetByID(ctx context.Context, contestID string) (*models.Contest, error)
	Complete(ctx context.Context, contestID string, settle func(contest *models.Contest) error) error
}

type contestRepository struct {
	db *gorm.DB
}

func NewContestRepository(db *gorm.DB) ContestRepository {
	return &contestRepository{db: db}
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

// Complete runs settle while holding the contest row lock with the
// contest verified active, then flips it to completed in the same
// transaction. A concurrent cancel takes the same lock before moving
// any money, so winner credits issued inside settle can never
// interleave with refunds. An error from settle rolls the status back
// and leaves the contest active for a retry.
func (r *contestRepository) Complete(ctx context.Context, contestID string, settle func(contest *models.Contest) error) error {
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

		if err := settle(&contest); err != nil {
			return err
		}

		return tx.Model(&models.Contest{}).
			Where("id = ?", contestID).
			Update("status", models.ContestStatusCompleted).Error
	})
}
