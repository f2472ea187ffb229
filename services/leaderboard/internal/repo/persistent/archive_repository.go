package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"contest-arena/pkg/models"
	"contest-arena/services/leaderboard/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArchiveRepository stores the frozen ranked snapshots of settled
// contests.
type ArchiveRepository interface {
	Save(ctx context.Context, contestID string, entries []entity.RankedEntry, completedAt time.Time) error
	Get(ctx context.Context, contestID string) ([]entity.RankedEntry, time.Time, error)
}

type archiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

// Save upserts so a settlement retried after a partial failure can
// rewrite the snapshot instead of failing the primary-key insert.
func (r *archiveRepository) Save(ctx context.Context, contestID string, entries []entity.RankedEntry, completedAt time.Time) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	record := models.CompletedLeaderboard{
		ContestID:   contestID,
		Entries:     data,
		CompletedAt: completedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contest_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"entries", "completed_at"}),
		}).
		Create(&record).Error
}

func (r *archiveRepository) Get(ctx context.Context, contestID string) ([]entity.RankedEntry, time.Time, error) {
	var record models.CompletedLeaderboard
	err := r.db.WithContext(ctx).Where("contest_id = ?", contestID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, entity.ErrLeaderboardNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var entries []entity.RankedEntry
	if err := json.Unmarshal(record.Entries, &entries); err != nil {
		return nil, time.Time{}, err
	}
	return entries, record.CompletedAt, nil
}
