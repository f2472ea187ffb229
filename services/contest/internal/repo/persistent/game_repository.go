package persistent

import (
	"context"
	"errors"

	"contest-arena/pkg/models"
	"contest-arena/services/contest/internal/entity"

	"gorm.io/gorm"
)

// GameRepository is the read-only view of the game catalog the contest
// registry validates against.
type GameRepository interface {
	GetByID(ctx context.Context, gameID string) (*models.Game, error)
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).Where("id = ?", gameID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}
