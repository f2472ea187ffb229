package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"contest-arena/pkg/logger"
	"contest-arena/pkg/models"
	"contest-arena/services/game/internal/entity"
	"contest-arena/services/game/internal/repo/persistent"
)

// Uploader is the thumbnail storage backend.
type Uploader interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

type GameUseCase interface {
	CreateGame(ctx context.Context, title, category, description string, releaseYear int, thumbnail io.Reader, thumbnailKey, contentType string) (*models.Game, error)
	GetGame(ctx context.Context, gameID string) (*models.Game, error)
	ListGames(ctx context.Context, limit, offset int, category string) ([]models.Game, error)
	GetPopularity(ctx context.Context, gameID string) (float64, error)
}

type gameUseCase struct {
	gameRepo persistent.GameRepository
	uploader Uploader
	logger   *logger.Logger
}

func NewGameUseCase(gameRepo persistent.GameRepository, uploader Uploader, logger *logger.Logger) GameUseCase {
	return &gameUseCase{
		gameRepo: gameRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (uc *gameUseCase) CreateGame(ctx context.Context, title, category, description string, releaseYear int, thumbnail io.Reader, thumbnailKey, contentType string) (*models.Game, error) {
	if releaseYear < 1950 || releaseYear > time.Now().Year()+1 {
		return nil, entity.ErrInvalidReleaseYear
	}

	var thumbnailURL string
	if thumbnail != nil && uc.uploader != nil {
		url, err := uc.uploader.UploadFile(thumbnailKey, thumbnail, contentType)
		if err != nil {
			uc.logger.Error("Failed to upload thumbnail: %v", err)
			return nil, fmt.Errorf("failed to upload thumbnail")
		}
		thumbnailURL = url
	}

	game := &models.Game{
		Title:        title,
		Category:     category,
		Description:  description,
		ThumbnailURL: thumbnailURL,
		ReleaseYear:  releaseYear,
	}
	if err := uc.gameRepo.Create(ctx, game); err != nil {
		uc.logger.Error("Failed to create game: %v", err)
		return nil, fmt.Errorf("failed to create game")
	}
	return game, nil
}

func (uc *gameUseCase) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	return uc.gameRepo.GetByID(ctx, gameID)
}

func (uc *gameUseCase) ListGames(ctx context.Context, limit, offset int, category string) ([]models.Game, error) {
	games, err := uc.gameRepo.List(ctx, limit, offset, category)
	if err != nil {
		uc.logger.Error("Failed to list games: %v", err)
		return nil, fmt.Errorf("failed to list games")
	}
	return games, nil
}

func (uc *gameUseCase) GetPopularity(ctx context.Context, gameID string) (float64, error) {
	game, err := uc.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return 0, err
	}
	return entity.Popularity(game.AverageRating), nil
}
