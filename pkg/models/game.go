package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Game struct {
	ID            string         `gorm:"type:uuid;primary_key" json:"id"`
	Title         string         `gorm:"not null;index" json:"title"`
	Category      string         `gorm:"index" json:"category"`
	Description   string         `json:"description"`
	ThumbnailURL  string         `json:"thumbnail_url"`
	ReleaseYear   int            `json:"release_year"`
	AverageRating float64        `gorm:"default:0" json:"average_rating"`
	Popularity    float64        `gorm:"default:0" json:"popularity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}
