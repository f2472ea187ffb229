package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContestStatus string

const (
	ContestStatusActive    ContestStatus = "active"
	ContestStatusCompleted ContestStatus = "completed"
	ContestStatusCanceled  ContestStatus = "canceled"
)

type Contest struct {
	ID          string        `gorm:"type:uuid;primary_key" json:"id"`
	GameID      string        `gorm:"type:uuid;not null;index" json:"game_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartTime   time.Time     `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time     `gorm:"not null" json:"end_time"`
	EntryFee    float64       `gorm:"not null" json:"entry_fee"`
	PrizePool   float64       `gorm:"not null" json:"prize_pool"`
	Status      ContestStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type ContestParticipant struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	ContestID string    `gorm:"type:uuid;not null;uniqueIndex:idx_contest_user" json:"contest_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_contest_user" json:"user_id"`
	EntryFee  float64   `json:"entry_fee"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Contest) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (p *ContestParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
