package models

import (
	"time"
)

// CompletedLeaderboard is the frozen, ranked snapshot a settled contest
// leaves behind once its live leaderboard is deleted. Entries holds the
// ranked list as JSON.
type CompletedLeaderboard struct {
	ContestID   string    `gorm:"type:uuid;primary_key" json:"contest_id"`
	Entries     []byte    `gorm:"type:jsonb;not null" json:"entries"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}
