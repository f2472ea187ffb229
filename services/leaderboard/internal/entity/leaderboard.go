package entity

import (
	"errors"
	"time"
)

var (
	ErrContestNotFound     = errors.New("contest not found")
	ErrContestNotActive    = errors.New("contest is not active")
	ErrNoLeaderboardData   = errors.New("no leaderboard data for contest")
	ErrInvalidPrizePool    = errors.New("prize pool must be positive")
	ErrInvalidScore        = errors.New("score must be non-negative")
	ErrLeaderboardNotFound = errors.New("completed leaderboard not found")
)

// Entry is one participant's live score on a contest leaderboard.
// Repeated submissions overwrite: last write wins.
type Entry struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// RankedEntry is an Entry with its standard competition rank. Tied
// scores share a rank and the next distinct score ranks at its list
// position plus one.
type RankedEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// SettlementResult reports what a completed settlement paid out.
type SettlementResult struct {
	ContestID   string        `json:"contest_id"`
	Winners     []string      `json:"winners"`
	PrizeShares []float64     `json:"prize_shares"`
	Entries     []RankedEntry `json:"entries"`
	CompletedAt time.Time     `json:"completed_at"`
}
