package entity

import (
	"errors"
	"time"
)

var (
	ErrContestNotFound  = errors.New("contest not found")
	ErrGameNotFound     = errors.New("game not found")
	ErrAlreadyJoined    = errors.New("already joined this contest")
	ErrContestStarted   = errors.New("contest has already started")
	ErrContestNotActive = errors.New("contest is not active")
	ErrAlreadyCanceled  = errors.New("contest is already canceled")
	ErrContestCompleted = errors.New("completed contest cannot be canceled")
	ErrScheduleOverlap  = errors.New("contest overlaps an active contest for this game")
	ErrInvalidSchedule  = errors.New("start time must be before end time")
	ErrInvalidEntryFee  = errors.New("entry fee cannot be negative")
	ErrInvalidPrizePool = errors.New("prize pool must be positive")
)

// TimeLayout is the wire format for contest schedule fields.
const TimeLayout = "2006-01-02 15:04:05"

// Overlaps reports whether the half-open interval [newStart, newEnd)
// intersects [oldStart, oldEnd). Back-to-back contests where one ends
// exactly when the next starts do not overlap.
func Overlaps(newStart, newEnd, oldStart, oldEnd time.Time) bool {
	return newStart.Before(oldEnd) && newEnd.After(oldStart)
}

// JoinResult carries the contest joined and, when known, the
// participant's wallet balance after the entry fee was taken. Balance
// is nil for free joins by users who have no wallet yet.
type JoinResult struct {
	ContestID string   `json:"contest_id"`
	EntryFee  float64  `json:"entry_fee"`
	Balance   *float64 `json:"balance,omitempty"`
}

// CancelResult reports refund progress. Pending is non-empty only when
// cancellation aborted partway; those users keep their entries and the
// contest stays active so the cancel can be retried.
type CancelResult struct {
	Refunded []string `json:"refunded"`
	Pending  []string `json:"pending"`
}
