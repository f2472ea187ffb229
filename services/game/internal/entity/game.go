package entity

import "errors"

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrInvalidReleaseYear = errors.New("invalid release year")
)

// PopularityMultiplier scales the 0-5 average rating onto a 0-100
// popularity score.
const PopularityMultiplier = 20.0

func Popularity(averageRating float64) float64 {
	return averageRating * PopularityMultiplier
}
