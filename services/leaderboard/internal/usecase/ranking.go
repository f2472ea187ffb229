package usecase

import (
	"math"
	"sort"

	"contest-arena/services/leaderboard/internal/entity"
)

// Rank orders entries by score descending and assigns standard
// competition ranks: tied scores share a rank and the next distinct
// score takes the rank equal to its position. [90,80,80,70] ranks as
// [1,2,2,4].
func Rank(entries []entity.Entry) []entity.RankedEntry {
	sorted := make([]entity.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	ranked := make([]entity.RankedEntry, len(sorted))
	for i, e := range sorted {
		rank := i + 1
		if i > 0 && e.Score == sorted[i-1].Score {
			rank = ranked[i-1].Rank
		}
		ranked[i] = entity.RankedEntry{
			Rank:     rank,
			UserID:   e.UserID,
			Username: e.Username,
			Score:    e.Score,
		}
	}
	return ranked
}

// Winners returns the user ids holding rank 1.
func Winners(ranked []entity.RankedEntry) []string {
	var winners []string
	for _, e := range ranked {
		if e.Rank != 1 {
			break
		}
		winners = append(winners, e.UserID)
	}
	return winners
}

// SplitPrize divides pool equally among n winners in integer cents so
// the shares sum to the pool exactly. Remainder cents go to the earlier
// shares, largest remainder first.
func SplitPrize(pool float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	totalCents := int64(math.Round(pool * 100))
	base := totalCents / int64(n)
	remainder := totalCents % int64(n)

	shares := make([]float64, n)
	for i := range shares {
		cents := base
		if int64(i) < remainder {
			cents++
		}
		shares[i] = float64(cents) / 100
	}
	return shares
}
