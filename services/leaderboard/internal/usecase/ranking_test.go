package usecase

import (
	"testing"

	"contest-arena/services/leaderboard/internal/entity"

	"github.com/stretchr/testify/assert"
)

func ranksOf(ranked []entity.RankedEntry) []int {
	ranks := make([]int, len(ranked))
	for i, e := range ranked {
		ranks[i] = e.Rank
	}
	return ranks
}

func TestRank_TieAtTop(t *testing.T) {
	entries := []entity.Entry{
		{UserID: "a", Score: 50},
		{UserID: "b", Score: 50},
		{UserID: "c", Score: 40},
	}

	ranked := Rank(entries)

	assert.Equal(t, []int{1, 1, 3}, ranksOf(ranked))
}

func TestRank_TieInMiddle(t *testing.T) {
	entries := []entity.Entry{
		{UserID: "a", Score: 90},
		{UserID: "b", Score: 80},
		{UserID: "c", Score: 80},
		{UserID: "d", Score: 70},
	}

	ranked := Rank(entries)

	assert.Equal(t, []int{1, 2, 2, 4}, ranksOf(ranked))
	assert.Equal(t, "a", ranked[0].UserID)
	assert.Equal(t, "d", ranked[3].UserID)
}

func TestRank_SortsDescending(t *testing.T) {
	entries := []entity.Entry{
		{UserID: "low", Score: 10},
		{UserID: "high", Score: 99},
		{UserID: "mid", Score: 50},
	}

	ranked := Rank(entries)

	assert.Equal(t, "high", ranked[0].UserID)
	assert.Equal(t, "mid", ranked[1].UserID)
	assert.Equal(t, "low", ranked[2].UserID)
	assert.Equal(t, []int{1, 2, 3}, ranksOf(ranked))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]entity.Entry{}))
}

func TestRank_AllTied(t *testing.T) {
	entries := []entity.Entry{
		{UserID: "a", Score: 42},
		{UserID: "b", Score: 42},
		{UserID: "c", Score: 42},
	}

	ranked := Rank(entries)

	assert.Equal(t, []int{1, 1, 1}, ranksOf(ranked))
}

func TestWinners_SingleLeader(t *testing.T) {
	ranked := Rank([]entity.Entry{
		{UserID: "a", Score: 90},
		{UserID: "b", Score: 80},
	})

	assert.Equal(t, []string{"a"}, Winners(ranked))
}

func TestWinners_SharedFirstPlace(t *testing.T) {
	ranked := Rank([]entity.Entry{
		{UserID: "a", Score: 50},
		{UserID: "b", Score: 50},
		{UserID: "c", Score: 40},
	})

	assert.ElementsMatch(t, []string{"a", "b"}, Winners(ranked))
}

func TestSplitPrize_EvenSplit(t *testing.T) {
	assert.Equal(t, []float64{50, 50}, SplitPrize(100, 2))
	assert.Equal(t, []float64{100}, SplitPrize(100, 1))
}

func TestSplitPrize_RemainderCents(t *testing.T) {
	shares := SplitPrize(100, 3)

	assert.Equal(t, []float64{33.34, 33.33, 33.33}, shares)

	var total float64
	for _, s := range shares {
		total += s
	}
	assert.InDelta(t, 100, total, 0.0001)
}

func TestSplitPrize_SumsExactly(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 11} {
		shares := SplitPrize(250.55, n)
		var cents int64
		for _, s := range shares {
			cents += int64(s*100 + 0.5)
		}
		assert.Equal(t, int64(25055), cents, "n=%d", n)
	}
}

func TestSplitPrize_NoWinners(t *testing.T) {
	assert.Nil(t, SplitPrize(100, 0))
}
