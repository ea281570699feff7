package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func game(seed int64, credits ...int) GameResult {
	res := GameResult{Seed: seed}
	best := 0
	for i, c := range credits {
		if c > credits[best] {
			best = i
		}
		res.Players = append(res.Players, PlayerResult{
			Name:    string(rune('A' + i)),
			Seat:    i + 1,
			Policy:  "first",
			Credits: c,
		})
	}
	res.Players[best].Won = true
	return res
}

func TestSeriesEmpty(t *testing.T) {
	var s Series
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.Percentile(0.9))
}

func TestSeriesMoments(t *testing.T) {
	var s Series
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(v)
	}
	assert.InDelta(t, 5.0, s.Mean(), 1e-9)
	assert.InDelta(t, 32.0/7.0, s.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev(), 1e-9)
	assert.InDelta(t, 4.5, s.Median(), 1e-9)
	assert.InDelta(t, 9.0, s.Percentile(1), 1e-9)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, s.Mean())
	assert.Greater(t, hi, s.Mean())
}

func TestStatisticsPerPlayer(t *testing.T) {
	var stats Statistics
	stats.Add(game(1, 500, 250, 0))
	stats.Add(game(2, 0, 750, 250))
	stats.Add(game(3, 1000, 250, 250))
	require.NoError(t, stats.Validate())

	players := stats.Players()
	require.Len(t, players, 3)
	assert.Equal(t, "A", players[0].Name)
	assert.Equal(t, 2, players[0].Wins)
	assert.InDelta(t, 500.0, players[0].Credits.Mean(), 1e-9)
	assert.InDelta(t, 1.0/3.0, stats.Player("B").WinRate(), 1e-9)
}

func TestMergeCombinesWorkers(t *testing.T) {
	var a, b Statistics
	a.Add(game(1, 500, 250))
	b.Add(game(2, 0, 750))
	b.Add(game(3, 300, 250))

	a.Merge(&b)
	require.NoError(t, a.Validate())
	assert.Equal(t, 3, a.Games)
	assert.Equal(t, 2, a.Player("A").Wins)
	assert.Equal(t, 3, a.Player("B").Credits.Count)
}

func TestValidateCatchesMismatch(t *testing.T) {
	var stats Statistics
	assert.Error(t, stats.Validate())

	res := game(1, 500, 250)
	res.Players[0].Won = false
	stats.Add(res)
	assert.ErrorContains(t, stats.Validate(), "no winner")
}

func TestSharedTopCreditsCountAsTie(t *testing.T) {
	var stats Statistics
	tied := game(1, 500, 500, 250)
	tied.Players[1].Won = true
	stats.Add(tied)
	stats.Add(game(2, 250, 750, 0))
	require.NoError(t, stats.Validate())

	assert.Equal(t, 1, stats.Ties)
	players := stats.Players()
	require.Len(t, players, 3)
	assert.Equal(t, 1, players[0].Wins)
	assert.Equal(t, 2, players[1].Wins)
	assert.Equal(t, 0, players[2].Wins)

	var merged Statistics
	merged.Merge(&stats)
	require.NoError(t, merged.Validate())
	assert.Equal(t, 1, merged.Summarize().Ties)
}

func TestSummarize(t *testing.T) {
	var stats Statistics
	stats.Add(game(7, 500, 250))
	stats.Add(game(8, 250, 750))

	sum := stats.Summarize()
	assert.Equal(t, 2, sum.Games)
	assert.Equal(t, []int64{7, 8}, sum.Seeds)
	require.Len(t, sum.Players, 2)

	a := sum.Players[0]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, 1, a.Wins)
	assert.InDelta(t, 0.5, a.WinRate, 1e-9)
	assert.InDelta(t, 375.0, a.MeanCredits, 1e-9)
	assert.Less(t, a.CI95[0], a.MeanCredits)
	assert.Greater(t, a.CI95[1], a.MeanCredits)
}
