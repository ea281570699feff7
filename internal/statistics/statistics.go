package statistics

import (
	"fmt"
	"math"
	"sort"
)

// PlayerResult is one player's outcome in a single game
type PlayerResult struct {
	Name         string
	Seat         int // 1-based registration order
	Policy       string
	Credits      int
	GoldBars     int
	BulletsGiven int
	Won          bool
}

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed    int64 // RNG seed for this game (for replay)
	Players []PlayerResult
}

// Series accumulates a stream of values with running sums
type Series struct {
	Count  int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation
}

// Add records one value
func (s *Series) Add(v float64) {
	s.Count++
	s.Sum += v
	s.Sum2 += v * v
	s.Values = append(s.Values, v)
}

// Mean returns the arithmetic mean
func (s *Series) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Variance returns the sample variance
func (s *Series) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Count)*mean*mean) / float64(s.Count-1)
}

// StdDev returns the sample standard deviation
func (s *Series) StdDev() float64 {
	return math.Sqrt(math.Max(0, s.Variance()))
}

// StdError returns the standard error of the mean
func (s *Series) StdError() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Count))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Series) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median value
func (s *Series) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Series) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PlayerStats tracks one player's results across games
type PlayerStats struct {
	Name         string
	Seat         int
	Policy       string
	Wins         int
	Credits      Series
	GoldBars     Series
	BulletsGiven Series
}

// WinRate returns the fraction of games won
func (p *PlayerStats) WinRate() float64 {
	if p.Credits.Count == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Credits.Count)
}

// Statistics tracks simulation statistics per player
type Statistics struct {
	Games int
	Seeds []int64
	// Ties counts games where several players shared the top credits
	Ties int

	winners int
	unwon   int
	players map[string]*PlayerStats
	order   []string
}

// Add incorporates a game result into the statistics
func (s *Statistics) Add(result GameResult) {
	if s.players == nil {
		s.players = make(map[string]*PlayerStats)
	}
	s.Games++
	s.Seeds = append(s.Seeds, result.Seed)

	won := 0
	for _, r := range result.Players {
		if r.Won {
			won++
		}
	}
	s.winners += won
	switch {
	case won == 0:
		s.unwon++
	case won > 1:
		s.Ties++
	}

	for _, r := range result.Players {
		ps, ok := s.players[r.Name]
		if !ok {
			ps = &PlayerStats{Name: r.Name, Seat: r.Seat, Policy: r.Policy}
			s.players[r.Name] = ps
			s.order = append(s.order, r.Name)
		}
		if r.Won {
			ps.Wins++
		}
		ps.Credits.Add(float64(r.Credits))
		ps.GoldBars.Add(float64(r.GoldBars))
		ps.BulletsGiven.Add(float64(r.BulletsGiven))
	}
}

// Players returns per-player statistics in seat order
func (s *Statistics) Players() []*PlayerStats {
	out := make([]*PlayerStats, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.players[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seat < out[j].Seat })
	return out
}

// Player returns one player's statistics or nil
func (s *Statistics) Player(name string) *PlayerStats {
	return s.players[name]
}

// Merge folds other into s, used to combine per-worker statistics
func (s *Statistics) Merge(other *Statistics) {
	if other == nil {
		return
	}
	if s.players == nil {
		s.players = make(map[string]*PlayerStats)
	}
	s.Games += other.Games
	s.Seeds = append(s.Seeds, other.Seeds...)
	s.Ties += other.Ties
	s.winners += other.winners
	s.unwon += other.unwon
	for _, name := range other.order {
		src := other.players[name]
		dst, ok := s.players[name]
		if !ok {
			dst = &PlayerStats{Name: src.Name, Seat: src.Seat, Policy: src.Policy}
			s.players[name] = dst
			s.order = append(s.order, name)
		}
		dst.Wins += src.Wins
		for _, v := range src.Credits.Values {
			dst.Credits.Add(v)
		}
		for _, v := range src.GoldBars.Values {
			dst.GoldBars.Add(v)
		}
		for _, v := range src.BulletsGiven.Values {
			dst.BulletsGiven.Add(v)
		}
	}
}

// Validate performs consistency checks on the accumulated data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Seeds) != s.Games {
		return fmt.Errorf("seeds length (%d) does not match games count (%d)", len(s.Seeds), s.Games)
	}

	totalWins := 0
	for _, ps := range s.players {
		if ps.Credits.Count != s.Games {
			return fmt.Errorf("player %s has %d results for %d games", ps.Name, ps.Credits.Count, s.Games)
		}
		totalWins += ps.Wins
	}
	if s.unwon > 0 {
		return fmt.Errorf("%d of %d games have no winner", s.unwon, s.Games)
	}
	if totalWins != s.winners {
		return fmt.Errorf("total wins (%d) does not match recorded winners (%d)", totalWins, s.winners)
	}
	return nil
}

// PlayerSummary is the exported form of PlayerStats
type PlayerSummary struct {
	Name         string     `json:"name"`
	Seat         int        `json:"seat"`
	Policy       string     `json:"policy"`
	Wins         int        `json:"wins"`
	WinRate      float64    `json:"win_rate"`
	MeanCredits  float64    `json:"mean_credits"`
	StdDev       float64    `json:"std_dev"`
	CI95         [2]float64 `json:"ci95"`
	MeanGoldBars float64    `json:"mean_gold_bars"`
	MeanShots    float64    `json:"mean_bullets_given"`
}

// Summary is a whole simulation run ready to be written out
type Summary struct {
	Games   int             `json:"games"`
	Ties    int             `json:"ties"`
	Seeds   []int64         `json:"seeds"`
	Players []PlayerSummary `json:"players"`
}

// Summarize condenses the running sums into a Summary
func (s *Statistics) Summarize() Summary {
	out := Summary{Games: s.Games, Ties: s.Ties, Seeds: s.Seeds}
	for _, ps := range s.Players() {
		low, high := ps.Credits.ConfidenceInterval95()
		out.Players = append(out.Players, PlayerSummary{
			Name:         ps.Name,
			Seat:         ps.Seat,
			Policy:       ps.Policy,
			Wins:         ps.Wins,
			WinRate:      ps.WinRate(),
			MeanCredits:  ps.Credits.Mean(),
			StdDev:       ps.Credits.StdDev(),
			CI95:         [2]float64{low, high},
			MeanGoldBars: ps.GoldBars.Mean(),
			MeanShots:    ps.BulletsGiven.Mean(),
		})
	}
	return out
}
