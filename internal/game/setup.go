package game

import (
	"fmt"
	"slices"

	"github.com/lox/trainheist/internal/deck"
)

// DefaultCharacters is the number of selectable characters
const DefaultCharacters = 6

// Seat describes one player to spawn
type Seat struct {
	Name        string
	Bot         bool
	CharacterID int
}

// SetupOptions controls how Setup builds the players' decks
type SetupOptions struct {
	Pool       []deck.Kind
	MaxHand    int
	Characters int
}

// Setup spawns the seats onto the board. Players start inside car 1 with
// spot equal to their seat. Humans keep their character (falling back to 0
// when out of range); bots get distinct random characters from the rest.
// Wagon gold is randomised and the sheriff placed at its start car.
func Setup(s *State, seats []Seat, opts SetupOptions) error {
	if len(seats) == 0 {
		return ErrNoPlayers
	}
	if opts.Characters <= 0 {
		opts.Characters = DefaultCharacters
	}
	if len(opts.Pool) == 0 {
		opts.Pool = deck.DefaultPool()
	}

	characters := s.assignCharacters(seats, opts.Characters)
	for i, seat := range seats {
		p := NewPlayer(seat.Name, seat.Bot, characters[i], deck.New(opts.Pool, opts.MaxHand, s.rng))
		p.Position = Position{Car: 1, Spot: i%s.rules.Spots + 1}
		if err := s.AddPlayer(p); err != nil {
			return fmt.Errorf("spawn seat %d: %w", i+1, err)
		}
	}

	s.RandomizeGold()
	s.PlaceSheriff(s.rules.SheriffStart)
	s.logger.Info("Board ready", "players", len(seats), "sheriff", s.sheriff)
	return nil
}

func (s *State) assignCharacters(seats []Seat, count int) []int {
	out := make([]int, len(seats))
	taken := make(map[int]bool)
	for i, seat := range seats {
		if seat.Bot {
			continue
		}
		id := seat.CharacterID
		if id < 0 || id >= count {
			id = 0
		}
		out[i] = id
		taken[id] = true
	}

	var free []int
	for id := range count {
		if !taken[id] {
			free = append(free, id)
		}
	}
	for i, seat := range seats {
		if !seat.Bot {
			continue
		}
		if len(free) == 0 {
			// More bots than characters: reuse ids at random
			out[i] = s.rng.IntN(count)
			continue
		}
		idx := s.rng.IntN(len(free))
		out[i] = free[idx]
		free = slices.Delete(free, idx, idx+1)
	}
	return out
}
