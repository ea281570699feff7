package deck

import (
	"errors"
	rand "math/rand/v2"
	"slices"
)

// ErrNotFound is returned when a card is not present in the hand
var ErrNotFound = errors.New("card not in hand")

// Deck holds one player's cards: the pool every hand is dealt from and the
// hand currently held. The pool only ever grows.
type Deck struct {
	pool    []Kind
	hand    []Kind
	maxHand int
	rng     *rand.Rand
}

// New creates a deck over a copy of the given pool. maxHand caps the hand
// size reached through supplemental draws; zero means no cap.
func New(pool []Kind, maxHand int, rng *rand.Rand) *Deck {
	return &Deck{
		pool:    slices.Clone(pool),
		hand:    make([]Kind, 0, len(pool)),
		maxHand: maxHand,
		rng:     rng,
	}
}

// DealHand discards the current hand and deals size cards from the pool
// without replacement. Duplicate kinds in the pool are separate entries.
func (d *Deck) DealHand(size int) {
	d.hand = d.hand[:0]
	remaining := slices.Clone(d.pool)
	for i := 0; i < size && len(remaining) > 0; i++ {
		d.hand = append(d.hand, d.take(&remaining))
	}
}

// DrawSupplemental adds up to count cards to the hand, drawn from the pool
// entries not already held. It returns the cards drawn.
func (d *Deck) DrawSupplemental(count int) []Kind {
	remaining := slices.Clone(d.pool)
	for _, held := range d.hand {
		if idx := slices.Index(remaining, held); idx >= 0 {
			remaining = slices.Delete(remaining, idx, idx+1)
		}
	}

	if d.maxHand > 0 && len(d.hand)+count > d.maxHand {
		count = max(0, d.maxHand-len(d.hand))
	}

	drawn := make([]Kind, 0, count)
	for i := 0; i < count && len(remaining) > 0; i++ {
		k := d.take(&remaining)
		d.hand = append(d.hand, k)
		drawn = append(drawn, k)
	}
	return drawn
}

// GrantBullet permanently adds a bullet entry to the pool. The hand is not
// touched; the bullet can only show up from the next deal on.
func (d *Deck) GrantBullet() {
	d.pool = append(d.pool, Bullet)
}

// RemoveFromHand removes one card of the given kind from the hand
func (d *Deck) RemoveFromHand(k Kind) error {
	idx := slices.Index(d.hand, k)
	if idx < 0 {
		return ErrNotFound
	}
	d.hand = slices.Delete(d.hand, idx, idx+1)
	return nil
}

// Holds reports whether the hand contains a card of the given kind
func (d *Deck) Holds(k Kind) bool {
	return slices.Contains(d.hand, k)
}

// Hand returns a copy of the hand in deal order
func (d *Deck) Hand() []Kind {
	return slices.Clone(d.hand)
}

// Pool returns a copy of the pool
func (d *Deck) Pool() []Kind {
	return slices.Clone(d.pool)
}

// HandSize returns the number of cards held
func (d *Deck) HandSize() int {
	return len(d.hand)
}

// BulletsReceived counts the bullet entries in the pool
func (d *Deck) BulletsReceived() int {
	n := 0
	for _, k := range d.pool {
		if k == Bullet {
			n++
		}
	}
	return n
}

func (d *Deck) take(remaining *[]Kind) Kind {
	idx := d.rng.IntN(len(*remaining))
	k := (*remaining)[idx]
	*remaining = slices.Delete(*remaining, idx, idx+1)
	return k
}
