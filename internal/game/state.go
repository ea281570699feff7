package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
)

var (
	// ErrDuplicatePlayer is returned when two players share a name
	ErrDuplicatePlayer = errors.New("duplicate player name")
	// ErrNoPlayers is returned when a game is started without players
	ErrNoPlayers = errors.New("no players registered")
	// ErrNoDeck is returned when a game is started with a player lacking a deck
	ErrNoDeck = errors.New("player has no deck")
)

// Rules are the numeric constants of the board
type Rules struct {
	Cars         int
	Spots        int
	MaxBullets   int
	FireBonus    int
	GoldValues   []int
	SheriffStart int
	InsideGold   [2]int // inclusive min, max bars inside each car
	RoofGold     [2]int // inclusive min, max bars on each roof
}

// DefaultRules returns the rules of the standard four-car board
func DefaultRules() Rules {
	return Rules{
		Cars:         4,
		Spots:        4,
		MaxBullets:   6,
		FireBonus:    4,
		GoldValues:   []int{200, 250, 300},
		SheriffStart: 4,
		InsideGold:   [2]int{1, 3},
		RoofGold:     [2]int{0, 2},
	}
}

// Validate checks the rules for values the board cannot represent
func (r Rules) Validate() error {
	if r.Cars < 1 {
		return fmt.Errorf("cars must be positive, got %d", r.Cars)
	}
	if r.Spots < 1 {
		return fmt.Errorf("spots must be positive, got %d", r.Spots)
	}
	if r.MaxBullets < 0 {
		return fmt.Errorf("max bullets cannot be negative")
	}
	if len(r.GoldValues) == 0 {
		return fmt.Errorf("at least one gold value is required")
	}
	for _, v := range r.GoldValues {
		if v < 0 {
			return fmt.Errorf("gold value cannot be negative: %d", v)
		}
	}
	if r.SheriffStart < 1 || r.SheriffStart > r.Cars {
		return fmt.Errorf("sheriff start %d outside cars 1..%d", r.SheriffStart, r.Cars)
	}
	if r.InsideGold[0] < 0 || r.InsideGold[0] > r.InsideGold[1] {
		return fmt.Errorf("invalid inside gold range %v", r.InsideGold)
	}
	if r.RoofGold[0] < 0 || r.RoofGold[0] > r.RoofGold[1] {
		return fmt.Errorf("invalid roof gold range %v", r.RoofGold)
	}
	return nil
}

// State is the mutable world: players, wagons and the sheriff. It is owned by
// a single goroutine; every mutation publishes a StateChangedEvent.
type State struct {
	rules   Rules
	players []*Player
	wagons  []*Wagon
	sheriff int
	rng     *rand.Rand
	bus     EventBus
	logger  *log.Logger
}

// NewState creates an empty board with one wagon per car
func NewState(rules Rules, rng *rand.Rand, bus EventBus, logger *log.Logger) *State {
	if bus == nil {
		bus = NewEventBus()
	}
	wagons := make([]*Wagon, rules.Cars)
	for i := range wagons {
		wagons[i] = &Wagon{Car: i + 1}
	}
	return &State{
		rules:   rules,
		wagons:  wagons,
		sheriff: rules.SheriffStart,
		rng:     rng,
		bus:     bus,
		logger:  logger.WithPrefix("state"),
	}
}

// Rules returns the rules the board was built with
func (s *State) Rules() Rules { return s.rules }

// Bus returns the event bus mutations are published on
func (s *State) Bus() EventBus { return s.bus }

// Rand returns the random source shared by the game
func (s *State) Rand() *rand.Rand { return s.rng }

// AddPlayer registers a player. Registration order is the normal turn order.
func (s *State) AddPlayer(p *Player) error {
	if s.Player(p.Name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.Name)
	}
	if p.MaxBullets == 0 {
		p.MaxBullets = s.rules.MaxBullets
	}
	s.players = append(s.players, p)
	s.logger.Debug("Player registered", "player", p.Name, "bot", p.Bot, "position", p.Position.Code())
	return nil
}

// Players returns the players in registration order
func (s *State) Players() []*Player {
	return slices.Clone(s.players)
}

// Player returns the named player or nil
func (s *State) Player(name string) *Player {
	for _, p := range s.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Wagon returns the wagon of a car, or nil when out of range
func (s *State) Wagon(car int) *Wagon {
	if car < 1 || car > len(s.wagons) {
		return nil
	}
	return s.wagons[car-1]
}

// SheriffCar returns the car the sheriff stands in
func (s *State) SheriffCar() int { return s.sheriff }

// PlaceSheriff puts the sheriff in a car without triggering collisions
func (s *State) PlaceSheriff(car int) {
	s.sheriff = s.clampCar(car)
}

// RandomizeGold deals gold into every wagon using the rule ranges
func (s *State) RandomizeGold() {
	for _, w := range s.wagons {
		w.Inside = s.between(s.rules.InsideGold)
		w.Roof = s.between(s.rules.RoofGold)
	}
}

// SetWagonGold sets the bars of one wagon, used for scripted setups
func (s *State) SetWagonGold(car, inside, roof int) {
	w := s.Wagon(car)
	if w == nil {
		return
	}
	w.Inside = max(0, inside)
	w.Roof = max(0, roof)
}

// Feasible returns which horizontal directions are open from a car
func (s *State) Feasible(car int) (left, right bool) {
	return car > 1, car < s.rules.Cars
}

// MovePlayer moves a player one car left (-1) or right (+1), clamped to the
// train. It reports whether the player actually changed car.
func (s *State) MovePlayer(p *Player, dir int) bool {
	next := s.clampCar(p.Position.Car + sign(dir))
	if next == p.Position.Car {
		return false
	}
	p.Position.Car = next
	s.logger.Debug("Player moved horizontally", "player", p.Name, "position", p.Position.Code())
	s.publish(ChangePosition, p.Name)
	return true
}

// ToggleRoof swaps a player between the roof and the inside of its car
func (s *State) ToggleRoof(p *Player) {
	p.Position.OnRoof = !p.Position.OnRoof
	s.logger.Debug("Player moved vertically", "player", p.Name, "position", p.Position.Code())
	s.publish(ChangePosition, p.Name)
}

// MoveSheriff moves the sheriff one car, clamped. It reports whether the
// sheriff moved; collisions are checked separately with CheckSheriff.
func (s *State) MoveSheriff(dir int) bool {
	next := s.clampCar(s.sheriff + sign(dir))
	if next == s.sheriff {
		s.logger.Debug("Sheriff cannot move further", "car", s.sheriff)
		return false
	}
	s.sheriff = next
	s.logger.Debug("Sheriff moved", "car", s.sheriff)
	s.publish(ChangeSheriff, "")
	return true
}

// CheckSheriff ejects every inside player in the sheriff's car to the roof
// and grants each a bullet. Roof players are untouched, so calling it again
// without movement changes nothing.
func (s *State) CheckSheriff() []*Player {
	var ejected []*Player
	for _, p := range s.players {
		if p.Position.OnRoof || p.Position.Car != s.sheriff {
			continue
		}
		if p.Deck != nil {
			p.Deck.GrantBullet()
		}
		p.Position.OnRoof = true
		ejected = append(ejected, p)
		s.logger.Info("Sheriff sent player to the roof", "player", p.Name, "car", p.Position.Car)
		s.publish(ChangeBullets, p.Name)
	}
	return ejected
}

// Collect moves one bar from the player's layer of its wagon to the player.
// It returns the credit value of the bar, or false when the layer is empty.
func (s *State) Collect(p *Player) (int, bool) {
	w := s.Wagon(p.Position.Car)
	if w == nil || !w.take(p.Position.OnRoof) {
		return 0, false
	}
	value := s.GoldValue()
	p.GoldBars++
	p.AddCredits(value)
	s.logger.Debug("Gold collected", "player", p.Name, "value", value, "bars", p.GoldBars, "credits", p.Credits)
	s.publish(ChangeGold, p.Name)
	return value, true
}

// DropGold makes a player lose one bar onto its current layer. The credit
// loss is a random gold value capped at the player's credits.
func (s *State) DropGold(p *Player) (int, bool) {
	if p.GoldBars <= 0 {
		return 0, false
	}
	w := s.Wagon(p.Position.Car)
	if w == nil {
		return 0, false
	}
	p.GoldBars--
	loss := min(s.GoldValue(), p.Credits)
	p.AddCredits(-loss)
	w.put(p.Position.OnRoof)
	s.logger.Debug("Gold dropped", "player", p.Name, "loss", loss, "bars", p.GoldBars, "credits", p.Credits)
	s.publish(ChangeGold, p.Name)
	return loss, true
}

// FireResult describes one shot
type FireResult struct {
	BulletsUsed int
	Bonus       int
}

// Fire spends one of the attacker's bullets on target. The target receives a
// permanent bullet in its pool; emptying the chamber pays the fire bonus.
func (s *State) Fire(attacker, target *Player) (FireResult, bool) {
	if attacker.OutOfBullets() {
		return FireResult{}, false
	}
	attacker.BulletsUsed++
	attacker.BulletsGiven++
	if target.Deck != nil {
		target.Deck.GrantBullet()
	}

	res := FireResult{BulletsUsed: attacker.BulletsUsed}
	if attacker.OutOfBullets() {
		res.Bonus = s.rules.FireBonus
		attacker.AddCredits(res.Bonus)
	}
	s.logger.Debug("Shot fired", "attacker", attacker.Name, "target", target.Name,
		"bulletsUsed", attacker.BulletsUsed, "max", attacker.MaxBullets, "bonus", res.Bonus)
	s.publish(ChangeBullets, attacker.Name)
	return res, true
}

// PunchTargets lists the other players sharing the attacker's car and layer
func (s *State) PunchTargets(attacker *Player) []*Player {
	var out []*Player
	for _, p := range s.players {
		if p != attacker && p.Position.SameLayer(attacker.Position) {
			out = append(out, p)
		}
	}
	return out
}

// FireTargets lists who the attacker can shoot: every other roof occupant
// when on the roof, otherwise the other players inside the same car.
func (s *State) FireTargets(attacker *Player) []*Player {
	var out []*Player
	for _, p := range s.players {
		if p == attacker {
			continue
		}
		if attacker.Position.OnRoof {
			if p.Position.OnRoof {
				out = append(out, p)
			}
		} else if p.Position.SameLayer(attacker.Position) {
			out = append(out, p)
		}
	}
	return out
}

// GoldValue draws the credit value of one bar
func (s *State) GoldValue() int {
	values := s.rules.GoldValues
	if len(values) == 0 {
		return 0
	}
	return values[s.rng.IntN(len(values))]
}

// Snapshot returns an immutable copy of the state
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Players:    make([]PlayerView, 0, len(s.players)),
		Wagons:     make([]Wagon, 0, len(s.wagons)),
		SheriffCar: s.sheriff,
	}
	for _, p := range s.players {
		snap.Players = append(snap.Players, viewOf(p))
	}
	for _, w := range s.wagons {
		snap.Wagons = append(snap.Wagons, *w)
	}
	return snap
}

// Standings returns the final results of the current state
func (s *State) Standings() []Standing {
	return Standings(s.players)
}

// NotifyHandChanged publishes a hand change made outside the state, such as
// a deal or a played card.
func (s *State) NotifyHandChanged(player string) {
	s.publish(ChangeHand, player)
}

func (s *State) publish(change ChangeKind, player string) {
	s.bus.Publish(NewStateChangedEvent(change, player, s.Snapshot()))
}

func (s *State) clampCar(car int) int {
	return min(max(car, 1), s.rules.Cars)
}

func (s *State) between(r [2]int) int {
	if r[1] <= r[0] {
		return r[0]
	}
	return r[0] + s.rng.IntN(r[1]-r[0]+1)
}

func sign(dir int) int {
	switch {
	case dir < 0:
		return -1
	case dir > 0:
		return 1
	default:
		return 0
	}
}
