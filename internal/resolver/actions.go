package resolver

import (
	"context"
	"fmt"
	"slices"

	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
)

func (r *Resolver) moveHorizontally(ctx context.Context, p *game.Player) (Outcome, error) {
	dirs := r.directions(p.Position.Car)
	dir, ok, err := r.pickDirection(ctx, p, deck.MoveHorizontally, dirs)
	if err != nil || !ok {
		return Outcome{Message: fmt.Sprintf("%s stays put", p.Name)}, err
	}
	if !r.state.MovePlayer(p, dir) {
		return Outcome{Message: fmt.Sprintf("%s cannot move that way", p.Name)}, nil
	}
	if err := r.checkSheriffAfterDelay(ctx); err != nil {
		return Outcome{}, err
	}
	return Outcome{Applied: true, Message: fmt.Sprintf("%s moved to %s", p.Name, p.Position.Code())}, nil
}

func (r *Resolver) moveVertically(ctx context.Context, p *game.Player) (Outcome, error) {
	if !p.Bot {
		where := "the roof"
		if p.Position.OnRoof {
			where = "inside"
		}
		choice, ok, err := r.ask(ctx, ChoiceRequest{
			Player:  p.Name,
			Kind:    deck.MoveVertically,
			Confirm: true,
			Message: "Swap to " + where,
		})
		if err != nil || !ok || !choice.Confirmed {
			return Outcome{Message: fmt.Sprintf("%s stays put", p.Name)}, err
		}
	}
	r.state.ToggleRoof(p)
	if err := r.checkSheriffAfterDelay(ctx); err != nil {
		return Outcome{}, err
	}
	return Outcome{Applied: true, Message: fmt.Sprintf("%s moved to %s", p.Name, p.Position.Code())}, nil
}

func (r *Resolver) collect(ctx context.Context, p *game.Player) (Outcome, error) {
	w := r.state.Wagon(p.Position.Car)
	if w == nil || w.Gold(p.Position.OnRoof) == 0 {
		return Outcome{Message: "No gold bars here"}, nil
	}
	if !p.Bot {
		choice, ok, err := r.ask(ctx, ChoiceRequest{
			Player:  p.Name,
			Kind:    deck.Collect,
			Confirm: true,
			Message: "Collect a gold bar",
		})
		if err != nil || !ok || !choice.Confirmed {
			return Outcome{Message: fmt.Sprintf("%s collected nothing", p.Name)}, err
		}
	}
	// The pool may have emptied while the prompt was open
	value, ok := r.state.Collect(p)
	if !ok {
		r.logger.Warn("Collect raced an empty pool", "player", p.Name, "position", p.Position.Code())
		return Outcome{Message: "No gold bars here"}, nil
	}
	return Outcome{Applied: true, Message: fmt.Sprintf("%s collected a gold bar worth %d", p.Name, value)}, nil
}

func (r *Resolver) punch(ctx context.Context, p *game.Player) (Outcome, error) {
	target, ok, err := r.pickTarget(ctx, p, deck.Punch, r.state.PunchTargets(p))
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{Message: "No one to punch"}, nil
	}
	if target.GoldBars < 1 {
		return Outcome{Message: fmt.Sprintf("%s has no gold", target.Name)}, nil
	}
	loss, _ := r.state.DropGold(target)
	return Outcome{Applied: true, Message: fmt.Sprintf("%s punched %s, who dropped a bar and lost %d", p.Name, target.Name, loss)}, nil
}

func (r *Resolver) fire(ctx context.Context, p *game.Player) (Outcome, error) {
	if p.OutOfBullets() {
		return Outcome{Message: "No bullets left"}, nil
	}
	target, ok, err := r.pickTarget(ctx, p, deck.Fire, r.state.FireTargets(p))
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{Message: "No one to shoot"}, nil
	}
	res, fired := r.state.Fire(p, target)
	if !fired {
		return Outcome{Message: "No bullets left"}, nil
	}
	msg := fmt.Sprintf("%s shot %s", p.Name, target.Name)
	if res.Bonus > 0 {
		msg = fmt.Sprintf("%s; all bullets used, +%d", msg, res.Bonus)
	}
	return Outcome{Applied: true, Message: msg}, nil
}

func (r *Resolver) moveSheriff(ctx context.Context, p *game.Player) (Outcome, error) {
	dirs := r.directions(r.state.SheriffCar())
	dir, ok, err := r.pickDirection(ctx, p, deck.MoveSheriff, dirs)
	if err != nil || !ok {
		return Outcome{Message: "The sheriff stays put"}, err
	}
	if !r.state.MoveSheriff(dir) {
		return Outcome{Message: "The sheriff cannot move that way"}, nil
	}
	if err := Pause(ctx, r.clock, r.sheriffDelay, "resolver", "sheriff"); err != nil {
		return Outcome{}, err
	}
	ejected := r.state.CheckSheriff()
	msg := fmt.Sprintf("%s moved the sheriff to car %d", p.Name, r.state.SheriffCar())
	if len(ejected) > 0 {
		msg = fmt.Sprintf("%s, %d bandit(s) sent to the roof", msg, len(ejected))
	}
	return Outcome{Applied: true, Message: msg}, nil
}

// checkSheriffAfterDelay lets a moved bandit settle before the sheriff looks
func (r *Resolver) checkSheriffAfterDelay(ctx context.Context) error {
	if err := Pause(ctx, r.clock, r.sheriffDelay, "resolver", "sheriff"); err != nil {
		return err
	}
	r.state.CheckSheriff()
	return nil
}

// directions lists the feasible horizontal moves from car, left first
func (r *Resolver) directions(car int) []int {
	left, right := r.state.Feasible(car)
	var dirs []int
	if left {
		dirs = append(dirs, -1)
	}
	if right {
		dirs = append(dirs, 1)
	}
	return dirs
}

func (r *Resolver) pickDirection(ctx context.Context, p *game.Player, kind deck.Kind, dirs []int) (int, bool, error) {
	if len(dirs) == 0 {
		return 0, false, nil
	}
	if p.Bot {
		return dirs[r.state.Rand().IntN(len(dirs))], true, nil
	}
	choice, ok, err := r.ask(ctx, ChoiceRequest{
		Player:     p.Name,
		Kind:       kind,
		Directions: dirs,
		Message:    "Choose a direction",
	})
	if err != nil || !ok {
		return 0, false, err
	}
	if !slices.Contains(dirs, choice.Direction) {
		r.logger.Warn("Rejected infeasible direction", "player", p.Name, "kind", kind, "direction", choice.Direction)
		return 0, false, nil
	}
	return choice.Direction, true, nil
}

func (r *Resolver) pickTarget(ctx context.Context, p *game.Player, kind deck.Kind, targets []*game.Player) (*game.Player, bool, error) {
	if len(targets) == 0 {
		return nil, false, nil
	}
	if p.Bot {
		return targets[r.state.Rand().IntN(len(targets))], true, nil
	}
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	choice, ok, err := r.ask(ctx, ChoiceRequest{
		Player:  p.Name,
		Kind:    kind,
		Targets: names,
		Message: "Choose a target",
	})
	if err != nil || !ok {
		return nil, false, err
	}
	idx := slices.Index(names, choice.Target)
	if idx < 0 {
		r.logger.Warn("Rejected ineligible target", "player", p.Name, "kind", kind, "target", choice.Target)
		return nil, false, nil
	}
	return targets[idx], true, nil
}
