package tui

import (
	"fmt"
	"strings"

	"github.com/lox/trainheist/internal/deck"
	"github.com/lox/trainheist/internal/game"
)

// FormatEvent renders a game event as one or more plain log lines. State
// changes are shown in the sidebar and produce no line.
func FormatEvent(event game.GameEvent) string {
	switch e := event.(type) {
	case game.GameCardStartedEvent:
		return fmt.Sprintf("*** %s (%d/%d) ***\n%s", strings.ToUpper(e.Card.Name), e.Index+1, e.Total, e.Description)
	case game.CardRevealedEvent:
		return formatReveal(e)
	case game.ActionResultEvent:
		if e.Message == "" {
			return ""
		}
		return fmt.Sprintf("%s: %s", e.Player, e.Message)
	case game.GameOverEvent:
		return FormatStandings(e.Standings)
	default:
		return ""
	}
}

func formatReveal(e game.CardRevealedEvent) string {
	if e.Phase == game.PhasePlay {
		return fmt.Sprintf("%s plays %s", e.Owner, e.Kind.Label())
	}
	if e.Kind == deck.Hidden {
		return fmt.Sprintf("%s plants a card face down", e.Owner)
	}
	return fmt.Sprintf("%s plants %s [%s]", e.Owner, e.Kind.Label(), e.Turn)
}

// FormatStandings renders the final results table
func FormatStandings(standings []game.Standing) string {
	var sb strings.Builder
	sb.WriteString("*** GAME OVER ***")
	for i, s := range standings {
		kind := "human"
		if s.Bot {
			kind = "bot"
		}
		fmt.Fprintf(&sb, "\n%d. %-10s $%-5d %d bars  %d shots  (%s)", i+1, s.Name, s.Credits, s.GoldBars, s.BulletsGiven, kind)
	}
	return sb.String()
}

func formatDirection(dir int) string {
	if dir < 0 {
		return "left"
	}
	return "right"
}

func parseDirection(s string) (int, bool) {
	switch s {
	case "l", "left", "-1", "<":
		return -1, true
	case "r", "right", "1", "+1", ">":
		return 1, true
	default:
		return 0, false
	}
}
