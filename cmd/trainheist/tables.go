package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/trainheist/internal/game"
	"github.com/lox/trainheist/internal/statistics"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func standingsTable(standings []game.Standing) string {
	t := newTable("#", "Player", "Credits", "Bars", "Shots", "Type")
	for i, s := range standings {
		kind := "human"
		if s.Bot {
			kind = "bot"
		}
		t.Row(fmt.Sprint(i+1), s.Name, fmt.Sprintf("$%d", s.Credits), fmt.Sprint(s.GoldBars), fmt.Sprint(s.BulletsGiven), kind)
	}
	return titleStyle.Render("Final standings") + "\n" + t.String()
}

func statisticsTable(stats *statistics.Statistics) string {
	t := newTable("Seat", "Player", "Policy", "Wins", "Win %", "Mean $", "95% CI")
	for _, ps := range stats.Players() {
		low, high := ps.Credits.ConfidenceInterval95()
		t.Row(
			fmt.Sprint(ps.Seat),
			ps.Name,
			ps.Policy,
			fmt.Sprint(ps.Wins),
			fmt.Sprintf("%.1f", ps.WinRate()*100),
			fmt.Sprintf("%.1f", ps.Credits.Mean()),
			fmt.Sprintf("[%.1f, %.1f]", low, high),
		)
	}
	return titleStyle.Render(fmt.Sprintf("%d games", stats.Games)) + "\n" + t.String()
}
