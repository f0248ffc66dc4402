package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFA500"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EEEEEE")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3C3C3C"))
)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func printTitle(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(format, args...)))
}

func printNote(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// formatXP drops the fraction from whole values
func formatXP(xp float64) string {
	return strconv.FormatFloat(xp, 'f', -1, 64)
}

func renderOutcomes(outcomes []entities.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := "ok"
		if !o.Success {
			status = "failed"
		}
		rows = append(rows, []string{o.Kind.String(), status, string(o.Destination), describeOutcome(o)})
	}
	return renderTable([]string{"Reward", "Status", "Destination", "Detail"}, rows)
}

func describeOutcome(o entities.Outcome) string {
	if o.Error != "" {
		return o.Error
	}
	switch o.Kind {
	case entities.RewardKindXP:
		detail := fmt.Sprintf("%s +%s XP", o.ProficiencyID, formatXP(o.XP))
		if o.LevelsGained > 0 {
			detail += fmt.Sprintf(" (+%d levels)", o.LevelsGained)
		}
		return detail
	case entities.RewardKindItem, entities.RewardKindLoot:
		var parts []string
		parts = append(parts, fmt.Sprintf("%s x%d", o.ItemID, o.Quantity))
		if o.ItemLevel > 0 {
			parts = append(parts, fmt.Sprintf("ilvl %d", o.ItemLevel))
		}
		if o.DropID != "" {
			parts = append(parts, o.DropID)
		}
		return strings.Join(parts, ", ")
	case entities.RewardKindAbility:
		return o.AbilityID
	case entities.RewardKindAttribute:
		return fmt.Sprintf("%s %+g", o.Attribute, o.Delta)
	default:
		return ""
	}
}
