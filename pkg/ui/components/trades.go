// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// TradeRow represents one pool operation in the feed.
type TradeRow struct {
	Timestamp string
	Kind      string // "swap", "provide", "withdraw", "deposit"
	Caller    string // shortened principal
	Detail    string // pre-formatted amounts, e.g. "100 GOLD -> 91 SILVER"
}

// TradesComponent renders the scrollable trade feed.
type TradesComponent struct {
	rows    []TradeRow
	maxRows int
	offset  int
	visible int
}

// NewTradesComponent creates a new trades component retaining maxRows entries.
func NewTradesComponent(maxRows int) *TradesComponent {
	return &TradesComponent{
		rows:    make([]TradeRow, 0),
		maxRows: maxRows,
		visible: 12,
	}
}

// Add prepends a trade to the feed.
func (t *TradesComponent) Add(row TradeRow) {
	t.rows = append([]TradeRow{row}, t.rows...)
	if len(t.rows) > t.maxRows {
		t.rows = t.rows[:t.maxRows]
	}
	t.offset = 0
}

// Clear empties the feed.
func (t *TradesComponent) Clear() {
	t.rows = make([]TradeRow, 0)
	t.offset = 0
}

// ScrollUp moves the window toward older entries.
func (t *TradesComponent) ScrollUp() {
	if t.offset+t.visible < len(t.rows) {
		t.offset++
	}
}

// ScrollDown moves the window toward newer entries.
func (t *TradesComponent) ScrollDown() {
	if t.offset > 0 {
		t.offset--
	}
}

func kindStyle(kind string) lipgloss.Style {
	switch kind {
	case "swap":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	case "provide":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	case "withdraw":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	}
}

// View renders the trades component.
func (t *TradesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	result := headerStyle.Render(fmt.Sprintf("TRADES (last %d)", t.maxRows)) + "\n\n"

	if len(t.rows) == 0 {
		return result + dimStyle.Render("  No trades yet...")
	}

	end := t.offset + t.visible
	if end > len(t.rows) {
		end = len(t.rows)
	}
	for _, row := range t.rows[t.offset:end] {
		result += fmt.Sprintf("  %s %s %s %s\n",
			dimStyle.Render(row.Timestamp),
			kindStyle(row.Kind).Render(fmt.Sprintf("%-9s", row.Kind)),
			dimStyle.Render(row.Caller),
			row.Detail,
		)
	}
	if t.offset > 0 {
		result += dimStyle.Render(fmt.Sprintf("  ... %d newer", t.offset)) + "\n"
	}

	return result
}
