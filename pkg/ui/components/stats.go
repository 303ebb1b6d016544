// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds operation counters for display.
type Stats struct {
	Swaps       int64
	Provides    int64
	Withdraws   int64
	Deposits    int64
	Errors      int64
	FeedClients int
}

// StatsComponent renders operation statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Swaps: %s  │  Provides: %s  │  Withdrawals: %s  │  Deposits: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Swaps)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Provides)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Withdraws)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Deposits)),
		) +
		fmt.Sprintf("Feed clients: %s  │  Errors: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.FeedClients)),
			errorsDisplay,
		)
}
