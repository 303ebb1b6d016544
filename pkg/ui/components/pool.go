// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// PoolState holds the pool figures for display. All values are computed by
// the domain; the UI only formats them.
type PoolState struct {
	Asset1      string
	Asset2      string
	Reserve1    decimal.Decimal
	Reserve2    decimal.Decimal
	SpotPrice   decimal.Decimal // asset2 per asset1, mid price without fee
	K           decimal.Decimal
	TotalShares decimal.Decimal
	FeeRate     uint64 // per-mille
	Holders     int
}

// PoolComponent renders the pool state panel.
type PoolComponent struct {
	state  PoolState
	loaded bool
}

// NewPoolComponent creates a new pool component.
func NewPoolComponent(asset1, asset2 string) *PoolComponent {
	return &PoolComponent{
		state: PoolState{Asset1: asset1, Asset2: asset2},
	}
}

// Update replaces the displayed pool state.
func (p *PoolComponent) Update(state PoolState) {
	if state.Asset1 == "" {
		state.Asset1 = p.state.Asset1
	}
	if state.Asset2 == "" {
		state.Asset2 = p.state.Asset2
	}
	p.state = state
	p.loaded = true
}

// View renders the pool component.
func (p *PoolComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	s := p.state
	var result string
	result = headerStyle.Render(fmt.Sprintf("POOL (%s/%s)", s.Asset1, s.Asset2))
	result += "\n\n"

	if !p.loaded {
		return result + dimStyle.Render("  Waiting for pool state...")
	}

	result += fmt.Sprintf("  %-14s %s\n", "Reserve "+s.Asset1+":", valueStyle.Render(s.Reserve1.String()))
	result += fmt.Sprintf("  %-14s %s\n", "Reserve "+s.Asset2+":", valueStyle.Render(s.Reserve2.String()))
	result += dimStyle.Render("  "+strings.Repeat("─", 40)) + "\n"

	if s.Reserve1.IsZero() && s.Reserve2.IsZero() {
		result += dimStyle.Render("  Pool is empty, waiting for liquidity...") + "\n"
	} else {
		result += fmt.Sprintf("  %-14s %s %s\n", "Spot price:",
			accentStyle.Render(s.SpotPrice.StringFixed(6)),
			dimStyle.Render(s.Asset2+"/"+s.Asset1))
	}

	result += fmt.Sprintf("  %-14s %s\n", "Invariant K:", valueStyle.Render(s.K.String()))
	result += fmt.Sprintf("  %-14s %s\n", "Total shares:", valueStyle.Render(s.TotalShares.String()))
	result += fmt.Sprintf("  %-14s %s\n", "Fee rate:",
		accentStyle.Render(decimal.NewFromUint64(s.FeeRate).Div(decimal.NewFromInt(10)).StringFixed(1)+"%"))
	result += fmt.Sprintf("  %-14s %s\n", "Holders:", valueStyle.Render(fmt.Sprintf("%d", s.Holders)))

	return result
}
