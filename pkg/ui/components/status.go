// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ComponentStatus represents a subsystem's health.
type ComponentStatus struct {
	Name       string
	Healthy    bool
	Detail     string
	LastUpdate time.Time
}

// StatusComponent renders subsystem health.
type StatusComponent struct {
	components []ComponentStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		components: make([]ComponentStatus, 0),
	}
}

// Update updates a subsystem's status.
func (s *StatusComponent) Update(status ComponentStatus) {
	for i, c := range s.components {
		if c.Name == status.Name {
			s.components[i] = status
			return
		}
	}
	s.components = append(s.components, status)
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if len(s.components) == 0 {
		return "No subsystems registered"
	}

	var result string
	for _, c := range s.components {
		status := "● Healthy"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		if !c.Healthy {
			status = "○ Degraded"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		}

		line := fmt.Sprintf("├─ %s: %s", c.Name, style.Render(status))
		if c.Detail != "" {
			line += fmt.Sprintf(" (%s)", c.Detail)
		}
		result += line + "\n"
	}

	return result
}
