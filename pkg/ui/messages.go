// Package ui provides the Bubble Tea TUI for the pool dashboard.
package ui

import (
	"time"
)

// Message types for TUI updates

// TradeMsg is sent when a pool operation completes.
type TradeMsg struct {
	Kind      string // "swap", "provide", "withdraw", "deposit"
	Caller    string // checksummed hex, shortened by the UI
	Detail    string // pre-formatted amounts
	Timestamp time.Time
}

// PoolUpdateMsg is sent when the pool state changes. All values are
// pre-formatted by the reporter; the UI does not calculate anything.
type PoolUpdateMsg struct {
	Reserve1    string
	Reserve2    string
	SpotPrice   string
	K           string
	TotalShares string
	FeeRate     uint64
	Holders     int
}

// SubsystemStatusMsg is sent when a subsystem's health changes.
type SubsystemStatusMsg struct {
	Name    string
	Healthy bool
	Detail  string
}

// FeedClientsMsg is sent when the event feed client count changes.
type FeedClientsMsg struct {
	Clients int
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// WelcomeCompleteMsg signals the welcome screen is done (timeout or keypress).
type WelcomeCompleteMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "loading", "done", "failed"
	Message string // Optional message
}
