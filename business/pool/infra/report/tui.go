package report

import (
	"context"

	"github.com/mglvn/swappool/business/pool/app"
	"github.com/mglvn/swappool/business/pool/domain"
	"github.com/mglvn/swappool/pkg/ui"
)

// TUIReporter forwards pool activity to the Bubble Tea dashboard. The TUI
// program itself is run by main; this reporter only sends messages.
type TUIReporter struct {
	pair Pair
}

// NewTUIReporter creates a reporter for the given asset pair.
func NewTUIReporter(pair Pair) *TUIReporter {
	return &TUIReporter{pair: pair}
}

// Start implements app.Reporter.
func (r *TUIReporter) Start(_ context.Context) error {
	return nil
}

// Report forwards one event to the dashboard feed.
func (r *TUIReporter) Report(ev domain.Event) {
	kind, caller, detail := r.pair.describe(ev)
	var at = timeOf(ev)
	ui.Send(ui.TradeMsg{
		Kind:      kind,
		Caller:    caller,
		Detail:    detail,
		Timestamp: at,
	})
}

// UpdatePool refreshes the dashboard's pool panel.
func (r *TUIReporter) UpdatePool(d app.PoolDetails) {
	ui.Send(ui.PoolUpdateMsg{
		Reserve1:    d.Reserve1.String(),
		Reserve2:    d.Reserve2.String(),
		SpotPrice:   spotPrice(d).String(),
		K:           d.K.String(),
		TotalShares: d.TotalShares.String(),
		FeeRate:     d.FeeRate,
		Holders:     d.Holders,
	})
}

// Stop implements app.Reporter.
func (r *TUIReporter) Stop() error {
	return nil
}
