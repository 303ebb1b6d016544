package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mglvn/swappool/business/pool/app"
	"github.com/mglvn/swappool/business/pool/domain"
)

// ConsoleReporter prints pool activity as plain lines. Suited for -cli mode
// and for piping into other tools.
type ConsoleReporter struct {
	pair Pair
	mu   sync.Mutex
	w    io.Writer
}

// NewConsoleReporter creates a reporter writing to w.
func NewConsoleReporter(w io.Writer, pair Pair) *ConsoleReporter {
	return &ConsoleReporter{pair: pair, w: w}
}

// Start implements app.Reporter.
func (r *ConsoleReporter) Start(_ context.Context) error {
	return nil
}

// Report prints one event line.
func (r *ConsoleReporter) Report(ev domain.Event) {
	kind, caller, detail := r.pair.describe(ev)
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%-9s %s  %s\n", kind, caller, detail)
}

// UpdatePool prints the pool summary line.
func (r *ConsoleReporter) UpdatePool(d app.PoolDetails) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "pool      %s=%s %s=%s shares=%s k=%s fee=%d‰ holders=%d\n",
		r.pair.Asset1, d.Reserve1, r.pair.Asset2, d.Reserve2,
		d.TotalShares, d.K, d.FeeRate, d.Holders)
}

// Stop implements app.Reporter.
func (r *ConsoleReporter) Stop() error {
	return nil
}
