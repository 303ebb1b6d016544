package app

import (
	"context"
	"math/big"

	"github.com/mglvn/swappool/business/pool/domain"
)

// LedgerStore persists pool snapshots between calls. The pool computes
// nothing through it; it is only where state lives.
type LedgerStore interface {
	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load returns the latest snapshot, or (nil, nil) when none exists.
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// EventSink receives pool events after successful operations. Publish must
// not block the caller for long; slow consumers buffer or drop.
type EventSink interface {
	Publish(ctx context.Context, ev domain.Event)
}

// PoolDetails is a read snapshot of the pool for reporters and dashboards.
type PoolDetails struct {
	Reserve1    *big.Int
	Reserve2    *big.Int
	TotalShares *big.Int
	K           *big.Int
	FeeRate     uint64
	Holders     int
}

// Reporter presents pool activity to an operator (console or TUI).
type Reporter interface {
	Start(ctx context.Context) error
	Report(ev domain.Event)
	UpdatePool(details PoolDetails)
	Stop() error
}
