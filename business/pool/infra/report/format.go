// Package report presents pool activity on the console or the TUI.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mglvn/swappool/business/pool/app"
	"github.com/mglvn/swappool/business/pool/domain"
)

// Pair names the two pooled assets for display.
type Pair struct {
	Asset1 string
	Asset2 string
}

func (p Pair) direction(d domain.Direction) (from, to string) {
	if d == domain.Asset2ToAsset1 {
		return p.Asset2, p.Asset1
	}
	return p.Asset1, p.Asset2
}

// describe renders an event as a one-line amount summary.
func (p Pair) describe(ev domain.Event) (kind, caller, detail string) {
	switch e := ev.(type) {
	case domain.SwapEvent:
		from, to := p.direction(e.Direction)
		return "swap", e.Caller.Hex(),
			fmt.Sprintf("%s %s -> %s %s", e.AmountIn, from, e.AmountOut, to)
	case domain.ProvideEvent:
		return "provide", e.Caller.Hex(),
			fmt.Sprintf("+%s %s +%s %s (minted %s shares)",
				e.Amount1, p.Asset1, e.Amount2, p.Asset2, e.SharesIssued)
	case domain.WithdrawEvent:
		return "withdraw", e.Caller.Hex(),
			fmt.Sprintf("-%s %s -%s %s (burned %s shares)",
				e.Amount1, p.Asset1, e.Amount2, p.Asset2, e.SharesBurned)
	case domain.DepositEvent:
		return "deposit", e.Caller.Hex(),
			fmt.Sprintf("+%s %s +%s %s", e.Amount1, p.Asset1, e.Amount2, p.Asset2)
	default:
		return ev.EventKind(), "", ""
	}
}

func timeOf(ev domain.Event) time.Time {
	switch e := ev.(type) {
	case domain.SwapEvent:
		return e.At
	case domain.ProvideEvent:
		return e.At
	case domain.WithdrawEvent:
		return e.At
	case domain.DepositEvent:
		return e.At
	default:
		return time.Now()
	}
}

// spotPrice computes the mid price (asset2 per asset1) for display only.
func spotPrice(d app.PoolDetails) decimal.Decimal {
	if d.Reserve1 == nil || d.Reserve1.Sign() == 0 {
		return decimal.Zero
	}
	r1 := decimal.NewFromBigInt(d.Reserve1, 0)
	r2 := decimal.NewFromBigInt(d.Reserve2, 0)
	return r2.DivRound(r1, 6)
}
