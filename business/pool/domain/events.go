package domain

import (
	"math/big"
	"time"
)

// Direction names the input side of a swap.
type Direction string

const (
	Asset1ToAsset2 Direction = "asset1->asset2"
	Asset2ToAsset1 Direction = "asset2->asset1"
)

// Event is a fact about a completed pool mutation. Events are emitted by the
// application layer after a successful operation, never on failure.
type Event interface {
	EventKind() string
}

// ProvideEvent records a liquidity deposit.
type ProvideEvent struct {
	Caller       Principal `json:"caller"`
	Amount1      *big.Int  `json:"amount1"`
	Amount2      *big.Int  `json:"amount2"`
	SharesIssued *big.Int  `json:"sharesIssued"`
	TotalShares  *big.Int  `json:"totalShares"`
	At           time.Time `json:"at"`
}

func (ProvideEvent) EventKind() string { return "provide" }

// WithdrawEvent records a liquidity withdrawal.
type WithdrawEvent struct {
	Caller       Principal `json:"caller"`
	SharesBurned *big.Int  `json:"sharesBurned"`
	Amount1      *big.Int  `json:"amount1"`
	Amount2      *big.Int  `json:"amount2"`
	TotalShares  *big.Int  `json:"totalShares"`
	At           time.Time `json:"at"`
}

func (WithdrawEvent) EventKind() string { return "withdraw" }

// SwapEvent records an executed swap together with the post-trade invariant.
type SwapEvent struct {
	Caller    Principal `json:"caller"`
	Direction Direction `json:"direction"`
	AmountIn  *big.Int  `json:"amountIn"`
	AmountOut *big.Int  `json:"amountOut"`
	K         *big.Int  `json:"k"`
	At        time.Time `json:"at"`
}

func (SwapEvent) EventKind() string { return "swap" }

// DepositEvent records a host-side funding of off-pool balances.
type DepositEvent struct {
	Caller  Principal `json:"caller"`
	Amount1 *big.Int  `json:"amount1"`
	Amount2 *big.Int  `json:"amount2"`
	At      time.Time `json:"at"`
}

func (DepositEvent) EventKind() string { return "deposit" }
