// Package domain contains the constant-product liquidity pool core.
package domain

import "errors"

// The pool fails with exactly one of these sentinel errors; callers branch
// with errors.Is. Any failure leaves the pool state untouched.
var (
	// ErrZeroLiquidity rejects quotes and swaps while the pool holds no
	// reserves (never provided, or fully withdrawn).
	ErrZeroLiquidity = errors.New("pool: zero liquidity")

	// ErrZeroAmount rejects operations on a zero quantity.
	ErrZeroAmount = errors.New("pool: amount cannot be zero")

	// ErrInsufficientAmount rejects operations exceeding the caller's balance.
	ErrInsufficientAmount = errors.New("pool: insufficient amount")

	// ErrNonEquivalentValue rejects deposits that do not match the pool's
	// current price ratio exactly.
	ErrNonEquivalentValue = errors.New("pool: non-equivalent value provided")

	// ErrThresholdNotReached rejects deposits too small to mint a share.
	ErrThresholdNotReached = errors.New("pool: contribution below share threshold")

	// ErrInvalidShare rejects withdrawal estimates beyond the outstanding
	// share supply.
	ErrInvalidShare = errors.New("pool: share exceeds total shares")

	// ErrInsufficientLiquidity rejects exact-output swaps that request the
	// whole reserve or more.
	ErrInsufficientLiquidity = errors.New("pool: insufficient pool balance")

	// ErrSlippageExceeded rejects swaps whose quote violates the caller's
	// min-out / max-in bound.
	ErrSlippageExceeded = errors.New("pool: slippage tolerance exceeded")
)
