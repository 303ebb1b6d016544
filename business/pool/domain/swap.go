package domain

import "math/big"

// Swap pricing derives from (reserveIn + effectiveIn) * (reserveOut - out) = K
// with K taken before the trade and effectiveIn = in * (1000 - fee) / 1000.
// The fee is carved out of the input before it participates in pricing, so
// fee revenue stays in the pool as extra reserve and K drifts upward over
// repeated swaps.
//
// Both trade directions share the two quote cores below; the exported
// methods only fix which side is "in".

// legs binds a trade direction to the pool's state: the caller ledger and
// reserve of the input asset, and the same for the output asset. The big.Int
// reserves alias the pool fields, so in-place mutation updates the pool.
type legs struct {
	balanceIn  map[Principal]*big.Int
	balanceOut map[Principal]*big.Int
	reserveIn  *big.Int
	reserveOut *big.Int
}

func (p *Pool) asset1In() legs {
	return legs{p.balance1, p.balance2, p.totalAsset1, p.totalAsset2}
}

func (p *Pool) asset2In() legs {
	return legs{p.balance2, p.balance1, p.totalAsset2, p.totalAsset1}
}

// effectiveInput strips the per-mille fee from amountIn, flooring.
func (p *Pool) effectiveInput(amountIn *big.Int) *big.Int {
	kept := new(big.Int).Mul(big.NewInt(int64(feeDenominator-p.feeRate)), amountIn)
	return kept.Div(kept, big.NewInt(feeDenominator))
}

// quoteOutGivenIn prices an exact-input trade. The output is capped one unit
// below the full reserve: when floor division rounds the post-trade reserve
// to zero, the quote is decremented so a single swap can never fully drain
// one side.
func (p *Pool) quoteOutGivenIn(l legs, amountIn *big.Int) (*big.Int, error) {
	if err := p.requireActive(); err != nil {
		return nil, err
	}
	if amountIn == nil || amountIn.Sign() < 0 {
		return nil, ErrZeroAmount
	}
	k := p.K()
	inAfter := new(big.Int).Add(l.reserveIn, p.effectiveInput(amountIn))
	outAfter := new(big.Int).Div(k, inAfter)
	out := new(big.Int).Sub(l.reserveOut, outAfter)
	if out.Cmp(l.reserveOut) == 0 {
		out.Sub(out, big.NewInt(1))
	}
	return out, nil
}

// quoteInGivenOut prices an exact-output trade, grossing the fee back up.
// Requesting the whole output reserve or more fails with
// ErrInsufficientLiquidity. The integer regross can under-quote by up to the
// fee-rate rounding error; this is the externally observable formula and is
// kept as is.
func (p *Pool) quoteInGivenOut(l legs, amountOut *big.Int) (*big.Int, error) {
	if err := p.requireActive(); err != nil {
		return nil, err
	}
	if amountOut == nil || amountOut.Sign() < 0 {
		return nil, ErrZeroAmount
	}
	if amountOut.Cmp(l.reserveOut) >= 0 {
		return nil, ErrInsufficientLiquidity
	}
	k := p.K()
	outAfter := new(big.Int).Sub(l.reserveOut, amountOut)
	inAfter := new(big.Int).Div(k, outAfter)
	gross := new(big.Int).Sub(inAfter, l.reserveIn)
	in := gross.Mul(gross, big.NewInt(feeDenominator))
	return in.Div(in, big.NewInt(int64(feeDenominator-p.feeRate))), nil
}

// swapGivenInput validates, quotes, checks the caller's min-out bound, then
// applies all four ledger moves. Validation failures leave the pool
// untouched.
func (p *Pool) swapGivenInput(caller Principal, l legs, amountIn, minOut *big.Int) (*big.Int, error) {
	if err := p.requireAffordable(l.balanceIn, caller, amountIn); err != nil {
		return nil, err
	}
	out, err := p.quoteOutGivenIn(l, amountIn)
	if err != nil {
		return nil, err
	}
	if minOut != nil && out.Cmp(minOut) < 0 {
		return nil, ErrSlippageExceeded
	}

	debit(l.balanceIn, caller, amountIn)
	l.reserveIn.Add(l.reserveIn, amountIn)
	l.reserveOut.Sub(l.reserveOut, out)
	credit(l.balanceOut, caller, out)

	return out, nil
}

// swapGivenOutput quotes the required input, checks the caller's max-in
// bound, validates affordability of the quoted input, then applies the same
// ledger moves as the exact-input case.
func (p *Pool) swapGivenOutput(caller Principal, l legs, amountOut, maxIn *big.Int) (*big.Int, error) {
	in, err := p.quoteInGivenOut(l, amountOut)
	if err != nil {
		return nil, err
	}
	if maxIn != nil && in.Cmp(maxIn) > 0 {
		return nil, ErrSlippageExceeded
	}
	if err := p.requireAffordable(l.balanceIn, caller, in); err != nil {
		return nil, err
	}

	debit(l.balanceIn, caller, in)
	l.reserveIn.Add(l.reserveIn, in)
	l.reserveOut.Sub(l.reserveOut, amountOut)
	credit(l.balanceOut, caller, amountOut)

	return new(big.Int).Set(in), nil
}

// QuoteAsset2ForAsset1In returns the asset-2 output for an exact asset-1
// input.
func (p *Pool) QuoteAsset2ForAsset1In(amountIn *big.Int) (*big.Int, error) {
	return p.quoteOutGivenIn(p.asset1In(), amountIn)
}

// QuoteAsset1ForAsset2Out returns the asset-1 input required for an exact
// asset-2 output.
func (p *Pool) QuoteAsset1ForAsset2Out(amountOut *big.Int) (*big.Int, error) {
	return p.quoteInGivenOut(p.asset1In(), amountOut)
}

// QuoteAsset1ForAsset2In returns the asset-1 output for an exact asset-2
// input.
func (p *Pool) QuoteAsset1ForAsset2In(amountIn *big.Int) (*big.Int, error) {
	return p.quoteOutGivenIn(p.asset2In(), amountIn)
}

// QuoteAsset2ForAsset1Out returns the asset-2 input required for an exact
// asset-1 output.
func (p *Pool) QuoteAsset2ForAsset1Out(amountOut *big.Int) (*big.Int, error) {
	return p.quoteInGivenOut(p.asset2In(), amountOut)
}

// SwapAsset1GivenInput trades an exact asset-1 input for asset 2, failing
// with ErrSlippageExceeded when the quote falls below minOut. A nil minOut
// means no bound.
func (p *Pool) SwapAsset1GivenInput(caller Principal, amountIn, minOut *big.Int) (*big.Int, error) {
	return p.swapGivenInput(caller, p.asset1In(), amountIn, minOut)
}

// SwapAsset1GivenOutput trades asset 1 for an exact asset-2 output, failing
// with ErrSlippageExceeded when the quoted input exceeds maxIn. A nil maxIn
// means no bound.
func (p *Pool) SwapAsset1GivenOutput(caller Principal, amountOut, maxIn *big.Int) (*big.Int, error) {
	return p.swapGivenOutput(caller, p.asset1In(), amountOut, maxIn)
}

// SwapAsset2GivenInput trades an exact asset-2 input for asset 1.
func (p *Pool) SwapAsset2GivenInput(caller Principal, amountIn, minOut *big.Int) (*big.Int, error) {
	return p.swapGivenInput(caller, p.asset2In(), amountIn, minOut)
}

// SwapAsset2GivenOutput trades asset 2 for an exact asset-1 output.
func (p *Pool) SwapAsset2GivenOutput(caller Principal, amountOut, maxIn *big.Int) (*big.Int, error) {
	return p.swapGivenOutput(caller, p.asset2In(), amountOut, maxIn)
}
