package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Principal identifies the caller of a pool operation. It is opaque to the
// pool: only equality matters. Addresses are convenient because they are
// comparable, hashable and have a stable text form for snapshots.
type Principal = common.Address

const (
	// precisionScale fixes the granularity of the genesis share issuance.
	precisionScale = 1_000_000

	// feeDenominator expresses the trading fee in per-mille.
	feeDenominator = 1000
)

// genesisShares is the share count minted by the first deposit into an empty
// pool, regardless of the deposited quantities. The first depositor sets the
// effective exchange rate.
func genesisShares() *big.Int {
	return new(big.Int).Mul(big.NewInt(100), big.NewInt(precisionScale))
}

// Pool is a two-asset constant-product market maker. It owns the reserves,
// the outstanding ownership shares, and a self-contained off-pool balance
// ledger per principal. All quantities are non-negative integers; every
// quotient is floor division.
//
// Pool is not safe for concurrent use; the application layer serializes
// access (see app.PoolService).
type Pool struct {
	feeRate     uint64 // per-mille, immutable after construction
	totalShares *big.Int
	totalAsset1 *big.Int
	totalAsset2 *big.Int

	shares   map[Principal]*big.Int
	balance1 map[Principal]*big.Int
	balance2 map[Principal]*big.Int
}

// NewPool creates an empty pool charging feeRate per-mille on every swap.
// A rate outside [0, 1000) is coerced to 0 (no fee) rather than rejected.
func NewPool(feeRate uint64) *Pool {
	if feeRate >= feeDenominator {
		feeRate = 0
	}
	return &Pool{
		feeRate:     feeRate,
		totalShares: new(big.Int),
		totalAsset1: new(big.Int),
		totalAsset2: new(big.Int),
		shares:      make(map[Principal]*big.Int),
		balance1:    make(map[Principal]*big.Int),
		balance2:    make(map[Principal]*big.Int),
	}
}

// FeeRate returns the per-mille trading fee fixed at creation.
func (p *Pool) FeeRate() uint64 {
	return p.feeRate
}

// K returns the constant-product invariant totalAsset1 * totalAsset2.
// Swaps never decrease it beyond integer rounding; fee accrual makes it grow.
func (p *Pool) K() *big.Int {
	return new(big.Int).Mul(p.totalAsset1, p.totalAsset2)
}

// requireActive fails with ErrZeroLiquidity when the pool holds no reserves.
// Every quote and swap path goes through it, which is what keeps the pricing
// formulas free of division by zero.
func (p *Pool) requireActive() error {
	if p.K().Sign() == 0 {
		return ErrZeroLiquidity
	}
	return nil
}

// requireAffordable fails with ErrZeroAmount when qty is not strictly
// positive, and with ErrInsufficientAmount when it exceeds the caller's entry
// in balances (absence means zero). It has no side effect.
func (p *Pool) requireAffordable(balances map[Principal]*big.Int, caller Principal, qty *big.Int) error {
	if qty == nil || qty.Sign() <= 0 {
		return ErrZeroAmount
	}
	if qty.Cmp(lookup(balances, caller)) > 0 {
		return ErrInsufficientAmount
	}
	return nil
}

// lookup returns the stored entry for p, or zero. The result must not be
// mutated by callers.
func lookup(m map[Principal]*big.Int, p Principal) *big.Int {
	if v, ok := m[p]; ok {
		return v
	}
	return zero
}

var zero = new(big.Int)

func credit(m map[Principal]*big.Int, p Principal, amt *big.Int) {
	cur, ok := m[p]
	if !ok {
		cur = new(big.Int)
		m[p] = cur
	}
	cur.Add(cur, amt)
}

// debit assumes the entry exists and covers amt; callers validate first.
func debit(m map[Principal]*big.Int, p Principal, amt *big.Int) {
	m[p].Sub(m[p], amt)
}

// Credit adds externally sourced funds to the caller's off-pool balances.
// This is the host's deposit hook: the pool itself never issues assets.
// Negative amounts are rejected; zero is a no-op.
func (p *Pool) Credit(caller Principal, amount1, amount2 *big.Int) error {
	if amount1 == nil || amount2 == nil || amount1.Sign() < 0 || amount2.Sign() < 0 {
		return ErrZeroAmount
	}
	credit(p.balance1, caller, amount1)
	credit(p.balance2, caller, amount2)
	return nil
}

// Provide deposits amount1 and amount2 from the caller's off-pool balances
// and mints ownership shares.
//
// The genesis deposit mints exactly 100 * 1e6 shares whatever the amounts.
// Later deposits must match the pool price ratio exactly: shares are computed
// independently from each side with floor division and the two results must
// be equal, otherwise ErrNonEquivalentValue. A result of zero shares fails
// with ErrThresholdNotReached.
func (p *Pool) Provide(caller Principal, amount1, amount2 *big.Int) (*big.Int, error) {
	if err := p.requireAffordable(p.balance1, caller, amount1); err != nil {
		return nil, err
	}
	if err := p.requireAffordable(p.balance2, caller, amount2); err != nil {
		return nil, err
	}

	var issued *big.Int
	if p.totalShares.Sign() == 0 {
		issued = genesisShares()
	} else {
		share1 := new(big.Int).Div(new(big.Int).Mul(p.totalShares, amount1), p.totalAsset1)
		share2 := new(big.Int).Div(new(big.Int).Mul(p.totalShares, amount2), p.totalAsset2)
		if share1.Cmp(share2) != 0 {
			return nil, ErrNonEquivalentValue
		}
		if share1.Sign() == 0 {
			return nil, ErrThresholdNotReached
		}
		issued = share1
	}

	debit(p.balance1, caller, amount1)
	debit(p.balance2, caller, amount2)
	p.totalAsset1.Add(p.totalAsset1, amount1)
	p.totalAsset2.Add(p.totalAsset2, amount2)
	p.totalShares.Add(p.totalShares, issued)
	credit(p.shares, caller, issued)

	return new(big.Int).Set(issued), nil
}

// WithdrawEstimate returns the reserve amounts a burn of share shares would
// release, pro rata with floor division. Rounding is deliberately in the
// pool's favor: the dust stays in the reserves.
func (p *Pool) WithdrawEstimate(share *big.Int) (*big.Int, *big.Int, error) {
	if err := p.requireActive(); err != nil {
		return nil, nil, err
	}
	if share == nil || share.Sign() < 0 || share.Cmp(p.totalShares) > 0 {
		return nil, nil, ErrInvalidShare
	}
	amount1 := new(big.Int).Div(new(big.Int).Mul(share, p.totalAsset1), p.totalShares)
	amount2 := new(big.Int).Div(new(big.Int).Mul(share, p.totalAsset2), p.totalShares)
	return amount1, amount2, nil
}

// Withdraw burns share shares held by the caller and credits the released
// reserves to the caller's off-pool balances. The pro-rata formula guarantees
// the released amounts never exceed the reserves while share <= totalShares,
// so no further non-negativity check is needed.
func (p *Pool) Withdraw(caller Principal, share *big.Int) (*big.Int, *big.Int, error) {
	if err := p.requireAffordable(p.shares, caller, share); err != nil {
		return nil, nil, err
	}
	amount1, amount2, err := p.WithdrawEstimate(share)
	if err != nil {
		return nil, nil, err
	}

	debit(p.shares, caller, share)
	p.totalShares.Sub(p.totalShares, share)
	p.totalAsset1.Sub(p.totalAsset1, amount1)
	p.totalAsset2.Sub(p.totalAsset2, amount2)
	credit(p.balance1, caller, amount1)
	credit(p.balance2, caller, amount2)

	return amount1, amount2, nil
}

// Holdings returns the caller's off-pool balances and share count.
func (p *Pool) Holdings(caller Principal) (balance1, balance2, shares *big.Int) {
	return new(big.Int).Set(lookup(p.balance1, caller)),
		new(big.Int).Set(lookup(p.balance2, caller)),
		new(big.Int).Set(lookup(p.shares, caller))
}

// Details returns the reserves, the outstanding share supply, and the fee.
func (p *Pool) Details() (totalAsset1, totalAsset2, totalShares *big.Int, feeRate uint64) {
	return new(big.Int).Set(p.totalAsset1),
		new(big.Int).Set(p.totalAsset2),
		new(big.Int).Set(p.totalShares),
		p.feeRate
}

// ShareHolderCount returns the number of principals with a nonzero share
// entry.
func (p *Pool) ShareHolderCount() int {
	n := 0
	for _, s := range p.shares {
		if s.Sign() > 0 {
			n++
		}
	}
	return n
}
