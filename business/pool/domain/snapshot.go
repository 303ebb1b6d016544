package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the pool's full state in a persistence-friendly shape. Map keys
// are checksummed hex addresses so the JSON form is stable and diffable.
type Snapshot struct {
	FeeRate     uint64              `json:"feeRate"`
	TotalShares *big.Int            `json:"totalShares"`
	TotalAsset1 *big.Int            `json:"totalAsset1"`
	TotalAsset2 *big.Int            `json:"totalAsset2"`
	Shares      map[string]*big.Int `json:"shares"`
	Balance1    map[string]*big.Int `json:"balance1"`
	Balance2    map[string]*big.Int `json:"balance2"`
}

func copyOut(m map[Principal]*big.Int) map[string]*big.Int {
	out := make(map[string]*big.Int, len(m))
	for p, v := range m {
		out[p.Hex()] = new(big.Int).Set(v)
	}
	return out
}

func copyIn(m map[string]*big.Int) map[Principal]*big.Int {
	out := make(map[Principal]*big.Int, len(m))
	for hex, v := range m {
		if v == nil {
			v = new(big.Int)
		}
		out[common.HexToAddress(hex)] = new(big.Int).Set(v)
	}
	return out
}

// Snapshot returns a deep copy of the pool state.
func (p *Pool) Snapshot() *Snapshot {
	return &Snapshot{
		FeeRate:     p.feeRate,
		TotalShares: new(big.Int).Set(p.totalShares),
		TotalAsset1: new(big.Int).Set(p.totalAsset1),
		TotalAsset2: new(big.Int).Set(p.totalAsset2),
		Shares:      copyOut(p.shares),
		Balance1:    copyOut(p.balance1),
		Balance2:    copyOut(p.balance2),
	}
}

// RestorePool rebuilds a pool from a snapshot. The fee rate goes through the
// same sanitization as NewPool; nil scalar fields restore as zero.
func RestorePool(s *Snapshot) *Pool {
	p := NewPool(s.FeeRate)
	if s.TotalShares != nil {
		p.totalShares.Set(s.TotalShares)
	}
	if s.TotalAsset1 != nil {
		p.totalAsset1.Set(s.TotalAsset1)
	}
	if s.TotalAsset2 != nil {
		p.totalAsset2.Set(s.TotalAsset2)
	}
	p.shares = copyIn(s.Shares)
	p.balance1 = copyIn(s.Balance1)
	p.balance2 = copyIn(s.Balance2)
	return p
}
