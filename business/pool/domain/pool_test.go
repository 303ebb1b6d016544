package domain

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func addr(i int) Principal {
	return common.HexToAddress(fmt.Sprintf("0x%040x", i))
}

func bi(v int64) *big.Int { return big.NewInt(v) }

// fundedPool returns a pool where addr(1) holds balance on both sides.
func fundedPool(t *testing.T, feeRate uint64, balance int64) *Pool {
	t.Helper()
	p := NewPool(feeRate)
	if err := p.Credit(addr(1), bi(balance), bi(balance)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	return p
}

// seededPool returns a pool with a genesis deposit of (r1, r2) from addr(1).
func seededPool(t *testing.T, feeRate uint64, r1, r2 int64) *Pool {
	t.Helper()
	p := NewPool(feeRate)
	if err := p.Credit(addr(1), bi(r1), bi(r2)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := p.Provide(addr(1), bi(r1), bi(r2)); err != nil {
		t.Fatalf("genesis provide: %v", err)
	}
	return p
}

func TestNewPoolFeeSanitization(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want uint64
	}{
		{"zero", 0, 0},
		{"typical", 3, 3},
		{"max_valid", 999, 999},
		{"at_denominator", 1000, 0},
		{"above_denominator", 5000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPool(tt.in).FeeRate(); got != tt.want {
				t.Errorf("FeeRate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenesisProvideIssuesFixedShares(t *testing.T) {
	want := bi(100_000_000)
	tests := []struct {
		name string
		a1   int64
		a2   int64
	}{
		{"balanced", 1000, 1000},
		{"skewed", 1, 1_000_000},
		{"minimal", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fundedPool(t, 0, 1_000_000)
			got, err := p.Provide(addr(1), bi(tt.a1), bi(tt.a2))
			if err != nil {
				t.Fatalf("Provide: %v", err)
			}
			if got.Cmp(want) != 0 {
				t.Errorf("genesis shares = %s, want %s", got, want)
			}
		})
	}
}

func TestProvideValidation(t *testing.T) {
	tests := []struct {
		name    string
		a1, a2  int64
		wantErr error
	}{
		{"zero_asset1", 0, 100, ErrZeroAmount},
		{"zero_asset2", 100, 0, ErrZeroAmount},
		{"exceeds_asset1", 2000, 100, ErrInsufficientAmount},
		{"exceeds_asset2", 100, 2000, ErrInsufficientAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fundedPool(t, 0, 1000)
			_, err := p.Provide(addr(1), bi(tt.a1), bi(tt.a2))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Provide = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("unfunded_caller", func(t *testing.T) {
		p := NewPool(0)
		if _, err := p.Provide(addr(9), bi(100), bi(100)); !errors.Is(err, ErrInsufficientAmount) {
			t.Errorf("Provide = %v, want %v", err, ErrInsufficientAmount)
		}
	})
}

func TestProvideRatioMismatch(t *testing.T) {
	// Pool at 1:1 price; a 100:50 deposit mints unequal per-side shares.
	p := seededPool(t, 0, 1000, 1000)
	if err := p.Credit(addr(2), bi(100), bi(100)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Provide(addr(2), bi(100), bi(50)); !errors.Is(err, ErrNonEquivalentValue) {
		t.Fatalf("Provide = %v, want %v", err, ErrNonEquivalentValue)
	}

	// The failed deposit must not touch balances or reserves.
	b1, b2, sh := p.Holdings(addr(2))
	if b1.Cmp(bi(100)) != 0 || b2.Cmp(bi(100)) != 0 || sh.Sign() != 0 {
		t.Errorf("holdings after failed provide = (%s, %s, %s), want (100, 100, 0)", b1, b2, sh)
	}
}

func TestProvideThresholdNotReached(t *testing.T) {
	p := seededPool(t, 0, 1_000_000_000, 1_000_000_000)
	if err := p.Credit(addr(2), bi(5), bi(5)); err != nil {
		t.Fatal(err)
	}
	// 100e6 * 5 / 1e9 floors to 0 on both sides.
	if _, err := p.Provide(addr(2), bi(5), bi(5)); !errors.Is(err, ErrThresholdNotReached) {
		t.Fatalf("Provide = %v, want %v", err, ErrThresholdNotReached)
	}
}

func TestProvideMatchingRatioMintsProRata(t *testing.T) {
	p := seededPool(t, 0, 1000, 1000)
	if err := p.Credit(addr(2), bi(500), bi(500)); err != nil {
		t.Fatal(err)
	}
	got, err := p.Provide(addr(2), bi(500), bi(500))
	if err != nil {
		t.Fatalf("Provide: %v", err)
	}
	if want := bi(50_000_000); got.Cmp(want) != 0 {
		t.Errorf("shares = %s, want %s", got, want)
	}
	r1, r2, total, _ := p.Details()
	if r1.Cmp(bi(1500)) != 0 || r2.Cmp(bi(1500)) != 0 || total.Cmp(bi(150_000_000)) != 0 {
		t.Errorf("details = (%s, %s, %s), want (1500, 1500, 150000000)", r1, r2, total)
	}
}

func TestWithdrawEstimate(t *testing.T) {
	t.Run("empty_pool", func(t *testing.T) {
		p := NewPool(0)
		if _, _, err := p.WithdrawEstimate(bi(1)); !errors.Is(err, ErrZeroLiquidity) {
			t.Errorf("WithdrawEstimate = %v, want %v", err, ErrZeroLiquidity)
		}
	})

	t.Run("share_exceeds_total", func(t *testing.T) {
		p := seededPool(t, 0, 1000, 1000)
		if _, _, err := p.WithdrawEstimate(bi(100_000_001)); !errors.Is(err, ErrInvalidShare) {
			t.Errorf("WithdrawEstimate = %v, want %v", err, ErrInvalidShare)
		}
	})

	t.Run("pro_rata_floor", func(t *testing.T) {
		p := seededPool(t, 0, 1000, 1000)
		a1, a2, err := p.WithdrawEstimate(bi(33_333_333))
		if err != nil {
			t.Fatalf("WithdrawEstimate: %v", err)
		}
		// 33333333 * 1000 / 100000000 floors to 333; the .33 dust stays pooled.
		if a1.Cmp(bi(333)) != 0 || a2.Cmp(bi(333)) != 0 {
			t.Errorf("estimate = (%s, %s), want (333, 333)", a1, a2)
		}
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		p := seededPool(t, 0, 1000, 1000)
		if _, _, err := p.Withdraw(addr(1), bi(0)); !errors.Is(err, ErrZeroAmount) {
			t.Errorf("Withdraw(0) = %v, want %v", err, ErrZeroAmount)
		}
		if _, _, err := p.Withdraw(addr(1), bi(100_000_001)); !errors.Is(err, ErrInsufficientAmount) {
			t.Errorf("Withdraw(too much) = %v, want %v", err, ErrInsufficientAmount)
		}
		if _, _, err := p.Withdraw(addr(2), bi(1)); !errors.Is(err, ErrInsufficientAmount) {
			t.Errorf("Withdraw(stranger) = %v, want %v", err, ErrInsufficientAmount)
		}
	})

	t.Run("full_withdrawal_empties_pool", func(t *testing.T) {
		p := seededPool(t, 0, 1000, 1000)
		a1, a2, err := p.Withdraw(addr(1), bi(100_000_000))
		if err != nil {
			t.Fatalf("Withdraw: %v", err)
		}
		if a1.Cmp(bi(1000)) != 0 || a2.Cmp(bi(1000)) != 0 {
			t.Errorf("withdrawn = (%s, %s), want (1000, 1000)", a1, a2)
		}
		r1, r2, total, _ := p.Details()
		if r1.Sign() != 0 || r2.Sign() != 0 || total.Sign() != 0 {
			t.Errorf("pool not empty after full withdrawal: (%s, %s, %s)", r1, r2, total)
		}
		b1, b2, sh := p.Holdings(addr(1))
		if b1.Cmp(bi(1000)) != 0 || b2.Cmp(bi(1000)) != 0 || sh.Sign() != 0 {
			t.Errorf("holdings = (%s, %s, %s), want (1000, 1000, 0)", b1, b2, sh)
		}

		// Empty again: swaps and quotes are disabled.
		if _, err := p.QuoteAsset2ForAsset1In(bi(10)); !errors.Is(err, ErrZeroLiquidity) {
			t.Errorf("quote on emptied pool = %v, want %v", err, ErrZeroLiquidity)
		}
	})

	t.Run("provide_withdraw_round_trip", func(t *testing.T) {
		p := seededPool(t, 0, 1000, 1000)
		if err := p.Credit(addr(2), bi(500), bi(500)); err != nil {
			t.Fatal(err)
		}
		minted, err := p.Provide(addr(2), bi(500), bi(500))
		if err != nil {
			t.Fatalf("Provide: %v", err)
		}
		a1, a2, err := p.Withdraw(addr(2), minted)
		if err != nil {
			t.Fatalf("Withdraw: %v", err)
		}
		if a1.Cmp(bi(500)) != 0 || a2.Cmp(bi(500)) != 0 {
			t.Errorf("round trip returned (%s, %s), want (500, 500)", a1, a2)
		}
		r1, r2, _, _ := p.Details()
		if r1.Cmp(bi(1000)) != 0 || r2.Cmp(bi(1000)) != 0 {
			t.Errorf("reserves after round trip = (%s, %s), want (1000, 1000)", r1, r2)
		}
	})
}

// Withdrawal flooring always rounds in the pool's favor, so repeated partial
// withdrawals leave a monotone dust drift in the reserves. That drift is
// intended behavior, not a leak.
func TestWithdrawRoundingDustFavorsPool(t *testing.T) {
	p := seededPool(t, 0, 1000, 1000)
	third := bi(33_333_333)
	a1, a2, err := p.Withdraw(addr(1), third)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if a1.Cmp(bi(333)) != 0 || a2.Cmp(bi(333)) != 0 {
		t.Fatalf("withdrawn = (%s, %s), want (333, 333)", a1, a2)
	}
	r1, r2, total, _ := p.Details()
	if r1.Cmp(bi(667)) != 0 || r2.Cmp(bi(667)) != 0 {
		t.Errorf("reserves = (%s, %s), want (667, 667)", r1, r2)
	}
	if total.Cmp(bi(66_666_667)) != 0 {
		t.Errorf("total shares = %s, want 66666667", total)
	}
}

func TestCredit(t *testing.T) {
	p := NewPool(0)
	if err := p.Credit(addr(1), bi(-1), bi(0)); !errors.Is(err, ErrZeroAmount) {
		t.Errorf("Credit(negative) = %v, want %v", err, ErrZeroAmount)
	}
	if err := p.Credit(addr(1), bi(10), bi(20)); err != nil {
		t.Fatal(err)
	}
	if err := p.Credit(addr(1), bi(5), bi(5)); err != nil {
		t.Fatal(err)
	}
	b1, b2, _ := p.Holdings(addr(1))
	if b1.Cmp(bi(15)) != 0 || b2.Cmp(bi(25)) != 0 {
		t.Errorf("holdings = (%s, %s), want (15, 25)", b1, b2)
	}
}

// shareSum adds up every share entry; it must equal the pool's total after
// any operation.
func shareSum(p *Pool) *big.Int {
	sum := new(big.Int)
	for _, v := range p.shares {
		sum.Add(sum, v)
	}
	return sum
}

func TestShareConservation(t *testing.T) {
	p := NewPool(5)
	check := func(step string) {
		t.Helper()
		_, _, total, _ := p.Details()
		if sum := shareSum(p); sum.Cmp(total) != 0 {
			t.Fatalf("%s: share sum %s != total %s", step, sum, total)
		}
	}

	for i := 1; i <= 3; i++ {
		if err := p.Credit(addr(i), bi(1_000_000), bi(1_000_000)); err != nil {
			t.Fatal(err)
		}
	}
	check("after funding")

	if _, err := p.Provide(addr(1), bi(100_000), bi(100_000)); err != nil {
		t.Fatal(err)
	}
	check("after genesis")

	if _, err := p.Provide(addr(2), bi(50_000), bi(50_000)); err != nil {
		t.Fatal(err)
	}
	check("after second provide")

	if _, err := p.SwapAsset1GivenInput(addr(3), bi(1000), nil); err != nil {
		t.Fatal(err)
	}
	check("after swap")

	if _, _, err := p.Withdraw(addr(2), bi(25_000_000)); err != nil {
		t.Fatal(err)
	}
	check("after withdraw")
}

func TestHoldingsReturnsCopies(t *testing.T) {
	p := seededPool(t, 0, 1000, 1000)
	_, _, sh := p.Holdings(addr(1))
	sh.SetInt64(0)
	_, _, again := p.Holdings(addr(1))
	if again.Cmp(bi(100_000_000)) != 0 {
		t.Errorf("internal share entry mutated through Holdings result")
	}
}

func TestSnapshotRestore(t *testing.T) {
	p := seededPool(t, 7, 1000, 2000)
	if err := p.Credit(addr(2), bi(300), bi(600)); err != nil {
		t.Fatal(err)
	}

	snap := p.Snapshot()
	restored := RestorePool(snap)

	r1, r2, total, fee := restored.Details()
	if r1.Cmp(bi(1000)) != 0 || r2.Cmp(bi(2000)) != 0 || total.Cmp(bi(100_000_000)) != 0 || fee != 7 {
		t.Errorf("restored details = (%s, %s, %s, %d)", r1, r2, total, fee)
	}
	b1, b2, _ := restored.Holdings(addr(2))
	if b1.Cmp(bi(300)) != 0 || b2.Cmp(bi(600)) != 0 {
		t.Errorf("restored holdings = (%s, %s), want (300, 600)", b1, b2)
	}

	// Snapshot is a deep copy: mutating the source afterwards must not leak.
	if err := p.Credit(addr(2), bi(1), bi(1)); err != nil {
		t.Fatal(err)
	}
	if snap.Balance1[addr(2).Hex()].Cmp(bi(300)) != 0 {
		t.Errorf("snapshot aliased live pool state")
	}
}

func TestShareHolderCount(t *testing.T) {
	p := seededPool(t, 0, 1000, 1000)
	if got := p.ShareHolderCount(); got != 1 {
		t.Fatalf("ShareHolderCount = %d, want 1", got)
	}
	if _, _, err := p.Withdraw(addr(1), bi(100_000_000)); err != nil {
		t.Fatal(err)
	}
	if got := p.ShareHolderCount(); got != 0 {
		t.Errorf("ShareHolderCount after full exit = %d, want 0", got)
	}
}
