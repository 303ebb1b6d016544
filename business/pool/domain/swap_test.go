package domain

import (
	"errors"
	"testing"
)

// The reference scenario: fee-free pool, genesis 1000/1000 (K = 1e6), a 100
// asset-1 swap, then a half-share withdrawal estimate against the moved
// reserves.
func TestSwapReferenceScenario(t *testing.T) {
	p := seededPool(t, 0, 1000, 1000)
	if err := p.Credit(addr(2), bi(100), bi(0)); err != nil {
		t.Fatal(err)
	}

	out, err := p.SwapAsset1GivenInput(addr(2), bi(100), nil)
	if err != nil {
		t.Fatalf("SwapAsset1GivenInput: %v", err)
	}
	// asset1After = 1100, asset2After = 1e6/1100 = 909, out = 91.
	if out.Cmp(bi(91)) != 0 {
		t.Fatalf("amountOut = %s, want 91", out)
	}
	r1, r2, _, _ := p.Details()
	if r1.Cmp(bi(1100)) != 0 || r2.Cmp(bi(909)) != 0 {
		t.Fatalf("reserves = (%s, %s), want (1100, 909)", r1, r2)
	}
	b1, b2, _ := p.Holdings(addr(2))
	if b1.Sign() != 0 || b2.Cmp(bi(91)) != 0 {
		t.Fatalf("trader holdings = (%s, %s), want (0, 91)", b1, b2)
	}

	a1, a2, err := p.WithdrawEstimate(bi(50_000_000))
	if err != nil {
		t.Fatalf("WithdrawEstimate: %v", err)
	}
	if a1.Cmp(bi(550)) != 0 || a2.Cmp(bi(454)) != 0 {
		t.Errorf("half-share estimate = (%s, %s), want (550, 454)", a1, a2)
	}
}

func TestQuoteMatchesSwap(t *testing.T) {
	p := seededPool(t, 3, 100_000, 100_000)
	if err := p.Credit(addr(2), bi(10_000), bi(10_000)); err != nil {
		t.Fatal(err)
	}

	quoted, err := p.QuoteAsset2ForAsset1In(bi(500))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	got, err := p.SwapAsset1GivenInput(addr(2), bi(500), bi(0))
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if got.Cmp(quoted) != 0 {
		t.Errorf("executed %s != quoted %s", got, quoted)
	}
}

func TestQuoteOutGivenIn(t *testing.T) {
	tests := []struct {
		name     string
		feeRate  uint64
		r1, r2   int64
		amountIn int64
		want     int64
	}{
		// effectiveIn = in, asset2After = floor(K / (r1+in)).
		{"no_fee", 0, 1000, 1000, 100, 91},
		{"no_fee_tiny", 0, 1000, 1000, 1, 1},
		// fee 10%: effectiveIn = 90, asset2After = 1e6/1090 = 917.
		{"ten_percent_fee", 100, 1000, 1000, 100, 83},
		// fee floors the effective input to 0; the price does not move.
		{"fee_floors_input_away", 500, 1000, 1000, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := seededPool(t, tt.feeRate, tt.r1, tt.r2)
			got, err := p.QuoteAsset2ForAsset1In(bi(tt.amountIn))
			if err != nil {
				t.Fatalf("quote: %v", err)
			}
			if got.Cmp(bi(tt.want)) != 0 {
				t.Errorf("quote = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestQuoteInGivenOut(t *testing.T) {
	tests := []struct {
		name      string
		feeRate   uint64
		r1, r2    int64
		amountOut int64
		want      int64
		wantErr   error
	}{
		// asset2After = 909, asset1After = 1e6/909 = 1100, in = 100.
		{"no_fee", 0, 1000, 1000, 91, 100, nil},
		// Regross: 100 * 1000 / 900 floors to 111 - the documented
		// under-quote of the inverse fee formula.
		{"ten_percent_fee_regross", 100, 1000, 1000, 91, 111, nil},
		{"output_equals_reserve", 0, 1000, 1000, 1000, 0, ErrInsufficientLiquidity},
		{"output_above_reserve", 0, 1000, 1000, 1500, 0, ErrInsufficientLiquidity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := seededPool(t, tt.feeRate, tt.r1, tt.r2)
			got, err := p.QuoteAsset1ForAsset2Out(bi(tt.amountOut))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("quote err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("quote: %v", err)
			}
			if got.Cmp(bi(tt.want)) != 0 {
				t.Errorf("quote = %s, want %d", got, tt.want)
			}
		})
	}
}

// A single exact-input swap can never zero out the output reserve: when floor
// division rounds the post-trade reserve to nothing, the quote gives up one
// unit.
func TestSwapNeverDrainsReserve(t *testing.T) {
	p := seededPool(t, 0, 1000, 5)
	if err := p.Credit(addr(2), bi(10_000_000), bi(0)); err != nil {
		t.Fatal(err)
	}
	out, err := p.SwapAsset1GivenInput(addr(2), bi(10_000_000), nil)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if out.Cmp(bi(4)) != 0 {
		t.Errorf("amountOut = %s, want 4", out)
	}
	_, r2, _, _ := p.Details()
	if r2.Cmp(bi(1)) != 0 {
		t.Errorf("asset2 reserve = %s, want 1", r2)
	}
}

func TestSwapGivenInputSlippage(t *testing.T) {
	p := seededPool(t, 0, 1000, 1000)
	if err := p.Credit(addr(2), bi(100), bi(0)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.SwapAsset1GivenInput(addr(2), bi(100), bi(92)); !errors.Is(err, ErrSlippageExceeded) {
		t.Fatalf("swap = %v, want %v", err, ErrSlippageExceeded)
	}

	// Rejected swap leaves everything untouched.
	r1, r2, _, _ := p.Details()
	if r1.Cmp(bi(1000)) != 0 || r2.Cmp(bi(1000)) != 0 {
		t.Errorf("reserves moved on rejected swap: (%s, %s)", r1, r2)
	}
	b1, _, _ := p.Holdings(addr(2))
	if b1.Cmp(bi(100)) != 0 {
		t.Errorf("balance moved on rejected swap: %s", b1)
	}
}

func TestSwapGivenOutput(t *testing.T) {
	t.Run("executes", func(t *testing.T) {
		p := seededPool(t, 0, 1000, 1000)
		if err := p.Credit(addr(2), bi(100), bi(0)); err != nil {
			t.Fatal(err)
		}
		in, err := p.SwapAsset1GivenOutput(addr(2), bi(91), nil)
		if err != nil {
			t.Fatalf("swap: %v", err)
		}
		if in.Cmp(bi(100)) != 0 {
			t.Errorf("amountIn = %s, want 100", in)
		}
		r1, r2, _, _ := p.Details()
		if r1.Cmp(bi(1100)) != 0 || r2.Cmp(bi(909)) != 0 {
			t.Errorf("reserves = (%s, %s), want (1100, 909)", r1, r2)
		}
		_, b2, _ := p.Holdings(addr(2))
		if b2.Cmp(bi(91)) != 0 {
			t.Errorf("trader asset2 = %s, want 91", b2)
		}
	})

	t.Run("max_in_bound", func(t *testing.T) {
		p := seededPool(t, 0, 1000, 1000)
		if err := p.Credit(addr(2), bi(100), bi(0)); err != nil {
			t.Fatal(err)
		}
		if _, err := p.SwapAsset1GivenOutput(addr(2), bi(91), bi(99)); !errors.Is(err, ErrSlippageExceeded) {
			t.Errorf("swap = %v, want %v", err, ErrSlippageExceeded)
		}
	})

	t.Run("unaffordable_quote", func(t *testing.T) {
		p := seededPool(t, 0, 1000, 1000)
		if err := p.Credit(addr(2), bi(50), bi(0)); err != nil {
			t.Fatal(err)
		}
		if _, err := p.SwapAsset1GivenOutput(addr(2), bi(91), nil); !errors.Is(err, ErrInsufficientAmount) {
			t.Errorf("swap = %v, want %v", err, ErrInsufficientAmount)
		}
	})
}

func TestSwapMirrorDirection(t *testing.T) {
	p := seededPool(t, 0, 1000, 1000)
	if err := p.Credit(addr(2), bi(0), bi(100)); err != nil {
		t.Fatal(err)
	}
	out, err := p.SwapAsset2GivenInput(addr(2), bi(100), nil)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if out.Cmp(bi(91)) != 0 {
		t.Errorf("amountOut = %s, want 91", out)
	}
	r1, r2, _, _ := p.Details()
	if r1.Cmp(bi(909)) != 0 || r2.Cmp(bi(1100)) != 0 {
		t.Errorf("reserves = (%s, %s), want (909, 1100)", r1, r2)
	}
}

func TestSwapOnEmptyPool(t *testing.T) {
	p := NewPool(0)
	if err := p.Credit(addr(1), bi(100), bi(100)); err != nil {
		t.Fatal(err)
	}

	if _, err := p.QuoteAsset2ForAsset1In(bi(10)); !errors.Is(err, ErrZeroLiquidity) {
		t.Errorf("quote out = %v, want %v", err, ErrZeroLiquidity)
	}
	if _, err := p.QuoteAsset1ForAsset2Out(bi(10)); !errors.Is(err, ErrZeroLiquidity) {
		t.Errorf("quote in = %v, want %v", err, ErrZeroLiquidity)
	}
	if _, err := p.SwapAsset1GivenInput(addr(1), bi(10), nil); !errors.Is(err, ErrZeroLiquidity) {
		t.Errorf("swap = %v, want %v", err, ErrZeroLiquidity)
	}
	if _, err := p.SwapAsset1GivenInput(addr(1), bi(0), nil); !errors.Is(err, ErrZeroAmount) {
		t.Errorf("swap zero = %v, want %v", err, ErrZeroAmount)
	}
}

// With a positive fee the invariant never decreases across swaps, and a run
// of positive-size swaps leaves it strictly higher: the fee stays in the
// reserves.
func TestFeeAccrualGrowsInvariant(t *testing.T) {
	p := seededPool(t, 3, 1_000_000, 1_000_000)
	if err := p.Credit(addr(2), bi(100_000_000), bi(100_000_000)); err != nil {
		t.Fatal(err)
	}

	initial := p.K()
	prev := initial
	for i := 0; i < 50; i++ {
		var err error
		if i%2 == 0 {
			_, err = p.SwapAsset1GivenInput(addr(2), bi(2000), nil)
		} else {
			_, err = p.SwapAsset2GivenInput(addr(2), bi(2000), nil)
		}
		if err != nil {
			t.Fatalf("swap %d: %v", i, err)
		}
		k := p.K()
		if k.Cmp(prev) < 0 {
			t.Fatalf("swap %d: K decreased %s -> %s", i, prev, k)
		}
		prev = k
	}
	if prev.Cmp(initial) <= 0 {
		t.Errorf("K did not accrue fees: %s -> %s", initial, prev)
	}
}
