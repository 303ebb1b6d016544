package report

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mglvn/swappool/business/pool/app"
	"github.com/mglvn/swappool/business/pool/domain"
)

var pair = Pair{Asset1: "GOLD", Asset2: "SILVER"}

func TestDescribe(t *testing.T) {
	caller := common.HexToAddress("0xabc")
	at := time.Now()

	tests := []struct {
		name       string
		ev         domain.Event
		wantKind   string
		wantDetail string
	}{
		{
			name: "swap_forward",
			ev: domain.SwapEvent{
				Caller: caller, Direction: domain.Asset1ToAsset2,
				AmountIn: big.NewInt(100), AmountOut: big.NewInt(91), At: at,
			},
			wantKind:   "swap",
			wantDetail: "100 GOLD -> 91 SILVER",
		},
		{
			name: "swap_mirrored",
			ev: domain.SwapEvent{
				Caller: caller, Direction: domain.Asset2ToAsset1,
				AmountIn: big.NewInt(50), AmountOut: big.NewInt(45), At: at,
			},
			wantKind:   "swap",
			wantDetail: "50 SILVER -> 45 GOLD",
		},
		{
			name: "provide",
			ev: domain.ProvideEvent{
				Caller: caller, Amount1: big.NewInt(1000), Amount2: big.NewInt(1000),
				SharesIssued: big.NewInt(100_000_000), TotalShares: big.NewInt(100_000_000), At: at,
			},
			wantKind:   "provide",
			wantDetail: "+1000 GOLD +1000 SILVER (minted 100000000 shares)",
		},
		{
			name: "withdraw",
			ev: domain.WithdrawEvent{
				Caller: caller, SharesBurned: big.NewInt(500),
				Amount1: big.NewInt(5), Amount2: big.NewInt(5),
				TotalShares: big.NewInt(0), At: at,
			},
			wantKind:   "withdraw",
			wantDetail: "-5 GOLD -5 SILVER (burned 500 shares)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kind, gotCaller, detail := pair.describe(tc.ev)
			if kind != tc.wantKind {
				t.Errorf("kind = %q, want %q", kind, tc.wantKind)
			}
			if gotCaller != caller.Hex() {
				t.Errorf("caller = %q, want %q", gotCaller, caller.Hex())
			}
			if detail != tc.wantDetail {
				t.Errorf("detail = %q, want %q", detail, tc.wantDetail)
			}
		})
	}
}

func TestSpotPrice(t *testing.T) {
	d := app.PoolDetails{Reserve1: big.NewInt(1000), Reserve2: big.NewInt(2000)}
	if got := spotPrice(d); got.String() != "2" {
		t.Fatalf("spot price = %s, want 2", got)
	}

	empty := app.PoolDetails{Reserve1: big.NewInt(0), Reserve2: big.NewInt(0)}
	if got := spotPrice(empty); !got.IsZero() {
		t.Fatalf("spot price on empty pool = %s, want 0", got)
	}
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, pair)

	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	r.Report(domain.SwapEvent{
		Caller: common.HexToAddress("0x01"), Direction: domain.Asset1ToAsset2,
		AmountIn: big.NewInt(100), AmountOut: big.NewInt(91), At: time.Now(),
	})
	r.UpdatePool(app.PoolDetails{
		Reserve1: big.NewInt(1100), Reserve2: big.NewInt(909),
		TotalShares: big.NewInt(100_000_000), K: big.NewInt(999900),
		FeeRate: 3, Holders: 1,
	})
	if err := r.Stop(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"swap", "100 GOLD -> 91 SILVER", "GOLD=1100", "SILVER=909", "holders=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
