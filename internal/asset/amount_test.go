package asset_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mglvn/swappool/internal/asset"
)

var (
	gold   = asset.NewAssetWithName("GOLD", "Gold", 6)
	silver = asset.NewAssetWithName("SILVER", "Silver", 6)
)

func TestAmount_Basic(t *testing.T) {
	// 1 GOLD = 1e6 base units
	one := asset.NewAmount(gold, big.NewInt(1_000_000))

	if one.IsZero() {
		t.Error("expected non-zero amount")
	}

	d := one.ToDecimal()
	if !d.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", d.String())
	}

	if one.String() != "1 GOLD" {
		t.Errorf("expected '1 GOLD', got '%s'", one.String())
	}
}

func TestAmount_Add(t *testing.T) {
	one := asset.NewAmount(gold, big.NewInt(1_000_000))
	two := asset.NewAmount(gold, big.NewInt(2_000_000))

	sum, err := one.Add(two)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(3)
	if !sum.ToDecimal().Equal(expected) {
		t.Errorf("expected 3, got %s", sum.ToDecimal().String())
	}
}

func TestAmount_CannotAddDifferentAssets(t *testing.T) {
	oneGold := asset.NewAmount(gold, big.NewInt(1_000_000))
	oneSilver := asset.NewAmount(silver, big.NewInt(1_000_000))

	_, err := oneGold.Add(oneSilver)
	if err == nil {
		t.Error("expected error when adding different assets")
	}
}

func TestAmount_Sub(t *testing.T) {
	three := asset.NewAmount(gold, big.NewInt(3_000_000))
	one := asset.NewAmount(gold, big.NewInt(1_000_000))

	diff, err := three.Sub(one)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(2)
	if !diff.ToDecimal().Equal(expected) {
		t.Errorf("expected 2, got %s", diff.ToDecimal().String())
	}
}

func TestAmount_SubNegativeError(t *testing.T) {
	one := asset.NewAmount(gold, big.NewInt(1_000_000))
	two := asset.NewAmount(gold, big.NewInt(2_000_000))

	_, err := one.Sub(two)
	if err == nil {
		t.Error("expected error for negative result")
	}
}

func TestParseDecimal(t *testing.T) {
	d := decimal.NewFromFloat(1.5)
	amount, err := asset.ParseDecimal(gold, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := big.NewInt(1_500_000)
	if amount.Raw().Cmp(expected) != 0 {
		t.Errorf("expected %s, got %s", expected.String(), amount.Raw().String())
	}
}

func TestParseDecimal_TooManyDecimals(t *testing.T) {
	// GOLD has 6 decimals, try to parse 1.1234567 (7 decimals)
	d := decimal.NewFromFloat(1.1234567)
	_, err := asset.ParseDecimal(gold, d)
	if err == nil {
		t.Error("expected error for too many decimals")
	}
}

func TestParseString(t *testing.T) {
	amount, err := asset.ParseString(silver, "42.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount.Raw().Cmp(big.NewInt(42_250_000)) != 0 {
		t.Errorf("got %s", amount.Raw())
	}

	if _, err := asset.ParseString(silver, "not-a-number"); err == nil {
		t.Error("expected error for invalid string")
	}
}

func TestPair(t *testing.T) {
	pair := asset.NewPair(gold, silver)
	if pair.String() != "GOLD/SILVER" {
		t.Errorf("pair = %s", pair)
	}
}

func TestPair_SameAssetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for identical pair assets")
		}
	}()
	asset.NewPair(gold, gold)
}
