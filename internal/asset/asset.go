package asset

// Asset represents the metadata of a pooled asset. The symbol is the
// identity; there is no on-chain address, the host issues these assets
// itself.
type Asset struct {
	symbol   string
	name     string
	decimals uint8
}

// NewAsset creates a new Asset with the given parameters.
func NewAsset(symbol string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}

	return &Asset{
		symbol:   symbol,
		decimals: decimals,
	}
}

// NewAssetWithName creates a new Asset with a human-readable name.
func NewAssetWithName(symbol, name string, decimals uint8) *Asset {
	a := NewAsset(symbol, decimals)
	a.name = name
	return a
}

// Symbol returns the ticker symbol (e.g., "GOLD", "SILVER").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// String returns a human-readable representation.
func (a *Asset) String() string {
	return a.symbol
}

// Equals compares two Assets by symbol.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.symbol == other.symbol
}

// Pair is the two assets held by a pool, in canonical order.
type Pair struct {
	Asset1 *Asset
	Asset2 *Asset
}

// NewPair creates a pair. Both assets are required and must differ.
func NewPair(asset1, asset2 *Asset) Pair {
	if asset1 == nil || asset2 == nil {
		panic("asset: nil asset in pair")
	}
	if asset1.Equals(asset2) {
		panic("asset: pair assets must differ")
	}
	return Pair{Asset1: asset1, Asset2: asset2}
}

// String returns e.g. "GOLD/SILVER".
func (p Pair) String() string {
	return p.Asset1.Symbol() + "/" + p.Asset2.Symbol()
}
