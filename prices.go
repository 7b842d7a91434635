package coinfolio

// Coin is the metadata of an asset as known by the price source.
type Coin struct {
	ID     string `json:"id" yaml:"id"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name" yaml:"name"`
}

// Quote is the current price of an asset.
type Quote struct {
	Coin  Coin  `json:"coin"`
	Price Money `json:"price"`
}

// PriceSource looks up the current price of an asset.
type PriceSource interface {
	Quote(assetID string) (Quote, bool)
}

// Prices is an in-memory PriceSource indexed by asset ID.
type Prices map[string]Quote

// Quote implements PriceSource.
func (p Prices) Quote(assetID string) (Quote, bool) {
	q, ok := p[assetID]
	return q, ok
}
