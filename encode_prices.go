package coinfolio

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DecodePrices reads a YAML price file mapping asset IDs to quotes:
//
//	BTC:
//	  symbol: BTC
//	  name: Bitcoin
//	  price: "65000.12"
//
// Prices are parsed as decimals, quoted or not.
func DecodePrices(r io.Reader) (Prices, error) {
	type jquote struct {
		Symbol string `yaml:"symbol"`
		Name   string `yaml:"name"`
		Price  string `yaml:"price"`
	}
	var doc map[string]jquote
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode prices: %w", err)
	}

	prices := make(Prices, len(doc))
	for asset, q := range doc {
		price, err := decimal.NewFromString(q.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for %s: %w", q.Price, asset, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("invalid price %s for %s: must be positive", price, asset)
		}
		symbol := q.Symbol
		if symbol == "" {
			symbol = asset
		}
		prices[asset] = Quote{
			Coin:  Coin{ID: asset, Symbol: symbol, Name: q.Name},
			Price: M(price),
		}
	}
	return prices, nil
}
