package coinfolio

// Holding is the current open position in one asset.
// It is never stored: it is recomputed from the transactions on demand.
type Holding struct {
	AssetID       string   `json:"asset"`
	Coin          Coin     `json:"coin"`
	TotalQuantity Quantity `json:"totalQuantity"`
	// AvgCostBasis is the weighted average price paid for the units held.
	AvgCostBasis         Money   `json:"avgCostBasis"`
	CurrentPrice         Money   `json:"currentPrice"`
	CurrentValue         Money   `json:"currentValue"`
	CostBasis            Money   `json:"costBasis"` // TotalQuantity * AvgCostBasis
	UnrealizedPnL        Money   `json:"unrealizedPnL"`
	UnrealizedPnLPercent Percent `json:"unrealizedPnLPercent"`
}

// newHolding values the open cycle of a resolution at the given quote.
func newHolding(res Resolution, quote Quote) Holding {
	h := Holding{
		AssetID:       res.AssetID,
		Coin:          quote.Coin,
		TotalQuantity: res.NetQuantity,
		AvgCostBasis:  res.AvgCostBasis,
		CurrentPrice:  quote.Price,
	}
	h.CurrentValue = h.CurrentPrice.Mul(h.TotalQuantity)
	h.CostBasis = h.AvgCostBasis.Mul(h.TotalQuantity)
	h.UnrealizedPnL = h.CurrentValue.Sub(h.CostBasis)
	h.UnrealizedPnLPercent = h.UnrealizedPnL.Ratio(h.CostBasis)
	return h
}
