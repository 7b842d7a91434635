package coinfolio

// PortfolioSummary aggregates gains across all assets.
type PortfolioSummary struct {
	TotalValue    Money `json:"totalValue"` // of the open holdings
	TotalCost     Money `json:"totalCost"`  // cost basis of the open holdings
	UnrealizedPnL Money `json:"unrealizedPnL"`
	// ClosedRealizedPnL is realized by the closed cycles of all assets.
	ClosedRealizedPnL Money `json:"closedRealizedPnL"`
	// PartialRealizedPnL is realized by the sells of cycles still open.
	PartialRealizedPnL Money `json:"partialRealizedPnL"`
	RealizedPnL        Money `json:"realizedPnL"`
	TotalPnL           Money `json:"totalPnL"`
}

// newSummary reduces holdings and resolutions into a summary.
//
// Realized gains come from every resolution, priced or not: a closed cycle
// needs no current price.
func newSummary(holdings []Holding, resolutions []Resolution) PortfolioSummary {
	var s PortfolioSummary
	for _, h := range holdings {
		s.TotalValue = s.TotalValue.Add(h.CurrentValue)
		s.TotalCost = s.TotalCost.Add(h.CostBasis)
		s.UnrealizedPnL = s.UnrealizedPnL.Add(h.UnrealizedPnL)
	}
	for _, r := range resolutions {
		s.ClosedRealizedPnL = s.ClosedRealizedPnL.Add(r.RealizedPnL())
		s.PartialRealizedPnL = s.PartialRealizedPnL.Add(r.PartialRealizedGain)
	}
	s.RealizedPnL = s.ClosedRealizedPnL.Add(s.PartialRealizedPnL)
	s.TotalPnL = s.UnrealizedPnL.Add(s.RealizedPnL)
	return s
}

// UnrealizedPnLPercent returns the unrealized P&L relative to the cost of the holdings.
func (s PortfolioSummary) UnrealizedPnLPercent() Percent {
	return s.UnrealizedPnL.Ratio(s.TotalCost)
}
