package coinfolio

import (
	"cmp"
	"slices"
	"time"
)

// ClosedPosition is a fully closed trading cycle: a run of transactions of one
// asset whose net quantity went back to zero.
type ClosedPosition struct {
	AssetID            string        `json:"asset"`
	TotalQuantity      Quantity      `json:"totalQuantity"` // bought during the cycle
	AvgCostPrice       Money         `json:"avgCostPrice"`
	AvgSalePrice       Money         `json:"avgSalePrice"`
	OpenedDate         time.Time     `json:"openedDate"`
	ClosedDate         time.Time     `json:"closedDate"` // timestamp of the closing transaction
	RealizedPnL        Money         `json:"realizedPnL"`
	RealizedPnLPercent Percent       `json:"realizedPnLPercent"`
	CycleTransactions  []Transaction `json:"transactions"`
	// Degenerate is set when the cycle had no buy volume; its cost defaults to zero.
	Degenerate bool `json:"degenerate,omitempty"`
}

// newClosedPosition computes the realized P&L of a closed cycle.
// cycle must be chronological and not empty.
func newClosedPosition(cycle []Transaction) ClosedPosition {
	avgCost, bought := legAverage(cycle, Buy)
	avgSale, _ := legAverage(cycle, Sell)

	p := ClosedPosition{
		AssetID:           cycle[0].AssetID,
		TotalQuantity:     bought,
		AvgCostPrice:      avgCost,
		AvgSalePrice:      avgSale,
		OpenedDate:        cycle[0].Timestamp,
		ClosedDate:        cycle[len(cycle)-1].Timestamp,
		CycleTransactions: slices.Clone(cycle),
		Degenerate:        !bought.IsPositive(),
	}
	p.RealizedPnL = avgSale.Sub(avgCost).Mul(bought)
	p.RealizedPnLPercent = avgSale.Sub(avgCost).Ratio(avgCost)
	return p
}

// Cost returns the amount invested in the cycle.
func (p ClosedPosition) Cost() Money { return p.AvgCostPrice.Mul(p.TotalQuantity) }

// ClosedPositionGroup gathers all the closed positions of one asset.
type ClosedPositionGroup struct {
	AssetID                    string           `json:"asset"`
	Positions                  []ClosedPosition `json:"positions"` // most recent first
	CycleCount                 int              `json:"cycleCount"`
	TotalRealizedPnL           Money            `json:"totalRealizedPnL"`
	TotalRealizedPnLPercentage Percent          `json:"totalRealizedPnLPercentage"`
	LastClosedDate             time.Time        `json:"lastClosedDate"`
}

// byRecentClose orders closed positions by ClosedDate, most recent first.
func byRecentClose(a, b ClosedPosition) int {
	if c := b.ClosedDate.Compare(a.ClosedDate); c != 0 {
		return c
	}
	return cmp.Compare(a.AssetID, b.AssetID)
}

// GroupClosedPositions groups positions by asset. Groups are sorted by their most
// recent ClosedDate, descending, and so are the positions inside a group.
func GroupClosedPositions(positions []ClosedPosition) []ClosedPositionGroup {
	index := make(map[string]int)
	groups := []ClosedPositionGroup{}
	for _, p := range positions {
		i, ok := index[p.AssetID]
		if !ok {
			i = len(groups)
			index[p.AssetID] = i
			groups = append(groups, ClosedPositionGroup{AssetID: p.AssetID})
		}
		groups[i].Positions = append(groups[i].Positions, p)
	}

	for i := range groups {
		g := &groups[i]
		slices.SortStableFunc(g.Positions, byRecentClose)
		var cost Money
		for _, p := range g.Positions {
			g.TotalRealizedPnL = g.TotalRealizedPnL.Add(p.RealizedPnL)
			cost = cost.Add(p.Cost())
		}
		g.CycleCount = len(g.Positions)
		g.TotalRealizedPnLPercentage = g.TotalRealizedPnL.Ratio(cost)
		g.LastClosedDate = g.Positions[0].ClosedDate
	}

	slices.SortStableFunc(groups, func(a, b ClosedPositionGroup) int {
		if c := b.LastClosedDate.Compare(a.LastClosedDate); c != 0 {
			return c
		}
		return cmp.Compare(a.AssetID, b.AssetID)
	})
	return groups
}
