package coinfolio

import (
	"slices"

	"github.com/rs/zerolog"
)

// Resolution is the state of one asset derived from its full history: the
// cycles that closed, and the one still open.
type Resolution struct {
	AssetID string
	Closed  []ClosedPosition // in chronological order
	// Open holds the transactions after the last zero-crossing.
	Open        []Transaction
	NetQuantity Quantity // net quantity of the open cycle, zero when flat
	// AvgCostBasis is the running weighted average of the open cycle.
	AvgCostBasis Money
	// PartialRealizedGain is what the sells of the open cycle locked in.
	PartialRealizedGain Money
}

// RealizedPnL returns the sum of the realized P&L of the closed cycles.
func (r Resolution) RealizedPnL() Money {
	var total Money
	for _, p := range r.Closed {
		total = total.Add(p.RealizedPnL)
	}
	return total
}

// chronological returns a copy of txs sorted by timestamp. Transactions with
// the same timestamp keep the order they were given in.
func chronological(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// walkCycles walks a chronological history and calls closed with every run of
// transactions that brings the net quantity back within Epsilon of zero.
// It returns the transactions of the open cycle and its net quantity.
//
// The net quantity may go negative on an oversold history; it is carried on
// as is.
func walkCycles(sorted []Transaction, closed func(cycle []Transaction)) (open []Transaction, net Quantity) {
	start := 0
	for i, tx := range sorted {
		net = net.Add(tx.Signed())
		if !net.Negligible() {
			continue
		}
		if closed != nil {
			closed(sorted[start : i+1])
		}
		start = i + 1
		net = Quantity{}
	}
	return sorted[start:], net
}

// OpenCycle returns the transactions of the current open cycle, in
// chronological order: everything after the last time the position went flat.
// It is the full sorted history if the position never went flat, and empty if
// the last transaction closed it.
func OpenCycle(txs []Transaction) []Transaction {
	open, _ := walkCycles(chronological(txs), nil)
	return slices.Clone(open)
}

// Resolver splits the history of an asset into trading cycles.
// The zero value is ready to use and logs nothing.
type Resolver struct {
	Log zerolog.Logger
}

// Resolve resolves the transactions of a single asset with a silent Resolver.
func Resolve(txs []Transaction) Resolution {
	var r Resolver
	return r.Resolve(txs)
}

// Resolve walks the history of a single asset, in any order, and returns its
// closed positions along with the state of the open cycle.
func (r *Resolver) Resolve(txs []Transaction) Resolution {
	var res Resolution
	if len(txs) == 0 {
		return res
	}
	res.AssetID = txs[0].AssetID

	open, net := walkCycles(chronological(txs), func(cycle []Transaction) {
		p := newClosedPosition(cycle)
		if p.Degenerate {
			r.Log.Warn().
				Str("asset", p.AssetID).
				Time("closed", p.ClosedDate).
				Int("transactions", len(cycle)).
				Msg("closed cycle without buy volume, cost basis defaults to zero")
		}
		res.Closed = append(res.Closed, p)
	})
	res.Open = slices.Clone(open)
	res.NetQuantity = net

	var basis averageCost
	for _, tx := range res.Open {
		res.PartialRealizedGain = res.PartialRealizedGain.Add(basis.apply(tx))
	}
	res.AvgCostBasis = basis.avg
	return res
}
