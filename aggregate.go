package coinfolio

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog"
)

// Report is the full derived state of a portfolio.
type Report struct {
	Holdings    []Holding             `json:"holdings"`
	Closed      []ClosedPosition      `json:"closed"` // most recent first
	Groups      []ClosedPositionGroup `json:"groups"`
	Summary     PortfolioSummary      `json:"summary"`
	Resolutions []Resolution          `json:"-"` // one per asset, by asset ID
}

// Option configures Aggregate and the AccountingSystem.
type Option func(*options)

type options struct {
	log   zerolog.Logger
	order HoldingOrder
}

func newOptions(opts []Option) options {
	o := options{log: zerolog.Nop(), order: ByValue}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// WithHoldingOrder sets the order of Report.Holdings.
func WithHoldingOrder(order HoldingOrder) Option { return func(o *options) { o.order = order } }

// groupByAsset splits transactions per asset, keeping their relative order.
// Assets are returned sorted.
func groupByAsset(txs []Transaction) (assets []string, byAsset map[string][]Transaction) {
	byAsset = make(map[string][]Transaction)
	for _, tx := range txs {
		if _, ok := byAsset[tx.AssetID]; !ok {
			assets = append(assets, tx.AssetID)
		}
		byAsset[tx.AssetID] = append(byAsset[tx.AssetID], tx)
	}
	slices.Sort(assets)
	return assets, byAsset
}

// Aggregate computes holdings, closed positions and the portfolio summary from
// transactions of any assets, in any order.
//
// An open position is listed as a Holding only if prices has a quote for it;
// it still contributes its partial realized gains to the summary.
func Aggregate(txs []Transaction, prices PriceSource, opts ...Option) *Report {
	o := newOptions(opts)
	resolver := Resolver{Log: o.log}
	if prices == nil {
		prices = Prices(nil)
	}

	report := &Report{
		Holdings: []Holding{},
		Closed:   []ClosedPosition{},
	}
	assets, byAsset := groupByAsset(txs)
	for _, asset := range assets {
		res := resolver.Resolve(byAsset[asset])
		report.Resolutions = append(report.Resolutions, res)
		report.Closed = append(report.Closed, res.Closed...)

		switch {
		case res.NetQuantity.Negligible():
			continue
		case res.NetQuantity.IsNegative():
			o.log.Warn().
				Str("asset", asset).
				Stringer("quantity", res.NetQuantity).
				Msg("open cycle is oversold, no holding reported")
			continue
		}

		quote, ok := prices.Quote(asset)
		if !ok {
			o.log.Debug().Str("asset", asset).Msg("no price, holding excluded")
			continue
		}
		report.Holdings = append(report.Holdings, newHolding(res, quote))
	}

	sortHoldings(report.Holdings, o.order)
	slices.SortStableFunc(report.Closed, byRecentClose)
	report.Groups = GroupClosedPositions(report.Closed)
	report.Summary = newSummary(report.Holdings, report.Resolutions)
	return report
}

func sortHoldings(holdings []Holding, order HoldingOrder) {
	slices.SortStableFunc(holdings, func(a, b Holding) int {
		if order == ByValue {
			if c := b.CurrentValue.Decimal().Cmp(a.CurrentValue.Decimal()); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.AssetID, b.AssetID)
	})
}
