package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/coinfolio"
)

// HoldingsMarkdown renders the open positions of a report.
func HoldingsMarkdown(report *coinfolio.Report, currency string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Holdings\n\n")
	if len(report.Holdings) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Quantity | Avg Cost | Price | Value | Unrealized | % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, h := range report.Holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			assetLabel(h),
			h.TotalQuantity,
			h.AvgCostBasis.Format(currency),
			h.CurrentPrice.Format(currency),
			h.CurrentValue.Format(currency),
			h.UnrealizedPnL.SignedFormat(currency),
			h.UnrealizedPnLPercent.SignedString(),
		)
	}
	s := report.Summary
	fmt.Fprintf(&b, "| **%s** | | | | **%s** | **%s** | **%s** |\n",
		"Total",
		s.TotalValue.Format(currency),
		s.UnrealizedPnL.SignedFormat(currency),
		s.UnrealizedPnLPercent().SignedString(),
	)
	return b.String()
}

func assetLabel(h coinfolio.Holding) string {
	if h.Coin.Name == "" {
		return h.AssetID
	}
	return fmt.Sprintf("%s (%s)", h.AssetID, h.Coin.Name)
}
