package renderer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/coinfolio"
)

// ClosedMarkdown renders closed positions grouped by asset, most recently
// closed first. With details, each cycle of a group is listed too.
func ClosedMarkdown(groups []coinfolio.ClosedPositionGroup, currency string, details bool) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Closed Positions\n\n")
	if len(groups) == 0 {
		fmt.Fprintln(&b, "No closed positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Cycles | Last Closed | Realized | % |")
	fmt.Fprintln(&b, "|:---|---:|:---|---:|---:|")
	var total coinfolio.Money
	for _, g := range groups {
		total = total.Add(g.TotalRealizedPnL)
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			g.AssetID,
			g.CycleCount,
			g.LastClosedDate.Format(time.DateOnly),
			g.TotalRealizedPnL.SignedFormat(currency),
			g.TotalRealizedPnLPercentage.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | **%s** | |\n", "Total", total.SignedFormat(currency))

	if !details {
		return b.String()
	}
	for _, g := range groups {
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "\n## %s\n\n", g.AssetID)
			fmt.Fprintln(w, "| Opened | Closed | Quantity | Avg Cost | Avg Sale | Realized | % |")
			fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|---:|")
			for _, p := range g.Positions {
				fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
					p.OpenedDate.Format(time.DateOnly),
					p.ClosedDate.Format(time.DateOnly),
					p.TotalQuantity,
					p.AvgCostPrice.Format(currency),
					p.AvgSalePrice.Format(currency),
					p.RealizedPnL.SignedFormat(currency),
					p.RealizedPnLPercent.SignedString(),
				)
			}
			return len(g.Positions) > 0
		})
	}
	return b.String()
}
