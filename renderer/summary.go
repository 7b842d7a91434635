package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/coinfolio"
)

// SummaryMarkdown renders the portfolio-wide gains.
func SummaryMarkdown(s coinfolio.PortfolioSummary, currency string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Portfolio Summary\n\n")
	fmt.Fprintf(&b, "Total Value: %s\n\n", s.TotalValue.Format(currency))

	fmt.Fprintln(&b, "| | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Cost of holdings | %s |\n", s.TotalCost.Format(currency))
	fmt.Fprintf(&b, "| Unrealized | %s (%s) |\n", s.UnrealizedPnL.SignedFormat(currency), s.UnrealizedPnLPercent().SignedString())
	fmt.Fprintf(&b, "| Realized, closed cycles | %s |\n", s.ClosedRealizedPnL.SignedFormat(currency))
	fmt.Fprintf(&b, "| Realized, open cycles | %s |\n", s.PartialRealizedPnL.SignedFormat(currency))
	fmt.Fprintf(&b, "| Realized | %s |\n", s.RealizedPnL.SignedFormat(currency))
	fmt.Fprintf(&b, "| **Total P&L** | **%s** |\n", s.TotalPnL.SignedFormat(currency))
	return b.String()
}

// ReportMarkdown renders the summary, the holdings and the closed positions.
func ReportMarkdown(report *coinfolio.Report, currency string) string {
	var b strings.Builder
	b.WriteString(SummaryMarkdown(report.Summary, currency))
	b.WriteString("\n")
	b.WriteString(HoldingsMarkdown(report, currency))
	b.WriteString("\n")
	b.WriteString(ClosedMarkdown(report.Groups, currency, false))
	return b.String()
}
