package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/coinfolio"
)

// Transaction renders a transaction to a sentence.
func Transaction(tx coinfolio.Transaction, currency string) string {
	switch tx.Type {
	case coinfolio.Buy:
		return fmt.Sprintf("Bought %s %s at %s", tx.Amount, tx.AssetID, tx.PricePerUnit.Format(currency))
	case coinfolio.Sell:
		return fmt.Sprintf("Sold %s %s at %s", tx.Amount, tx.AssetID, tx.PricePerUnit.Format(currency))
	default:
		return tx.String()
	}
}

// TransactionsMarkdown renders transactions as a table, in the given order.
func TransactionsMarkdown(txs []coinfolio.Transaction, currency string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | ID | Type | Asset | Amount | Price | Value | Notes |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|:---|")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Timestamp.Format(time.DateTime),
			shortID(tx.ID),
			tx.Type,
			tx.AssetID,
			tx.Amount,
			tx.PricePerUnit.Format(currency),
			tx.Value().Format(currency),
			escape(tx.Notes),
		)
	}
	return b.String()
}

// shortID keeps the first block of a UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
