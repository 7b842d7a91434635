package coinfolio

import (
	"fmt"
	"time"
)

var day0 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// day returns midnight UTC, n days after 2024-01-01.
func day(n int) time.Time { return day0.AddDate(0, 0, n) }

var txSeq int

// newTx is a helper for tests to create transactions from constants, with
// unique and deterministic IDs.
func newTx(typ TxType, asset string, amount, price float64, at time.Time) Transaction {
	txSeq++
	return Transaction{
		ID:           fmt.Sprintf("tx-%d", txSeq),
		AssetID:      asset,
		Type:         typ,
		Amount:       Q(amount),
		PricePerUnit: M(price),
		Timestamp:    at,
	}
}

func buy(asset string, amount, price float64, at time.Time) Transaction {
	return newTx(Buy, asset, amount, price, at)
}

func sell(asset string, amount, price float64, at time.Time) Transaction {
	return newTx(Sell, asset, amount, price, at)
}

func ids(txs []Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}
