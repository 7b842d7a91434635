package coinfolio

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a transaction ID is unknown.
var ErrNotFound = errors.New("transaction not found")

// Repository stores transactions.
//
// Implementations return copies, in insertion order, so that callers can
// compute on them while the repository is being modified.
type Repository interface {
	// List returns the transactions of one asset.
	List(ctx context.Context, assetID string) ([]Transaction, error)
	// All returns every transaction.
	All(ctx context.Context) ([]Transaction, error)
	// Save inserts tx, or replaces the transaction with the same ID.
	Save(ctx context.Context, tx Transaction) error
	// Delete removes a transaction, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// replaceOrAppend returns a copy of txs where the transaction with tx.ID is
// replaced by tx, or tx appended if there is none.
func replaceOrAppend(txs []Transaction, tx Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs)+1)
	replaced := false
	for _, t := range txs {
		if t.ID == tx.ID {
			t, replaced = tx, true
		}
		out = append(out, t)
	}
	if !replaced {
		out = append(out, tx)
	}
	return out
}

// without returns a copy of txs without the transaction id, and whether it was found.
func without(txs []Transaction, id string) ([]Transaction, bool) {
	out := make([]Transaction, 0, len(txs))
	found := false
	for _, t := range txs {
		if t.ID == id {
			found = true
			continue
		}
		out = append(out, t)
	}
	return out, found
}
