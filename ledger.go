package coinfolio

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Ledger is an in-memory Repository.
//
// It only accepts histories that pass ValidateHistory. Transactions are kept in
// insertion order; every read returns a copy.
type Ledger struct {
	mu           sync.RWMutex
	transactions []Transaction
}

// NewLedger creates a ledger holding txs. It fails if the history is invalid.
func NewLedger(txs ...Transaction) (*Ledger, error) {
	if err := ValidateHistory(txs); err != nil {
		return nil, err
	}
	return &Ledger{transactions: slices.Clone(txs)}, nil
}

// Save inserts tx, or replaces the transaction with the same ID.
func (l *Ledger) Save(_ context.Context, tx Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	candidate := replaceOrAppend(l.transactions, tx)
	if err := ValidateHistory(candidate); err != nil {
		return fmt.Errorf("cannot save %s: %w", tx, err)
	}
	l.transactions = candidate
	return nil
}

// Delete removes the transaction id.
// Removing a buy that later sells depend on fails with ErrInsufficientBalance.
func (l *Ledger) Delete(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	candidate, found := without(l.transactions, id)
	if !found {
		return fmt.Errorf("cannot delete %q: %w", id, ErrNotFound)
	}
	if err := ValidateHistory(candidate); err != nil {
		return fmt.Errorf("cannot delete %q: %w", id, err)
	}
	l.transactions = candidate
	return nil
}

// List returns the transactions of one asset.
func (l *Ledger) List(_ context.Context, assetID string) ([]Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var txs []Transaction
	for _, tx := range l.transactions {
		if tx.AssetID == assetID {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// All returns a snapshot of every transaction.
func (l *Ledger) All(_ context.Context) ([]Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.transactions), nil
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}

// Assets returns the sorted list of assets with at least one transaction.
func (l *Ledger) Assets() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	assets, _ := groupByAsset(l.transactions)
	return assets
}

// Position returns the quantity of an asset held at a given time.
func (l *Ledger) Position(assetID string, at time.Time) Quantity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var pos Quantity
	for _, tx := range l.transactions {
		if tx.AssetID == assetID && !tx.Timestamp.After(at) {
			pos = pos.Add(tx.Signed())
		}
	}
	return pos
}
