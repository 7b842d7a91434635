package coinfolio

import (
	"context"
	"fmt"
	"sync"
)

// AccountingSystem combines a transaction repository with a price source. It
// serves as the central point of access for recording trades and computing
// the portfolio Report.
//
// Mutations are serialized: each one validates the history it produces before
// writing it. Reports are computed on a snapshot of the repository, so they
// can run concurrently with each other and with mutations.
type AccountingSystem struct {
	repo   Repository
	prices PriceSource
	opts   []Option
	cfg    options

	mu sync.RWMutex
}

// NewAccountingSystem creates an accounting system.
func NewAccountingSystem(repo Repository, prices PriceSource, opts ...Option) *AccountingSystem {
	return &AccountingSystem{
		repo:   repo,
		prices: prices,
		opts:   opts,
		cfg:    newOptions(opts),
	}
}

// Record validates and saves a transaction. A transaction with an existing ID
// replaces the previous one.
func (as *AccountingSystem) Record(ctx context.Context, tx Transaction) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	// An edit may move a transaction to another asset: validate everything.
	all, err := as.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("could not read transactions: %w", err)
	}
	if err := ValidateHistory(replaceOrAppend(all, tx)); err != nil {
		return err
	}
	if err := as.repo.Save(ctx, tx); err != nil {
		return fmt.Errorf("could not save transaction: %w", err)
	}
	as.cfg.log.Info().Str("id", tx.ID).Str("asset", tx.AssetID).Stringer("type", tx.Type).Msg("transaction recorded")
	return nil
}

// Delete removes a transaction, unless later sells depend on it.
func (as *AccountingSystem) Delete(ctx context.Context, id string) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	all, err := as.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("could not read transactions: %w", err)
	}
	remaining, found := without(all, id)
	if !found {
		return fmt.Errorf("cannot delete %q: %w", id, ErrNotFound)
	}
	if err := ValidateHistory(remaining); err != nil {
		return fmt.Errorf("cannot delete %q: %w", id, err)
	}
	if err := as.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("could not delete transaction: %w", err)
	}
	as.cfg.log.Info().Str("id", id).Msg("transaction deleted")
	return nil
}

// Transactions returns the transactions of one asset, or all of them when
// assetID is empty, in chronological order.
func (as *AccountingSystem) Transactions(ctx context.Context, assetID string) ([]Transaction, error) {
	txs, err := as.snapshot(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return chronological(txs), nil
}

// Report computes holdings, closed positions and the summary.
func (as *AccountingSystem) Report(ctx context.Context) (*Report, error) {
	txs, err := as.snapshot(ctx, "")
	if err != nil {
		return nil, err
	}
	return Aggregate(txs, as.prices, as.opts...), nil
}

// Resolve returns the cycles of one asset.
func (as *AccountingSystem) Resolve(ctx context.Context, assetID string) (Resolution, error) {
	txs, err := as.snapshot(ctx, assetID)
	if err != nil {
		return Resolution{}, err
	}
	r := Resolver{Log: as.cfg.log}
	return r.Resolve(txs), nil
}

// snapshot reads the repository while no mutation is in flight.
func (as *AccountingSystem) snapshot(ctx context.Context, assetID string) ([]Transaction, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	var txs []Transaction
	var err error
	if assetID == "" {
		txs, err = as.repo.All(ctx)
	} else {
		txs, err = as.repo.List(ctx, assetID)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read transactions: %w", err)
	}
	return txs, nil
}
