// Package jsonl stores transactions in a JSON Lines file, one transaction per
// line, in insertion order.
package jsonl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/etnz/coinfolio"
)

// Store is a coinfolio.Repository backed by a JSONL file.
//
// The whole file is kept in memory and rewritten atomically after each
// mutation.
type Store struct {
	path string

	mu           sync.RWMutex
	transactions []coinfolio.Transaction
}

// Open loads the file at path. A missing file is an empty store; it is created
// on the first Save.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	txs, err := coinfolio.DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	s.transactions = txs
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

func (s *Store) List(_ context.Context, assetID string) ([]coinfolio.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []coinfolio.Transaction
	for _, tx := range s.transactions {
		if tx.AssetID == assetID {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

func (s *Store) All(_ context.Context) ([]coinfolio.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions), nil
}

// Save inserts tx, or replaces the transaction with the same ID in place.
func (s *Store) Save(_ context.Context, tx coinfolio.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := slices.Clone(s.transactions)
	if i := slices.IndexFunc(txs, func(t coinfolio.Transaction) bool { return t.ID == tx.ID }); i >= 0 {
		txs[i] = tx
	} else {
		txs = append(txs, tx)
	}
	if err := s.write(txs); err != nil {
		return err
	}
	s.transactions = txs
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.transactions, func(t coinfolio.Transaction) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("cannot delete %q: %w", id, coinfolio.ErrNotFound)
	}
	txs := slices.Delete(slices.Clone(s.transactions), i, i+1)
	if err := s.write(txs); err != nil {
		return err
	}
	s.transactions = txs
	return nil
}

// write replaces the file with txs through a temporary file in the same
// directory.
func (s *Store) write(txs []coinfolio.Transaction) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*.jsonl")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	if err := coinfolio.EncodeTransactions(w, txs); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}
