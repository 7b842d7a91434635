// Package cmd implements the coin command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/etnz/coinfolio"
	"github.com/etnz/coinfolio/config"
	"github.com/etnz/coinfolio/store/jsonl"
	"github.com/etnz/coinfolio/store/sqlite"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&tradeCmd{typ: coinfolio.Buy}, "transactions")
	c.Register(&tradeCmd{typ: coinfolio.Sell}, "transactions")
	c.Register(&amendCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&closedCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")

	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "coin.toml", "Path to the configuration file (TOML)")

// app is what every command needs: the configuration, a logger and the
// accounting system over the configured repository.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	as    *coinfolio.AccountingSystem
	close func() error
}

// openApp loads the configuration, opens the repository and the price file.
// The caller must call app.close.
func openApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.Logging.Level)

	repo, closeRepo, err := openRepository(cfg.Storage)
	if err != nil {
		return nil, err
	}
	prices, err := loadPrices(cfg.Prices.File, log)
	if err != nil {
		closeRepo()
		return nil, err
	}
	order, err := coinfolio.ParseHoldingOrder(cfg.Report.Order)
	if err != nil {
		closeRepo()
		return nil, err
	}

	as := coinfolio.NewAccountingSystem(repo, prices,
		coinfolio.WithLogger(log),
		coinfolio.WithHoldingOrder(order),
	)
	return &app{cfg: cfg, log: log, as: as, close: closeRepo}, nil
}

func openRepository(c config.StorageConfig) (coinfolio.Repository, func() error, error) {
	noop := func() error { return nil }
	switch c.Driver {
	case config.DriverJSONL:
		s, err := jsonl.Open(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverMemory:
		l, err := coinfolio.NewLedger()
		if err != nil {
			return nil, nil, err
		}
		return l, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}

// loadPrices reads the price file. A missing file means no prices: holdings
// are then excluded from reports, realized gains are not.
func loadPrices(path string, log zerolog.Logger) (coinfolio.Prices, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", path).Msg("price file does not exist, holdings will not be valued")
		return coinfolio.Prices{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prices, err := coinfolio.DecodePrices(f)
	if err != nil {
		return nil, fmt.Errorf("could not load prices from %s: %w", path, err)
	}
	return prices, nil
}

// parseTime parses a date or a timestamp. Empty means now.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD or RFC3339", s)
}

// findTransaction returns the transaction whose ID is id, or starts with it.
// The prefix must be unambiguous.
func findTransaction(ctx context.Context, as *coinfolio.AccountingSystem, id string) (coinfolio.Transaction, error) {
	txs, err := as.Transactions(ctx, "")
	if err != nil {
		return coinfolio.Transaction{}, err
	}
	var found []coinfolio.Transaction
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
		if strings.HasPrefix(tx.ID, id) {
			found = append(found, tx)
		}
	}
	switch len(found) {
	case 0:
		return coinfolio.Transaction{}, fmt.Errorf("%q: %w", id, coinfolio.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return coinfolio.Transaction{}, fmt.Errorf("%q matches %d transactions", id, len(found))
	}
}

// exitStatus reports err on stderr and picks the exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, coinfolio.ErrInvalidTransaction) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
