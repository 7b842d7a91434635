package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/coinfolio"
)

func newTx(t *testing.T, id, asset string, typ coinfolio.TxType, amount, price float64, day int) coinfolio.Transaction {
	t.Helper()
	return coinfolio.Transaction{
		ID:           id,
		AssetID:      asset,
		Type:         typ,
		Amount:       coinfolio.Q(amount),
		PricePerUnit: coinfolio.M(price),
		Timestamp:    time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "transactions.jsonl")

	s, err := Open(path)
	require.NoError(t, err)
	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	b := newTx(t, "b", "BTC", coinfolio.Buy, 1, 40000, 1)
	e := newTx(t, "e", "ETH", coinfolio.Buy, 2, 2000, 2)
	x := newTx(t, "x", "BTC", coinfolio.Sell, 0.5, 50000, 3)
	for _, tx := range []coinfolio.Transaction{b, e, x} {
		require.NoError(t, s.Save(ctx, tx))
	}

	// edit keeps the position in the file
	x.PricePerUnit = coinfolio.M(51000)
	require.NoError(t, s.Save(ctx, x))

	reopened, err := Open(path)
	require.NoError(t, err)
	all, err = reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "e", "x"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.True(t, all[2].PricePerUnit.Equal(coinfolio.M(51000)))

	btc, err := reopened.List(ctx, "BTC")
	require.NoError(t, err)
	assert.Len(t, btc, 2)

	require.NoError(t, reopened.Delete(ctx, "e"))
	assert.ErrorIs(t, reopened.Delete(ctx, "e"), coinfolio.ErrNotFound)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
	assert.NotContains(t, string(data), `"id":"e"`)
}

func TestStore_RejectsInvalid(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "tx.jsonl"))
	require.NoError(t, err)

	bad := newTx(t, "b", "BTC", coinfolio.Buy, 0, 40000, 1)
	assert.ErrorIs(t, s.Save(context.Background(), bad), coinfolio.ErrInvalidTransaction)
}

func TestOpen_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))

	_, err := Open(path)
	assert.ErrorContains(t, err, "line 1")
}

func TestStore_WithAccountingSystem(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "tx.jsonl"))
	require.NoError(t, err)
	as := coinfolio.NewAccountingSystem(s, nil)

	require.NoError(t, as.Record(ctx, newTx(t, "b", "BTC", coinfolio.Buy, 1, 40000, 1)))
	require.NoError(t, as.Record(ctx, newTx(t, "s", "BTC", coinfolio.Sell, 1, 50000, 2)))
	assert.ErrorIs(t, as.Record(ctx, newTx(t, "s2", "BTC", coinfolio.Sell, 1, 50000, 3)), coinfolio.ErrInsufficientBalance)

	report, err := as.Report(ctx)
	require.NoError(t, err)
	require.Len(t, report.Closed, 1)
	assert.True(t, report.Closed[0].RealizedPnL.Equal(coinfolio.M(10000)))
}
