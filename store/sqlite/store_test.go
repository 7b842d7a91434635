package sqlite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/coinfolio"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "coin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTx(id, asset string, typ coinfolio.TxType, amount, price string, day int) coinfolio.Transaction {
	a, _ := coinfolio.ParseQuantity(amount)
	p, _ := coinfolio.ParseMoney(price)
	return coinfolio.Transaction{
		ID:           id,
		AssetID:      asset,
		Type:         typ,
		Amount:       a,
		PricePerUnit: p,
		Timestamp:    time.Date(2024, time.January, day, 12, 0, 0, 0, time.UTC),
		Notes:        "note " + id,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	b := newTx("b", "BTC", coinfolio.Buy, "0.12345678", "40000.01", 1)
	e := newTx("e", "ETH", coinfolio.Buy, "2", "2000", 2)
	x := newTx("x", "BTC", coinfolio.Sell, "0.1", "50000", 3)
	for _, tx := range []coinfolio.Transaction{b, e, x} {
		require.NoError(t, s.Save(ctx, tx))
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Equal(b), "got %v, want %v", all[0], b)
	assert.Equal(t, "x", all[2].ID)

	// editing keeps the insertion order
	b.PricePerUnit = coinfolio.M(39000)
	require.NoError(t, s.Save(ctx, b))
	all, err = s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].ID)
	assert.True(t, all[0].PricePerUnit.Equal(coinfolio.M(39000)))

	btc, err := s.List(ctx, "BTC")
	require.NoError(t, err)
	assert.Len(t, btc, 2)

	require.NoError(t, s.Delete(ctx, "e"))
	assert.ErrorIs(t, s.Delete(ctx, "e"), coinfolio.ErrNotFound)

	eth, err := s.List(ctx, "ETH")
	require.NoError(t, err)
	assert.Empty(t, eth)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "coin.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, newTx("b", "BTC", coinfolio.Buy, "1", "40000", 1)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_WithAccountingSystem(t *testing.T) {
	ctx := context.Background()
	as := coinfolio.NewAccountingSystem(openStore(t), coinfolio.Prices{
		"BTC": {Coin: coinfolio.Coin{ID: "BTC", Symbol: "BTC"}, Price: coinfolio.M(50000)},
	})

	require.NoError(t, as.Record(ctx, newTx("b", "BTC", coinfolio.Buy, "2", "40000", 1)))
	require.NoError(t, as.Record(ctx, newTx("s", "BTC", coinfolio.Sell, "1", "50000", 2)))

	report, err := as.Report(ctx)
	require.NoError(t, err)
	require.Len(t, report.Holdings, 1)
	assert.True(t, report.Holdings[0].AvgCostBasis.Equal(coinfolio.M(40000)))
	assert.True(t, report.Summary.PartialRealizedPnL.Equal(coinfolio.M(10000)))
}

func TestOpen_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coin.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("not a database "), 512), 0o644))

	s, err := Open(path)
	assert.Error(t, err)
	assert.Nil(t, s)
}
