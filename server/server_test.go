package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/coinfolio"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	ledger, err := coinfolio.NewLedger()
	require.NoError(t, err)
	prices := coinfolio.Prices{
		"BTC": {Coin: coinfolio.Coin{ID: "BTC", Symbol: "BTC", Name: "Bitcoin"}, Price: coinfolio.M(50000)},
	}
	return New(coinfolio.NewAccountingSystem(ledger, prices), NewHub(), zerolog.Nop())
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	resp := httptest.NewRecorder()
	s.Handler().ServeHTTP(resp, req)
	return resp
}

func postTx(t *testing.T, s *Server, typ, amount, price, at string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, http.MethodPost, "/api/transactions", map[string]any{
		"asset":     "btc",
		"type":      typ,
		"amount":    amount,
		"price":     price,
		"timestamp": at,
	})
}

func TestHealth(t *testing.T) {
	resp := do(t, setupServer(t), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestCreateListDeleteTransactions(t *testing.T) {
	s := setupServer(t)

	resp := postTx(t, s, "buy", "2", "40000", "2024-01-01T00:00:00Z")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created coinfolio.Transaction
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "BTC", created.AssetID)
	assert.NotEmpty(t, created.ID)

	resp = postTx(t, s, "sell", "1", "50000", "2024-01-02T00:00:00Z")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = do(t, s, http.MethodGet, "/api/transactions?asset=BTC", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var txs []coinfolio.Transaction
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &txs))
	assert.Len(t, txs, 2)

	resp = do(t, s, http.MethodGet, "/api/holdings", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var holdings []struct {
		Asset         string  `json:"asset"`
		TotalQuantity float64 `json:"totalQuantity"`
		AvgCostBasis  float64 `json:"avgCostBasis"`
		UnrealizedPnL float64 `json:"unrealizedPnL"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &holdings))
	require.Len(t, holdings, 1)
	assert.Equal(t, "BTC", holdings[0].Asset)
	assert.Equal(t, 1.0, holdings[0].TotalQuantity)
	assert.Equal(t, 40000.0, holdings[0].AvgCostBasis)
	assert.Equal(t, 10000.0, holdings[0].UnrealizedPnL)

	resp = do(t, s, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var summary struct {
		PartialRealizedPnL float64 `json:"partialRealizedPnL"`
		TotalPnL           float64 `json:"totalPnL"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, 10000.0, summary.PartialRealizedPnL)
	assert.Equal(t, 20000.0, summary.TotalPnL)

	// the buy covers the sell
	resp = do(t, s, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = do(t, s, http.MethodDelete, "/api/transactions/"+txs[1].ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = do(t, s, http.MethodDelete, "/api/transactions/"+txs[1].ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateTransaction_Errors(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed", body: `{"asset":`, want: http.StatusBadRequest},
		{name: "unknown type", body: `{"asset":"BTC","type":"swap","amount":1,"price":1}`, want: http.StatusBadRequest},
		{name: "zero amount", body: `{"asset":"BTC","type":"buy","amount":0,"price":1}`, want: http.StatusBadRequest},
		{name: "future", body: `{"asset":"BTC","type":"buy","amount":1,"price":1,"timestamp":"2999-01-01T00:00:00Z"}`, want: http.StatusBadRequest},
		{name: "oversell", body: `{"asset":"BTC","type":"sell","amount":1,"price":1,"timestamp":"2024-01-01T00:00:00Z"}`, want: http.StatusConflict},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := setupServer(t)
			req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(tc.body))
			resp := httptest.NewRecorder()
			s.Handler().ServeHTTP(resp, req)
			assert.Equal(t, tc.want, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), `"error"`)
		})
	}
}

func TestClosedAndReport(t *testing.T) {
	s := setupServer(t)
	require.Equal(t, http.StatusCreated, postTx(t, s, "buy", "1", "50000", "2024-01-01T00:00:00Z").Code)
	require.Equal(t, http.StatusCreated, postTx(t, s, "sell", "1", "40000", "2024-01-02T00:00:00Z").Code)

	resp := do(t, s, http.MethodGet, "/api/closed", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var groups []struct {
		Asset            string  `json:"asset"`
		CycleCount       int     `json:"cycleCount"`
		TotalRealizedPnL float64 `json:"totalRealizedPnL"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].CycleCount)
	assert.Equal(t, -10000.0, groups[0].TotalRealizedPnL)

	resp = do(t, s, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var report map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	assert.Contains(t, report, "holdings")
	assert.Contains(t, report, "summary")
	assert.JSONEq(t, `[]`, string(report["holdings"]))
}

func TestWebSocket(t *testing.T) {
	s := setupServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first map[string]json.RawMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.JSONEq(t, `[]`, string(first["holdings"]))

	require.Eventually(t, func() bool { return s.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusCreated, postTx(t, s, "buy", "1", "40000", "2024-01-01T00:00:00Z").Code)

	var pushed struct {
		Holdings []struct {
			Asset string `json:"asset"`
		} `json:"holdings"`
	}
	require.NoError(t, conn.ReadJSON(&pushed))
	require.Len(t, pushed.Holdings, 1)
	assert.Equal(t, "BTC", pushed.Holdings[0].Asset)
}

func TestBroadcastConcurrentWriters(t *testing.T) {
	s := setupServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var first map[string]json.RawMessage
	require.NoError(t, conn.ReadJSON(&first))
	require.Eventually(t, func() bool { return s.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	var received atomic.Int64
	go func() {
		for {
			var msg map[string]int
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received.Add(1)
		}
	}()

	const writers, messages = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < messages; i++ {
				s.hub.BroadcastJSON(map[string]int{"writer": w, "seq": i})
			}
		}(w)
	}
	wg.Wait()

	require.Eventually(t, func() bool { return received.Load() == writers*messages }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, s.hub.Len())
}

func TestCreateTransaction_AssetCase(t *testing.T) {
	s := setupServer(t)

	// A lower case asset from the CLI and an upper case one from the API.
	tx, err := coinfolio.NewTransaction("btc", coinfolio.Buy, coinfolio.Q(1), coinfolio.M(40000),
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	require.NoError(t, s.as.Record(context.Background(), tx))

	resp := do(t, s, http.MethodPost, "/api/transactions", map[string]any{
		"asset":     "BTC",
		"type":      "sell",
		"amount":    "1",
		"price":     "45000",
		"timestamp": "2024-02-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = do(t, s, http.MethodGet, "/api/transactions?asset=Btc", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var txs []coinfolio.Transaction
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &txs))
	assert.Len(t, txs, 2)
}

func TestStartPolling(t *testing.T) {
	s := setupServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.StartPolling(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartPolling did not return after cancel")
	}
}
