package coinfolio

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func quotes(kv ...any) Prices {
	p := make(Prices)
	for i := 0; i < len(kv); i += 2 {
		id := kv[i].(string)
		p[id] = Quote{Coin: Coin{ID: id, Symbol: id}, Price: M(kv[i+1].(float64))}
	}
	return p
}

func TestAggregate_Holdings(t *testing.T) {
	testCases := []struct {
		name      string
		txs       []Transaction
		prices    Prices
		wantQty   Quantity
		wantAvg   Money
		wantValue Money
		wantPnL   Money
		wantPct   Percent
	}{
		{
			name:      "average of two buys",
			txs:       []Transaction{buy("BTC", 1, 40000, day(0)), buy("BTC", 1, 50000, day(1))},
			prices:    quotes("BTC", 45000.0),
			wantQty:   Q(2),
			wantAvg:   M(45000),
			wantValue: M(90000),
			wantPnL:   M(0),
			wantPct:   0,
		},
		{
			name:      "valued at current price",
			txs:       []Transaction{buy("BTC", 2, 40000, day(0))},
			prices:    quotes("BTC", 50000.0),
			wantQty:   Q(2),
			wantAvg:   M(40000),
			wantValue: M(100000),
			wantPnL:   M(20000),
			wantPct:   25,
		},
		{
			name:      "sell keeps the average",
			txs:       []Transaction{buy("BTC", 2, 40000, day(0)), sell("BTC", 1, 50000, day(1))},
			prices:    quotes("BTC", 30000.0),
			wantQty:   Q(1),
			wantAvg:   M(40000),
			wantValue: M(30000),
			wantPnL:   M(-10000),
			wantPct:   -25,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report := Aggregate(tc.txs, tc.prices)
			if len(report.Holdings) != 1 {
				t.Fatalf("len(Holdings) = %d, want 1", len(report.Holdings))
			}
			h := report.Holdings[0]
			if !h.TotalQuantity.Equal(tc.wantQty) {
				t.Errorf("TotalQuantity = %s, want %s", h.TotalQuantity, tc.wantQty)
			}
			if !h.AvgCostBasis.Equal(tc.wantAvg) {
				t.Errorf("AvgCostBasis = %s, want %s", h.AvgCostBasis, tc.wantAvg)
			}
			if !h.CurrentValue.Equal(tc.wantValue) {
				t.Errorf("CurrentValue = %s, want %s", h.CurrentValue, tc.wantValue)
			}
			if !h.UnrealizedPnL.Equal(tc.wantPnL) {
				t.Errorf("UnrealizedPnL = %s, want %s", h.UnrealizedPnL, tc.wantPnL)
			}
			if !h.UnrealizedPnLPercent.Equal(tc.wantPct) {
				t.Errorf("UnrealizedPnLPercent = %s, want %s", h.UnrealizedPnLPercent, tc.wantPct)
			}
			if h.Coin.Symbol != "BTC" {
				t.Errorf("Coin.Symbol = %q, want BTC", h.Coin.Symbol)
			}
		})
	}
}

func TestAggregate_ClosedIsNotHeld(t *testing.T) {
	txs := []Transaction{buy("BTC", 1, 40000, day(0)), sell("BTC", 1, 50000, day(1))}

	report := Aggregate(txs, quotes("BTC", 60000.0))

	if len(report.Holdings) != 0 {
		t.Errorf("len(Holdings) = %d, want 0", len(report.Holdings))
	}
	if len(report.Closed) != 1 || !report.Closed[0].RealizedPnL.Equal(M(10000)) {
		t.Fatalf("Closed = %v, want one position realizing 10000", report.Closed)
	}
	if len(report.Groups) != 1 || report.Groups[0].CycleCount != 1 {
		t.Errorf("Groups = %v, want one group with one cycle", report.Groups)
	}
}

func TestAggregate_MissingPrice(t *testing.T) {
	var logs bytes.Buffer
	txs := []Transaction{
		buy("BTC", 3, 40000, day(0)),
		sell("BTC", 1, 45000, day(1)),
		sell("BTC", 1, 50000, day(2)),
		buy("ETH", 1, 2000, day(0)),
	}

	report := Aggregate(txs, quotes("ETH", 2500.0), WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))

	if len(report.Holdings) != 1 || report.Holdings[0].AssetID != "ETH" {
		t.Fatalf("Holdings = %v, want ETH only", report.Holdings)
	}
	if !report.Summary.PartialRealizedPnL.Equal(M(15000)) {
		t.Errorf("PartialRealizedPnL = %s, want 15000", report.Summary.PartialRealizedPnL)
	}
	if !strings.Contains(logs.String(), `"asset":"BTC"`) {
		t.Errorf("logs = %q, want a line about BTC", logs.String())
	}
}

func TestAggregate_NilPrices(t *testing.T) {
	report := Aggregate([]Transaction{buy("BTC", 1, 40000, day(0))}, nil)
	if len(report.Holdings) != 0 {
		t.Errorf("len(Holdings) = %d, want 0", len(report.Holdings))
	}
	if len(report.Resolutions) != 1 {
		t.Errorf("len(Resolutions) = %d, want 1", len(report.Resolutions))
	}
}

func TestAggregate_HoldingOrder(t *testing.T) {
	txs := []Transaction{
		buy("ADA", 1000, 0.5, day(0)),
		buy("BTC", 1, 40000, day(0)),
		buy("ETH", 10, 2000, day(0)),
		buy("DOT", 100, 5, day(0)),
	}
	prices := quotes("ADA", 0.5, "BTC", 40000.0, "ETH", 2000.0, "DOT", 5.0)

	testCases := []struct {
		name  string
		order HoldingOrder
		want  []string
	}{
		{name: "by value", order: ByValue, want: []string{"BTC", "ETH", "ADA", "DOT"}},
		{name: "by asset", order: ByAsset, want: []string{"ADA", "BTC", "DOT", "ETH"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report := Aggregate(txs, prices, WithHoldingOrder(tc.order))
			var got []string
			for _, h := range report.Holdings {
				got = append(got, h.AssetID)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("Holdings = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAggregate_ClosedMostRecentFirst(t *testing.T) {
	txs := []Transaction{
		buy("BTC", 1, 40000, day(0)),
		sell("BTC", 1, 50000, day(1)),
		buy("ETH", 1, 2000, day(0)),
		sell("ETH", 1, 2500, day(5)),
		buy("BTC", 1, 40000, day(6)),
		sell("BTC", 1, 41000, day(7)),
	}

	report := Aggregate(txs, nil)

	var got []string
	for _, p := range report.Closed {
		got = append(got, p.AssetID+"@"+p.ClosedDate.Format("01-02"))
	}
	want := []string{"BTC@01-08", "ETH@01-06", "BTC@01-02"}
	if !slices.Equal(got, want) {
		t.Errorf("Closed = %v, want %v", got, want)
	}
	if len(report.Groups) != 2 || report.Groups[0].AssetID != "BTC" {
		t.Fatalf("Groups = %v, want BTC then ETH", report.Groups)
	}
	if !report.Groups[0].TotalRealizedPnL.Equal(M(11000)) {
		t.Errorf("BTC TotalRealizedPnL = %s, want 11000", report.Groups[0].TotalRealizedPnL)
	}
	if !report.Groups[0].TotalRealizedPnLPercentage.Equal(13.75) {
		t.Errorf("BTC TotalRealizedPnLPercentage = %s, want 13.75%%", report.Groups[0].TotalRealizedPnLPercentage)
	}
}
