package dataflows

import (
	"context"
	"testing"
	"time"

	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/internal/utils"
)

func TestLongportSymbol(t *testing.T) {
	tests := map[string]string{
		"AAPL":    "AAPL.US",
		"BRK.B":   "BRK.B.US",
		"700.HK":  "700.HK",
		"TSLA.US": "TSLA.US",
	}
	for in, want := range tests {
		if got := LongportSymbol(in); got != want {
			t.Errorf("%s: want %s, got %s", in, want, got)
		}
	}
}

func TestLongportHistorySortsAndConverts(t *testing.T) {
	var gotSymbol string
	var gotCount int32

	lpc := NewLongportClient(config.Defaults())
	lpc.retry = utils.RetryConfig{Timeout: time.Second}
	lpc.candles = func(_ context.Context, symbol string, count int32) ([]*quote.Candlestick, error) {
		gotSymbol, gotCount = symbol, count
		c1 := decimal.NewFromInt(101)
		c2 := decimal.NewFromInt(100)
		return []*quote.Candlestick{
			{Close: &c1, Volume: 20, Timestamp: 1700086400},
			nil,
			{Close: &c2, Volume: 10, Timestamp: 1700000000},
		}, nil
	}

	series, err := lpc.History(context.Background(), "aapl", 400)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if gotSymbol != "AAPL.US" || gotCount != 285 {
		t.Fatalf("unexpected request %s x%d", gotSymbol, gotCount)
	}
	if series.Len() != 2 || !series.Points[0].Close.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("points not sorted oldest first: %+v", series.Points)
	}
}

func TestNewPriceProvider(t *testing.T) {
	cfg := config.Defaults()
	p, err := NewPriceProvider(cfg)
	if err != nil || p.Name() != "yahoo" {
		t.Fatalf("expected yahoo provider, got %v %v", p, err)
	}

	cfg.MarketProvider = config.MarketLongport
	if _, err := NewPriceProvider(cfg); err == nil {
		t.Fatal("longport without credentials should fail")
	}
}
