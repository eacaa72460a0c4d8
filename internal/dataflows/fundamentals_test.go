package dataflows

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dyike/SageDesk/models"
)

type stubRatios struct {
	name   string
	ratios map[string]*float64
	err    error
}

func (s stubRatios) Name() string { return s.name }

func (s stubRatios) Ratios(context.Context, string) (map[string]*float64, error) {
	return s.ratios, s.err
}

func TestFundamentalsMergePrefersEarlierSource(t *testing.T) {
	yahoo := stubRatios{name: "yahoo", ratios: map[string]*float64{
		models.RatioTrailingPE: models.Float(25),
		models.RatioForwardPE:  nil,
	}}
	finnhub := stubRatios{name: "finnhub", ratios: map[string]*float64{
		models.RatioTrailingPE: models.Float(26),
		models.RatioForwardPE:  models.Float(22),
		models.RatioROE:        models.Float(31),
	}}

	f := NewFundamentalsFetcherWithSources(yahoo, finnhub).Fetch(context.Background(), "msft")

	if f.Symbol != "MSFT" {
		t.Fatalf("unexpected symbol %q", f.Symbol)
	}
	if v, _ := f.Get(models.RatioTrailingPE); v != 25 {
		t.Fatalf("first source should win, got %v", v)
	}
	if v, ok := f.Get(models.RatioForwardPE); !ok || v != 22 {
		t.Fatalf("gap should be filled by second source, got %v %v", v, ok)
	}
	if _, ok := f.Get(models.RatioPEG); ok {
		t.Fatal("PEG was never reported")
	}
	for _, key := range models.FundamentalKeys {
		if _, present := f.Ratios[key]; !present {
			t.Errorf("key %q missing from ratios map", key)
		}
	}
}

func TestFundamentalsSourceFailureIsRecorded(t *testing.T) {
	f := NewFundamentalsFetcherWithSources(
		stubRatios{name: "yahoo", err: errors.New("rate limited")},
		stubRatios{name: "finnhub", ratios: map[string]*float64{models.RatioPEG: models.Float(1.2)}},
	).Fetch(context.Background(), "ABC")

	if len(f.Errors) != 1 {
		t.Fatalf("expected one error, got %v", f.Errors)
	}
	if f.Available() != 1 {
		t.Fatalf("expected one available ratio, got %d", f.Available())
	}
}

func TestFundamentalsDeriveTotals(t *testing.T) {
	yahoo := stubRatios{name: "yahoo", ratios: map[string]*float64{
		models.RatioSharesOutstanding: models.Float(1e9),
		perShareBook:                  models.Float(5),
	}}
	finnhub := stubRatios{name: "finnhub", ratios: map[string]*float64{
		perShareRevenue:             models.Float(20),
		perShareCash:                models.Float(3),
		models.RatioDebtToEquity:    models.Float(1.5),
		models.RatioGrossMargin:     models.Float(40),
		models.RatioOperatingMargin: models.Float(25),
		models.RatioNetMargin:       models.Float(10),
	}}

	f := NewFundamentalsFetcherWithSources(yahoo, finnhub).Fetch(context.Background(), "ABC")

	checks := map[string]float64{
		models.RatioTotalRevenue:    20e9,
		models.RatioTotalCash:       3e9,
		models.RatioTotalDebt:       7.5e9,
		models.RatioGrossProfit:     8e9,
		models.RatioOperatingIncome: 5e9,
		models.RatioNetIncome:       2e9,
	}
	for key, want := range checks {
		if v, ok := f.Get(key); !ok || math.Abs(v-want) > 1 {
			t.Errorf("%s: want %v, got %v (ok=%v)", key, want, v, ok)
		}
	}
	for _, key := range []string{perShareRevenue, perShareCash, perShareBook} {
		if _, present := f.Ratios[key]; present {
			t.Errorf("per-share input %q should not leave Fetch", key)
		}
	}
	if len(f.Ratios) != len(models.FundamentalKeys) {
		t.Fatalf("expected %d ratios, got %d", len(models.FundamentalKeys), len(f.Ratios))
	}
}

func TestFundamentalsTotalsNeedShares(t *testing.T) {
	f := NewFundamentalsFetcherWithSources(stubRatios{name: "finnhub", ratios: map[string]*float64{
		perShareRevenue:       models.Float(20),
		models.RatioNetMargin: models.Float(10),
	}}).Fetch(context.Background(), "ABC")

	if _, ok := f.Get(models.RatioTotalRevenue); ok {
		t.Fatal("revenue needs a share count")
	}
	if _, ok := f.Get(models.RatioNetIncome); ok {
		t.Fatal("net income needs revenue")
	}
}
