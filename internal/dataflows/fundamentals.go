package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/internal/logger"
	"github.com/dyike/SageDesk/internal/utils"
	"github.com/dyike/SageDesk/models"
)

// Per-share inputs some sources report. They are turned into totals and
// dropped before the snapshot leaves Fetch.
const (
	perShareRevenue = "revenue_per_share"
	perShareCash    = "cash_per_share"
	perShareBook    = "book_value_per_share"
)

// FundamentalsFetcher merges ratios from several sources. Earlier sources
// win; later ones only fill gaps.
type FundamentalsFetcher struct {
	sources []RatioSource
	now     func() time.Time
}

// NewFundamentalsFetcher uses Yahoo first and Finnhub when a key is set.
func NewFundamentalsFetcher(cfg *config.Config) *FundamentalsFetcher {
	sources := []RatioSource{NewYahooFinanceClient(utils.RetryConfigFrom(cfg))}
	if fh := NewFinnhubClient(cfg); fh.Enabled() {
		sources = append(sources, fh)
	}
	return NewFundamentalsFetcherWithSources(sources...)
}

func NewFundamentalsFetcherWithSources(sources ...RatioSource) *FundamentalsFetcher {
	return &FundamentalsFetcher{sources: sources, now: time.Now}
}

// Fetch never fails. Every ratio in models.FundamentalKeys is present in
// the result, nil when no source reported it.
func (ff *FundamentalsFetcher) Fetch(ctx context.Context, symbol string) models.Fundamentals {
	symbol = NormalizeSymbol(symbol)
	f := models.NewFundamentals(symbol)
	f.FetchedAt = ff.now().UTC()

	for _, src := range ff.sources {
		ratios, err := src.Ratios(ctx, symbol)
		if err != nil {
			f.Errors = append(f.Errors, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		for key, v := range ratios {
			f.SetIfMissing(key, v)
		}
	}

	deriveTotals(&f)

	shown := make(map[string]bool, len(models.FundamentalKeys))
	for _, key := range models.FundamentalKeys {
		shown[key] = true
		if _, ok := f.Ratios[key]; !ok {
			f.Ratios[key] = nil
		}
	}
	for key := range f.Ratios {
		if !shown[key] {
			delete(f.Ratios, key)
		}
	}

	logger.From(ctx).Debug().
		Str("symbol", symbol).
		Int("available", f.Available()).
		Strs("errors", f.Errors).
		Msg("fundamentals merged")
	return f
}

// deriveTotals fills dollar totals from per-share figures and margins when
// no source reported them directly.
func deriveTotals(f *models.Fundamentals) {
	if shares, ok := f.Get(models.RatioSharesOutstanding); ok {
		if rps, ok := f.Get(perShareRevenue); ok {
			f.SetIfMissing(models.RatioTotalRevenue, models.Float(rps*shares))
		}
		if cps, ok := f.Get(perShareCash); ok {
			f.SetIfMissing(models.RatioTotalCash, models.Float(cps*shares))
		}
		de, okDE := f.Get(models.RatioDebtToEquity)
		book, okBook := f.Get(perShareBook)
		if okDE && okBook && book > 0 {
			f.SetIfMissing(models.RatioTotalDebt, models.Float(de*book*shares))
		}
	}

	revenue, ok := f.Get(models.RatioTotalRevenue)
	if !ok {
		return
	}
	for margin, total := range map[string]string{
		models.RatioGrossMargin:     models.RatioGrossProfit,
		models.RatioOperatingMargin: models.RatioOperatingIncome,
		models.RatioNetMargin:       models.RatioNetIncome,
	} {
		if m, ok := f.Get(margin); ok {
			f.SetIfMissing(total, models.Float(revenue*m/100))
		}
	}
}
