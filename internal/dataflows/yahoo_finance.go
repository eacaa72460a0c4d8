package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"github.com/dyike/SageDesk/internal/logger"
	"github.com/dyike/SageDesk/internal/utils"
	"github.com/dyike/SageDesk/models"
)

// ChartFetcher returns daily bars for params. The default implementation
// drains a finance-go chart iterator.
type ChartFetcher func(params *chart.Params) ([]finance.ChartBar, error)

func fetchChart(params *chart.Params) ([]finance.ChartBar, error) {
	iter := chart.Get(params)
	var bars []finance.ChartBar
	for iter.Next() {
		bars = append(bars, *iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

// YahooFinanceClient handles Yahoo Finance price history and equity ratios.
type YahooFinanceClient struct {
	retry  utils.RetryConfig
	charts ChartFetcher
	equity EquityGetter
	now    func() time.Time
}

// NewYahooFinanceClient creates a client backed by the live Yahoo endpoints.
func NewYahooFinanceClient(rc utils.RetryConfig) *YahooFinanceClient {
	return &YahooFinanceClient{
		retry:  rc,
		charts: fetchChart,
		equity: equity.Get,
		now:    time.Now,
	}
}

func (yf *YahooFinanceClient) Name() string { return "yahoo" }

// History gets daily closes and volumes for the last days calendar days.
func (yf *YahooFinanceClient) History(ctx context.Context, symbol string, days int) (series models.PriceSeries, err error) {
	if err := ValidateSymbol(symbol); err != nil {
		return models.PriceSeries{}, err
	}
	symbol = NormalizeSymbol(symbol)
	defer logger.Timed(ctx, yf.Name(), "history", symbol)(&err)

	end := yf.now()
	start := end.AddDate(0, 0, -days)
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	var bars []finance.ChartBar
	err = utils.WithRetry(ctx, yf.retry, func(ctx context.Context) error {
		var ferr error
		bars, ferr = callWithContext(ctx, func() ([]finance.ChartBar, error) {
			return yf.charts(params)
		})
		if ferr != nil {
			return fmt.Errorf("failed to get chart for %s: %w", symbol, ferr)
		}
		return nil
	})
	if err != nil {
		return models.PriceSeries{}, err
	}

	series = models.PriceSeries{Symbol: symbol, Points: make([]models.PricePoint, 0, len(bars))}
	for _, bar := range bars {
		if bar.Close.IsZero() {
			// Yahoo pads holidays and halted sessions with empty bars.
			continue
		}
		series.Points = append(series.Points, models.PricePoint{
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	if series.Len() == 0 {
		return series, fmt.Errorf("%w: no price history for %s", models.ErrInsufficientData, symbol)
	}
	return series, nil
}

// Ratios reads the valuation ratios Yahoo publishes on the equity quote.
func (yf *YahooFinanceClient) Ratios(ctx context.Context, symbol string) (ratios map[string]*float64, err error) {
	symbol = NormalizeSymbol(symbol)
	defer logger.Timed(ctx, yf.Name(), "equity", symbol)(&err)

	var eq *finance.Equity
	err = utils.WithRetry(ctx, yf.retry, func(ctx context.Context) error {
		var ferr error
		eq, ferr = callWithContext(ctx, func() (*finance.Equity, error) {
			return yf.equity(symbol)
		})
		if ferr != nil {
			return fmt.Errorf("failed to get equity quote for %s: %w", symbol, ferr)
		}
		if eq == nil {
			return fmt.Errorf("no equity quote for %s", symbol)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return map[string]*float64{
		models.RatioTrailingPE:    positive(eq.TrailingPE),
		models.RatioForwardPE:     positive(eq.ForwardPE),
		models.RatioPriceToBook:   positive(eq.PriceToBook),
		models.RatioEPS:           nonZero(eq.EpsTrailingTwelveMonths),
		models.RatioDividendYield: nonZero(eq.TrailingAnnualDividendYield * 100),
		models.RatioMarketCap:     nonZero(float64(eq.MarketCap)),

		models.RatioSharesOutstanding: positive(float64(eq.SharesOutstanding)),
		perShareBook:                  positive(eq.BookValue),
	}, nil
}

// positive treats zero and negative multiples as not reported.
func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return models.Float(v)
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return models.Float(v)
}
