package dataflows

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/internal/logger"
	"github.com/dyike/SageDesk/internal/utils"
	"github.com/dyike/SageDesk/models"
)

// longport caps a single candlestick request at 1000 bars.
const maxLongportCandles = 1000

type candleFunc func(ctx context.Context, symbol string, count int32) ([]*quote.Candlestick, error)

// LongportClient reads daily candlesticks from the Longport quote API. The
// quote connection is opened on first use.
type LongportClient struct {
	cfg   *config.Config
	retry utils.RetryConfig

	once    sync.Once
	initErr error
	candles candleFunc
}

func NewLongportClient(cfg *config.Config) *LongportClient {
	return &LongportClient{cfg: cfg, retry: utils.RetryConfigFrom(cfg)}
}

func (lpc *LongportClient) Name() string { return "longport" }

func (lpc *LongportClient) connect() error {
	lpc.once.Do(func() {
		if lpc.candles != nil {
			return
		}
		if !lpc.cfg.HasLongport() {
			lpc.initErr = errors.New("longport credentials not configured")
			return
		}
		conf, err := lpconfig.New(lpconfig.WithConfigKey(
			lpc.cfg.LongportAppKey, lpc.cfg.LongportAppSecret, lpc.cfg.LongportAccessToken))
		if err != nil {
			lpc.initErr = fmt.Errorf("longport config: %w", err)
			return
		}
		quoteContext, err := quote.NewFromCfg(conf)
		if err != nil {
			lpc.initErr = fmt.Errorf("longport quote context: %w", err)
			return
		}
		lpc.candles = func(ctx context.Context, symbol string, count int32) ([]*quote.Candlestick, error) {
			return quoteContext.Candlesticks(ctx, symbol, quote.PeriodDay, count, quote.AdjustTypeNo)
		}
	})
	return lpc.initErr
}

// History returns roughly days calendar days of daily bars. Longport counts
// trading sessions, so the request is scaled by 5/7.
func (lpc *LongportClient) History(ctx context.Context, symbol string, days int) (series models.PriceSeries, err error) {
	if err := ValidateSymbol(symbol); err != nil {
		return models.PriceSeries{}, err
	}
	symbol = NormalizeSymbol(symbol)
	defer logger.Timed(ctx, lpc.Name(), "candlesticks", symbol)(&err)

	if err = lpc.connect(); err != nil {
		return models.PriceSeries{}, err
	}

	count := days * 5 / 7
	if count > maxLongportCandles {
		count = maxLongportCandles
	}
	if count < 1 {
		count = 1
	}

	var sticks []*quote.Candlestick
	err = utils.WithRetry(ctx, lpc.retry, func(ctx context.Context) error {
		var ferr error
		sticks, ferr = lpc.candles(ctx, LongportSymbol(symbol), int32(count))
		return ferr
	})
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("failed to get candlesticks for %s: %w", symbol, err)
	}

	series = models.PriceSeries{Symbol: symbol}
	for _, c := range sticks {
		if c == nil || c.Close == nil {
			continue
		}
		series.Points = append(series.Points, models.PricePoint{
			Date:   time.Unix(c.Timestamp, 0).UTC(),
			Close:  *c.Close,
			Volume: c.Volume,
		})
	}
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})
	if series.Len() == 0 {
		return series, fmt.Errorf("%w: no candlesticks for %s", models.ErrInsufficientData, symbol)
	}
	return series, nil
}

// LongportSymbol maps a plain ticker to Longport's market-qualified form.
// Tickers that already carry a market suffix are kept.
func LongportSymbol(symbol string) string {
	for _, market := range []string{".US", ".HK", ".SH", ".SZ", ".SG"} {
		if strings.HasSuffix(symbol, market) {
			return symbol
		}
	}
	return symbol + ".US"
}
