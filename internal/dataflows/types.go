package dataflows

import (
	"context"

	"github.com/piquette/finance-go"

	"github.com/dyike/SageDesk/models"
)

// PriceProvider returns a daily close/volume history covering the last
// days calendar days.
type PriceProvider interface {
	Name() string
	History(ctx context.Context, symbol string, days int) (models.PriceSeries, error)
}

// RatioSource contributes ratios to a Fundamentals snapshot.
type RatioSource interface {
	Name() string
	Ratios(ctx context.Context, symbol string) (map[string]*float64, error)
}

// HeadlineSource returns raw headlines for a symbol; filtering happens in
// the NewsAggregator.
type HeadlineSource interface {
	Name() string
	Headlines(ctx context.Context, symbol string) ([]models.Headline, error)
}

// EquityGetter fetches a Yahoo equity quote. It matches equity.Get.
type EquityGetter func(symbol string) (*finance.Equity, error)
