// Package dataflows fetches price history, fundamentals and news headlines
// from the external market-data providers.
package dataflows

import (
	"fmt"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/internal/utils"
)

// NewPriceProvider returns the history provider selected by MARKET_PROVIDER.
func NewPriceProvider(cfg *config.Config) (PriceProvider, error) {
	switch cfg.MarketProvider {
	case config.MarketYahoo, "":
		return NewYahooFinanceClient(utils.RetryConfigFrom(cfg)), nil
	case config.MarketLongport:
		if !cfg.HasLongport() {
			return nil, fmt.Errorf("market provider %q needs LONGPORT_APP_KEY, LONGPORT_APP_SECRET and LONGPORT_ACCESS_TOKEN", cfg.MarketProvider)
		}
		return NewLongportClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported market provider %q", cfg.MarketProvider)
	}
}
