package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/internal/logger"
	"github.com/dyike/SageDesk/internal/utils"
	"github.com/dyike/SageDesk/models"
)

// newsWindow is how far back company news reaches.
const newsWindow = 7 * 24 * time.Hour

const tokenHeader = "X-Finnhub-Token"

// FinnhubClient handles Finnhub API operations
type FinnhubClient struct {
	client *resty.Client
	apiKey string
	retry  utils.RetryConfig
	now    func() time.Time
}

// NewFinnhubClient creates a new Finnhub client
func NewFinnhubClient(cfg *config.Config) *FinnhubClient {
	client := resty.New()
	client.SetBaseURL(cfg.FinnhubBaseURL)
	client.SetTimeout(cfg.RequestTimeout)
	// The key travels in a header so it never shows up in request URLs,
	// which resty includes in transport errors.
	client.SetHeader(tokenHeader, cfg.FinnhubAPIKey)

	return &FinnhubClient{
		client: client,
		apiKey: cfg.FinnhubAPIKey,
		retry:  utils.RetryConfigFrom(cfg),
		now:    time.Now,
	}
}

func (fc *FinnhubClient) Name() string { return "finnhub" }

// Enabled reports whether an API key is configured.
func (fc *FinnhubClient) Enabled() bool { return fc.apiKey != "" }

// FinnhubNews represents news from Finnhub API
type FinnhubNews struct {
	Category string `json:"category"`
	DateTime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

type basicFinancials struct {
	Symbol string                     `json:"symbol"`
	Metric map[string]json.RawMessage `json:"metric"`
}

// metricKeys lists the Finnhub metric names tried, in order, for each ratio.
var metricKeys = map[string][]string{
	models.RatioMarketCap:       {"marketCapitalization"},
	models.RatioEnterpriseValue: {"enterpriseValue"},
	models.RatioTrailingPE:      {"peTTM", "peBasicExclExtraTTM", "peExclExtraTTM"},
	models.RatioPEG:             {"pegTTM", "pegRatio", "pegAnnual"},
	models.RatioPriceToBook:     {"pbQuarterly", "pbAnnual"},
	models.RatioGrossMargin:     {"grossMarginTTM", "grossMarginAnnual"},
	models.RatioOperatingMargin: {"operatingMarginTTM", "operatingMarginAnnual"},
	models.RatioNetMargin:       {"netProfitMarginTTM", "netProfitMarginAnnual"},
	models.RatioEPS:             {"epsTTM", "epsBasicExclExtraItemsTTM"},
	models.RatioCurrentRatio:    {"currentRatioQuarterly", "currentRatioAnnual"},
	models.RatioQuickRatio:      {"quickRatioQuarterly", "quickRatioAnnual"},
	models.RatioDebtToEquity:    {"totalDebt/totalEquityQuarterly", "totalDebt/totalEquityAnnual"},
	models.RatioROA:             {"roaTTM", "roaRfy"},
	models.RatioROE:             {"roeTTM", "roeRfy"},
	models.RatioROI:             {"roiTTM", "roiAnnual"},

	perShareRevenue: {"revenuePerShareTTM", "revenuePerShareAnnual"},
	perShareCash:    {"cashPerSharePerShareQuarterly", "cashPerSharePerShareAnnual"},
	perShareBook:    {"bookValuePerShareQuarterly", "bookValuePerShareAnnual"},
}

// millionsMetrics are reported by Finnhub in millions of dollars.
var millionsMetrics = []string{models.RatioMarketCap, models.RatioEnterpriseValue}

// Ratios reads Finnhub basic financials. Market cap and enterprise value
// come in millions and are scaled to dollars here.
func (fc *FinnhubClient) Ratios(ctx context.Context, symbol string) (ratios map[string]*float64, err error) {
	if !fc.Enabled() {
		return nil, fmt.Errorf("Finnhub API key not configured")
	}
	symbol = NormalizeSymbol(symbol)
	defer logger.Timed(ctx, fc.Name(), "metrics", symbol)(&err)

	var payload basicFinancials
	err = fc.get(ctx, "/stock/metric", map[string]string{
		"symbol": symbol,
		"metric": "all",
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch basic financials for %s: %w", symbol, err)
	}

	ratios = make(map[string]*float64, len(metricKeys))
	for ratio, keys := range metricKeys {
		ratios[ratio] = firstMetric(payload.Metric, keys)
	}
	for _, key := range millionsMetrics {
		if v := ratios[key]; v != nil {
			ratios[key] = models.Float(*v * 1e6)
		}
	}
	return ratios, nil
}

// Headlines gets company news from the last seven days.
func (fc *FinnhubClient) Headlines(ctx context.Context, symbol string) (headlines []models.Headline, err error) {
	if !fc.Enabled() {
		return nil, fmt.Errorf("Finnhub API key not configured")
	}
	symbol = NormalizeSymbol(symbol)
	defer logger.Timed(ctx, fc.Name(), "company-news", symbol)(&err)

	to := fc.now()
	from := to.Add(-newsWindow)

	var news []FinnhubNews
	err = fc.get(ctx, "/company-news", map[string]string{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}, &news)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news for %s: %w", symbol, err)
	}

	headlines = make([]models.Headline, 0, len(news))
	for _, n := range news {
		headlines = append(headlines, models.Headline{
			Title:       n.Headline,
			Source:      n.Source,
			URL:         n.URL,
			Summary:     n.Summary,
			PublishedAt: time.Unix(n.DateTime, 0).UTC(),
		})
	}
	return headlines, nil
}

func (fc *FinnhubClient) get(ctx context.Context, path string, params map[string]string, out any) error {
	return utils.WithRetry(ctx, fc.retry, func(ctx context.Context) error {
		resp, err := fc.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(path)
		if err != nil {
			return err
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	})
}

func firstMetric(metrics map[string]json.RawMessage, keys []string) *float64 {
	for _, key := range keys {
		raw, ok := metrics[key]
		if !ok {
			continue
		}
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil || v == nil {
			continue
		}
		return v
	}
	return nil
}
