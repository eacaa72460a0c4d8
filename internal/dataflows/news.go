package dataflows

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/internal/logger"
	"github.com/dyike/SageDesk/internal/utils"
	"github.com/dyike/SageDesk/models"
)

// GoogleNewsClient searches the Google News RSS endpoint.
type GoogleNewsClient struct {
	client *resty.Client
	parser *gofeed.Parser
	url    string
	retry  utils.RetryConfig
}

func NewGoogleNewsClient(cfg *config.Config) *GoogleNewsClient {
	client := resty.New()
	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; SageDesk/1.0)")

	return &GoogleNewsClient{
		client: client,
		parser: gofeed.NewParser(),
		url:    cfg.GoogleNewsURL,
		retry:  utils.RetryConfigFrom(cfg),
	}
}

func (gnc *GoogleNewsClient) Name() string { return "google-news" }

// Headlines returns the feed items for "<symbol> stock", newest first.
func (gnc *GoogleNewsClient) Headlines(ctx context.Context, symbol string) (headlines []models.Headline, err error) {
	symbol = NormalizeSymbol(symbol)
	defer logger.Timed(ctx, gnc.Name(), "rss", symbol)(&err)

	var body []byte
	err = utils.WithRetry(ctx, gnc.retry, func(ctx context.Context) error {
		resp, err := gnc.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"q":    symbol + " stock",
				"hl":   "en-US",
				"gl":   "US",
				"ceid": "US:en",
			}).
			Get(gnc.url)
		if err != nil {
			return fmt.Errorf("failed to fetch RSS feed: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("HTTP error %d when fetching RSS feed", resp.StatusCode())
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}

	feed, err := gnc.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	headlines = make([]models.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title, source := splitSource(item.Title)
		h := models.Headline{
			Title:   title,
			Source:  source,
			URL:     item.Link,
			Summary: cleanHTMLContent(item.Description),
		}
		if item.PublishedParsed != nil {
			h.PublishedAt = item.PublishedParsed.UTC()
		}
		headlines = append(headlines, h)
	}
	return headlines, nil
}

// splitSource separates Google News' "Title - Outlet" convention.
func splitSource(title string) (string, string) {
	title = strings.TrimSpace(title)
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// cleanHTMLContent strips markup from an RSS description.
func cleanHTMLContent(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return strings.TrimSpace(htmlTagRegex.ReplaceAllString(htmlContent, ""))
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// NewsAggregator merges headline sources, keeps trusted outlets only and
// trims the result to a fixed number of items.
type NewsAggregator struct {
	sources []HeadlineSource
	trusted []string
	limit   int
}

// NewNewsAggregator wires Google News and, when a key is set, Finnhub.
func NewNewsAggregator(cfg *config.Config) *NewsAggregator {
	sources := []HeadlineSource{NewGoogleNewsClient(cfg)}
	if fh := NewFinnhubClient(cfg); fh.Enabled() {
		sources = append(sources, fh)
	}
	return NewNewsAggregatorWithSources(cfg, sources...)
}

func NewNewsAggregatorWithSources(cfg *config.Config, sources ...HeadlineSource) *NewsAggregator {
	return &NewsAggregator{
		sources: sources,
		trusted: cfg.TrustedSources,
		limit:   cfg.MaxNewsArticles,
	}
}

// Fetch never fails; source errors are recorded on the digest.
func (na *NewsAggregator) Fetch(ctx context.Context, symbol string) models.NewsDigest {
	symbol = NormalizeSymbol(symbol)
	digest := models.NewsDigest{Symbol: symbol}

	var all []models.Headline
	for _, src := range na.sources {
		items, err := src.Headlines(ctx, symbol)
		if err != nil {
			digest.Errors = append(digest.Errors, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		all = append(all, items...)
	}

	// Stable so sources without dates keep their feed order.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	seen := make(map[string]bool)
	for _, h := range all {
		if len(digest.Headlines) >= na.limit {
			break
		}
		key := strings.ToLower(strings.TrimSpace(h.Title))
		if key == "" || seen[key] || !na.isTrusted(h.Source) {
			continue
		}
		seen[key] = true
		digest.Headlines = append(digest.Headlines, h)
	}

	logger.From(ctx).Debug().
		Str("symbol", symbol).
		Int("candidates", len(all)).
		Int("kept", len(digest.Headlines)).
		Msg("news aggregated")
	return digest
}

func (na *NewsAggregator) isTrusted(source string) bool {
	source = strings.ToLower(source)
	if source == "" {
		return false
	}
	for _, t := range na.trusted {
		if strings.Contains(source, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
