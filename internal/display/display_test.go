package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dyike/SageDesk/consts"
	"github.com/dyike/SageDesk/models"
)

func sampleReport() *models.Report {
	f := models.NewFundamentals("ABC")
	f.Ratios[models.RatioTrailingPE] = models.Float(14.2)
	f.Errors = []string{"finnhub: API error 429"}

	return &models.Report{
		Symbol:       "ABC",
		GeneratedAt:  time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC),
		Fundamentals: f,
		Indicators:   models.IndicatorSet{LastClose: models.Float(100), Volatility: models.Float(0)},
		News:         models.NewsDigest{Symbol: "ABC"},
		Verdicts: []models.AgentVerdict{
			{Agent: consts.Buffett, Reasoning: "Wide moat.", Sentiment: models.SentimentBullish, Recommendation: models.RecommendationBuy, Status: models.VerdictOK},
			{Agent: consts.Graham, Reasoning: "Too expensive.", Sentiment: models.SentimentUnparsed, Recommendation: models.RecommendationHold, Status: models.VerdictUnparsed},
			models.FailedVerdict(consts.Lynch, models.ErrMissingAPIKey),
		},
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleReport())
	for _, want := range []string{
		"ABC",
		"Trailing P/E",
		"14.20",
		"PEG Ratio",
		"N/A",
		"$100.00",
		"0.00% (no volatility)",
		"No recent news.",
		"finnhub: API error 429",
		"Buffett Analysis",
		"Wide moat.",
		"Unparsed",
		"Unavailable: LLM API key not configured",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestPanelColor(t *testing.T) {
	r := sampleReport()
	if PanelColor(r.Verdicts[0]) != bullishColor {
		t.Error("bullish panel should be green")
	}
	if PanelColor(r.Verdicts[1]) != neutralColor {
		t.Error("unparsed panel should be yellow")
	}
	if PanelColor(r.Verdicts[2]) != failedColor {
		t.Error("failed panel should be grey")
	}
	bear := models.AgentVerdict{Sentiment: models.SentimentBearish, Status: models.VerdictOK}
	if PanelColor(bear) != bearishColor {
		t.Error("bearish panel should be red")
	}
}

func TestNewsTable(t *testing.T) {
	d := models.NewsDigest{Headlines: []models.Headline{
		{Title: strings.Repeat("x", 100), Source: "Reuters"},
	}}
	out := NewsTable(d)
	if !strings.Contains(out, "Reuters") || !strings.Contains(out, "…") {
		t.Fatalf("unexpected news table:\n%s", out)
	}
}

func TestShowWrites(t *testing.T) {
	var buf bytes.Buffer
	NewResultsDisplay(&buf).Show(sampleReport())
	if !strings.Contains(buf.String(), "Graham Analysis") {
		t.Fatal("nothing written")
	}
}
