package agents

import (
	"strings"
	"testing"

	"github.com/dyike/SageDesk/models"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		sentiment      models.Sentiment
		recommendation models.Recommendation
		status         models.VerdictStatus
		reasoning      string
	}{
		{
			name: "labeled",
			reply: `Reasoning: Strong moat and 30% ROE.
Debt is modest.
Sentiment: Bullish
Recommendation: Buy`,
			sentiment:      models.SentimentBullish,
			recommendation: models.RecommendationBuy,
			status:         models.VerdictOK,
			reasoning:      "Strong moat and 30% ROE.\nDebt is modest.",
		},
		{
			name: "markdown labels",
			reply: `**Reasoning:** The stock trades at 40x earnings, a bearish sign for value buyers.
**Sentiment:** Neutral
- **Recommendation:** Hold`,
			sentiment:      models.SentimentNeutral,
			recommendation: models.RecommendationHold,
			status:         models.VerdictOK,
			reasoning:      "The stock trades at 40x earnings, a bearish sign for value buyers.",
		},
		{
			name:           "keywords without labels",
			reply:          "Overall I am bearish here and would sell into strength.",
			sentiment:      models.SentimentBearish,
			recommendation: models.RecommendationSell,
			status:         models.VerdictOK,
			reasoning:      "Overall I am bearish here and would sell into strength.",
		},
		{
			name:           "conflicting keywords",
			reply:          "Some say bullish, others bearish. Buy or sell, who knows.",
			sentiment:      models.SentimentUnparsed,
			recommendation: models.RecommendationUnparsed,
			status:         models.VerdictUnparsed,
		},
		{
			name:           "nothing recognizable",
			reply:          "I cannot comment on individual securities.",
			sentiment:      models.SentimentUnparsed,
			recommendation: models.RecommendationUnparsed,
			status:         models.VerdictUnparsed,
			reasoning:      "I cannot comment on individual securities.",
		},
		{
			name:           "word boundaries",
			reply:          "Shareholders are holding; the buyback is large. Sentiment: Bullish",
			sentiment:      models.SentimentBullish,
			recommendation: models.RecommendationUnparsed,
			status:         models.VerdictUnparsed,
		},
		{
			name: "ambiguous label",
			reply: `Reasoning: fine business
Sentiment: Bullish to Neutral
Recommendation: Hold`,
			sentiment:      models.SentimentUnparsed,
			recommendation: models.RecommendationHold,
			status:         models.VerdictUnparsed,
		},
		{
			name: "value on the line after the label",
			reply: `Reasoning: Solid moat and low debt.
Sentiment:
Bullish
Recommendation:

**Buy**`,
			sentiment:      models.SentimentBullish,
			recommendation: models.RecommendationBuy,
			status:         models.VerdictOK,
			reasoning:      "Solid moat and low debt.",
		},
		{
			name: "empty label falls back to the whole reply",
			reply: `I would hold this bearish name.
Sentiment:
Recommendation:`,
			sentiment:      models.SentimentBearish,
			recommendation: models.RecommendationHold,
			status:         models.VerdictOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseReply("Buffett", tt.reply)
			if v.Agent != "Buffett" {
				t.Fatalf("unexpected agent %q", v.Agent)
			}
			if v.Sentiment != tt.sentiment {
				t.Errorf("sentiment: want %s, got %s", tt.sentiment, v.Sentiment)
			}
			if v.Recommendation != tt.recommendation {
				t.Errorf("recommendation: want %s, got %s", tt.recommendation, v.Recommendation)
			}
			if v.Status != tt.status {
				t.Errorf("status: want %s, got %s", tt.status, v.Status)
			}
			if tt.reasoning != "" && v.Reasoning != tt.reasoning {
				t.Errorf("reasoning: want %q, got %q", tt.reasoning, v.Reasoning)
			}
			if v.Raw != strings.TrimSpace(tt.reply) {
				t.Error("raw reply not kept")
			}
		})
	}
}

func TestParseReplyKeepsRawWhenUnlabeled(t *testing.T) {
	reply := "  A wonderful business at a fair price. Bullish; I would buy.  "
	v := ParseReply("Buffett", reply)
	if v.Reasoning != strings.TrimSpace(reply) {
		t.Fatalf("expected raw text as reasoning, got %q", v.Reasoning)
	}
}
