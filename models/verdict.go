package models

import "time"

type Sentiment string

const (
	SentimentBullish  Sentiment = "Bullish"
	SentimentBearish  Sentiment = "Bearish"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentUnparsed Sentiment = "Unparsed"
)

type Recommendation string

const (
	RecommendationBuy      Recommendation = "Buy"
	RecommendationHold     Recommendation = "Hold"
	RecommendationSell     Recommendation = "Sell"
	RecommendationUnparsed Recommendation = "Unparsed"
)

type VerdictStatus string

const (
	// VerdictOK means both sentiment and recommendation were extracted.
	VerdictOK VerdictStatus = "ok"
	// VerdictUnparsed means the model answered but at least one field could not be extracted.
	VerdictUnparsed VerdictStatus = "unparsed"
	// VerdictError means the call itself failed.
	VerdictError VerdictStatus = "error"
)

// AgentVerdict is one persona's answer for one request.
type AgentVerdict struct {
	Agent          string         `json:"agent"`
	Reasoning      string         `json:"reasoning"`
	Sentiment      Sentiment      `json:"sentiment"`
	Recommendation Recommendation `json:"recommendation"`
	Status         VerdictStatus  `json:"status"`
	Error          string         `json:"error,omitempty"`
	Raw            string         `json:"raw,omitempty"`
	Elapsed        time.Duration  `json:"elapsed"`
}

// FailedVerdict builds the error state shown in place of a persona panel.
func FailedVerdict(agent string, err error) AgentVerdict {
	return AgentVerdict{
		Agent:          agent,
		Sentiment:      SentimentUnparsed,
		Recommendation: RecommendationUnparsed,
		Status:         VerdictError,
		Error:          err.Error(),
	}
}

func (v AgentVerdict) Failed() bool { return v.Status == VerdictError }
