package models

import "time"

// Report is everything the dashboard renders for one ticker.
type Report struct {
	Symbol       string         `json:"symbol"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Fundamentals Fundamentals   `json:"fundamentals"`
	Indicators   IndicatorSet   `json:"indicators"`
	News         NewsDigest     `json:"news"`
	Verdicts     []AgentVerdict `json:"verdicts"`
	DataErrors   []string       `json:"data_errors,omitempty"`
}

// Verdict returns the verdict produced by agent, if any.
func (r *Report) Verdict(agent string) (AgentVerdict, bool) {
	for _, v := range r.Verdicts {
		if v.Agent == agent {
			return v, true
		}
	}
	return AgentVerdict{}, false
}
