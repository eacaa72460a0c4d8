package agents

import (
	"regexp"
	"strings"

	"github.com/dyike/SageDesk/models"
)

var (
	labelLine = regexp.MustCompile(`(?i)^[\s*_#>\-]*(reasoning|sentiment|recommendation)[\s*_]*:[\s*_]*(.*)$`)

	sentimentWords = map[models.Sentiment]*regexp.Regexp{
		models.SentimentBullish: regexp.MustCompile(`(?i)\bbullish\b`),
		models.SentimentBearish: regexp.MustCompile(`(?i)\bbearish\b`),
		models.SentimentNeutral: regexp.MustCompile(`(?i)\bneutral\b`),
	}
	recommendationWords = map[models.Recommendation]*regexp.Regexp{
		models.RecommendationBuy:  regexp.MustCompile(`(?i)\bbuy\b`),
		models.RecommendationHold: regexp.MustCompile(`(?i)\bhold\b`),
		models.RecommendationSell: regexp.MustCompile(`(?i)\bsell\b`),
	}
)

type labeled struct {
	reasoning      []string
	sentiment      *string
	recommendation *string
	hasReasoning   bool
}

// ParseReply extracts a verdict from free text. Labeled lines are read
// first; without a label the whole reply is scanned for keywords. A field
// is Unparsed when nothing matches or the matches disagree.
func ParseReply(agent, text string) models.AgentVerdict {
	raw := strings.TrimSpace(text)
	l := splitLabels(raw)

	v := models.AgentVerdict{
		Agent:          agent,
		Raw:            raw,
		Sentiment:      pickSentiment(l.sentiment, raw),
		Recommendation: pickRecommendation(l.recommendation, raw),
	}

	if l.hasReasoning {
		v.Reasoning = strings.TrimSpace(strings.Join(l.reasoning, "\n"))
	}
	if v.Reasoning == "" {
		v.Reasoning = raw
	}

	v.Status = models.VerdictOK
	if v.Sentiment == models.SentimentUnparsed || v.Recommendation == models.RecommendationUnparsed {
		v.Status = models.VerdictUnparsed
	}
	return v
}

// splitLabels walks the reply once. Reasoning may span several lines and
// ends at the next label. A sentiment or recommendation label with nothing
// after the colon takes the next non-empty line as its value.
func splitLabels(text string) labeled {
	var l labeled
	inReasoning := false
	var awaiting *string

	for _, line := range strings.Split(text, "\n") {
		m := labelLine.FindStringSubmatch(line)
		if m == nil {
			if awaiting != nil {
				if value := cleanValue(line); value != "" {
					*awaiting = value
					awaiting = nil
				}
				continue
			}
			if inReasoning {
				l.reasoning = append(l.reasoning, line)
			}
			continue
		}

		awaiting = nil
		value := cleanValue(m[2])
		switch strings.ToLower(m[1]) {
		case "reasoning":
			inReasoning = true
			l.hasReasoning = true
			if value != "" {
				l.reasoning = append(l.reasoning, value)
			}
		case "sentiment":
			inReasoning = false
			if l.sentiment == nil {
				l.sentiment = &value
				if value == "" {
					awaiting = l.sentiment
				}
			}
		case "recommendation":
			inReasoning = false
			if l.recommendation == nil {
				l.recommendation = &value
				if value == "" {
					awaiting = l.recommendation
				}
			}
		}
	}
	return l
}

func cleanValue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
}

// scope picks the text a keyword is searched in. An empty label value
// means the label carried nothing, so the whole reply is used.
func scope(label *string, raw string) string {
	if label == nil || *label == "" {
		return raw
	}
	return *label
}

func pickSentiment(label *string, raw string) models.Sentiment {
	return match(sentimentWords, scope(label, raw), models.SentimentUnparsed)
}

func pickRecommendation(label *string, raw string) models.Recommendation {
	return match(recommendationWords, scope(label, raw), models.RecommendationUnparsed)
}

// match returns the single keyword found in text, or fallback when none or
// several distinct keywords occur.
func match[T ~string](words map[T]*regexp.Regexp, text string, fallback T) T {
	found := fallback
	hits := 0
	for value, re := range words {
		if re.MatchString(text) {
			found = value
			hits++
		}
	}
	if hits != 1 {
		return fallback
	}
	return found
}
