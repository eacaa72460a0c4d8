package models

import "time"

// Headline is one news item from a trusted source.
type Headline struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsDigest is the ordered list of headlines gathered for a symbol.
type NewsDigest struct {
	Symbol    string     `json:"symbol"`
	Headlines []Headline `json:"headlines"`
	Errors    []string   `json:"errors,omitempty"`
}

func (d NewsDigest) Empty() bool { return len(d.Headlines) == 0 }
