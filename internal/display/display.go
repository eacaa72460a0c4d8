// Package display renders a Report for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dyike/SageDesk/internal/prompt"
	"github.com/dyike/SageDesk/models"
)

const panelWidth = 78

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	headerCellStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle       = lipgloss.NewStyle().Padding(0, 1)
)

// Sentiment colours.
var (
	bullishColor = lipgloss.Color("#10B981")
	bearishColor = lipgloss.Color("#EF4444")
	neutralColor = lipgloss.Color("#F59E0B")
	failedColor  = lipgloss.Color("#6B7280")
)

// ResultsDisplay handles the display of analysis results
type ResultsDisplay struct {
	out io.Writer
}

func NewResultsDisplay(out io.Writer) *ResultsDisplay {
	return &ResultsDisplay{out: out}
}

// Show writes the whole dashboard.
func (d *ResultsDisplay) Show(r *models.Report) {
	fmt.Fprintln(d.out, Render(r))
}

// Render returns the dashboard as a string.
func Render(r *models.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("📊 %s  %s", r.Symbol, r.GeneratedAt.Format("2006-01-02 15:04 MST"))))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Fundamentals"))
	b.WriteString("\n")
	b.WriteString(FundamentalsTable(r.Fundamentals))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Technical Indicators"))
	b.WriteString("\n")
	b.WriteString(IndicatorsTable(r.Indicators))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("News"))
	b.WriteString("\n")
	b.WriteString(NewsTable(r.News))
	b.WriteString("\n")

	if errs := dataErrors(r); len(errs) > 0 {
		b.WriteString("\n")
		for _, e := range errs {
			b.WriteString(mutedStyle.Render("⚠ " + e))
			b.WriteString("\n")
		}
	}

	for _, v := range r.Verdicts {
		b.WriteString("\n")
		b.WriteString(Panel(v))
		b.WriteString("\n")
	}
	return b.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})
}

func FundamentalsTable(f models.Fundamentals) string {
	t := newTable("Metric", "Value")
	for _, key := range models.FundamentalKeys {
		t.Row(key, prompt.FormatRatio(key, f.Ratios[key]))
	}
	return t.String()
}

func IndicatorsTable(set models.IndicatorSet) string {
	t := newTable("Indicator", "Value")
	for _, name := range prompt.IndicatorNames {
		t.Row(name, prompt.FormatIndicator(name, set))
	}
	return t.String()
}

func NewsTable(d models.NewsDigest) string {
	if d.Empty() {
		return mutedStyle.Render("No recent news.")
	}
	t := newTable("#", "Headline", "Source")
	for i, h := range d.Headlines {
		t.Row(fmt.Sprint(i+1), truncate(h.Title, 70), h.Source)
	}
	return t.String()
}

// PanelColor maps a verdict to its border colour.
func PanelColor(v models.AgentVerdict) lipgloss.Color {
	if v.Failed() {
		return failedColor
	}
	switch v.Sentiment {
	case models.SentimentBullish:
		return bullishColor
	case models.SentimentBearish:
		return bearishColor
	default:
		return neutralColor
	}
}

// Panel renders one persona verdict in a bordered box.
func Panel(v models.AgentVerdict) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PanelColor(v)).
		Padding(0, 1).
		Width(panelWidth)

	var body strings.Builder
	body.WriteString(lipgloss.NewStyle().Bold(true).Render(v.Agent + " Analysis"))
	body.WriteString("\n\n")

	if v.Failed() {
		body.WriteString(errorStyle.Render("Unavailable: " + v.Error))
		return style.Render(body.String())
	}

	body.WriteString(v.Reasoning)
	body.WriteString("\n\n")
	badge := lipgloss.NewStyle().Bold(true).Foreground(PanelColor(v))
	fmt.Fprintf(&body, "Sentiment: %s   Recommendation: %s",
		badge.Render(string(v.Sentiment)), badge.Render(string(v.Recommendation)))
	if v.Elapsed > 0 {
		body.WriteString(mutedStyle.Render(fmt.Sprintf("   (%.1fs)", v.Elapsed.Seconds())))
	}
	return style.Render(body.String())
}

func dataErrors(r *models.Report) []string {
	var errs []string
	errs = append(errs, r.Fundamentals.Errors...)
	errs = append(errs, r.News.Errors...)
	errs = append(errs, r.DataErrors...)
	return errs
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
