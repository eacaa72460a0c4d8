package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/dyike/SageDesk/consts"
	"github.com/dyike/SageDesk/models"
)

var ErrUnknownPersona = errors.New("unknown persona")

// Context is everything a persona prompt is rendered from.
type Context struct {
	Symbol       string
	Fundamentals models.Fundamentals
	Indicators   models.IndicatorSet
	News         models.NewsDigest
}

type persona struct {
	system  string
	comment string
	focus   func(Context) []string
}

// Builder renders persona prompts. It holds no per-request state and is
// safe for concurrent use.
type Builder struct {
	personas map[string]persona
	context  string
}

func NewBuilder() (*Builder, error) {
	shared, err := LoadPrompt("context")
	if err != nil {
		return nil, err
	}

	b := &Builder{
		personas: make(map[string]persona, len(consts.Personas)),
		context:  shared,
	}
	specs := map[string]persona{
		consts.Buffett: {comment: "A concise Buffett-style comment", focus: buffettFocus},
		consts.Graham:  {comment: "A concise Graham-style comment", focus: grahamFocus},
		consts.Lynch:   {comment: "A Peter Lynch-style comment citing the PEG ratio and any ten-bagger potential", focus: lynchFocus},
	}
	for name, p := range specs {
		system, err := LoadPrompt(strings.ToLower(name))
		if err != nil {
			return nil, err
		}
		p.system = system
		b.personas[name] = p
	}
	return b, nil
}

// Messages returns the system and user turns for persona.
func (b *Builder) Messages(ctx context.Context, name string, in Context) ([]*schema.Message, error) {
	p, ok := b.personas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPersona, name)
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage(p.system),
		schema.UserMessage(b.context),
	)
	return tpl.Format(ctx, map[string]any{
		"symbol":       in.Symbol,
		"focus":        strings.Join(p.focus(in), "\n"),
		"fundamentals": fundamentalsBlock(in.Fundamentals),
		"technicals":   technicalsBlock(in.Indicators),
		"news":         newsBlock(in.News),
		"comment":      p.comment,
	})
}

// Render returns the full prompt text for persona. The output depends only
// on its inputs.
func (b *Builder) Render(name string, in Context) (string, error) {
	msgs, err := b.Messages(context.Background(), name, in)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

func ratioLine(f models.Fundamentals, key string) string {
	return fmt.Sprintf("- %s: %s", key, FormatRatio(key, f.Ratios[key]))
}

func indicatorLine(set models.IndicatorSet, name string) string {
	return fmt.Sprintf("- %s: %s", name, FormatIndicator(name, set))
}

func buffettFocus(in Context) []string {
	f := in.Fundamentals
	return []string{
		ratioLine(f, models.RatioROE),
		ratioLine(f, models.RatioROA),
		ratioLine(f, models.RatioDebtToEquity),
		ratioLine(f, models.RatioGrossMargin),
		ratioLine(f, models.RatioOperatingMargin),
		ratioLine(f, models.RatioNetMargin),
		ratioLine(f, models.RatioNetIncome),
		ratioLine(f, models.RatioTrailingPE),
	}
}

func grahamFocus(in Context) []string {
	f := in.Fundamentals
	return []string{
		ratioLine(f, models.RatioTrailingPE),
		ratioLine(f, models.RatioPriceToBook),
		ratioLine(f, models.RatioDebtToEquity),
		ratioLine(f, models.RatioCurrentRatio),
		ratioLine(f, models.RatioQuickRatio),
		ratioLine(f, models.RatioTotalDebt),
		ratioLine(f, models.RatioTotalCash),
		ratioLine(f, models.RatioDividendYield),
	}
}

func lynchFocus(in Context) []string {
	f := in.Fundamentals
	return []string{
		ratioLine(f, models.RatioPEG),
		ratioLine(f, models.RatioTrailingPE),
		ratioLine(f, models.RatioEPS),
		ratioLine(f, models.RatioTotalRevenue),
		indicatorLine(in.Indicators, "Daily Change"),
		indicatorLine(in.Indicators, "RSI (14)"),
		fmt.Sprintf("- Headline flow: %d trusted headlines", len(in.News.Headlines)),
	}
}
