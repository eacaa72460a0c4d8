// Package trading runs one dashboard request end to end: data fetches,
// indicators, prompts and the persona fan-out.
package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"golang.org/x/sync/errgroup"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/consts"
	"github.com/dyike/SageDesk/internal/agents"
	"github.com/dyike/SageDesk/internal/dataflows"
	"github.com/dyike/SageDesk/internal/indicators"
	"github.com/dyike/SageDesk/internal/logger"
	"github.com/dyike/SageDesk/internal/prompt"
	"github.com/dyike/SageDesk/models"
)

type FundamentalsSource interface {
	Fetch(ctx context.Context, symbol string) models.Fundamentals
}

type NewsSource interface {
	Fetch(ctx context.Context, symbol string) models.NewsDigest
}

// Dependencies lets callers replace the external collaborators. Nil fields
// are built from the config.
type Dependencies struct {
	Prices       dataflows.PriceProvider
	Fundamentals FundamentalsSource
	News         NewsSource
	ChatModel    model.BaseChatModel
}

// Session represents one analysis pipeline. It keeps no state between runs
// and may serve concurrent requests.
type Session struct {
	config       *config.Config
	prices       dataflows.PriceProvider
	fundamentals FundamentalsSource
	news         NewsSource
	builder      *prompt.Builder

	agents   []*agents.Agent
	agentErr error

	now func() time.Time
}

// NewSession wires the providers selected by cfg.
func NewSession(ctx context.Context, cfg *config.Config) (*Session, error) {
	return NewSessionWith(ctx, cfg, Dependencies{})
}

func NewSessionWith(ctx context.Context, cfg *config.Config, deps Dependencies) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	builder, err := prompt.NewBuilder()
	if err != nil {
		return nil, err
	}

	s := &Session{
		config:       cfg,
		prices:       deps.Prices,
		fundamentals: deps.Fundamentals,
		news:         deps.News,
		builder:      builder,
		now:          time.Now,
	}
	if s.prices == nil {
		if s.prices, err = dataflows.NewPriceProvider(cfg); err != nil {
			return nil, err
		}
	}
	if s.fundamentals == nil {
		s.fundamentals = dataflows.NewFundamentalsFetcher(cfg)
	}
	if s.news == nil {
		s.news = dataflows.NewNewsAggregator(cfg)
	}

	if err := s.initAgents(ctx, deps.ChatModel); err != nil {
		return nil, err
	}
	return s, nil
}

// initAgents compiles the persona graphs. A missing API key is not fatal:
// the data panels still render and every persona reports the error.
func (s *Session) initAgents(ctx context.Context, chatModel model.BaseChatModel) error {
	s.agents, s.agentErr = nil, nil

	if chatModel == nil {
		cm, err := agents.NewChatModel(ctx, s.config)
		if err != nil {
			s.agentErr = err
			logger.From(ctx).Warn().Err(err).Msg("persona agents disabled")
			return nil
		}
		chatModel = cm
	}

	for _, name := range consts.Personas {
		a, err := agents.NewAgent(ctx, name, chatModel, s.config)
		if err != nil {
			return err
		}
		s.agents = append(s.agents, a)
	}
	return nil
}

// WithAPIKey returns a session sharing s's data providers whose personas use
// key. An empty key returns s.
func (s *Session) WithAPIKey(ctx context.Context, key string) (*Session, error) {
	cfg := s.config.WithAPIKey(key)
	if cfg.APIKey() == s.config.APIKey() {
		return s, nil
	}
	cp := *s
	cp.config = cfg
	if err := cp.initAgents(ctx, nil); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *Session) Config() *config.Config { return s.config }

// Run executes the pipeline for symbol. Only an invalid symbol is an error;
// every other failure is reported inside the Report.
func (s *Session) Run(ctx context.Context, symbol string) (*models.Report, error) {
	if err := dataflows.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = dataflows.NormalizeSymbol(symbol)
	log := logger.From(ctx).With().Str("symbol", symbol).Logger()
	ctx = log.WithContext(ctx)
	start := s.now()

	report := &models.Report{
		Symbol:      symbol,
		GeneratedAt: start.UTC(),
	}

	report.Fundamentals = s.fundamentals.Fetch(ctx, symbol)
	report.News = s.news.Fetch(ctx, symbol)

	series, err := s.prices.History(ctx, symbol, s.config.HistoryDays)
	if err != nil {
		report.DataErrors = append(report.DataErrors, fmt.Sprintf("%s: %v", s.prices.Name(), err))
	}
	report.Indicators = indicators.Compute(series)
	if missing := indicators.Missing(report.Indicators); series.Len() > 0 && len(missing) > 0 {
		report.DataErrors = append(report.DataErrors,
			fmt.Sprintf("only %d price points; not computed: %v", series.Len(), missing))
	}

	report.Verdicts = s.runAgents(ctx, prompt.Context{
		Symbol:       symbol,
		Fundamentals: report.Fundamentals,
		Indicators:   report.Indicators,
		News:         report.News,
	})

	log.Info().
		Int("ratios", report.Fundamentals.Available()).
		Int("headlines", len(report.News.Headlines)).
		Int("price_points", report.Indicators.Points).
		Dur("elapsed", time.Since(start)).
		Msg("analysis finished")
	return report, nil
}

// runAgents returns one verdict per persona in consts.Personas order.
func (s *Session) runAgents(ctx context.Context, in prompt.Context) []models.AgentVerdict {
	verdicts := make([]models.AgentVerdict, len(consts.Personas))

	if s.agentErr != nil || len(s.agents) == 0 {
		err := s.agentErr
		if err == nil {
			err = models.ErrMissingAPIKey
		}
		for i, name := range consts.Personas {
			verdicts[i] = models.FailedVerdict(name, err)
		}
		return verdicts
	}

	run := func(i int) {
		a := s.agents[i]
		msgs, err := s.builder.Messages(ctx, a.Name(), in)
		if err != nil {
			verdicts[i] = models.FailedVerdict(a.Name(), err)
			return
		}
		verdicts[i] = a.Analyze(ctx, msgs)
	}

	if !s.config.ParallelAgents {
		for i := range s.agents {
			run(i)
		}
		return verdicts
	}

	// Analyze never fails, so the group only joins.
	var g errgroup.Group
	for i := range s.agents {
		g.Go(func() error {
			run(i)
			return nil
		})
	}
	_ = g.Wait()
	return verdicts
}

// Prompt renders the prompt persona would receive for report.
func (s *Session) Prompt(persona string, report *models.Report) (string, error) {
	return s.builder.Render(persona, prompt.Context{
		Symbol:       report.Symbol,
		Fundamentals: report.Fundamentals,
		Indicators:   report.Indicators,
		News:         report.News,
	})
}
