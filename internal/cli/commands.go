package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/consts"
	"github.com/dyike/SageDesk/internal/debug"
	"github.com/dyike/SageDesk/internal/display"
	"github.com/dyike/SageDesk/internal/logger"
	"github.com/dyike/SageDesk/internal/web"
)

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sagedesk",
		Short: "SageDesk - stock dashboard with investor persona analysis",
		Long: `SageDesk gathers fundamentals, technical indicators and trusted headlines for a
ticker and asks three investor personas (Buffett, Graham, Lynch) for their view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			return a.runInteractive(cmd.Context())
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newInteractiveCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.SetOut(a.out)
	rootCmd.SetIn(a.in)

	return rootCmd
}

// setup applies global flags, installs the logger and starts the eino
// debugger before any graph is compiled.
func (a *app) setup(cmd *cobra.Command) error {
	if enabled, _ := cmd.Flags().GetBool("debug"); enabled {
		a.cfg.Debug = true
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		a.cfg.LogLevel = strings.ToLower(level)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(a.cfg)
	ctx = logger.WithContext(ctx, log)

	dbg := debug.NewEinoDebugger(a.cfg)
	if err := dbg.Initialize(ctx); err != nil {
		return err
	}
	cmd.SetContext(ctx)
	return nil
}

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Analyze one ticker and print the dashboard",
		Long: `Fetch data for a ticker, run the three personas and print the result.
Prompts for the ticker when none is given.
Example: sagedesk analyze AAPL --show-prompt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var symbol string
			if len(args) == 1 {
				symbol = args[0]
			} else {
				s, err := a.askTicker()
				if err != nil {
					return err
				}
				symbol = s
			}
			showPrompt, _ := cmd.Flags().GetBool("show-prompt")
			asJSON, _ := cmd.Flags().GetBool("json")
			apiKey, _ := cmd.Flags().GetString("api-key")
			return a.runAnalyze(cmd.Context(), symbol, apiKey, showPrompt, asJSON)
		},
	}

	cmd.Flags().Bool("show-prompt", false, "Print the prompt each persona receives")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	cmd.Flags().String("api-key", "", "LLM API key for this run")

	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.ListenAddr
			}
			return a.runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (defaults to LISTEN_ADDR)")
	return cmd
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Analyze tickers in a loop until q",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive(cmd.Context())
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "SageDesk %s\n", Version)
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			a.showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and report missing credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig()
		},
	})

	return configCmd
}

func (a *app) runAnalyze(ctx context.Context, symbol, apiKey string, showPrompt, asJSON bool) error {
	session, err := a.newSession(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if session, err = session.WithAPIKey(ctx, apiKey); err != nil {
		return err
	}

	report, err := session.Run(ctx, symbol)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	display.NewResultsDisplay(a.out).Show(report)

	if showPrompt {
		for _, persona := range consts.Personas {
			text, err := session.Prompt(persona, report)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\n===== %s prompt =====\n%s\n", persona, text)
		}
	}
	return nil
}

func (a *app) runServe(ctx context.Context, addr string) error {
	session, err := a.newSession(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	srv, err := web.NewServer(session, *logger.From(ctx), requestBudget(a.cfg.AgentTimeout, a.cfg.RequestTimeout, a.cfg.RetryAttempts))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "SageDesk dashboard on http://%s\n", displayAddr(addr))
	return srv.ListenAndServe(ctx, addr)
}

func (a *app) showConfig() {
	c := a.cfg
	fmt.Fprintln(a.out, "SageDesk configuration")
	fmt.Fprintln(a.out, strings.Repeat("=", 40))
	fmt.Fprintf(a.out, "LLM Provider:       %s\n", c.LLMProvider)
	fmt.Fprintf(a.out, "LLM Model:          %s\n", c.LLMModel)
	fmt.Fprintf(a.out, "LLM Base URL:       %s\n", c.LLMBaseURL)
	fmt.Fprintf(a.out, "LLM API Key:        %s\n", configured(c.APIKey() != ""))
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Market Provider:    %s\n", c.MarketProvider)
	fmt.Fprintf(a.out, "History Days:       %d\n", c.HistoryDays)
	fmt.Fprintf(a.out, "Longport:           %s\n", configured(c.HasLongport()))
	fmt.Fprintf(a.out, "Finnhub:            %s\n", configured(c.FinnhubAPIKey != ""))
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Max News Articles:  %d\n", c.MaxNewsArticles)
	fmt.Fprintf(a.out, "Trusted Sources:    %s\n", strings.Join(c.TrustedSources, ", "))
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Request Timeout:    %s\n", c.RequestTimeout)
	fmt.Fprintf(a.out, "Agent Timeout:      %s\n", c.AgentTimeout)
	fmt.Fprintf(a.out, "Retry Attempts:     %d\n", c.RetryAttempts)
	fmt.Fprintf(a.out, "Parallel Agents:    %t\n", c.ParallelAgents)
	fmt.Fprintf(a.out, "Listen Address:     %s\n", c.ListenAddr)
	fmt.Fprintf(a.out, "Log Level:          %s\n", c.LogLevel)
	fmt.Fprintf(a.out, "Debug Mode:         %t\n", c.Debug)
	fmt.Fprintf(a.out, "Eino Debug:         %t\n", c.EinoDebugEnabled)
	if c.EinoDebugEnabled {
		fmt.Fprintf(a.out, "Eino Debug URL:     %s\n", debug.NewEinoDebugger(c).DebugURL())
	}
}

func (a *app) validateConfig() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	var warnings []string
	if a.cfg.APIKey() == "" {
		warnings = append(warnings, "LLM API key not configured; persona panels will be unavailable")
	}
	if a.cfg.FinnhubAPIKey == "" {
		warnings = append(warnings, "Finnhub API key not configured; fundamentals and news use Yahoo and Google only")
	}
	if a.cfg.MarketProvider == config.MarketLongport && !a.cfg.HasLongport() {
		warnings = append(warnings, "Longport selected but credentials are incomplete")
	}

	for _, w := range warnings {
		fmt.Fprintf(a.out, "warning: %s\n", w)
	}
	fmt.Fprintf(a.out, "configuration valid (%d warnings)\n", len(warnings))
	return nil
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// requestBudget bounds one web request: every data fetch may use its full
// retry budget before the personas run.
func requestBudget(agent, request time.Duration, retries int) time.Duration {
	const fetches = 3
	return agent + time.Duration(fetches*(retries+1))*request
}
