package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dyike/SageDesk/internal/display"
	"github.com/dyike/SageDesk/internal/trading"
	"github.com/dyike/SageDesk/models"
)

// runInteractive reads tickers until q, quit, exit or end of input. One
// session serves the whole loop.
func (a *app) runInteractive(ctx context.Context) error {
	session, err := a.newSession(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	fmt.Fprintln(a.out, "SageDesk - Buffett, Graham and Lynch on any ticker")
	fmt.Fprintln(a.out, strings.Repeat("=", 50))
	if session.Config().APIKey() == "" {
		fmt.Fprintln(a.out, "No LLM API key configured: persona panels will be unavailable.")
	}

	scanner := bufio.NewScanner(a.in)
	results := display.NewResultsDisplay(a.out)
	for {
		fmt.Fprint(a.out, "\nEnter ticker (q to quit): ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Fprintln(a.out, "Bye.")
			return nil
		}

		if err := analyzeOnce(ctx, session, results, input); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

func analyzeOnce(ctx context.Context, session *trading.Session, results *display.ResultsDisplay, symbol string) error {
	report, err := session.Run(ctx, symbol)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSymbol) {
			return fmt.Errorf("%q is not a valid ticker", symbol)
		}
		return err
	}
	results.Show(report)
	return nil
}
