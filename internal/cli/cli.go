// Package cli provides the sagedesk command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/internal/trading"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type app struct {
	cfg *config.Config
	in  io.Reader
	out io.Writer

	newSession func(ctx context.Context, cfg *config.Config) (*trading.Session, error)
	askTicker  func() (string, error)
}

// NewRootCmd creates the root command wired to the real providers.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		cfg:        config.DefaultConfig(),
		in:         os.Stdin,
		out:        os.Stdout,
		newSession: trading.NewSession,
		askTicker:  PromptForTicker,
	})
}
