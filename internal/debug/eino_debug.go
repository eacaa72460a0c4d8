// Package debug hooks the persona graphs up to the eino visual debugger.
package debug

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/internal/logger"
)

// DevopsPort is where the eino devops server listens. The plugin does not
// take a port from us.
const DevopsPort = 52538

type EinoDebugger struct {
	config *config.Config
}

func NewEinoDebugger(cfg *config.Config) *EinoDebugger {
	return &EinoDebugger{config: cfg}
}

// Initialize starts the devops server. It must run before the persona
// graphs are compiled or they will not be visible to the debugger.
func (d *EinoDebugger) Initialize(ctx context.Context) error {
	if !d.IsEnabled() {
		return nil
	}

	log := logger.From(ctx)
	log.Debug().Int("port", DevopsPort).Msg("initializing eino debug plugin")

	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize Eino debug plugin: %w", err)
	}

	log.Info().Str("url", d.DebugURL()).Msg("eino debug server ready")
	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config.EinoDebugEnabled
}

func (d *EinoDebugger) DebugURL() string {
	if !d.IsEnabled() {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", DevopsPort)
}
