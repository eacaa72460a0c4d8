package agents

import (
	"context"
	"time"

	"github.com/cloudwego/eino/callbacks"

	"github.com/dyike/SageDesk/internal/logger"
)

type nodeStartKey struct{}

// nodeLogger logs every graph node run with its duration at debug level.
func nodeLogger(agent string) callbacks.Handler {
	return callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
			return context.WithValue(ctx, nodeStartKey{}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackOutput) context.Context {
			ev := logger.From(ctx).Debug().Str("agent", agent)
			if info != nil {
				ev = ev.Str("node", info.Name).Str("component", string(info.Component))
			}
			if start, ok := ctx.Value(nodeStartKey{}).(time.Time); ok {
				ev = ev.Dur("elapsed", time.Since(start))
			}
			ev.Msg("node finished")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			ev := logger.From(ctx).Warn().Err(err).Str("agent", agent)
			if info != nil {
				ev = ev.Str("node", info.Name)
			}
			ev.Msg("node failed")
			return ctx
		}).
		Build()
}
