package agents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/consts"
	"github.com/dyike/SageDesk/internal/logger"
	"github.com/dyike/SageDesk/internal/utils"
	"github.com/dyike/SageDesk/models"
)

// FormatInstruction is prepended to every persona conversation so the reply
// can be parsed.
const FormatInstruction = `Answer in exactly this layout:
Reasoning: <your analysis, several sentences>
Sentiment: <Bullish, Bearish or Neutral>
Recommendation: <Buy, Hold or Sell>`

// Agent is one persona backed by a compiled load -> agent -> parse graph.
type Agent struct {
	name     string
	runnable compose.Runnable[[]*schema.Message, *models.AgentVerdict]
	timeout  time.Duration
	retry    utils.RetryConfig
	trace    callbacks.Handler
}

// NewAgent compiles the persona graph around chatModel.
func NewAgent(ctx context.Context, name string, chatModel model.BaseChatModel, cfg *config.Config) (*Agent, error) {
	g := compose.NewGraph[[]*schema.Message, *models.AgentVerdict]()

	parse := func(ctx context.Context, msg *schema.Message) (*models.AgentVerdict, error) {
		if msg == nil {
			return nil, errors.New("empty reply")
		}
		v := ParseReply(name, msg.Content)
		return &v, nil
	}

	_ = g.AddLambdaNode(consts.NodeLoad, compose.InvokableLambda(loadMessages))
	_ = g.AddChatModelNode(consts.NodeAgent, chatModel)
	_ = g.AddLambdaNode(consts.NodeParse, compose.InvokableLambda(parse))

	_ = g.AddEdge(compose.START, consts.NodeLoad)
	_ = g.AddEdge(consts.NodeLoad, consts.NodeAgent)
	_ = g.AddEdge(consts.NodeAgent, consts.NodeParse)
	_ = g.AddEdge(consts.NodeParse, compose.END)

	runnable, err := g.Compile(ctx, compose.WithGraphName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s agent: %w", name, err)
	}

	// The attempts share the agent deadline.
	retry := utils.RetryConfigFrom(cfg)
	retry.Timeout = cfg.AgentTimeout / time.Duration(retry.Retries+1)

	return &Agent{
		name:     name,
		runnable: runnable,
		timeout:  cfg.AgentTimeout,
		retry:    retry,
		trace:    nodeLogger(name),
	}, nil
}

func (a *Agent) Name() string { return a.name }

// Analyze runs the persona. Failures come back as an error verdict, never
// as a Go error, so one persona cannot take down the others.
func (a *Agent) Analyze(ctx context.Context, msgs []*schema.Message) models.AgentVerdict {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var out *models.AgentVerdict
	err := utils.WithRetry(ctx, a.retry, func(ctx context.Context) error {
		v, err := a.runnable.Invoke(ctx, msgs, compose.WithCallbacks(a.trace))
		if err != nil {
			return err
		}
		out = v
		return nil
	})

	log := logger.From(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%s agent timed out after %s: %w", a.name, a.timeout, err)
		}
		v := models.FailedVerdict(a.name, err)
		v.Elapsed = time.Since(start)
		log.Warn().Err(err).Str("agent", a.name).Dur("elapsed", v.Elapsed).Msg("agent failed")
		return v
	}

	out.Elapsed = time.Since(start)
	log.Info().
		Str("agent", a.name).
		Str("sentiment", string(out.Sentiment)).
		Str("recommendation", string(out.Recommendation)).
		Dur("elapsed", out.Elapsed).
		Msg("agent finished")
	return *out
}

func loadMessages(_ context.Context, in []*schema.Message) ([]*schema.Message, error) {
	if len(in) == 0 {
		return nil, errors.New("no prompt messages")
	}
	out := make([]*schema.Message, 0, len(in)+1)
	out = append(out, schema.SystemMessage(FormatInstruction))
	return append(out, in...), nil
}
