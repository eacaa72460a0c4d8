package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/models"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.AgentTimeout = 2 * time.Second
	return cfg
}

func prompt() []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage("You are a Warren Buffett AI agent."),
		schema.UserMessage("Company: ABC"),
	}
}

func TestAgentAnalyze(t *testing.T) {
	fake := &fakeChatModel{replies: []string{"Reasoning: durable moat\nSentiment: Bullish\nRecommendation: Buy"}}
	agent, err := NewAgent(context.Background(), "Buffett", fake, testConfig())
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}

	v := agent.Analyze(context.Background(), prompt())
	if v.Status != models.VerdictOK || v.Sentiment != models.SentimentBullish || v.Recommendation != models.RecommendationBuy {
		t.Fatalf("unexpected verdict %+v", v)
	}
	if v.Reasoning != "durable moat" {
		t.Fatalf("unexpected reasoning %q", v.Reasoning)
	}

	sent := fake.seen[0]
	if len(sent) != 3 || sent[0].Role != schema.System || !strings.Contains(sent[0].Content, "Recommendation:") {
		t.Fatalf("format instruction not prepended: %+v", sent)
	}
}

func TestAgentRetriesOnce(t *testing.T) {
	fake := &fakeChatModel{
		errs:    []error{errors.New("502 bad gateway")},
		replies: []string{"", "Sentiment: Neutral\nRecommendation: Hold"},
	}
	cfg := testConfig()
	agent, err := NewAgent(context.Background(), "Graham", fake, cfg)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	agent.retry.Delay = time.Millisecond

	v := agent.Analyze(context.Background(), prompt())
	if v.Failed() {
		t.Fatalf("expected retry to succeed, got %+v", v)
	}
	if fake.callCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.callCount())
	}
}

func TestAgentFailureBecomesErrorVerdict(t *testing.T) {
	fake := &fakeChatModel{errs: []error{errors.New("401 unauthorized"), errors.New("401 unauthorized")}}
	agent, err := NewAgent(context.Background(), "Lynch", fake, testConfig())
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	agent.retry.Delay = time.Millisecond

	v := agent.Analyze(context.Background(), prompt())
	if !v.Failed() || !strings.Contains(v.Error, "401") {
		t.Fatalf("expected error verdict, got %+v", v)
	}
	if v.Sentiment != models.SentimentUnparsed || v.Recommendation != models.RecommendationUnparsed {
		t.Fatalf("error verdict should carry no opinion: %+v", v)
	}
}

func TestAgentTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.AgentTimeout = 50 * time.Millisecond
	fake := &fakeChatModel{block: true}
	agent, err := NewAgent(context.Background(), "Lynch", fake, cfg)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	agent.retry.Delay = time.Millisecond

	start := time.Now()
	v := agent.Analyze(context.Background(), prompt())
	if !v.Failed() {
		t.Fatalf("expected timeout verdict, got %+v", v)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestAgentUnparsableReply(t *testing.T) {
	fake := &fakeChatModel{replies: []string{"I would rather not say."}}
	agent, err := NewAgent(context.Background(), "Graham", fake, testConfig())
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}

	v := agent.Analyze(context.Background(), prompt())
	if v.Status != models.VerdictUnparsed || v.Reasoning != "I would rather not say." {
		t.Fatalf("unexpected verdict %+v", v)
	}
}

func TestNewChatModelRequiresKey(t *testing.T) {
	_, err := NewChatModel(context.Background(), config.Defaults())
	if !errors.Is(err, models.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	cfg := config.Defaults()
	cfg.LLMAPIKey = "sk-test"
	cm, err := NewChatModel(context.Background(), cfg)
	if err != nil || cm == nil {
		t.Fatalf("expected openai model, got %v %v", cm, err)
	}
}
