package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dyike/SageDesk/config"
	"github.com/dyike/SageDesk/models"
)

const defaultDeepSeekModel = "deepseek-chat"

// NewChatModel builds the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, models.ErrMissingAPIKey
	}

	switch cfg.LLMProvider {
	case config.ProviderDeepSeek:
		name := cfg.LLMModel
		if name == "" || name == config.Defaults().LLMModel {
			name = defaultDeepSeekModel
		}
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    apiKey,
			Model:     name,
			MaxTokens: cfg.LLMMaxTokens,
			Timeout:   cfg.AgentTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek model: %w", err)
		}
		return chatModel, nil

	case config.ProviderOpenAI, "":
		maxTokens := cfg.LLMMaxTokens
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.LLMBaseURL,
			APIKey:    apiKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
			Timeout:   cfg.AgentTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai model: %w", err)
		}
		return chatModel, nil
	}

	return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
}
