package llm

import (
	"fmt"

	"sitetrainer/internal/config"
	"sitetrainer/internal/llm/mock"
	"sitetrainer/internal/llm/openai"
	"sitetrainer/pkg/models"
)

// NewProvider builds the chat provider named by the configuration.
func NewProvider(cfg config.LLMConfig) (models.ChatProvider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.Timeout), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
