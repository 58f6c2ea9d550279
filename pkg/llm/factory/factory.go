package factory

import (
	"fmt"

	"ai-tutoring-be/pkg/llm"
	"ai-tutoring-be/pkg/llm/gemini"
	"ai-tutoring-be/pkg/llm/ollama"
	"ai-tutoring-be/pkg/llm/openaicompat"
)

// ModelConfig parameterizes one provider instance.
type ModelConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	TimeoutSecs int
}

func NewLLMProvider(cfg ModelConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.TimeoutSecs), nil
	case "gemini":
		return gemini.NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.TimeoutSecs), nil
	case "openai", "vllm", "openai_compatible":
		return openaicompat.NewProvider(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.TimeoutSecs), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
