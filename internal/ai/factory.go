package ai

import "ai-patch-suggester/internal/config"

func NewImprover(cfg *config.Config) Improver {

	switch cfg.AIProvider {

	case "ollama":
		return NewOllama(
			cfg.OllamaURL,
			cfg.OllamaModel,
		)

	default:
		return NewOpenAI(
			cfg.OpenAIKey,
			cfg.OpenAIModel,
		)
	}
}
