package generator

import (
	"context"
	"fmt"
	"strings"
)

// New builds the Generator for the configured provider. Gemini is the default.
func New(ctx context.Context, s Settings) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if provider == "" {
		provider = ProviderGemini
	}

	switch provider {
	case ProviderGemini:
		model := s.Model
		if model == "" {
			model = DefaultGeminiModel
		}
		g, err := NewGeminiGenerator(ctx, s.APIKey, model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderOpenAI, "deepseek":
		if provider == "deepseek" && s.BaseURL == "" {
			return nil, fmt.Errorf("provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		model := s.Model
		if model == "" {
			model = DefaultOpenAIModel
		}
		g, err := NewOpenAIGenerator(s.APIKey, model, s.BaseURL)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderMock:
		return MockGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", s.Provider)
	}
}
