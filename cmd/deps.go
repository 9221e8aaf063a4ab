package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/ai"
	"github.com/spigell/hh-screener/internal/ai/gemini"
	"github.com/spigell/hh-screener/internal/ai/ollama"
	"github.com/spigell/hh-screener/internal/privacy"
	"github.com/spigell/hh-screener/internal/secrets"
	"github.com/spigell/hh-screener/internal/storage"
)

// newGenerator builds the configured language model client.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case ai.ProviderGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			Env:   "GEMINI_API_KEY",
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
	case ai.ProviderOllama:
		return ollama.New(cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Timeout, logger), nil
	case ai.ProviderNone, "":
		return ai.Disabled{}, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newAnonymizer(cfg *DataConfig) (*privacy.Anonymizer, error) {
	salt, err := secrets.Load(secrets.Source{
		Name:  "data salt",
		Value: cfg.Salt,
		Env:   "DATA_SALT",
		File:  cfg.SaltFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set data.salt-file or DATA_SALT_FILE)", err)
	}

	return privacy.New(salt, privacy.Policy{HashLocation: cfg.HashLocation})
}

func openStore(cfg *DataConfig, logger *zap.Logger) (*storage.Store, error) {
	return storage.New(cfg.Dir, cfg.AuditLog, logger)
}
