package inference

import (
	"fmt"

	"github.com/zatekoja/studentscore/internal/domain/providers"
	"github.com/zatekoja/studentscore/pkg/config"
)

// NewInferenceProvider builds the provider selected by cfg.Provider.
func NewInferenceProvider(cfg config.ModelConfig) (providers.InferenceProvider, error) {
	switch cfg.Provider {
	case "remote":
		if cfg.URL == "" {
			return nil, fmt.Errorf("MODEL_URL is required for the remote provider")
		}
		return NewRemoteProvider(cfg.URL, cfg.Timeout), nil
	case "linear":
		if cfg.ArtifactPath == "" {
			return nil, fmt.Errorf("MODEL_ARTIFACT_PATH is required for the linear provider")
		}
		return LoadLinearProvider(cfg.ArtifactPath)
	case "static":
		return NewStaticProvider(cfg.StaticScore), nil
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Provider)
	}
}
