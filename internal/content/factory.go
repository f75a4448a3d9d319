// Package content selects and validates the generation backends that produce
// course and interview material.
package content

import (
	"fmt"

	"github.com/studymate/studymate/internal/config"
	"github.com/studymate/studymate/internal/content/fallback"
	"github.com/studymate/studymate/internal/content/openai"
	"github.com/studymate/studymate/pkg/models"
)

// NewGenerator constructs the content generator selected by config.
// Called once at server startup. The fallback provider is a deliberate
// strategy producing deterministic placeholder content, not an error path.
func NewGenerator(cfg config.AIConfig) (models.ContentGenerator, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "fallback":
		return fallback.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown content provider %q: must be one of openai, fallback", cfg.Provider)
	}
}
