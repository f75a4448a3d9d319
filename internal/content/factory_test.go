package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studymate/studymate/internal/config"
)

func TestNewGenerator_Fallback(t *testing.T) {
	gen, err := NewGenerator(config.AIConfig{Provider: "fallback"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", gen.Name())
}

func TestNewGenerator_OpenAI(t *testing.T) {
	gen, err := NewGenerator(config.AIConfig{
		Provider: "openai",
		OpenAI:   config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", gen.Name())
}

func TestNewGenerator_Unknown(t *testing.T) {
	_, err := NewGenerator(config.AIConfig{Provider: "gemini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini")
}
