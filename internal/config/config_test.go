package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("GROQ_API_KEY", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultModel, cfg.GroqModel)
	assert.Empty(t, cfg.GroqAPIKey)
	assert.NotEmpty(t, cfg.DatabaseURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GROQ_MODEL", "llama-3.1-8b-instant")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/crm")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GroqModel)
	assert.Equal(t, "gsk_test", cfg.GroqAPIKey)
	assert.Equal(t, "postgres://u:p@db:5432/crm", cfg.DatabaseURL)
}
