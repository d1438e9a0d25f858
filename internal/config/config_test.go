package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the loader reads for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvOpenRouterAPIKey, EnvAnthropicAPIKey,
		"ARENA_OPENROUTER_API_KEY", "ARENA_ANTHROPIC_API_KEY",
		"ARENA_SERVER_PORT", "ARENA_LOGGING_LEVEL", "ARENA_RATE_LIMIT_CAPACITY",
		"ARENA_JUDGE_MODE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadConfig(writeConfig(t, "server:\n  port: 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, "Prompt Arena", cfg.OpenRouter.Title)
	assert.Equal(t, 10, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow())
	assert.Equal(t, 100, cfg.Completion.MinMaxTokens)
	assert.Equal(t, 2048, cfg.Completion.MaxMaxTokens)
	assert.Equal(t, 1024, cfg.Completion.DefaultMaxTokens)
	assert.InDelta(t, 0.7, cfg.Completion.DefaultTemperature, 1e-9)
	assert.Equal(t, 90*time.Second, cfg.CallTimeout())
	assert.Equal(t, "rank", cfg.Judge.Mode)
	assert.False(t, cfg.HasCredential())
}

func TestLoadConfig_CredentialFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOpenRouterAPIKey, "  sk-or-v1-abc  ")
	t.Setenv(EnvAnthropicAPIKey, "sk-ant-xyz")

	cfg, err := loadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "sk-or-v1-abc", cfg.OpenRouter.APIKey)
	assert.Equal(t, "sk-ant-xyz", cfg.Anthropic.APIKey)
	assert.True(t, cfg.HasCredential())
	assert.NoError(t, cfg.RequireCredential())
}

func TestLoadConfig_PrefixedEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARENA_LOGGING_LEVEL", "debug")
	t.Setenv("ARENA_RATE_LIMIT_CAPACITY", "3")

	path := writeConfig(t, "logging:\n  level: warn\nrate_limit:\n  capacity: 20\nopenrouter:\n  base_url: https://example.test/v1/\n")
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.RateLimit.Capacity)
	assert.Equal(t, "https://example.test/v1", cfg.OpenRouter.BaseURL)
}

func TestLoadConfig_ValidationCollectsAllProblems(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "server:\n  port: 0\nlogging:\n  level: loud\njudge:\n  mode: vote\ncompletion:\n  default_max_tokens: 4096\n")
	_, err := loadConfig(path)
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	ve := err.(*ValidationError)
	assert.True(t, ve.HasError("server.port"))
	assert.True(t, ve.HasError("logging.level"))
	assert.True(t, ve.HasError("judge.mode"))
	assert.True(t, ve.HasError("completion.default_max_tokens"))
	assert.Len(t, ve.Errors, 4)
}

func TestLoadConfig_UnreadableFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "server: [unterminated")
	_, err := loadConfig(path)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestRequireCredential(t *testing.T) {
	cfg := &Configuration{}
	err := cfg.RequireCredential()
	require.Error(t, err)
	assert.True(t, IsMissingKeyError(err))
	assert.Contains(t, err.Error(), EnvOpenRouterAPIKey)
}

func TestSingleton(t *testing.T) {
	clearEnv(t)
	ResetConfig()
	t.Cleanup(ResetConfig)

	path := writeConfig(t, "server:\n  port: 9191\n")
	first, err := GetConfigWithPath(path)
	require.NoError(t, err)

	second, err := GetConfig()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 9191, second.Server.Port)
}
