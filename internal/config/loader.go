// Package config provides configuration management using the Singleton pattern.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = "config"
	defaultConfigType = "yaml"
	envPrefix         = "ARENA"

	// EnvOpenRouterAPIKey is the upstream credential. It is also accepted as
	// ARENA_OPENROUTER_API_KEY.
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"

	// EnvAnthropicAPIKey enables direct Anthropic routing.
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// loadConfig loads the configuration from environment variables and files.
// Priority order (highest to lowest):
// 1. OPENROUTER_API_KEY / ANTHROPIC_API_KEY for credentials
// 2. Environment variables (prefixed with ARENA_)
// 3. config.yaml
// 4. Default values
func loadConfig(configPath string) (*Configuration, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.prompt-arena")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := bindCredentials(v); err != nil {
		return nil, &ConfigError{Op: "bind_env", Err: err}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &ConfigError{
				Op:  "read",
				Err: fmt.Errorf("failed to read config file: %w", err),
			}
		}
	} else if v.GetString("openrouter.api_key") != "" && os.Getenv(EnvOpenRouterAPIKey) == "" {
		fmt.Fprintf(os.Stderr, "[SECURITY] Warning: API key read from %s - prefer %s in production\n",
			v.ConfigFileUsed(), EnvOpenRouterAPIKey)
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{
			Op:  "unmarshal",
			Err: fmt.Errorf("failed to unmarshal config: %w", err),
		}
	}

	cfg.OpenRouter.APIKey = strings.TrimSpace(cfg.OpenRouter.APIKey)
	cfg.Anthropic.APIKey = strings.TrimSpace(cfg.Anthropic.APIKey)
	cfg.OpenRouter.BaseURL = strings.TrimRight(cfg.OpenRouter.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindCredentials maps the conventional unprefixed variables onto their keys.
// The first variable set wins.
func bindCredentials(v *viper.Viper) error {
	if err := v.BindEnv("openrouter.api_key", EnvOpenRouterAPIKey, envPrefix+"_OPENROUTER_API_KEY"); err != nil {
		return err
	}
	return v.BindEnv("anthropic.api_key", EnvAnthropicAPIKey, envPrefix+"_ANTHROPIC_API_KEY")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 300)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// Upstream defaults
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.referer", "https://prompt-arena.vercel.app")
	v.SetDefault("openrouter.title", "Prompt Arena")
	v.SetDefault("openrouter.timeout_seconds", 120)
	v.SetDefault("anthropic.base_url", "")

	// Ten requests per minute per client
	v.SetDefault("rate_limit.capacity", 10)
	v.SetDefault("rate_limit.window_seconds", 60)

	v.SetDefault("completion.call_timeout_seconds", 90)
	v.SetDefault("completion.min_max_tokens", 100)
	v.SetDefault("completion.max_max_tokens", 2048)
	v.SetDefault("completion.default_max_tokens", 1024)
	v.SetDefault("completion.default_temperature", 0.7)

	v.SetDefault("judge.evaluator", "mistralai/mistral-small-3.1-24b-instruct:free")
	v.SetDefault("judge.mode", "rank")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
