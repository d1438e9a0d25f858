// Package config provides configuration management using the Singleton pattern.
// It loads configuration from environment variables and config.yaml using Viper.
package config

import (
	"sync"
	"time"
)

// Configuration holds all application configuration values.
type Configuration struct {
	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Upstream providers
	OpenRouter OpenRouterConfig `json:"openrouter" mapstructure:"openrouter"`
	Anthropic  AnthropicConfig  `json:"anthropic" mapstructure:"anthropic"`

	RateLimit  RateLimitConfig  `json:"rate_limit" mapstructure:"rate_limit"`
	Completion CompletionConfig `json:"completion" mapstructure:"completion"`
	Judge      JudgeConfig      `json:"judge" mapstructure:"judge"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number.
	Port int `json:"port" mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeoutSeconds must outlast a whole streamed run.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// OpenRouterConfig holds the default upstream.
type OpenRouterConfig struct {
	// APIKey is read from OPENROUTER_API_KEY. Never logged.
	APIKey         string `json:"-" mapstructure:"api_key"`
	BaseURL        string `json:"base_url" mapstructure:"base_url"`
	Referer        string `json:"referer" mapstructure:"referer"`
	Title          string `json:"title" mapstructure:"title"`
	TimeoutSeconds int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// AnthropicConfig enables direct routing of anthropic/* models. Leaving the
// key empty sends them through OpenRouter like every other model.
type AnthropicConfig struct {
	APIKey  string `json:"-" mapstructure:"api_key"`
	BaseURL string `json:"base_url" mapstructure:"base_url"`
}

// RateLimitConfig bounds requests per client.
type RateLimitConfig struct {
	Capacity      int `json:"capacity" mapstructure:"capacity"`
	WindowSeconds int `json:"window_seconds" mapstructure:"window_seconds"`
}

// CompletionConfig bounds the per-call parameters.
type CompletionConfig struct {
	CallTimeoutSeconds int     `json:"call_timeout_seconds" mapstructure:"call_timeout_seconds"`
	MinMaxTokens       int     `json:"min_max_tokens" mapstructure:"min_max_tokens"`
	MaxMaxTokens       int     `json:"max_max_tokens" mapstructure:"max_max_tokens"`
	DefaultMaxTokens   int     `json:"default_max_tokens" mapstructure:"default_max_tokens"`
	DefaultTemperature float64 `json:"default_temperature" mapstructure:"default_temperature"`
}

// JudgeConfig holds the CLI defaults for the aggregation step.
type JudgeConfig struct {
	Evaluator string `json:"evaluator" mapstructure:"evaluator"`
	Mode      string `json:"mode" mapstructure:"mode"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" mapstructure:"level"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format"`
}

// configInstance holds the singleton configuration instance.
var (
	configInstance *Configuration
	configOnce     sync.Once
	configErr      error
)

// GetConfig returns the singleton Configuration instance.
// It initializes the configuration on first call using the default config path.
func GetConfig() (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig("")
	})
	return configInstance, configErr
}

// GetConfigWithPath returns the singleton Configuration instance with a custom config path.
func GetConfigWithPath(configPath string) (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig(configPath)
	})
	return configInstance, configErr
}

// ResetConfig resets the singleton instance.
// This is primarily used for testing purposes.
func ResetConfig() {
	configOnce = sync.Once{}
	configInstance = nil
	configErr = nil
}

// Validate validates the configuration and returns an error if required fields are missing.
// A missing OpenRouter key is not a validation failure: the server starts and
// answers 500 on the API routes instead.
func (c *Configuration) Validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		validationErrors = append(validationErrors, "server.port must be between 1 and 65535")
	}

	if c.OpenRouter.BaseURL == "" {
		validationErrors = append(validationErrors, "openrouter.base_url is required")
	}

	if c.RateLimit.Capacity <= 0 {
		validationErrors = append(validationErrors, "rate_limit.capacity must be positive")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		validationErrors = append(validationErrors, "rate_limit.window_seconds must be positive")
	}

	comp := c.Completion
	if comp.MinMaxTokens <= 0 || comp.MaxMaxTokens < comp.MinMaxTokens {
		validationErrors = append(validationErrors, "completion.min_max_tokens must be positive and not above completion.max_max_tokens")
	}
	if comp.DefaultMaxTokens < comp.MinMaxTokens || comp.DefaultMaxTokens > comp.MaxMaxTokens {
		validationErrors = append(validationErrors, "completion.default_max_tokens must lie within the token bounds")
	}
	if comp.CallTimeoutSeconds < 0 {
		validationErrors = append(validationErrors, "completion.call_timeout_seconds cannot be negative")
	}

	if c.Judge.Mode != "" && c.Judge.Mode != "rank" && c.Judge.Mode != "synthesize" {
		validationErrors = append(validationErrors, (&InvalidValueError{
			Key:           "judge.mode",
			Value:         c.Judge.Mode,
			AllowedValues: []string{"rank", "synthesize"},
		}).Error())
	}

	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		validationErrors = append(validationErrors, (&InvalidValueError{
			Key:           "logging.level",
			Value:         c.Logging.Level,
			AllowedValues: []string{"debug", "info", "warn", "error"},
		}).Error())
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// HasCredential reports whether an OpenRouter key is set.
func (c *Configuration) HasCredential() bool {
	return c.OpenRouter.APIKey != ""
}

// RequireCredential returns a MissingKeyError when no OpenRouter key is set.
func (c *Configuration) RequireCredential() error {
	if !c.HasCredential() {
		return &MissingKeyError{Key: EnvOpenRouterAPIKey}
	}
	return nil
}

// CallTimeout is the per-call deadline; zero disables it.
func (c *Configuration) CallTimeout() time.Duration {
	return time.Duration(c.Completion.CallTimeoutSeconds) * time.Second
}

// UpstreamTimeout is the HTTP client timeout for upstream requests.
func (c *Configuration) UpstreamTimeout() time.Duration {
	return time.Duration(c.OpenRouter.TimeoutSeconds) * time.Second
}

// RateLimitWindow is the fixed window length.
func (c *Configuration) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}
