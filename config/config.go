// Package config loads agentcrew settings from defaults, the user config
// file, a project config file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ProjectConfigName is the file looked up in the working directory and its parents.
const ProjectConfigName = ".agentcrew.yaml"

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for agentcrew.
type Config struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens"`

	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	React      ReactConfig      `mapstructure:"react"`
	Reflection ReflectionConfig `mapstructure:"reflection"`
	Log        LogConfig        `mapstructure:"log"`
}

// OpenAIConfig holds OpenAI API settings. BaseURL points the client at any
// OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// ReactConfig holds ReAct agent settings.
type ReactConfig struct {
	MaxRounds int `mapstructure:"max_rounds"`
}

// ReflectionConfig holds reflection agent settings.
type ReflectionConfig struct {
	Steps int `mapstructure:"steps"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration. Precedence (highest to lowest):
// 1. Environment variables (AGENTCREW_*, OPENAI_API_KEY, OPENAI_API_BASE, ANTHROPIC_API_KEY)
// 2. Project config (.agentcrew.yaml in the current directory or a parent)
// 3. User config ($XDG_CONFIG_HOME/agentcrew/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(UserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return decode(v)
}

// LoadFromPath loads configuration from a specific file on top of the
// defaults. Environment variables still take precedence.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AGENTCREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional provider variables, after the prefixed ones.
	_ = v.BindEnv("openai.api_key", "AGENTCREW_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.base_url", "AGENTCREW_OPENAI_BASE_URL", "OPENAI_API_BASE", "OPENAI_BASE_URL")
	_ = v.BindEnv("anthropic.api_key", "AGENTCREW_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.OpenAI.APIKey = os.ExpandEnv(cfg.OpenAI.APIKey)
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model", "")
	v.SetDefault("temperature", 0.0)
	v.SetDefault("max_tokens", 4096)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("anthropic.api_key", "")

	v.SetDefault("react.max_rounds", 10)
	v.SetDefault("reflection.steps", 10)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Provider:   ProviderOpenAI,
		MaxTokens:  4096,
		React:      ReactConfig{MaxRounds: 10},
		Reflection: ReflectionConfig{Steps: 10},
		Log:        LogConfig{Level: "warn", Format: "text"},
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported provider %q (want %q or %q)", c.Provider, ProviderOpenAI, ProviderAnthropic)
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.React.MaxRounds <= 0 {
		return fmt.Errorf("react.max_rounds must be positive, got %d", c.React.MaxRounds)
	}
	if c.Reflection.Steps <= 0 {
		return fmt.Errorf("reflection.steps must be positive, got %d", c.Reflection.Steps)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}

	return nil
}

// UserConfigDir returns the XDG config directory for agentcrew.
func UserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "agentcrew")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "agentcrew")
	}
	return filepath.Join(home, ".config", "agentcrew")
}

// findProjectConfig searches for ProjectConfigName in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ProjectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}
