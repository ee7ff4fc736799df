// Package config loads the service configuration from flags, environment,
// .env and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/welljustpia/proofread-api/internal/llm"
)

// EnvPrefix is prepended to every environment variable, e.g.
// PROOFREAD_MODELS_APPLY.
const EnvPrefix = "PROOFREAD"

// DefaultFile is read when no --config flag is given and the file exists.
const DefaultFile = "proofread.yaml"

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type OpenAI struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type Ollama struct {
	URL string `mapstructure:"url"`
}

type Models struct {
	Segment string `mapstructure:"segment"`
	Suggest string `mapstructure:"suggest"`
	Apply   string `mapstructure:"apply"`
}

type Splitter struct {
	// Terminals overrides the language profile when set.
	Terminals string `mapstructure:"terminals"`
}

// Config is read once at start and never mutated afterwards.
type Config struct {
	Provider       string        `mapstructure:"provider"`
	OpenAI         OpenAI        `mapstructure:"openai"`
	Ollama         Ollama        `mapstructure:"ollama"`
	Models         Models        `mapstructure:"models"`
	Language       string        `mapstructure:"language"`
	Splitter       Splitter      `mapstructure:"splitter"`
	ProtectedTerms []string      `mapstructure:"protected_terms"`
	DB             string        `mapstructure:"db"`
	Concurrency    int           `mapstructure:"concurrency"`
	Timeout        time.Duration `mapstructure:"timeout"`
	VerifyLanguage bool          `mapstructure:"verify_language"`
	Listen         string        `mapstructure:"listen"`
	LogLevel       string        `mapstructure:"log_level"`
}

// SetDefaults registers every key so that environment variables are picked
// up by Unmarshal even when no config file mentions them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", llm.DefaultOpenAIBaseURL)
	v.SetDefault("ollama.url", llm.DefaultOllamaURL)
	v.SetDefault("models.segment", "gpt-4o-mini")
	v.SetDefault("models.suggest", "gpt-4o")
	v.SetDefault("models.apply", "gpt-4o")
	v.SetDefault("language", "th")
	v.SetDefault("splitter.terminals", "")
	v.SetDefault("protected_terms", []string{"แพทองธาร"})
	v.SetDefault("db", "")
	v.SetDefault("concurrency", 1)
	v.SetDefault("timeout", 120*time.Second)
	v.SetDefault("verify_language", false)
	v.SetDefault("listen", ":8000")
	v.SetDefault("log_level", "info")
}

// Load reads .env (if present), the config file and the environment into v
// and returns the resulting Config. An explicit file that cannot be read is an
// error; a missing default file is not.
func Load(v *viper.Viper, file string) (*Config, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bare variable is what every OpenAI tool reads.
	if err := v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	switch {
	case file != "":
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			v.SetConfigFile(DefaultFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", DefaultFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("provider must be %q or %q, got %q", ProviderOpenAI, ProviderOllama, c.Provider))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", s)
	}
	return level, nil
}
