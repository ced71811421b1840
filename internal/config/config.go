// Package config loads storyling settings from flags, STORYLING_* environment
// variables and an optional storyling.{yaml,toml,json} file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/storyling/internal/llm"
	"github.com/abhisek/storyling/internal/tutor"
)

// EnvPrefix is prepended to every environment variable, so "gemini.api-key"
// is read from STORYLING_GEMINI_API_KEY.
const EnvPrefix = "STORYLING"

// DefaultThemes are offered in the story menu.
var DefaultThemes = []string{
	"Identity & Culture",
	"University Life",
	"Emotions & Relations",
}

// DefaultSurpriseThemes are drawn from by "Surprise me!".
var DefaultSurpriseThemes = []string{
	"a story set in the Hello Kitty universe",
	"a story set in the universe of the Wicked movie (directed by Jon M. Chu)",
}

// Config is the effective application configuration.
type Config struct {
	LLM   llm.Config
	Tutor tutor.Config

	// DBPath is the request log database. Empty means store.DefaultDBPath.
	DBPath string

	LogLevel string
	LogFile  string

	Themes         []string
	SurpriseThemes []string

	// File is the config file that was read, if any.
	File string
}

// providerKeys maps each provider to the config key holding its API key,
// in the order they are tried when no provider is chosen.
var providerKeys = []struct{ provider, key string }{
	{llm.ProviderGemini, "gemini.api-key"},
	{llm.ProviderOpenAI, "openai.api-key"},
	{llm.ProviderAnthropic, "anthropic.api-key"},
	{llm.ProviderOpenRouter, "openrouter.api-key"},
}

// New returns a viper instance bound to flags and the environment, with the
// config file read if one is found. An explicit file that cannot be read is
// an error; a missing default file is not.
func New(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("storyling")
	for _, dir := range searchPaths() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load builds the Config from flags, environment and config file.
func Load(flags *pflag.FlagSet) (Config, error) {
	v, err := New(flags)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// FromViper converts resolved settings into a Config. When no provider is
// set, the first provider with a STORYLING_* key wins, then the vendors'
// own GEMINI_API_KEY style variables.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		LLM:            llm.DefaultConfig(),
		Tutor:          tutor.DefaultConfig(),
		DBPath:         v.GetString("db"),
		LogLevel:       v.GetString("log-level"),
		LogFile:        v.GetString("log-file"),
		Themes:         v.GetStringSlice("themes"),
		SurpriseThemes: v.GetStringSlice("surprise-themes"),
		File:           v.ConfigFileUsed(),
	}

	provider := strings.ToLower(v.GetString("provider"))
	if provider == "" {
		for _, pk := range providerKeys {
			if v.GetString(pk.key) != "" {
				provider = pk.provider
				break
			}
		}
	}
	if provider == "" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg.LLM = discovered
			provider = discovered.Provider
		}
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}

	setString(&cfg.LLM.Gemini.APIKey, v.GetString("gemini.api-key"))
	setString(&cfg.LLM.Gemini.Model, v.GetString("gemini.model"))
	setString(&cfg.LLM.OpenAI.APIKey, v.GetString("openai.api-key"))
	setString(&cfg.LLM.OpenAI.Model, v.GetString("openai.model"))
	setString(&cfg.LLM.OpenAI.BaseURL, v.GetString("openai.base-url"))
	setString(&cfg.LLM.Anthropic.APIKey, v.GetString("anthropic.api-key"))
	setString(&cfg.LLM.Anthropic.Model, v.GetString("anthropic.model"))
	setString(&cfg.LLM.OpenRouter.APIKey, v.GetString("openrouter.api-key"))
	setString(&cfg.LLM.OpenRouter.Model, v.GetString("openrouter.model"))
	setString(&cfg.LLM.OpenRouter.BaseURL, v.GetString("openrouter.base-url"))

	if model := v.GetString("model"); model != "" {
		switch cfg.LLM.Provider {
		case llm.ProviderGemini:
			cfg.LLM.Gemini.Model = model
		case llm.ProviderOpenAI:
			cfg.LLM.OpenAI.Model = model
		case llm.ProviderAnthropic:
			cfg.LLM.Anthropic.Model = model
		case llm.ProviderOpenRouter:
			cfg.LLM.OpenRouter.Model = model
		}
	}

	cfg.LLM.Timeout = v.GetDuration("timeout")
	cfg.LLM.Retry.MaxAttempts = v.GetInt("retry-attempts")

	cfg.Tutor.QuestionCount = v.GetInt("question-count")
	cfg.Tutor.StoryMinWords = v.GetInt("story-min-words")
	cfg.Tutor.StoryMaxWords = v.GetInt("story-max-words")
	cfg.Tutor.Temperature = v.GetFloat64("temperature")
	cfg.Tutor.MaxTokens = v.GetInt("max-tokens")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on the provider. The
// provider itself is checked when it is built.
func (c Config) Validate() error {
	switch {
	case c.LLM.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %s", c.LLM.Timeout)
	case c.LLM.Retry.MaxAttempts < 1:
		return fmt.Errorf("retry-attempts must be at least 1, got %d", c.LLM.Retry.MaxAttempts)
	case c.Tutor.QuestionCount < 1:
		return fmt.Errorf("question-count must be at least 1, got %d", c.Tutor.QuestionCount)
	case c.Tutor.StoryMinWords < 1 || c.Tutor.StoryMaxWords < c.Tutor.StoryMinWords:
		return fmt.Errorf("invalid story length %d-%d words", c.Tutor.StoryMinWords, c.Tutor.StoryMaxWords)
	case len(c.Themes) == 0:
		return errors.New("at least one theme is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	tutorDefaults := tutor.DefaultConfig()

	v.SetDefault("provider", "")
	v.SetDefault("model", "")
	for _, pk := range providerKeys {
		v.SetDefault(pk.key, "")
	}
	v.SetDefault("gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("openai.base-url", "")
	v.SetDefault("anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("openrouter.base-url", "")
	v.SetDefault("timeout", llmDefaults.Timeout)
	v.SetDefault("retry-attempts", llmDefaults.Retry.MaxAttempts)

	v.SetDefault("question-count", tutorDefaults.QuestionCount)
	v.SetDefault("story-min-words", tutorDefaults.StoryMinWords)
	v.SetDefault("story-max-words", tutorDefaults.StoryMaxWords)
	v.SetDefault("temperature", tutorDefaults.Temperature)
	v.SetDefault("max-tokens", tutorDefaults.MaxTokens)

	v.SetDefault("db", "")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", "")
	v.SetDefault("themes", DefaultThemes)
	v.SetDefault("surprise-themes", DefaultSurpriseThemes)
}

func searchPaths() []string {
	paths := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "storyling"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "storyling"))
	}
	return paths
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Redacted returns the settings as ordered key/value pairs with API keys
// masked, for display.
func (c Config) Redacted() [][2]string {
	file := c.File
	if file == "" {
		file = "(none)"
	}
	return [][2]string{
		{"config-file", file},
		{"provider", c.LLM.Provider},
		{"model", c.LLM.Model()},
		{"gemini.api-key", mask(c.LLM.Gemini.APIKey)},
		{"openai.api-key", mask(c.LLM.OpenAI.APIKey)},
		{"anthropic.api-key", mask(c.LLM.Anthropic.APIKey)},
		{"openrouter.api-key", mask(c.LLM.OpenRouter.APIKey)},
		{"timeout", c.LLM.Timeout.String()},
		{"retry-attempts", fmt.Sprint(c.LLM.Retry.MaxAttempts)},
		{"question-count", fmt.Sprint(c.Tutor.QuestionCount)},
		{"story-words", fmt.Sprintf("%d-%d", c.Tutor.StoryMinWords, c.Tutor.StoryMaxWords)},
		{"temperature", fmt.Sprint(c.Tutor.Temperature)},
		{"max-tokens", fmt.Sprint(c.Tutor.MaxTokens)},
		{"db", orDefault(c.DBPath, "(default)")},
		{"log-level", c.LogLevel},
		{"log-file", orDefault(c.LogFile, "(default)")},
		{"themes", strings.Join(c.Themes, ", ")},
		{"surprise-themes", strings.Join(c.SurpriseThemes, ", ")},
	}
}

func mask(key string) string {
	switch {
	case key == "":
		return "(unset)"
	case len(key) <= 8:
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
