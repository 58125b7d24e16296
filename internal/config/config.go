// Package config provides Viper-based configuration loading for the
// Undercroft engine and its collaborator clients.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// NarratorConfig holds settings for the LLM collaborator clients.
type NarratorConfig struct {
	// Provider selects the collaborator backend: "anthropic" or "static".
	Provider string `mapstructure:"provider"`
	// Model is the model identifier passed to the provider.
	Model string `mapstructure:"model"`
	// APIKey is the provider API key. Usually supplied via UNDERCROFT_NARRATOR_APIKEY.
	APIKey string `mapstructure:"apikey"`
	// MaxTokens bounds each completion request.
	MaxTokens int `mapstructure:"max_tokens"`
	// Timeout is the per-call deadline for collaborator requests.
	Timeout time.Duration `mapstructure:"timeout"`
}

// GameConfig holds engine tuning knobs.
type GameConfig struct {
	// MinutesPerTurn is how many game-clock minutes elapse per turn.
	MinutesPerTurn int `mapstructure:"minutes_per_turn"`
	// ExplorationXP is the one-time reward for entering an unvisited room.
	ExplorationXP int `mapstructure:"exploration_xp"`
	// CraftingXP is the reward for a successful craft.
	CraftingXP int `mapstructure:"crafting_xp"`
	// PossessionsDir is an optional directory of occupation possession YAML
	// tables overriding the built-in defaults. Empty = built-ins only.
	PossessionsDir string `mapstructure:"possessions_dir"`
	// DialogueDir is an optional directory of NPC dialogue YAML tables.
	DialogueDir string `mapstructure:"dialogue_dir"`
	// ItemsDir is an optional directory of item template YAML files.
	ItemsDir string `mapstructure:"items_dir"`
	// ScriptsDir is an optional directory of Lua room on-enter hooks.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Narrator NarratorConfig `mapstructure:"narrator"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateNarrator(c.Narrator); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateNarrator(n NarratorConfig) error {
	var errs []string
	validProviders := map[string]bool{"anthropic": true, "static": true}
	if !validProviders[n.Provider] {
		errs = append(errs, fmt.Sprintf("narrator.provider must be one of [anthropic, static], got %q", n.Provider))
	}
	if n.Provider == "anthropic" && n.Model == "" {
		errs = append(errs, "narrator.model must not be empty when provider is anthropic")
	}
	if n.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("narrator.max_tokens must be >= 1, got %d", n.MaxTokens))
	}
	if n.Timeout <= 0 {
		errs = append(errs, "narrator.timeout must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.MinutesPerTurn < 1 {
		errs = append(errs, fmt.Sprintf("game.minutes_per_turn must be >= 1, got %d", g.MinutesPerTurn))
	}
	if g.ExplorationXP < 0 {
		errs = append(errs, fmt.Sprintf("game.exploration_xp must be >= 0, got %d", g.ExplorationXP))
	}
	if g.CraftingXP < 0 {
		errs = append(errs, fmt.Sprintf("game.crafting_xp must be >= 0, got %d", g.CraftingXP))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with UNDERCROFT_ prefix
	v.SetEnvPrefix("UNDERCROFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("narrator.provider", "static")
	v.SetDefault("narrator.model", "claude-sonnet-4-5")
	v.SetDefault("narrator.max_tokens", 1024)
	v.SetDefault("narrator.timeout", "20s")

	v.SetDefault("game.minutes_per_turn", 12)
	v.SetDefault("game.exploration_xp", 10)
	v.SetDefault("game.crafting_xp", 15)
}
