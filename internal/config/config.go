// Package config provides Viper-based configuration loading for the Phoenix bot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DiscordConfig holds chat gateway settings.
type DiscordConfig struct {
	// Token is the bot token. Usually supplied as PHOENIX_DISCORD_TOKEN.
	Token string `mapstructure:"token"`
	// GuildID registers commands in a single guild; empty registers globally.
	GuildID string `mapstructure:"guild_id"`
	// OwnerIDs are the user IDs allowed to run owner-only commands.
	OwnerIDs []string `mapstructure:"owner_ids"`
	// PageTimeout is how long paged messages keep their navigation buttons.
	PageTimeout time.Duration `mapstructure:"page_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds battle and command tuning.
type GameConfig struct {
	// ActionTimeout bounds how long a player may take to pick a battle action.
	ActionTimeout time.Duration `mapstructure:"action_timeout"`
	// ConfirmTimeout bounds yes/no prompts.
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	// ClassChoiceTimeout bounds the class prompt of the start command.
	ClassChoiceTimeout time.Duration `mapstructure:"class_choice_timeout"`
	// RestCooldown is the delay between two rests.
	RestCooldown time.Duration `mapstructure:"rest_cooldown"`
	// MaxTurns aborts a battle after this many rounds; 0 means unbounded.
	MaxTurns int `mapstructure:"max_turns"`
	// CatalogDir overrides the built-in anomaly catalog with the YAML files
	// of a directory. Empty uses the built-in catalog.
	CatalogDir string `mapstructure:"catalog_dir"`
}

// HealthConfig holds the gRPC health service settings.
type HealthConfig struct {
	// Host is the bind address of the health listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port of the health listener.
	Port int `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (h HealthConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// ScriptingConfig holds Lua behaviour script settings.
type ScriptingConfig struct {
	// Dir holds one subdirectory per scripted anomaly type. Empty disables scripting.
	Dir string `mapstructure:"dir"`
	// InstructionLimit bounds every hook call; 0 selects the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Discord   DiscordConfig   `mapstructure:"discord"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Game      GameConfig      `mapstructure:"game"`
	Health    HealthConfig    `mapstructure:"health"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	for _, err := range []error{
		validateDiscord(c.Discord),
		validateDatabase(c.Database),
		validateLogging(c.Logging),
		validateGame(c.Game),
		validateHealth(c.Health),
		validateScripting(c.Scripting),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDiscord(d DiscordConfig) error {
	var errs []string
	if d.Token == "" {
		errs = append(errs, "discord.token must not be empty")
	}
	if d.PageTimeout <= 0 {
		errs = append(errs, "discord.page_timeout must be positive")
	}
	for _, id := range d.OwnerIDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, "discord.owner_ids must not contain empty entries")
			break
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
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

func validateGame(g GameConfig) error {
	var errs []string
	durations := []struct {
		key string
		d   time.Duration
	}{
		{"game.action_timeout", g.ActionTimeout},
		{"game.confirm_timeout", g.ConfirmTimeout},
		{"game.class_choice_timeout", g.ClassChoiceTimeout},
		{"game.rest_cooldown", g.RestCooldown},
	}
	for _, d := range durations {
		if d.d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got %s", d.key, d.d))
		}
	}
	if g.MaxTurns < 0 {
		errs = append(errs, fmt.Sprintf("game.max_turns must be >= 0, got %d", g.MaxTurns))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateHealth(h HealthConfig) error {
	var errs []string
	if h.Host == "" {
		errs = append(errs, "health.host must not be empty")
	}
	if h.Port < 1 || h.Port > 65535 {
		errs = append(errs, fmt.Sprintf("health.port must be 1-65535, got %d", h.Port))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
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

	// Environment variable overrides with PHOENIX_ prefix
	v.SetEnvPrefix("PHOENIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
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
	// Registered so AutomaticEnv can override a key absent from the file.
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.guild_id", "")
	v.SetDefault("discord.owner_ids", []string{})
	v.SetDefault("discord.page_timeout", "5m")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "phoenix")
	v.SetDefault("database.password", "phoenix")
	v.SetDefault("database.name", "phoenix")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.action_timeout", "500s")
	v.SetDefault("game.confirm_timeout", "60s")
	v.SetDefault("game.class_choice_timeout", "120s")
	v.SetDefault("game.rest_cooldown", "20m")
	v.SetDefault("game.max_turns", 0)
	v.SetDefault("game.catalog_dir", "")

	v.SetDefault("health.host", "0.0.0.0")
	v.SetDefault("health.port", 50061)

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 0)
}
