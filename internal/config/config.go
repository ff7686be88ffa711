// Package config provides configuration management using viper.
// Values come from an optional config.yaml with environment variable
// overrides (e.g. DISCORD_TOKEN, API_BASE_URL, REDIS_ADDR).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Discord DiscordConfig `mapstructure:"discord"`
	API     APIConfig     `mapstructure:"api"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Game    GameConfig    `mapstructure:"game"`
}

// DiscordConfig holds Discord gateway configuration.
type DiscordConfig struct {
	Token         string `mapstructure:"token"`
	CommandPrefix string `mapstructure:"command_prefix"`
}

// APIConfig holds trivia backend configuration.
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RetryCount     int           `mapstructure:"retry_count"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GameConfig holds gameplay and wizard tuning.
type GameConfig struct {
	StepTimeout   time.Duration `mapstructure:"step_timeout"`
	WizardTimeout time.Duration `mapstructure:"wizard_timeout"`
	MinQuestions  int           `mapstructure:"min_questions"`
	MaxQuestions  int           `mapstructure:"max_questions"`
	MinAnswers    int           `mapstructure:"min_answers"`
	MaxAnswers    int           `mapstructure:"max_answers"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	// Environment variables use underscore separator and uppercase,
	// e.g. DISCORD_TOKEN, API_BASE_URL, REDIS_ADDR.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is OK, env vars can provide all config.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Discord.Token == "" {
		return nil, errors.New("discord token is required (DISCORD_TOKEN)")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.command_prefix", "$")

	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.request_timeout", "15s")
	v.SetDefault("api.retry_count", 3)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("game.step_timeout", "30s")
	v.SetDefault("game.wizard_timeout", "60s")
	v.SetDefault("game.min_questions", 3)
	v.SetDefault("game.max_questions", 10)
	v.SetDefault("game.min_answers", 2)
	v.SetDefault("game.max_answers", 4)
}
