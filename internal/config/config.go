// Package config provides configuration loading, validation, and management
// for the flower shop bot. It handles reading from YAML files, environment
// variable overrides, default values, and validating configuration parameters.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components of the bot:
// logging, Telegram transport, AI integration, caching, dialogue history,
// inventory and knowledge sources, database, and scheduled tasks.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Dialogue  DialogueConfig  `mapstructure:"dialogue"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the log-group/feedback settings.
type TelegramConfig struct {
	Token              string  `mapstructure:"token"        validate:"required"`
	Operators          []int64 `mapstructure:"operators"`
	LogGroupID         int64   `mapstructure:"log_group_id"`
	LogTopicID         int     `mapstructure:"log_topic_id"`
	GoodExamplesTopic  int     `mapstructure:"good_examples_topic"`
	NeedsWorkTopic     int     `mapstructure:"needs_work_topic"`
	DropPendingUpdates bool    `mapstructure:"drop_pending_updates"`

	// BotInfo is populated at runtime after GetMe, not from the config file.
	BotInfo BotInfo `mapstructure:"-"`
}

// BotInfo stores the bot's own identity as reported by Telegram.
type BotInfo struct {
	ID        int64
	Username  string
	FirstName string
}

// AIConfig holds completion API parameters. Models is a priority list; the
// client rotates through it on rate-limit errors before backing off.
type AIConfig struct {
	Token            string        `mapstructure:"token"             validate:"required"`
	BaseURL          string        `mapstructure:"base_url"          validate:"url"`
	Instruction      string        `mapstructure:"instruction"       validate:"required"`
	Models           []string      `mapstructure:"models"            validate:"min=1"`
	Temperature      float32       `mapstructure:"temperature"       validate:"min=0,max=2"`
	MaxTokens        int           `mapstructure:"max_tokens"        validate:"min=1"`
	PresencePenalty  float32       `mapstructure:"presence_penalty"`
	FrequencyPenalty float32       `mapstructure:"frequency_penalty"`
	Timeout          time.Duration `mapstructure:"timeout"           validate:"min=1s,max=10m"`
	MaxRetries       int           `mapstructure:"max_retries"       validate:"min=0,max=10"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"       validate:"min=1s"`
}

// CacheConfig tunes the response cache. Setting MinFrequency to 1 caches
// every answer unconditionally.
type CacheConfig struct {
	TTL                 time.Duration `mapstructure:"ttl"                  validate:"min=1m"`
	MinFrequency        int           `mapstructure:"min_frequency"        validate:"min=1"`
	MaxSize             int           `mapstructure:"max_size"             validate:"min=1"`
	SimilarityThreshold float64       `mapstructure:"similarity_threshold" validate:"min=0,max=1"`
}

// DialogueConfig bounds per-user conversation history.
type DialogueConfig struct {
	MaxTurns int           `mapstructure:"max_turns" validate:"min=1"`
	TurnTTL  time.Duration `mapstructure:"turn_ttl"  validate:"min=1m"`
}

// InventoryConfig identifies the spreadsheet holding the product list.
type InventoryConfig struct {
	SpreadsheetID string        `mapstructure:"spreadsheet_id"`
	Range         string        `mapstructure:"range"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl" validate:"min=1m"`
}

// KnowledgeConfig identifies the knowledge-base document.
type KnowledgeConfig struct {
	DocumentID  string        `mapstructure:"document_id"`
	RefreshTTL  time.Duration `mapstructure:"refresh_ttl"  validate:"min=1m"`
	MaxSections int           `mapstructure:"max_sections" validate:"min=1"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig maps task names to their cron schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds the user-facing message strings. Replies ship in the
// shop's language; the bot can be relocalized from config alone.
type MessagesConfig struct {
	Greeting      string `mapstructure:"greeting"`
	Apology       string `mapstructure:"apology"`
	NotAuthorized string `mapstructure:"not_authorized"`
	UpdateDone    string `mapstructure:"update_done"`
	UpdateFailed  string `mapstructure:"update_failed"`
	AlreadyRated  string `mapstructure:"already_rated"`
	ThanksLike    string `mapstructure:"thanks_like"`
	ThanksDislike string `mapstructure:"thanks_dislike"`
}

// LoadConfig reads the configuration file at path, applies BOT_* environment
// overrides and defaults, and validates the result. A missing config file is
// not an error as long as the required values arrive via environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		slog.Info("Config file not found, using defaults and environment", "path", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsOperator reports whether the given Telegram user may run operator commands.
func (c *TelegramConfig) IsOperator(userID int64) bool {
	for _, id := range c.Operators {
		if id == userID {
			return true
		}
	}
	return false
}
