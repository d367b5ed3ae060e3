package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers for the admin list.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Bot run modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv       string
	LogLevel     string
	Bot          BotConfig
	Admins       AdminsConfig
	I18n         I18nConfig
	Storage      StorageConfig
	Postgres     PostgresConfig
	Broadcast    BroadcastConfig
	Verification VerificationConfig
	Upload       UploadConfig
	Session      SessionConfig
	Janitor      JanitorConfig
}

// BotConfig holds Telegram transport settings.
type BotConfig struct {
	Token        string
	Mode         string
	Workers      int
	Webhook      WebhookConfig
	WelcomePhoto string
	LockFile     string
}

// WebhookConfig is only used in webhook mode.
type WebhookConfig struct {
	URL        string
	ListenPort int
}

// AdminsConfig seeds the registry when nothing is persisted yet.
type AdminsConfig struct {
	DefaultIDs []int64
}

// I18nConfig selects languages.
type I18nConfig struct {
	DefaultLanguage  string
	FallbackLanguage string
}

// StorageConfig selects where the admin list lives.
type StorageConfig struct {
	Driver string
	Path   string
}

// PostgresConfig is used with the postgres storage driver.
type PostgresConfig struct {
	URL string
}

// BroadcastConfig limits outbound fan-out.
type BroadcastConfig struct {
	RatePerSec float64
}

// VerificationConfig tunes the delayed checks.
type VerificationConfig struct {
	Delay      time.Duration
	Workers    int
	MaxPending int
	Weights    WeightsConfig
}

// WeightsConfig are the relative outcome chances.
type WeightsConfig struct {
	Success float64
	Warning float64
	Failure float64
}

// UploadConfig is the document allow-list.
type UploadConfig struct {
	Extensions []string
	MimeTypes  []string
}

// SessionConfig controls idle session eviction.
type SessionConfig struct {
	TTL time.Duration
}

// JanitorConfig is the sweep schedule.
type JanitorConfig struct {
	Schedule string
}

// key -> env var
var envBindings = map[string]string{
	"app.env":                      "APP_ENV",
	"log.level":                    "LOG_LEVEL",
	"bot.token":                    "TELEGRAM_BOT_TOKEN",
	"bot.mode":                     "BOT_MODE",
	"bot.workers":                  "BOT_WORKERS",
	"bot.webhook.url":              "WEBHOOK_URL",
	"bot.webhook.listen_port":      "WEBHOOK_PORT",
	"bot.welcome_photo":            "WELCOME_PHOTO",
	"bot.lock_file":                "LOCK_FILE",
	"admins.default_ids":           "ADMIN_IDS",
	"i18n.default_language":        "DEFAULT_LANGUAGE",
	"i18n.fallback_language":       "FALLBACK_LANGUAGE",
	"storage.driver":               "STORAGE_DRIVER",
	"storage.path":                 "STORAGE_PATH",
	"postgres.url":                 "DATABASE_URL",
	"broadcast.rate_per_sec":       "BROADCAST_RATE",
	"verification.delay":           "VERIFICATION_DELAY",
	"verification.workers":         "VERIFICATION_WORKERS",
	"verification.max_pending":     "VERIFICATION_MAX_PENDING",
	"verification.weights.success": "VERIFICATION_WEIGHT_SUCCESS",
	"verification.weights.warning": "VERIFICATION_WEIGHT_WARNING",
	"verification.weights.failure": "VERIFICATION_WEIGHT_FAILURE",
	"upload.extensions":            "UPLOAD_EXTENSIONS",
	"upload.mime_types":            "UPLOAD_MIME_TYPES",
	"session.ttl":                  "SESSION_TTL",
	"janitor.schedule":             "JANITOR_SCHEDULE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("bot.mode", ModePolling)
	v.SetDefault("bot.workers", 4)
	v.SetDefault("bot.webhook.listen_port", 8080)
	v.SetDefault("bot.welcome_photo", "photo.jpg")
	v.SetDefault("bot.lock_file", "bot.lock")
	v.SetDefault("admins.default_ids", "5499281840,8452399171,845427823,1026776598")
	v.SetDefault("i18n.default_language", "ru")
	v.SetDefault("i18n.fallback_language", "en")
	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.path", "data/admins.json")
	v.SetDefault("broadcast.rate_per_sec", 25)
	v.SetDefault("verification.delay", "600s")
	v.SetDefault("verification.workers", 8)
	v.SetDefault("verification.max_pending", 10000)
	v.SetDefault("verification.weights.success", 0.90)
	v.SetDefault("verification.weights.warning", 0.05)
	v.SetDefault("verification.weights.failure", 0.05)
	v.SetDefault("upload.extensions", ".zip,.txt,.json")
	v.SetDefault("upload.mime_types", "application/zip,application/x-zip-compressed,text/plain,application/json,text/json")
	v.SetDefault("session.ttl", "720h")
	v.SetDefault("janitor.schedule", "@every 10m")
}

// Load loads configuration from .env, an optional CONFIG_FILE (yaml) and
// environment variables. Environment wins over the file.
func Load() (*Config, error) {
	// 1. Load .env into the process environment; a missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// 2. Explicitly bind keys to env var names
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	// 3. Defaults
	setDefaults(v)

	// 4. Optional config file
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	adminIDs, err := int64List(v.GetStringSlice("admins.default_ids"))
	if err != nil {
		return nil, fmt.Errorf("admins.default_ids: %w", err)
	}

	cfg := Config{
		AppEnv:   v.GetString("app.env"),
		LogLevel: v.GetString("log.level"),
		Bot: BotConfig{
			Token:   strings.TrimSpace(v.GetString("bot.token")),
			Mode:    strings.ToLower(v.GetString("bot.mode")),
			Workers: v.GetInt("bot.workers"),
			Webhook: WebhookConfig{
				URL:        strings.TrimRight(v.GetString("bot.webhook.url"), "/"),
				ListenPort: v.GetInt("bot.webhook.listen_port"),
			},
			WelcomePhoto: v.GetString("bot.welcome_photo"),
			LockFile:     v.GetString("bot.lock_file"),
		},
		Admins: AdminsConfig{DefaultIDs: adminIDs},
		I18n: I18nConfig{
			DefaultLanguage:  v.GetString("i18n.default_language"),
			FallbackLanguage: v.GetString("i18n.fallback_language"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
			Path:   v.GetString("storage.path"),
		},
		Postgres:  PostgresConfig{URL: v.GetString("postgres.url")},
		Broadcast: BroadcastConfig{RatePerSec: v.GetFloat64("broadcast.rate_per_sec")},
		Verification: VerificationConfig{
			Delay:      v.GetDuration("verification.delay"),
			Workers:    v.GetInt("verification.workers"),
			MaxPending: v.GetInt("verification.max_pending"),
			Weights: WeightsConfig{
				Success: v.GetFloat64("verification.weights.success"),
				Warning: v.GetFloat64("verification.weights.warning"),
				Failure: v.GetFloat64("verification.weights.failure"),
			},
		},
		Upload: UploadConfig{
			Extensions: stringList(v.GetStringSlice("upload.extensions")),
			MimeTypes:  stringList(v.GetStringSlice("upload.mime_types")),
		},
		Session: SessionConfig{TTL: v.GetDuration("session.ttl")},
		Janitor: JanitorConfig{Schedule: v.GetString("janitor.schedule")},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is not set in environment or .env file"))
	}
	switch c.Bot.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.Bot.Webhook.URL == "" {
			errs = append(errs, errors.New("WEBHOOK_URL is required in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown bot mode %q", c.Bot.Mode))
	}
	if c.Bot.Workers <= 0 {
		errs = append(errs, errors.New("bot.workers must be positive"))
	}
	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for the file driver"))
		}
	case StoragePostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	w := c.Verification.Weights
	if w.Success < 0 || w.Warning < 0 || w.Failure < 0 {
		errs = append(errs, errors.New("verification weights must not be negative"))
	} else if w.Success+w.Warning+w.Failure <= 0 {
		errs = append(errs, errors.New("verification weights must sum to a positive value"))
	}
	if c.Verification.Delay <= 0 {
		errs = append(errs, errors.New("verification.delay must be positive"))
	}
	if c.Verification.Workers <= 0 {
		errs = append(errs, errors.New("verification.workers must be positive"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	return errors.Join(errs...)
}

// stringList flattens entries that may themselves be comma separated.
func stringList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func int64List(in []string) ([]int64, error) {
	var out []int64
	for _, s := range stringList(in) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		out = append(out, id)
	}
	return out, nil
}
