package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Vocabulary sources.
const (
	SourceHTTP     = "http"
	SourceFS       = "fs"
	SourcePostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env"`         // current application environment (local, dev, production)
	TelegramAPIToken string     `mapstructure:"-"`           // Telegram API token loaded from environment
	Language         string     `mapstructure:"ui_language"` // initial UI language
	Telegram         Telegram   `mapstructure:"telegram"`
	Vocabulary       Vocabulary `mapstructure:"vocabulary"`
	Media            Media      `mapstructure:"media"`
	Quiz             Quiz       `mapstructure:"quiz"`
	HTTP             HTTP       `mapstructure:"http"`
	DB               DB         `mapstructure:"database"`
	Redis            Redis      `mapstructure:"redis"`
}

// Telegram configures the chat the bot serves.
type Telegram struct {
	ChatID int64 `mapstructure:"chat_id"` // 0 binds to the first chat that sends /start
	Debug  bool  `mapstructure:"debug"`
}

// Vocabulary configures where topics and words come from.
type Vocabulary struct {
	Source          string `mapstructure:"source"`           // http, fs or postgres
	BaseURL         string `mapstructure:"base_url"`         // root serving config.json and vocabulary/
	Dir             string `mapstructure:"dir"`              // directory holding config.json and topic files
	SourceField     string `mapstructure:"source_field"`     // word key with the learned term
	ManifestRefresh string `mapstructure:"manifest_refresh"` // cron spec, empty disables
}

// Media configures audio and image URL resolution.
type Media struct {
	BaseURL   string `mapstructure:"base_url"`
	AudioLang string `mapstructure:"audio_lang"`
	Images    bool   `mapstructure:"images"`
}

// Quiz configures quiz pacing.
type Quiz struct {
	Rounds       int           `mapstructure:"rounds"`
	Countdown    int           `mapstructure:"countdown"`
	Tick         time.Duration `mapstructure:"tick"`
	CorrectDelay time.Duration `mapstructure:"correct_delay"`
	WrongDelay   time.Duration `mapstructure:"wrong_delay"`
}

// HTTP configures outbound vocabulary requests.
type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Redis configures the optional vocabulary cache. An empty address disables it.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"-"` // loaded from environment
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Enabled reports whether a cache address is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// UILanguage returns the configured UI language.
func (c *Config) UILanguage() entities.Language {
	lang, _ := entities.ParseLanguage(c.Language)
	return lang
}

// Load reads configuration from config files, a .env file and environment variables.
// Extra paths are searched for config.yaml before ./config.
func Load(paths ...string) (*Config, error) {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.Vocabulary.Source == SourcePostgres && cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.Redis.Password = v.GetString("redis_password")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("ui_language", string(entities.DefaultLanguage))
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.debug", false)

	v.SetDefault("vocabulary.source", SourceHTTP)
	v.SetDefault("vocabulary.base_url", "http://localhost:8080")
	v.SetDefault("vocabulary.dir", "vocabulary")
	v.SetDefault("vocabulary.source_field", "french")
	v.SetDefault("vocabulary.manifest_refresh", "@every 1h")

	v.SetDefault("media.base_url", "")
	v.SetDefault("media.audio_lang", "fr")
	v.SetDefault("media.images", false)

	v.SetDefault("quiz.rounds", 10)
	v.SetDefault("quiz.countdown", 10)
	v.SetDefault("quiz.tick", "1s")
	v.SetDefault("quiz.correct_delay", "1s")
	v.SetDefault("quiz.wrong_delay", "1500ms")

	v.SetDefault("http.timeout", "10s")

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "1h")
}

func (c *Config) validate() error {
	switch c.Vocabulary.Source {
	case SourceHTTP:
		if c.Vocabulary.BaseURL == "" {
			return fmt.Errorf("%w: vocabulary.base_url is empty", ErrInvalidConfig)
		}
	case SourceFS:
		if c.Vocabulary.Dir == "" {
			return fmt.Errorf("%w: vocabulary.dir is empty", ErrInvalidConfig)
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("%w: unknown vocabulary source %q", ErrInvalidConfig, c.Vocabulary.Source)
	}

	if c.Vocabulary.SourceField == "" {
		return fmt.Errorf("%w: vocabulary.source_field is empty", ErrInvalidConfig)
	}
	if _, ok := entities.ParseLanguage(c.Language); !ok {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidConfig, c.Language)
	}
	if c.Quiz.Rounds <= 0 || c.Quiz.Countdown <= 0 || c.Quiz.Tick <= 0 {
		return fmt.Errorf("%w: quiz rounds, countdown and tick must be positive", ErrInvalidConfig)
	}
	if c.Quiz.CorrectDelay < 0 || c.Quiz.WrongDelay < 0 {
		return fmt.Errorf("%w: quiz delays must not be negative", ErrInvalidConfig)
	}
	return nil
}
