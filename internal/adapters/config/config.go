package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"herald/internal/domain/news"
	"herald/pkg/errors"
)

type Config struct {
	App           AppConfig
	Telegram      TelegramConfig
	News          NewsConfig
	Jobs          JobConfig
	Redis         RedisConfig
	Metrics       MetricsConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"herald"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type TelegramConfig struct {
	BotToken       string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	Debug          bool          `envconfig:"TELEGRAM_DEBUG" default:"false"`
	HTTPTimeout    time.Duration `envconfig:"TELEGRAM_HTTP_TIMEOUT" default:"30s"`
	RateLimitRate  int           `envconfig:"TELEGRAM_RATE_LIMIT_RATE" default:"20"`
	RateLimitBurst int           `envconfig:"TELEGRAM_RATE_LIMIT_BURST" default:"30"`
}

// NewsConfig covers the aggregation and delivery pipeline.
type NewsConfig struct {
	DefaultTopics       []string      `envconfig:"NEWS_DEFAULT_TOPICS" default:"bitcoin,ethereum,markets"`
	DefaultFrequency    string        `envconfig:"NEWS_DEFAULT_FREQUENCY" default:"daily"`
	AdapterTimeout      time.Duration `envconfig:"NEWS_ADAPTER_TIMEOUT" default:"10s"`
	InterMessageDelay   time.Duration `envconfig:"NEWS_INTER_MESSAGE_DELAY" default:"1s"`
	MaxArticlesPerTopic int           `envconfig:"NEWS_MAX_ARTICLES_PER_TOPIC" default:"10"`
	IndicatorWindow     int           `envconfig:"NEWS_INDICATOR_WINDOW_HOURS" default:"24"`
}

// JobConfig contains the delivery job schedule.
type JobConfig struct {
	HourlyInterval time.Duration `envconfig:"JOB_HOURLY_INTERVAL" default:"1h"`
	HourlyWarmup   time.Duration `envconfig:"JOB_HOURLY_WARMUP" default:"10s"`
	DailyHour      int           `envconfig:"JOB_DAILY_HOUR" default:"8"`
	DailyMinute    int           `envconfig:"JOB_DAILY_MINUTE" default:"0"`
}

// RedisConfig is optional; when no host is set the dedup index stays
// in memory and delivered links do not survive a restart.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// DefaultTopicSet parses and validates the configured default topics.
func (c NewsConfig) DefaultTopicSet() ([]news.Topic, error) {
	topics := make([]news.Topic, 0, len(c.DefaultTopics))
	for _, raw := range c.DefaultTopics {
		t, err := news.ParseTopic(raw)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "default topic %q", raw)
		}
		topics = append(topics, t)
	}
	if len(topics) == 0 {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "no default topics configured")
	}
	return topics, nil
}

// DefaultFrequencyValue parses and validates the configured default cadence.
func (c NewsConfig) DefaultFrequencyValue() (news.Frequency, error) {
	freq, err := news.ParseFrequency(c.DefaultFrequency)
	if err != nil {
		return "", errors.Wrapf(errors.ErrConfigInvalid, "default frequency %q", c.DefaultFrequency)
	}
	return freq, nil
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if _, err := cfg.News.DefaultTopicSet(); err != nil {
		return nil, err
	}
	if _, err := cfg.News.DefaultFrequencyValue(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
