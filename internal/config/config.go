// Package config loads runtime configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime knob of the service.
type Config struct {
	HTTPAddr    string `mapstructure:"http_addr"`
	DatabaseURL string `mapstructure:"database_url"`
	JWTSecret   string `mapstructure:"jwt_secret"`

	Redis    RedisConfig    `mapstructure:"redis"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	NER      NERConfig      `mapstructure:"ner"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Rate     RateConfig     `mapstructure:"rate"`
	S3       S3Config       `mapstructure:"s3"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TelegramConfig struct {
	Token       string        `mapstructure:"token"`
	Channels    []string      `mapstructure:"channels"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	DedupTTL    time.Duration `mapstructure:"dedup_ttl"`
}

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type NERConfig struct {
	ExtraLocations       []string `mapstructure:"extra_locations"`
	ExtraProductKeywords []string `mapstructure:"extra_product_keywords"`
}

type PipelineConfig struct {
	QueueCapacity           int           `mapstructure:"queue_capacity"`
	InitialWorkerCount      int           `mapstructure:"initial_worker_count"`
	WorkerMin               int           `mapstructure:"worker_min"`
	WorkerMax               int           `mapstructure:"worker_max"`
	ScaleInterval           time.Duration `mapstructure:"scale_interval"`
	ScaleUpBacklogPerWorker int           `mapstructure:"scale_up_backlog_per_worker"`
	ScaleDownIdleTicks      int           `mapstructure:"scale_down_idle_ticks"`
	MaxAttempts             int           `mapstructure:"max_attempts"`
}

type RateConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	BanStrikes        int     `mapstructure:"ban_strikes"`
}

type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
	Prefix string `mapstructure:"prefix"`
}

// Load reads configuration from the given file (optional) with AMHARIC_*
// environment overrides, e.g. AMHARIC_DATABASE_URL, AMHARIC_REDIS_ADDR.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("jwt_secret", "super-secret-key")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("telegram.poll_timeout", 30*time.Second)
	v.SetDefault("telegram.dedup_ttl", 7*24*time.Hour)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout", 60*time.Second)
	v.SetDefault("pipeline.queue_capacity", 1024)
	v.SetDefault("pipeline.worker_min", 2)
	v.SetDefault("pipeline.worker_max", 8)
	v.SetDefault("pipeline.initial_worker_count", 2)
	v.SetDefault("pipeline.scale_interval", 500*time.Millisecond)
	v.SetDefault("pipeline.scale_up_backlog_per_worker", 50)
	v.SetDefault("pipeline.scale_down_idle_ticks", 6)
	v.SetDefault("pipeline.max_attempts", 3)
	v.SetDefault("rate.requests_per_second", 5.0)
	v.SetDefault("rate.burst", 10)
	v.SetDefault("rate.ban_strikes", 20)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.prefix", "datasets")

	v.SetEnvPrefix("AMHARIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Pipeline.WorkerMin < 1 {
		c.Pipeline.WorkerMin = 1
	}
	if c.Pipeline.WorkerMax < c.Pipeline.WorkerMin {
		return fmt.Errorf("pipeline.worker_max (%d) below worker_min (%d)",
			c.Pipeline.WorkerMax, c.Pipeline.WorkerMin)
	}
	if c.Pipeline.InitialWorkerCount < c.Pipeline.WorkerMin {
		c.Pipeline.InitialWorkerCount = c.Pipeline.WorkerMin
	}
	if c.Pipeline.InitialWorkerCount > c.Pipeline.WorkerMax {
		c.Pipeline.InitialWorkerCount = c.Pipeline.WorkerMax
	}
	if c.Rate.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate.requests_per_second must be positive")
	}
	return nil
}

// S3Enabled reports whether dataset uploads are configured.
func (c *Config) S3Enabled() bool {
	return c.S3.Bucket != ""
}
