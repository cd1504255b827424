package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Defaults applied in Load for list-valued settings, which cannot be
// expressed in struct tag defaults.
var (
	defaultKeywords  = []string{"frontend", "fullstack", "react", "vue", "javascript", "typescript", "php", "UI", "UX", "next"}
	defaultLocations = []string{"Göteborg", "Mölndal"}
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	JWTSecret  string `env:"JWT_SECRET"`
	CronSecret string `env:"CRON_SECRET"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	SeedOnBoot bool   `env:"SEED_ON_BOOT, default=false"`

	Mongo     MongoConfig
	Redis     RedisConfig
	JobTech   JobTechConfig
	Resend    ResendConfig
	Scheduler SchedulerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=jobradar"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type JobTechConfig struct {
	Endpoint  string        `env:"JOBTECH_URL,     default=https://jobsearch.api.jobtechdev.se/search"`
	Region    string        `env:"JOBTECH_REGION,  default=Västra Götalands län"`
	Keywords  []string      `env:"JOBTECH_KEYWORDS"`
	Locations []string      `env:"TARGET_LOCATIONS"`
	Limit     int           `env:"JOBTECH_LIMIT,   default=100"`
	Timeout   time.Duration `env:"JOBTECH_TIMEOUT, default=10s"`
}

type ResendConfig struct {
	APIKey string `env:"RESEND_API_KEY"`
	From   string `env:"EMAIL_FROM, default=JobRadar <noreply@jobradar.example.com>"`
}

type SchedulerConfig struct {
	Enabled       bool          `env:"SCHEDULER_ENABLED, default=true"`
	FetchInterval time.Duration `env:"FETCH_INTERVAL,    default=24h"`
	EmailInterval time.Duration `env:"EMAIL_INTERVAL,    default=24h"`
	SendDelay     time.Duration `env:"EMAIL_SEND_DELAY,  default=100ms"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.JobTech.Keywords) == 0 {
		cfg.JobTech.Keywords = defaultKeywords
	}
	if len(cfg.JobTech.Locations) == 0 {
		cfg.JobTech.Locations = defaultLocations
	}
	return &cfg, nil
}
