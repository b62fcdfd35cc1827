package config

import (
	// Go Internal Packages
	"time"

	// Local Packages
	errors "minilend-disburser/errors"
)

var DefaultConfig = []byte(`
application: "disburser"

logger:
  level: "debug"

is_prod_mode: false

server:
  addr: ":8080"

mongo:
  uri: "mongodb://localhost:27017"
  database: "minilend"

redis:
  uri: "localhost:6379"
  password: ""

kafka:
  brokers:
    - "localhost:9092"
  consume: true
  topic: "payment-events"
  records_per_poll: 500
  consumer_name: "disburser"

disbursement:
  max_retries: 3
  stuck_after: "5m"
  success_rate_window: "24h"
  recent_jobs_limit: 20
  retryable_jobs_limit: 10
`)

type Config struct {
	Application  string       `koanf:"application"`
	Logger       Logger       `koanf:"logger"`
	IsProdMode   bool         `koanf:"is_prod_mode"`
	Server       Server       `koanf:"server"`
	Mongo        Mongo        `koanf:"mongo"`
	Redis        Redis        `koanf:"redis"`
	Kafka        Kafka        `koanf:"kafka"`
	Disbursement Disbursement `koanf:"disbursement"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Mongo struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type Kafka struct {
	Brokers        []string `koanf:"brokers"`
	Consume        bool     `koanf:"consume"`
	Topic          string   `koanf:"topic"`
	RecordsPerPoll int      `koanf:"records_per_poll"`
	ConsumerName   string   `koanf:"consumer_name"`
}

// Disbursement hoists the queue thresholds that would otherwise be
// inline constants duplicated across operations.
type Disbursement struct {
	MaxRetries         int           `koanf:"max_retries"`
	StuckAfter         time.Duration `koanf:"stuck_after"`
	SuccessRateWindow  time.Duration `koanf:"success_rate_window"`
	RecentJobsLimit    int           `koanf:"recent_jobs_limit"`
	RetryableJobsLimit int           `koanf:"retryable_jobs_limit"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Server.Addr == "" {
		ve.Add("server.addr", "cannot be empty")
	}
	if c.Mongo.URI == "" {
		ve.Add("mongo.uri", "cannot be empty")
	}
	if c.Mongo.Database == "" {
		ve.Add("mongo.database", "cannot be empty")
	}
	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	if c.Kafka.Consume && len(c.Kafka.Brokers) == 0 {
		ve.Add("kafka.brokers", "cannot be empty")
	}
	if c.Disbursement.MaxRetries <= 0 {
		ve.Add("disbursement.max_retries", "must be positive")
	}
	if c.Disbursement.StuckAfter <= 0 {
		ve.Add("disbursement.stuck_after", "must be positive")
	}
	if c.Disbursement.SuccessRateWindow <= 0 {
		ve.Add("disbursement.success_rate_window", "must be positive")
	}
	if c.Disbursement.RecentJobsLimit <= 0 {
		ve.Add("disbursement.recent_jobs_limit", "must be positive")
	}
	if c.Disbursement.RetryableJobsLimit <= 0 {
		ve.Add("disbursement.retryable_jobs_limit", "must be positive")
	}

	return ve.Err()
}
