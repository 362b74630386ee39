package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"inflight/internal/adapters/out/postgres"
	"inflight/internal/adapters/out/redisqueue"
	"inflight/internal/eventbus"
	"inflight/internal/jobs"
	"inflight/internal/pkg/errs"
)

// Delivery queue backends.
const (
	DeliveryQueueMemory = "memory"
	DeliveryQueueRedis  = "redis"
)

// Config holds every setting the service reads from the environment.
// Build it with LoadConfig.
type Config struct {
	HTTPPort string

	DBDriver    string
	DBSQLDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	SQLitePath  string

	RedisAddr     string
	RedisChannel  string
	RedisQueueKey string

	DeliveryQueue     string
	DeliveryWorkers   int
	DeliveryQueueSize int
	RetrySchedule     string

	EventMailboxSize int
	SSEHeartbeat     time.Duration

	KafkaBrokers     []string
	KafkaTopicPrefix string

	SeedSampleData   bool
	OtelTracesStdout bool
	OtelEndpoint     string
	OtelInsecure     bool

	LogLevel  string
	LogFormat string
}

// LoadConfig reads the configuration through getenv, usually os.Getenv
// after the optional .env file was loaded. Unset keys take defaults.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var parseErrs []error
	intEnv := func(key string, def int) int {
		raw := env(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause(key, err))
			return def
		}
		return n
	}
	boolEnv := func(key string) bool {
		raw := env(key, "")
		if raw == "" {
			return false
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause(key, err))
		}
		return b
	}
	durationEnv := func(key string, def time.Duration) time.Duration {
		raw := env(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause(key, err))
			return def
		}
		return d
	}

	cfg := Config{
		HTTPPort:          env("HTTP_PORT", "8080"),
		DBDriver:          env("DB_DRIVER", postgres.DriverPostgres),
		DBSQLDriver:       env("DB_SQL_DRIVER", postgres.SQLDriverPgx),
		DBHost:            env("DB_HOST", "localhost"),
		DBPort:            env("DB_PORT", "5432"),
		DBUser:            env("DB_USER", ""),
		DBPassword:        env("DB_PASSWORD", ""),
		DBName:            env("DB_NAME", "inflight"),
		DBSslMode:         env("DB_SSLMODE", "disable"),
		SQLitePath:        env("SQLITE_PATH", "inflight.db"),
		RedisAddr:         env("REDIS_ADDR", ""),
		RedisChannel:      env("REDIS_CHANNEL", eventbus.DefaultRedisChannel),
		RedisQueueKey:     env("REDIS_QUEUE_KEY", redisqueue.DefaultKeyPrefix),
		DeliveryQueue:     env("DELIVERY_QUEUE", DeliveryQueueMemory),
		DeliveryWorkers:   intEnv("DELIVERY_WORKERS", jobs.DefaultDeliveryWorkers),
		DeliveryQueueSize: intEnv("DELIVERY_QUEUE_SIZE", jobs.DefaultDeliveryQueueSize),
		RetrySchedule:     env("RETRY_SCHEDULE", jobs.DefaultRetrySchedule),
		EventMailboxSize:  intEnv("EVENT_MAILBOX_SIZE", eventbus.DefaultMailboxSize),
		SSEHeartbeat:      durationEnv("SSE_HEARTBEAT", 15*time.Second),
		KafkaBrokers:      splitList(env("KAFKA_BROKERS", "")),
		KafkaTopicPrefix:  env("KAFKA_TOPIC_PREFIX", ""),
		SeedSampleData:    boolEnv("SEED_SAMPLE_DATA"),
		OtelTracesStdout:  boolEnv("OTEL_TRACES_STDOUT"),
		OtelEndpoint:      env("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelInsecure:      boolEnv("OTEL_EXPORTER_OTLP_INSECURE"),
		LogLevel:          env("LOG_LEVEL", "info"),
		LogFormat:         env("LOG_FORMAT", "json"),
	}

	if err := errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks combinations that parse fine on their own but cannot run,
// such as a Redis queue without a Redis address.
func (c Config) Validate() error {
	var problems []error
	switch c.DBDriver {
	case postgres.DriverPostgres:
		if c.DBUser == "" {
			problems = append(problems, errs.NewValueIsRequiredError("DB_USER"))
		}
	case postgres.DriverSQLite:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"DB_DRIVER", fmt.Errorf("%q is not one of postgres, sqlite", c.DBDriver)))
	}

	switch c.DeliveryQueue {
	case DeliveryQueueMemory:
	case DeliveryQueueRedis:
		if c.RedisAddr == "" {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause(
				"REDIS_ADDR", errors.New("DELIVERY_QUEUE=redis needs a redis server")))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"DELIVERY_QUEUE", fmt.Errorf("%q is not one of memory, redis", c.DeliveryQueue)))
	}

	if c.DeliveryWorkers <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("DELIVERY_WORKERS", c.DeliveryWorkers, 1, "unbounded"))
	}
	if c.EventMailboxSize <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("EVENT_MAILBOX_SIZE", c.EventMailboxSize, 1, "unbounded"))
	}
	return errors.Join(problems...)
}

// PostgresDSN builds the connection string from the DB_* keys.
func (c Config) PostgresDSN() string {
	return postgres.BuildPostgresDSN(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
