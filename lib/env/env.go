package env

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	// Database
	PostgresHost     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresPort     string

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQUser     string
	RabbitMQPassword string
	RabbitMQPort     string

	// ClickHouse (optional - audit log is disabled when port is unset)
	ClickHouseHost     string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseDB       string
	ClickHousePort     string

	// Twitter application credentials
	TwitterAPIKey       string
	TwitterAPISecretKey string

	// Scraping
	AtCoderBaseURL string
	ChromePath     string

	// Dispatcher
	ScheduleFile string

	// Registry API
	RegistryPort string

	// Metrics export ports (for Prometheus scraping)
	UpdaterMetricsPort    string
	DispatcherMetricsPort string

	// Sentry (optional)
	SentryDSN   string
	Environment string
	Release     string

	// Logging
	LogLevel   string
	StdoutPath string
	StderrPath string
)

var envIssues []string

func init() {
	// Load .env file (ignore error - variables may be set via environment)
	godotenv.Load()

	// Database (defaults: user=postgres, password="", db=profileupdater)
	PostgresHost = getHostEnv("POSTGRES_HOST")
	PostgresUser = getEnvWithDefault("POSTGRES_USER", "postgres")
	PostgresPassword = getEnv("POSTGRES_PASSWORD") // Default: empty string
	PostgresDB = getEnvWithDefault("POSTGRES_DB", "profileupdater")
	PostgresPort = requireEnv("POSTGRES_PORT")

	// RabbitMQ (defaults: user=guest, password=guest)
	RabbitMQHost = getHostEnv("RABBITMQ_HOST")
	RabbitMQUser = getEnvWithDefault("RABBITMQ_USER", "guest")
	RabbitMQPassword = getEnvWithDefault("RABBITMQ_PASSWORD", "guest")
	RabbitMQPort = requireEnv("RABBITMQ_PORT")

	// ClickHouse (defaults: user=default, password="", db=default)
	ClickHouseHost = getHostEnv("CLICKHOUSE_HOST")
	ClickHouseUser = getEnvWithDefault("CLICKHOUSE_USER", "default")
	ClickHousePassword = getEnvWithDefault("CLICKHOUSE_PASSWORD", "")
	ClickHouseDB = getEnvWithDefault("CLICKHOUSE_DB", "default")
	ClickHousePort = getEnv("CLICKHOUSE_PORT")

	// Twitter application credentials (per-user tokens live in the registration store)
	TwitterAPIKey = requireEnv("TWITTER_API_KEY")
	TwitterAPISecretKey = requireEnv("TWITTER_API_SECRET_KEY")

	// Scraping
	AtCoderBaseURL = getEnvWithDefault("ATCODER_BASE_URL", "https://atcoder.jp")
	ChromePath = getEnv("CHROME_PATH")

	// Dispatcher
	ScheduleFile = getEnv("SCHEDULE_FILE")

	// Registry API
	RegistryPort = getEnv("REGISTRY_PORT")

	// Metrics export ports (optional per app)
	UpdaterMetricsPort = getEnv("UPDATER_METRICS_PORT")
	DispatcherMetricsPort = getEnv("DISPATCHER_METRICS_PORT")

	// Sentry (optional)
	SentryDSN = getEnv("SENTRY_DSN")
	Environment = getEnvWithDefault("ENVIRONMENT", "development")
	Release = getEnv("RELEASE")

	// Logging
	LogLevel = getEnv("LOG_LEVEL")
	StdoutPath = getEnv("STDOUT")
	StderrPath = getEnv("STDERR")

	if len(envIssues) > 0 {
		panic("required environment variables are not set: " + strings.Join(envIssues, ", "))
	}
}

func getEnv(key string) string {
	return os.Getenv(key)
}

func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		envIssues = append(envIssues, key)
	}
	return val
}

func getEnvWithDefault(key string, defaultValue string) string {
	if val := getEnv(key); val != "" {
		return val
	}
	return defaultValue
}

func getHostEnv(key string) string {
	return getEnvWithDefault(key, "localhost")
}
