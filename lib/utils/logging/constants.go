package logging

// Log levels
const (
	DEBUG = "DEBUG" // Diagnostic information for IT/sysadmins when verbose flag is passed
	INFO  = "INFO"  // Generally useful information (service start/stop, configuration assumptions)
	WARN  = "WARN"  // Recoverable issues (failover, retries, missing secondary data) - no alerts
	ERROR = "ERROR" // Operation-fatal errors requiring user intervention - triggers alerts/Sentry
	FATAL = "FATAL" // Service-fatal errors that crash the application to prevent data loss
)

const (
	Error = "error"
	Fatal = "fatal"
	Warn  = "warn"
	Info  = "info"
	Debug = "debug"
)

// Standard logging field keys - use constants to ensure consistency
const (
	// Core fields
	ACTION = "action"
	COUNT  = "count"
	KEY    = "key"
	NAME   = "name"
	PATH   = "path"
	REASON = "reason"
	SIZE   = "size"
	STATUS = "status"
	TYPE   = "type"
	VALUE  = "value"

	// Infrastructure fields
	HOST    = "host"
	PORT    = "port"
	QUEUE   = "queue"
	SERVICE = "service"

	// Network/HTTP fields
	ENDPOINT    = "endpoint"
	METHOD      = "method"
	STATUS_CODE = "status_code"

	// User/Entity fields
	ATCODER_ID = "atcoder_id"
	TWITTER_ID = "twitter_id"

	// Domain fields
	RATING     = "rating"
	TIER       = "tier"
	GRAPH_SIZE = "graph_size"
	BIO        = "bio"
	BANNER     = "banner"

	// Process/Operation fields
	ATTEMPT      = "attempt"
	DISPATCH_ID  = "dispatch_id"
	FAILED       = "failed"
	QUEUE_DEPTH  = "queue_depth"
	RETRIES      = "retries"
	SUCCESSFUL   = "successful"
	TOTAL        = "total"
	WORKER_COUNT = "worker_count"

	// Timing/Duration fields
	DURATION = "duration"
)
