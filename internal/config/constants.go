package config

import "time"

// ConfigFileEnv names the environment variable holding the config file path.
const ConfigFileEnv = "STUDY_CONFIG_FILE"

// Timeout constants
const (
	// HTTP timeouts
	DefaultHTTPTimeout = 10 * time.Second
	ShutdownTimeout    = 30 * time.Second
	SpeechTimeout      = 15 * time.Second

	// Upper bound of one tab's first render, content fetch included
	TabRenderTimeout = 30 * time.Second

	// Database timeouts
	DatabaseConnMaxLifetime = 5 * time.Minute

	// Session timeouts
	SessionMaxAge  = 7 * 24 * time.Hour // 7 days
	SessionIdleTTL = 2 * time.Hour

	// How often idle view shells are swept
	SessionSweepInterval = 5 * time.Minute
)

// Defaults for values missing from the config file
const (
	DefaultPort           = "8080"
	DefaultSessionSecret  = "study-dev-secret-change-me"
	DefaultBoltPath       = "preferences.db"
	DefaultRedisKeyPrefix = "study:prefs:"
	DefaultSpeechCommand  = "espeak-ng"
	DefaultSpeechVoice    = "en-us"
	DefaultSpeechRate     = 150
	DefaultSpeechRPS      = 2
	DefaultSpeechBurst    = 4
)

// Content sources
const (
	ContentSourceEmbedded = "embedded"
	ContentSourceDir      = "dir"
	ContentSourceHTTP     = "http"
)

// Preference backends
const (
	PreferencesBackendMemory   = "memory"
	PreferencesBackendBolt     = "bolt"
	PreferencesBackendRedis    = "redis"
	PreferencesBackendPostgres = "postgres"
)

// Session configuration constants
const (
	SessionPath     = "/"
	SessionHTTPOnly = true
	SessionSecure   = false // Set to true in production with HTTPS

	// Session name
	SessionName = "study-session"
)

// Security configuration constants
const (
	// Content Security Policy
	DefaultCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; img-src 'self' data:; media-src 'self' blob: data:;"
)
