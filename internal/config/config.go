// Package config handles application configuration loading from a YAML file
// and environment variables.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	contextutils "studyapp/internal/utils"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Content documents (verbs, conversations, grammar lists)
	Content ContentConfig `json:"content" yaml:"content"`

	// Preference persistence
	Preferences PreferencesConfig `json:"preferences" yaml:"preferences"`

	// Speech synthesis
	Speech SpeechConfig `json:"speech" yaml:"speech"`

	// OpenTelemetry Configuration
	OpenTelemetry OpenTelemetryConfig `json:"open_telemetry" yaml:"open_telemetry"`

	// Internal fields
	IsTest bool `json:"is_test" yaml:"is_test"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port          string   `json:"port" yaml:"port"`
	SessionSecret string   `json:"session_secret" yaml:"session_secret"`
	Debug         bool     `json:"debug" yaml:"debug"`
	LogLevel      string   `json:"log_level" yaml:"log_level"`
	CORSOrigins   []string `json:"cors_origins" yaml:"cors_origins"`
	// SessionTTL is how long an idle browser session keeps its rendered tabs.
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl"`
}

// ContentConfig selects where the JSON documents are read from.
type ContentConfig struct {
	// Source is "embedded", "dir" or "http".
	Source  string `json:"source" yaml:"source"`
	Dir     string `json:"dir" yaml:"dir"`
	BaseURL string `json:"base_url" yaml:"base_url"`
	// Watch reloads documents from Dir when they change on disk.
	Watch   bool          `json:"watch" yaml:"watch"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Preload fetches every document at startup.
	Preload bool `json:"preload" yaml:"preload"`
}

// PreferencesConfig selects the preference store backend.
type PreferencesConfig struct {
	// Backend is "memory", "bolt", "redis" or "postgres".
	Backend  string         `json:"backend" yaml:"backend"`
	BoltPath string         `json:"bolt_path" yaml:"bolt_path"`
	Redis    RedisConfig    `json:"redis" yaml:"redis"`
	Database DatabaseConfig `json:"database" yaml:"database"`
}

// RedisConfig represents redis connection configuration
type RedisConfig struct {
	Addr      string `json:"addr" yaml:"addr"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL             string        `json:"url" yaml:"url"`
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`       // Maximum number of open connections to the database
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`       // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"` // Maximum amount of time a connection may be reused
}

// SpeechConfig configures the text-to-speech adapter.
type SpeechConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Command string `json:"command" yaml:"command"`
	Voice   string `json:"voice" yaml:"voice"`
	// Rate is the speaking rate in words per minute.
	Rate int `json:"rate" yaml:"rate"`
	// RequestsPerSecond and Burst bound the speech endpoint.
	RequestsPerSecond float64       `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `json:"burst" yaml:"burst"`
	Timeout           time.Duration `json:"timeout" yaml:"timeout"`
}

// OpenTelemetryConfig holds all OpenTelemetry-related configuration
type OpenTelemetryConfig struct {
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`               // Default: "http://localhost:4317"
	Protocol       string            `json:"protocol" yaml:"protocol"`               // "grpc" or "http", default: "grpc"
	Insecure       bool              `json:"insecure" yaml:"insecure"`               // Default: true (for localhost)
	Headers        map[string]string `json:"headers" yaml:"headers"`                 // For authenticated endpoints
	ServiceName    string            `json:"service_name" yaml:"service_name"`       // Default: "study-server"
	ServiceVersion string            `json:"service_version" yaml:"service_version"` // From version package
	EnableTracing  bool              `json:"enable_tracing" yaml:"enable_tracing"`
	EnableMetrics  bool              `json:"enable_metrics" yaml:"enable_metrics"`
	EnableLogging  bool              `json:"enable_logging" yaml:"enable_logging"`
	SamplingRate   float64           `json:"sampling_rate" yaml:"sampling_rate"` // Default: 1.0 (100%)
}

// NewConfig loads configuration from YAML file first, then overrides with environment variables
func NewConfig() (result0 *Config, err error) {
	config, err := loadConfigWithOverrides()
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load config: %w", err)
	}

	config.overrideFromEnv()
	config.applyDefaults()

	return config, nil
}

// Default returns a configuration with every default applied and no file or
// environment input. Used by tests and by the CLI when no config is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.SessionSecret == "" {
		c.Server.SessionSecret = DefaultSessionSecret
	}
	if c.Server.SessionTTL <= 0 {
		c.Server.SessionTTL = SessionIdleTTL
	}

	if c.Content.Source == "" {
		c.Content.Source = ContentSourceEmbedded
	}
	if c.Content.Timeout <= 0 {
		c.Content.Timeout = DefaultHTTPTimeout
	}

	if c.Preferences.Backend == "" {
		c.Preferences.Backend = PreferencesBackendMemory
	}
	if c.Preferences.BoltPath == "" {
		c.Preferences.BoltPath = DefaultBoltPath
	}
	if c.Preferences.Redis.KeyPrefix == "" {
		c.Preferences.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if c.Preferences.Database.ConnMaxLifetime <= 0 {
		c.Preferences.Database.ConnMaxLifetime = DatabaseConnMaxLifetime
	}

	if c.Speech.Command == "" {
		c.Speech.Command = DefaultSpeechCommand
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = DefaultSpeechVoice
	}
	if c.Speech.Rate <= 0 {
		c.Speech.Rate = DefaultSpeechRate
	}
	if c.Speech.RequestsPerSecond <= 0 {
		c.Speech.RequestsPerSecond = DefaultSpeechRPS
	}
	if c.Speech.Burst <= 0 {
		c.Speech.Burst = DefaultSpeechBurst
	}
	if c.Speech.Timeout <= 0 {
		c.Speech.Timeout = SpeechTimeout
	}

	if c.OpenTelemetry.ServiceName == "" {
		c.OpenTelemetry.ServiceName = "study-server"
	}
	if c.OpenTelemetry.Protocol == "" {
		c.OpenTelemetry.Protocol = "grpc"
	}
	if c.OpenTelemetry.SamplingRate <= 0 {
		c.OpenTelemetry.SamplingRate = 1.0
	}
}

// overrideFromEnv overrides config values with environment variables using reflection
func (c *Config) overrideFromEnv() {
	overrideStructFromEnvWithPrefix(c, "")
}

// overrideStructFromEnvWithPrefix recursively overrides struct fields with
// environment variables named after their yaml tags (PREFERENCES_REDIS_ADDR).
func overrideStructFromEnvWithPrefix(v interface{}, prefix string) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		envKey := strings.ToUpper(strings.ReplaceAll(yamlTag, "-", "_"))
		if prefix != "" {
			envKey = prefix + "_" + envKey
		}

		// time.Duration is an int64 kind; accept "30s" as well as nanoseconds.
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			if envVal := os.Getenv(envKey); envVal != "" {
				if d, err := time.ParseDuration(envVal); err == nil {
					field.SetInt(int64(d))
				} else if n, err := strconv.ParseInt(envVal, 10, 64); err == nil {
					field.SetInt(n)
				}
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if envVal := os.Getenv(envKey); envVal != "" {
				field.SetString(envVal)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if envVal := os.Getenv(envKey); envVal != "" {
				if intVal, err := strconv.ParseInt(envVal, 10, 64); err == nil {
					field.SetInt(intVal)
				}
			}
		case reflect.Float32, reflect.Float64:
			if envVal := os.Getenv(envKey); envVal != "" {
				if floatVal, err := strconv.ParseFloat(envVal, 64); err == nil {
					field.SetFloat(floatVal)
				}
			}
		case reflect.Bool:
			if envVal := os.Getenv(envKey); envVal != "" {
				if boolVal, err := strconv.ParseBool(envVal); err == nil {
					field.SetBool(boolVal)
				}
			}
		case reflect.Slice:
			if envVal := os.Getenv(envKey); envVal != "" {
				if field.Type().Elem().Kind() == reflect.String {
					slice := strings.Split(envVal, ",")
					field.Set(reflect.ValueOf(slice))
				}
			}
		case reflect.Struct:
			if field.CanAddr() {
				overrideStructFromEnvWithPrefix(field.Addr().Interface(), envKey)
			}
		}
	}
}

// loadConfigWithOverrides loads the config file named by STUDY_CONFIG_FILE,
// falling back to config.yaml. A missing default file is not an error.
func loadConfigWithOverrides() (result0 *Config, err error) {
	if envPath := os.Getenv(ConfigFileEnv); envPath != "" {
		config, err := loadConfigFromFile(envPath)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load config from %s: %w", envPath, err)
		}
		return config, nil
	}

	config, err := loadConfigFromFile("config.yaml")
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	return config, err
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (result0 *Config, err error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
