// Package config handles configuration management with validation
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration structure
type Config struct {
	API           APIConfig           `yaml:"api"`
	Session       SessionConfig       `yaml:"session"`
	Polling       PollingConfig       `yaml:"polling"`
	Notifications NotificationsConfig `yaml:"notifications"`
	System        SystemConfig        `yaml:"system"`
	Concurrency   ConcurrencyConfig   `yaml:"concurrency"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
}

// APIConfig contains settings for the remote backend client
type APIConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// SessionConfig contains credential persistence settings
type SessionConfig struct {
	DBPath string `yaml:"db_path"`
}

// PollingConfig contains fixed-interval refresh settings
type PollingConfig struct {
	BookingIntervalSeconds   int `yaml:"booking_interval_seconds"`
	AnalyticsIntervalSeconds int `yaml:"analytics_interval_seconds"`
	FetchTimeoutSeconds      int `yaml:"fetch_timeout_seconds"`
}

// NotificationsConfig contains toast queue settings
type NotificationsConfig struct {
	TTLMillis int `yaml:"ttl_millis"`
}

// SystemConfig contains system settings
type SystemConfig struct {
	LogLevel string `yaml:"log_level"`
}

// ConcurrencyConfig contains worker pool settings
type ConcurrencyConfig struct {
	ActionPoolSize   int `yaml:"action_pool_size"`
	ActionPoolBuffer int `yaml:"action_pool_buffer"`
}

// TelemetryConfig contains telemetry settings
type TelemetryConfig struct {
	MetricsPort   int  `yaml:"metrics_port"`
	EnableMetrics bool `yaml:"enable_metrics"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

// LoadConfig loads configuration from a YAML file with environment variable expansion
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.Expand(string(data), os.Getenv)

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateAPIConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateSessionConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validatePollingConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateNotificationsConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateSystemConfig(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

func (c *Config) validateAPIConfig() error {
	if c.API.BaseURL == "" {
		return ValidationError{
			Field:   "api.base_url",
			Message: "backend base URL is required",
		}
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must start with http:// or https://",
		}
	}
	if c.API.TimeoutSeconds < 1 || c.API.TimeoutSeconds > 120 {
		return ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: "must be between 1 and 120",
		}
	}
	if c.API.RateLimitRPS <= 0 {
		return ValidationError{
			Field:   "api.rate_limit_rps",
			Value:   c.API.RateLimitRPS,
			Message: "must be positive",
		}
	}
	return nil
}

func (c *Config) validateSessionConfig() error {
	if c.Session.DBPath == "" {
		return ValidationError{
			Field:   "session.db_path",
			Message: "credential database path is required",
		}
	}
	return nil
}

func (c *Config) validatePollingConfig() error {
	if c.Polling.BookingIntervalSeconds < 5 || c.Polling.BookingIntervalSeconds > 3600 {
		return ValidationError{
			Field:   "polling.booking_interval_seconds",
			Value:   c.Polling.BookingIntervalSeconds,
			Message: "must be between 5 and 3600",
		}
	}
	if c.Polling.AnalyticsIntervalSeconds < 30 || c.Polling.AnalyticsIntervalSeconds > 86400 {
		return ValidationError{
			Field:   "polling.analytics_interval_seconds",
			Value:   c.Polling.AnalyticsIntervalSeconds,
			Message: "must be between 30 and 86400",
		}
	}
	if c.Polling.FetchTimeoutSeconds < 1 || c.Polling.FetchTimeoutSeconds >= c.Polling.BookingIntervalSeconds {
		return ValidationError{
			Field:   "polling.fetch_timeout_seconds",
			Value:   c.Polling.FetchTimeoutSeconds,
			Message: "must be at least 1 and shorter than the booking interval",
		}
	}
	return nil
}

func (c *Config) validateNotificationsConfig() error {
	if c.Notifications.TTLMillis < 1000 || c.Notifications.TTLMillis > 30000 {
		return ValidationError{
			Field:   "notifications.ttl_millis",
			Value:   c.Notifications.TTLMillis,
			Message: "must be between 1000 and 30000",
		}
	}
	return nil
}

func (c *Config) validateSystemConfig() error {
	validLevels := []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	if !contains(validLevels, strings.ToUpper(c.System.LogLevel)) {
		return ValidationError{
			Field:   "system.log_level",
			Value:   c.System.LogLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLevels, ", ")),
		}
	}
	return nil
}

// BookingInterval returns the marketplace poll interval as a duration
func (c *Config) BookingInterval() time.Duration {
	return time.Duration(c.Polling.BookingIntervalSeconds) * time.Second
}

// AnalyticsInterval returns the admin analytics refresh interval as a duration
func (c *Config) AnalyticsInterval() time.Duration {
	return time.Duration(c.Polling.AnalyticsIntervalSeconds) * time.Second
}

// FetchTimeout returns the per-cycle fetch timeout as a duration
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Polling.FetchTimeoutSeconds) * time.Second
}

// NotificationTTL returns the toast display window as a duration
func (c *Config) NotificationTTL() time.Duration {
	return time.Duration(c.Notifications.TTLMillis) * time.Millisecond
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	data, _ := yaml.Marshal(c)
	return string(data)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// DefaultConfig returns the reference configuration, also used by tests.
// Intervals mirror the production views: 20s marketplace poll, 5m analytics.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5000/api",
			TimeoutSeconds: 15,
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		},
		Session: SessionConfig{
			DBPath: "session.db",
		},
		Polling: PollingConfig{
			BookingIntervalSeconds:   20,
			AnalyticsIntervalSeconds: 300,
			FetchTimeoutSeconds:      10,
		},
		Notifications: NotificationsConfig{
			TTLMillis: 5000,
		},
		System: SystemConfig{
			LogLevel: "INFO",
		},
		Concurrency: ConcurrencyConfig{
			ActionPoolSize:   4,
			ActionPoolBuffer: 32,
		},
		Telemetry: TelemetryConfig{
			MetricsPort:   9090,
			EnableMetrics: false,
		},
	}
}
