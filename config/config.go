// Package config loads and validates the application configuration from the
// environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/giygas/immunization-calendar/composer"
)

// Environment is the deployment environment.
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment accepts the short names and their long forms.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
}

// UnmarshalText lets env.Parse decode ENV.
func (e *Environment) UnmarshalText(text []byte) error {
	parsed, err := ParseEnvironment(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Config holds all application configuration
type Config struct {
	Port              string      `env:"PORT" envDefault:"8000"`
	Address           string      `env:"ADDRESS" envDefault:"127.0.0.1"`
	Env               Environment `env:"ENV" envDefault:"dev"`
	LogLevel          string      `env:"LOG_LEVEL" envDefault:"info"`
	LogDir            string      `env:"LOG_DIR" envDefault:"logs"`
	LogRetentionWeeks int         `env:"LOG_RETENTION_WEEKS" envDefault:"4"`
	MaxLogFileSize    int64       `env:"MAX_LOG_FILE_SIZE" envDefault:"104857600"` // 100MB
	MaxRequestBody    int64       `env:"MAX_REQUEST_BODY" envDefault:"1048576"`    // 1MB
	MaxHeaderSize     int64       `env:"MAX_HEADER_SIZE" envDefault:"1048576"`     // 1MB

	// Plan composition
	PolyvalentVaccines      []string `env:"POLYVALENT_VACCINES" envDefault:"DTaP" envSeparator:","`
	SubstitutionPolicy      string   `env:"SUBSTITUTION_POLICY" envDefault:"remove-covered"`
	SnapshotIntervalMinutes int      `env:"SNAPSHOT_INTERVAL_MINUTES" envDefault:"15"`
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, parseErrorByKey(err)
	}

	for i, name := range cfg.PolyvalentVaccines {
		cfg.PolyvalentVaccines[i] = strings.TrimSpace(name)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// parseErrorByKey names the environment variable behind a parse error instead of
// the Config field.
func parseErrorByKey(err error) error {
	var parseErr env.ParseError
	if errors.As(err, &parseErr) {
		if field, ok := reflect.TypeOf(Config{}).FieldByName(parseErr.Name); ok {
			if key, _, _ := strings.Cut(field.Tag.Get("env"), ","); key != "" {
				return fmt.Errorf("invalid %s: %w", key, parseErr.Err)
			}
		}
	}
	return fmt.Errorf("failed to parse environment: %w", err)
}

// ComposerConfig turns the plan composition settings into a composer.Config.
func (c *Config) ComposerConfig() (composer.Config, error) {
	policy, err := composer.ParseRemovalPolicy(c.SubstitutionPolicy)
	if err != nil {
		return composer.Config{}, err
	}
	cfg := composer.DefaultConfig()
	cfg.Polyvalent = append([]string(nil), c.PolyvalentVaccines...)
	cfg.Removal = policy
	return cfg, nil
}

// SnapshotInterval is how often the scheduler records selection metrics.
func (c *Config) SnapshotInterval() time.Duration {
	return time.Duration(c.SnapshotIntervalMinutes) * time.Minute
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validatePolyvalentVaccines(cfg.PolyvalentVaccines); err != nil {
		return fmt.Errorf("invalid POLYVALENT_VACCINES: %w", err)
	}

	if _, err := composer.ParseRemovalPolicy(cfg.SubstitutionPolicy); err != nil {
		return fmt.Errorf("invalid SUBSTITUTION_POLICY: %w", err)
	}

	if cfg.SnapshotIntervalMinutes < 1 || cfg.SnapshotIntervalMinutes > 24*60 {
		return fmt.Errorf("invalid SNAPSHOT_INTERVAL_MINUTES: must be between 1 and 1440, got: %d", cfg.SnapshotIntervalMinutes)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	switch strings.ToLower(logLevel) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("LOG_LEVEL must be one of: [debug info warn error], got: %s", logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validatePolyvalentVaccines rejects empty entries such as a trailing comma.
func validatePolyvalentVaccines(names []string) error {
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("entry %d is empty", i)
		}
	}
	return nil
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"POLYVALENT_VACCINES",
		"SUBSTITUTION_POLICY",
		"SNAPSHOT_INTERVAL_MINUTES",
	}
}
