package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bft-labs/ooqd/internal/domain"
)

// Log formats accepted by --log-format.
const (
	// LogFormatPlain writes diagnostics as "ooqd: message" lines.
	LogFormatPlain   = "plain"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config holds CLI configuration for ooqd.
type Config struct {
	QueuePath    string        `validate:"required"`
	IdleInterval time.Duration `validate:"gt=0"`
	Watch        bool
	Once         bool

	// StatusDir enables the drain status file when set.
	StatusDir string

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=plain console json"`

	HTTPTimeout time.Duration `validate:"gt=0"`
	ExecTimeout time.Duration `validate:"gte=0"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		IdleInterval: 60 * time.Second,
		LogLevel:     "warn",
		LogFormat:    LogFormatPlain,
		HTTPTimeout:  60 * time.Second,
	}
}

var validate = validator.New()

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return domain.CheckQueuePath(c.QueuePath)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
