package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (OOQD_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("status-dir", os.Getenv("OOQD_STATUS_DIR"), &cfg.StatusDir)
	s.setString("log-level", os.Getenv("OOQD_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("OOQD_LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setDuration("idle", os.Getenv("OOQD_IDLE_INTERVAL"), &cfg.IdleInterval); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", os.Getenv("OOQD_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("exec-timeout", os.Getenv("OOQD_EXEC_TIMEOUT"), &cfg.ExecTimeout); err != nil {
		return err
	}

	if err := s.setBoolFromString("watch", os.Getenv("OOQD_WATCH"), &cfg.Watch); err != nil {
		return err
	}
	return s.setBoolFromString("once", os.Getenv("OOQD_ONCE"), &cfg.Once)
}
