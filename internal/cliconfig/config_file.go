package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// The queue path is positional and never read from the file.
type FileConfig struct {
	IdleInterval string `toml:"idle_interval"`
	Watch        *bool  `toml:"watch"`
	Once         *bool  `toml:"once"`
	StatusDir    string `toml:"status_dir"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"`
	HTTPTimeout  string `toml:"http_timeout"`
	ExecTimeout  string `toml:"exec_timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.ooqd/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ooqd", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("status-dir", fc.StatusDir, &cfg.StatusDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)

	if err := s.setDuration("idle", fc.IdleInterval, &cfg.IdleInterval); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("exec-timeout", fc.ExecTimeout, &cfg.ExecTimeout); err != nil {
		return err
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
