package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				IdleInterval: "5s",
				Watch:        &trueVal,
				Once:         &falseVal,
				StatusDir:    "/var/lib/ooqd",
				LogLevel:     "debug",
				LogFormat:    "json",
				HTTPTimeout:  "30s",
				ExecTimeout:  "2m",
			},
			changed: map[string]bool{},
			initial: Config{Once: true},
			expected: Config{
				IdleInterval: 5 * time.Second,
				Watch:        true,
				Once:         false,
				StatusDir:    "/var/lib/ooqd",
				LogLevel:     "debug",
				LogFormat:    "json",
				HTTPTimeout:  30 * time.Second,
				ExecTimeout:  2 * time.Minute,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				IdleInterval: "5s",
				LogLevel:     "debug",
				Watch:        &trueVal,
			},
			changed: map[string]bool{"idle": true, "watch": true},
			initial: Config{IdleInterval: time.Second, LogLevel: "info"},
			expected: Config{
				IdleInterval: time.Second, // unchanged because flag was set
				LogLevel:     "debug",
			},
		},
		{
			name:       "empty values keep defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{HTTPTimeout: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
idle_interval = "10s"
watch = true
status_dir = "/var/lib/ooqd"
log_format = "console"
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.IdleInterval != "10s" {
		t.Errorf("IdleInterval = %v, want 10s", fc.IdleInterval)
	}
	if fc.Watch == nil || !*fc.Watch {
		t.Errorf("Watch = %v, want true", fc.Watch)
	}
	if fc.Once != nil {
		t.Errorf("Once = %v, want unset", fc.Once)
	}
	if fc.StatusDir != "/var/lib/ooqd" {
		t.Errorf("StatusDir = %v, want /var/lib/ooqd", fc.StatusDir)
	}
	if fc.LogFormat != "console" {
		t.Errorf("LogFormat = %v, want console", fc.LogFormat)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
idle_interval = "1s"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	if _, err := LoadFileConfig(configPath); err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.HasSuffix(path, filepath.Join(".ooqd", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %v, want suffix .ooqd/config.toml", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}
	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
