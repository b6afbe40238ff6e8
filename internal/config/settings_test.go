package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.Addr != DefaultAddr {
		t.Errorf("Expected addr %s, got %s", DefaultAddr, settings.Addr)
	}
	if settings.DownloadDir != DefaultDownloadDir {
		t.Errorf("Expected download dir %s, got %s", DefaultDownloadDir, settings.DownloadDir)
	}
	if settings.Container != DefaultContainer {
		t.Errorf("Expected container %s, got %s", DefaultContainer, settings.Container)
	}
	if settings.MaxFormats != DefaultMaxFormats {
		t.Errorf("Expected max formats %d, got %d", DefaultMaxFormats, settings.MaxFormats)
	}
	if settings.InfoTimeout != DefaultInfoTimeout {
		t.Errorf("Expected info timeout %v, got %v", DefaultInfoTimeout, settings.InfoTimeout)
	}
	if settings.AutoInstall {
		t.Error("Auto install should be off by default")
	}
	if !settings.MetricsEnabled {
		t.Error("Metrics should be enabled by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(KeyAddr, "127.0.0.1:9000")
	t.Setenv(KeyDownloadDir, "/data/downloads")
	t.Setenv(KeyContainer, "MKV")
	t.Setenv(KeyMaxFormats, "5")
	t.Setenv(KeyAutoInstall, "true")
	t.Setenv(KeyInfoTimeout, "15s")
	t.Setenv(KeyLogFormat, "text")
	t.Setenv(KeyLogLevel, "DEBUG")
	t.Setenv(KeyMetricsEnabled, "false")

	settings, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.Addr != "127.0.0.1:9000" {
		t.Errorf("Unexpected addr %s", settings.Addr)
	}
	if settings.DownloadDir != "/data/downloads" {
		t.Errorf("Unexpected download dir %s", settings.DownloadDir)
	}
	if settings.Container != "mkv" {
		t.Errorf("Expected container to be lowercased, got %s", settings.Container)
	}
	if settings.MaxFormats != 5 {
		t.Errorf("Expected max formats 5, got %d", settings.MaxFormats)
	}
	if !settings.AutoInstall {
		t.Error("Expected auto install on")
	}
	if settings.InfoTimeout != 15*time.Second {
		t.Errorf("Expected info timeout 15s, got %v", settings.InfoTimeout)
	}
	if settings.LogFormat != "text" || settings.LogLevel != "debug" {
		t.Errorf("Unexpected log settings %s/%s", settings.LogFormat, settings.LogLevel)
	}
	if settings.MetricsEnabled {
		t.Error("Expected metrics disabled")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv(KeyMaxFormats, "many")
	t.Setenv(KeyInfoTimeout, "soon")
	t.Setenv(KeyMetricsEnabled, "maybe")

	settings, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.MaxFormats != DefaultMaxFormats {
		t.Errorf("Expected fallback max formats, got %d", settings.MaxFormats)
	}
	if settings.InfoTimeout != DefaultInfoTimeout {
		t.Errorf("Expected fallback timeout, got %v", settings.InfoTimeout)
	}
	if settings.MetricsEnabled != DefaultMetricsEnabled {
		t.Error("Expected fallback metrics flag")
	}
}

func TestLoadEnvFile(t *testing.T) {
	// godotenv does not override variables that are already set
	os.Unsetenv(KeyAddr)
	t.Cleanup(func() { os.Unsetenv(KeyAddr) })

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte(KeyAddr+"=:7070\n"), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	settings, err := Load(envFile)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if settings.Addr != ":7070" {
		t.Errorf("Expected addr from env file, got %s", settings.Addr)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Missing env file should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			Addr:        DefaultAddr,
			DownloadDir: DefaultDownloadDir,
			Container:   DefaultContainer,
			MaxFormats:  DefaultMaxFormats,
			LogLevel:    DefaultLogLevel,
			LogFormat:   DefaultLogFormat,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"empty addr", func(s *Settings) { s.Addr = "" }, "listen address"},
		{"empty dir", func(s *Settings) { s.DownloadDir = "" }, "download directory"},
		{"container with path", func(s *Settings) { s.Container = "../mp4" }, "invalid container"},
		{"zero formats", func(s *Settings) { s.MaxFormats = 0 }, "max formats"},
		{"negative timeout", func(s *Settings) { s.ShutdownTimeout = -time.Second }, "timeouts"},
		{"bad log format", func(s *Settings) { s.LogFormat = "xml" }, "log format"},
		{"bad log level", func(s *Settings) { s.LogLevel = "trace" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
