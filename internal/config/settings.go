package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys
const (
	KeyAddr            = "YTD_ADDR"
	KeyDownloadDir     = "YTD_DOWNLOAD_DIR"
	KeyContainer       = "YTD_CONTAINER"
	KeyMaxFormats      = "YTD_MAX_FORMATS"
	KeyYTDLPPath       = "YTD_YTDLP_PATH"
	KeyAutoInstall     = "YTD_AUTO_INSTALL"
	KeyInfoTimeout     = "YTD_INFO_TIMEOUT"
	KeyShutdownTimeout = "YTD_SHUTDOWN_TIMEOUT"
	KeyLogLevel        = "YTD_LOG_LEVEL"
	KeyLogFormat       = "YTD_LOG_FORMAT"
	KeyMetricsEnabled  = "YTD_METRICS_ENABLED"
)

// Default values
const (
	DefaultAddr            = ":8000"
	DefaultDownloadDir     = "downloads"
	DefaultContainer       = "mp4"
	DefaultMaxFormats      = 8
	DefaultInfoTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultMetricsEnabled  = true
)

// Settings holds the service configuration
type Settings struct {
	Addr            string
	DownloadDir     string
	Container       string // container downloads are merged into
	MaxFormats      int    // formats returned per metadata query
	YTDLPPath       string // explicit yt-dlp executable, empty to resolve automatically
	AutoInstall     bool   // download yt-dlp on startup when missing
	InfoTimeout     time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	MetricsEnabled  bool
}

// Load reads an optional .env file and then the environment. A missing env
// file is not an error; the service can run on environment variables alone.
func Load(envFilePath string) (*Settings, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	settings := &Settings{
		Addr:            getEnv(KeyAddr, DefaultAddr),
		DownloadDir:     getEnv(KeyDownloadDir, DefaultDownloadDir),
		Container:       strings.ToLower(getEnv(KeyContainer, DefaultContainer)),
		MaxFormats:      getEnvAsInt(KeyMaxFormats, DefaultMaxFormats),
		YTDLPPath:       getEnv(KeyYTDLPPath, ""),
		AutoInstall:     getEnvAsBool(KeyAutoInstall, false),
		InfoTimeout:     getEnvAsDuration(KeyInfoTimeout, DefaultInfoTimeout),
		ShutdownTimeout: getEnvAsDuration(KeyShutdownTimeout, DefaultShutdownTimeout),
		LogLevel:        strings.ToLower(getEnv(KeyLogLevel, DefaultLogLevel)),
		LogFormat:       strings.ToLower(getEnv(KeyLogFormat, DefaultLogFormat)),
		MetricsEnabled:  getEnvAsBool(KeyMetricsEnabled, DefaultMetricsEnabled),
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings for values the service cannot run with
func (s *Settings) Validate() error {
	var errs []error

	if s.Addr == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if s.DownloadDir == "" {
		errs = append(errs, errors.New("download directory is empty"))
	}
	if s.Container == "" || strings.ContainsAny(s.Container, `/\. `) {
		errs = append(errs, fmt.Errorf("invalid container %q", s.Container))
	}
	if s.MaxFormats < 1 {
		errs = append(errs, fmt.Errorf("max formats must be positive, got %d", s.MaxFormats))
	}
	if s.InfoTimeout < 0 || s.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	switch s.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", s.LogFormat))
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", s.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// getEnv returns the environment value or defaultValue when unset
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
