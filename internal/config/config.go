package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds gitlook's settings.
type Config struct {
	APIURL    string
	PageSize  int
	Timeout   time.Duration
	UserAgent string
	LogLevel  string
	LogFile   string
}

const (
	defaultConfigPath = "~/.config/gitlook/config.toml"
	defaultAPIURL     = "https://api.github.com"
	defaultPageSize   = 50
	maxPageSize       = 100
	defaultTimeout    = 15 * time.Second
	defaultUserAgent  = "gitlook/0.1"
	defaultLogLevel   = "info"
	defaultLogFile    = "~/.local/state/gitlook/gitlook.log"
)

// Environment overrides applied after the file is read.
const (
	EnvAPIURL   = "GITLOOK_API_URL"
	EnvLogLevel = "GITLOOK_LOG_LEVEL"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:    defaultAPIURL,
		PageSize:  defaultPageSize,
		Timeout:   defaultTimeout,
		UserAgent: defaultUserAgent,
		LogLevel:  defaultLogLevel,
		LogFile:   mustExpand(defaultLogFile),
	}
}

// Load reads the config at path (the default path when blank), falling back
// to defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL    string `toml:"api_url"`
		PageSize  int    `toml:"page_size"`
		Timeout   string `toml:"timeout"`
		UserAgent string `toml:"user_agent"`
		LogLevel  string `toml:"log_level"`
		LogFile   string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PageSize != 0 {
		cfg.PageSize = ClampPageSize(raw.PageSize)
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse config: timeout: must be positive, got %s", v)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(raw.UserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// ClampPageSize bounds n to the range GitHub accepts.
func ClampPageSize(n int) int {
	return max(1, min(n, maxPageSize))
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading ~ to the home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
