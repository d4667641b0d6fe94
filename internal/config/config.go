package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/sandeepkv93/tasktrack/internal/persist"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"

	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasktrack.db"
	DefaultDataDirName    = "data"
)

var ErrInvalidBackend = errors.New("config: backend must be sqlite or file")

type RuntimeConfig struct {
	Backend                 string `toml:"backend"`
	DBPath                  string `toml:"db_path"`
	DataDir                 string `toml:"data_dir"`
	LogLevel                string `toml:"log_level"`
	LogFormat               string `toml:"log_format"`
	PersistRetries          int    `toml:"persist_retries"`
	PersistBackoffMillis    int    `toml:"persist_backoff_ms"`
	PersistMaxBackoffMillis int    `toml:"persist_max_backoff_ms"`
	PersistTimeoutMillis    int    `toml:"persist_timeout_ms"`
	SeedOnFirstRun          bool   `toml:"seed_on_first_run"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Backend:                 BackendSQLite,
		DBPath:                  DefaultDBName,
		DataDir:                 DefaultDataDirName,
		LogLevel:                "info",
		LogFormat:               "text",
		PersistRetries:          3,
		PersistBackoffMillis:    50,
		PersistMaxBackoffMillis: 2000,
		PersistTimeoutMillis:    5000,
		SeedOnFirstRun:          true,
	}
}

// DefaultDir is where the config file and data live when no path is given.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "tasktrack")
	}
	return ".tasktrack"
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKTRACK_BACKEND"); ok {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKTRACK_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TASKTRACK_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("TASKTRACK_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("TASKTRACK_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := getEnvInt("TASKTRACK_PERSIST_RETRIES"); ok && v >= 0 {
		cfg.PersistRetries = v
	}
	if v, ok := getEnvInt("TASKTRACK_PERSIST_BACKOFF_MS"); ok && v > 0 {
		cfg.PersistBackoffMillis = v
	}
	if v, ok := getEnvInt("TASKTRACK_PERSIST_MAX_BACKOFF_MS"); ok && v > 0 {
		cfg.PersistMaxBackoffMillis = v
	}
	if v, ok := getEnvInt("TASKTRACK_PERSIST_TIMEOUT_MS"); ok && v > 0 {
		cfg.PersistTimeoutMillis = v
	}
	if v, ok := getEnvBool("TASKTRACK_SEED"); ok {
		cfg.SeedOnFirstRun = v
	}
	return cfg
}

// LoadOrCreate reads the TOML file at path over base, writing base out when
// the file does not exist yet. Relative storage paths resolve against the
// file's directory.
func LoadOrCreate(path string, base RuntimeConfig) (RuntimeConfig, error) {
	cfg := base
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDirName
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c RuntimeConfig) resolve(dir string) RuntimeConfig {
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if !filepath.IsAbs(c.DataDir) {
		c.DataDir = filepath.Join(dir, c.DataDir)
	}
	return c
}

func (c RuntimeConfig) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendFile:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}
}

func (c RuntimeConfig) PersistOptions() persist.Options {
	opts := persist.DefaultOptions()
	opts.MaxRetries = c.PersistRetries
	if c.PersistBackoffMillis > 0 {
		opts.InitialBackoff = time.Duration(c.PersistBackoffMillis) * time.Millisecond
	}
	if c.PersistMaxBackoffMillis > 0 {
		opts.MaxBackoff = time.Duration(c.PersistMaxBackoffMillis) * time.Millisecond
	}
	if c.PersistTimeoutMillis > 0 {
		opts.WriteTimeout = time.Duration(c.PersistTimeoutMillis) * time.Millisecond
	}
	return opts
}

func write(path string, cfg RuntimeConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
