package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.Backend != BackendSQLite || cfg.DBPath != DefaultDBName {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.PersistRetries != 3 || cfg.PersistBackoffMillis != 50 || !cfg.SeedOnFirstRun {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TASKTRACK_BACKEND", "FILE")
	t.Setenv("TASKTRACK_DB_PATH", "custom.db")
	t.Setenv("TASKTRACK_DATA_DIR", "state/files")
	t.Setenv("TASKTRACK_LOG_LEVEL", "debug")
	t.Setenv("TASKTRACK_LOG_FORMAT", "json")
	t.Setenv("TASKTRACK_PERSIST_RETRIES", "0")
	t.Setenv("TASKTRACK_PERSIST_BACKOFF_MS", "10")
	t.Setenv("TASKTRACK_PERSIST_MAX_BACKOFF_MS", "not-a-number")
	t.Setenv("TASKTRACK_SEED", "off")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.Backend != BackendFile || cfg.DBPath != "custom.db" || cfg.DataDir != "state/files" {
		t.Fatalf("unexpected storage overrides: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected log overrides: %+v", cfg)
	}
	if cfg.PersistRetries != 0 || cfg.PersistBackoffMillis != 10 {
		t.Fatalf("unexpected persist overrides: %+v", cfg)
	}
	if cfg.PersistMaxBackoffMillis != 2000 {
		t.Fatalf("invalid int should keep base value, got %d", cfg.PersistMaxBackoffMillis)
	}
	if cfg.SeedOnFirstRun {
		t.Fatal("expected seeding disabled from env")
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	path := filepath.Join(dir, DefaultConfigFileName)

	cfg, err := LoadOrCreate(path, DefaultRuntimeConfig())
	if err != nil {
		t.Fatalf("load or create: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, DefaultDBName) {
		t.Fatalf("expected db path resolved against config dir, got %q", cfg.DBPath)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if !strings.Contains(string(raw), "backend") || !strings.Contains(string(raw), "sqlite") {
		t.Fatalf("unexpected written config:\n%s", raw)
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	body := "backend = 'file'\ndata_dir = '/abs/data'\ndb_path = ''\npersist_retries = 5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadOrCreate(path, DefaultRuntimeConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendFile || cfg.DataDir != "/abs/data" || cfg.PersistRetries != 5 {
		t.Fatalf("unexpected loaded config: %+v", cfg)
	}
	if cfg.DBPath != filepath.Join(dir, DefaultDBName) {
		t.Fatalf("expected empty db path to fall back to default, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected unset keys to keep base values, got %q", cfg.LogLevel)
	}
}

func TestLoadOrCreateRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("backend = ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadOrCreate(path, DefaultRuntimeConfig()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateAndPersistOptions(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.Backend = "postgres"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidBackend) {
		t.Fatalf("expected ErrInvalidBackend, got %v", err)
	}

	cfg = DefaultRuntimeConfig()
	cfg.PersistRetries = 1
	cfg.PersistBackoffMillis = 20
	opts := cfg.PersistOptions()
	if opts.MaxRetries != 1 || opts.InitialBackoff != 20*time.Millisecond || opts.MaxBackoff != 2*time.Second {
		t.Fatalf("unexpected persist options: %+v", opts)
	}
}
