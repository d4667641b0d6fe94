package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sandeepkv93/tasktrack/internal/config"
	"github.com/sandeepkv93/tasktrack/internal/sample"
	"github.com/sandeepkv93/tasktrack/internal/settings"
	"github.com/sandeepkv93/tasktrack/internal/storage"
	"github.com/sandeepkv93/tasktrack/internal/store"
)

const persistFailureBuffer = 8

// App wires the task store, settings and demo backend to one storage backend.
type App struct {
	Config   config.RuntimeConfig
	Logger   *log.Logger
	Tasks    *store.Store
	Settings *settings.Store
	Backend  *sample.Backend

	kv       storage.KV
	failures chan error
	now      func() time.Time
}

type Options struct {
	Now   func() time.Time
	NewID func() string
}

// OpenKV opens the storage backend selected by cfg.
func OpenKV(cfg config.RuntimeConfig) (storage.KV, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendFile:
		return storage.OpenFileKV(cfg.DataDir)
	default:
		return storage.OpenSQLite(cfg.DBPath)
	}
}

func Open(ctx context.Context, cfg config.RuntimeConfig, logger *log.Logger, opts Options) (*App, error) {
	kv, err := OpenKV(cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a, err := openWithKV(ctx, kv, cfg, logger, opts)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return a, nil
}

func openWithKV(ctx context.Context, kv storage.KV, cfg config.RuntimeConfig, logger *log.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	firstRun, err := isFirstRun(ctx, kv)
	if err != nil {
		return nil, err
	}

	schema, err := storage.TaskStoreSchema()
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Backend:  sample.NewBackend(opts.Now),
		kv:       kv,
		failures: make(chan error, persistFailureBuffer),
		now:      opts.Now,
	}

	writerOpts := cfg.PersistOptions()
	writerOpts.OnFailure = a.reportFailure

	taskPartition := storage.NewPartition[store.Snapshot](kv, storage.PartitionTaskStore, schema)
	tasks, err := store.Open(ctx, taskPartition, store.Options{
		Now:    opts.Now,
		NewID:  opts.NewID,
		Logger: logger.WithPrefix("store"),
		Writer: writerOpts,
	})
	if err != nil {
		return nil, err
	}

	settingsPartition := storage.NewPartition[*settings.State](kv, storage.PartitionSettingsStore, nil)
	prefs, err := settings.Open(ctx, settingsPartition, settings.Options{
		Logger: logger.WithPrefix("settings"),
		Writer: writerOpts,
	})
	if err != nil {
		tasks.Close()
		return nil, err
	}

	a.Tasks = tasks
	a.Settings = prefs

	if firstRun && cfg.SeedOnFirstRun {
		a.Seed(opts.NewID)
		logger.Info("seeded sample data", "tasks", len(tasks.Tasks()))
	}
	return a, nil
}

func isFirstRun(ctx context.Context, kv storage.KV) (bool, error) {
	_, err := kv.Get(ctx, storage.PartitionTaskStore)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, storage.ErrNotFound):
		return true, nil
	default:
		return false, fmt.Errorf("check task store: %w", err)
	}
}

// Seed replaces the task store contents with the sample data set.
func (a *App) Seed(newID func() string) {
	if newID == nil {
		newID = uuid.NewString
	}
	a.Tasks.Import(sample.InitialSnapshot(a.now(), newID))
}

// PersistFailures delivers errors for snapshots that exhausted their retries.
// Failures are dropped when nobody is receiving.
func (a *App) PersistFailures() <-chan error {
	return a.failures
}

func (a *App) reportFailure(err error) {
	select {
	case a.failures <- err:
	default:
	}
}

func (a *App) Now() time.Time {
	return a.now()
}

// StorageReport describes the configured backend and what it holds.
type StorageReport struct {
	Backend    string
	Location   string
	Partitions []storage.PartitionInfo
}

// DescribeStorage opens the backend selected by cfg without loading the
// stores, so it never seeds or rewrites a partition.
func DescribeStorage(ctx context.Context, cfg config.RuntimeConfig) (StorageReport, error) {
	kv, err := OpenKV(cfg)
	if err != nil {
		return StorageReport{}, fmt.Errorf("open storage: %w", err)
	}
	defer kv.Close()

	report := StorageReport{Backend: cfg.Backend, Location: cfg.DBPath}
	if fkv, ok := kv.(*storage.FileKV); ok {
		report.Location = fkv.Dir()
	}
	report.Partitions, err = storage.Describe(ctx, kv)
	if err != nil {
		return StorageReport{}, err
	}
	return report, nil
}

// Wipe stops both stores and deletes their partitions, so the next Open
// starts as a first run. Only Close may follow.
func (a *App) Wipe(ctx context.Context) error {
	if a.Tasks != nil {
		a.Tasks.Close()
		a.Tasks = nil
	}
	if a.Settings != nil {
		a.Settings.Close()
		a.Settings = nil
	}
	for _, name := range []string{storage.PartitionTaskStore, storage.PartitionSettingsStore} {
		if err := a.kv.Delete(ctx, name); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete partition %s: %w", name, err)
		}
	}
	a.Logger.Info("wiped storage")
	return nil
}

// Close flushes both stores before closing the backend.
func (a *App) Close() error {
	if a.Tasks != nil {
		a.Tasks.Close()
	}
	if a.Settings != nil {
		a.Settings.Close()
	}
	return a.kv.Close()
}
