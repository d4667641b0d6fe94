package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tasktrack-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestPartitionPutGetAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, PartitionTaskStore, []byte(`{"tasks":[],"categories":[]}`)); err != nil {
		t.Fatalf("put task store: %v", err)
	}
	if err := repo.Put(ctx, PartitionSettingsStore, []byte(`{"darkMode":true}`)); err != nil {
		t.Fatalf("put settings: %v", err)
	}

	got, err := repo.Get(ctx, PartitionTaskStore)
	if err != nil {
		t.Fatalf("get task store: %v", err)
	}
	if string(got) != `{"tasks":[],"categories":[]}` {
		t.Fatalf("unexpected payload: %s", got)
	}

	names, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != PartitionSettingsStore || names[1] != PartitionTaskStore {
		t.Fatalf("unexpected partitions: %v", names)
	}
}

func TestPartitionPutReplacesAndBumpsRevision(t *testing.T) {
	repo := setupRepo(t)
	ctx := testContext(t)
	first := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }

	if err := repo.Put(ctx, "p", []byte(`1`)); err != nil {
		t.Fatalf("put 1: %v", err)
	}
	repo.now = func() time.Time { return first.Add(time.Minute) }
	if err := repo.Put(ctx, "p", []byte(`2`)); err != nil {
		t.Fatalf("put 2: %v", err)
	}

	got, err := repo.Get(ctx, "p")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "2" {
		t.Fatalf("expected latest payload, got %s", got)
	}
	rev, updated, err := repo.Revision(ctx, "p")
	if err != nil {
		t.Fatalf("revision: %v", err)
	}
	if rev != 2 {
		t.Fatalf("expected revision 2, got %d", rev)
	}
	if !updated.Equal(first.Add(time.Minute)) {
		t.Fatalf("unexpected updated_at %v", updated)
	}
}

func TestPartitionNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := testContext(t)

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from delete, got %v", err)
	}
	if _, _, err := repo.Revision(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from revision, got %v", err)
	}
}

func TestPartitionDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := testContext(t)
	if err := repo.Put(ctx, "p", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Delete(ctx, "p"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "p"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestOpenSQLiteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasktrack.db")
	repo, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer repo.Close()

	if err := repo.Put(testContext(t), "p", []byte(`{}`)); err != nil {
		t.Fatalf("put after open: %v", err)
	}
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
