package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileKVRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv, err := OpenFileKV(dir)
	if err != nil {
		t.Fatalf("open file kv: %v", err)
	}
	ctx := testContext(t)

	if _, err := kv.Get(ctx, PartitionTaskStore); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v", err)
	}
	if err := kv.Put(ctx, PartitionTaskStore, []byte(`{"tasks":[]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, PartitionTaskStore, []byte(`{"tasks":null}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, PartitionTaskStore)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"tasks":null}` {
		t.Fatalf("unexpected payload: %s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "task-store.json")); err != nil {
		t.Fatalf("expected partition file on disk: %v", err)
	}
}

func TestFileKVListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	kv, err := OpenFileKV(dir)
	if err != nil {
		t.Fatalf("open file kv: %v", err)
	}
	ctx := testContext(t)
	for _, name := range []string{PartitionTaskStore, PartitionSettingsStore} {
		if err := kv.Put(ctx, name, []byte(`{}`)); err != nil {
			t.Fatalf("put %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write foreign file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	names, err := kv.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != PartitionSettingsStore || names[1] != PartitionTaskStore {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestFileKVDeleteAndInvalidNames(t *testing.T) {
	kv, err := OpenFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("open file kv: %v", err)
	}
	ctx := testContext(t)
	if err := kv.Delete(ctx, "p"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := kv.Put(ctx, "p", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Delete(ctx, "p"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		if err := kv.Put(ctx, name, []byte(`{}`)); err == nil {
			t.Fatalf("expected error for name %q", name)
		}
	}
	if _, err := OpenFileKV("  "); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}
