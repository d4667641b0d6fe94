package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

const (
	PartitionTaskStore     = "task-store"
	PartitionSettingsStore = "settings-store"
)

// KV is durable storage of whole-snapshot payloads keyed by partition name.
type KV interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, payload []byte) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}
