package storage

import (
	"context"
	"fmt"
	"time"
)

// PartitionInfo summarises one stored partition. Revision and UpdatedAt are
// zero for backends that do not track writes.
type PartitionInfo struct {
	Name      string
	Bytes     int
	Revision  int
	UpdatedAt time.Time
}

type revisionTracker interface {
	Revision(ctx context.Context, name string) (int, time.Time, error)
}

// Describe lists every partition in kv in name order.
func Describe(ctx context.Context, kv KV) ([]PartitionInfo, error) {
	names, err := kv.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	tracker, tracked := kv.(revisionTracker)
	out := make([]PartitionInfo, 0, len(names))
	for _, name := range names {
		payload, err := kv.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("read partition %s: %w", name, err)
		}
		info := PartitionInfo{Name: name, Bytes: len(payload)}
		if tracked {
			info.Revision, info.UpdatedAt, err = tracker.Revision(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("revision of %s: %w", name, err)
			}
		}
		out = append(out, info)
	}
	return out, nil
}
