package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/persist"
)

// Snapshot is the persisted task-store partition.
type Snapshot struct {
	Tasks      []model.Task     `json:"tasks"`
	Categories []model.Category `json:"categories"`
}

func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Tasks:      make([]model.Task, len(s.Tasks)),
		Categories: slices.Clone(s.Categories),
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = t.Clone()
	}
	if out.Categories == nil {
		out.Categories = []model.Category{}
	}
	return out
}

type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

type Options struct {
	Now    func() time.Time
	NewID  func() string
	Logger *log.Logger
	Writer persist.Options
}

// Store owns every task and category. Operations on unknown ids are no-ops
// and do not persist.
type Store struct {
	mu         sync.RWMutex
	tasks      []model.Task
	categories []model.Category

	now    func() time.Time
	newID  func() string
	logger *log.Logger
	writer *persist.Writer[Snapshot]

	revision uint64
}

func Open(ctx context.Context, p Persister, opts Options) (*Store, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Writer.Name == "" {
		opts.Writer.Name = "task-store"
	}
	if opts.Writer.Logger == nil {
		opts.Writer.Logger = opts.Logger
	}

	snap, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("hydrate task store: %w", err)
	}
	snap = snap.Clone()

	s := &Store{
		tasks:      snap.Tasks,
		categories: snap.Categories,
		now:        opts.Now,
		newID:      opts.NewID,
		logger:     opts.Logger,
		writer:     persist.NewWriter[Snapshot](p, opts.Writer),
	}
	s.writer.Start()
	s.logger.Debug("task store hydrated", "tasks", len(s.tasks), "categories", len(s.categories))
	return s, nil
}

// Close flushes the last pending snapshot and stops the writer.
func (s *Store) Close() {
	s.writer.Stop()
}

func (s *Store) PersistStats() (written, failed uint64) {
	return s.writer.Written(), s.writer.Failed()
}

// Revision counts committed mutations since Open.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Tasks: s.tasks, Categories: s.categories}.Clone()
}

// commitLocked hands a copy of the current state to the writer. Callers hold mu.
func (s *Store) commitLocked(op string) {
	s.revision++
	if err := s.writer.Submit(s.snapshotLocked()); err != nil {
		s.logger.Warn("task store snapshot dropped", "op", op, "err", err)
		return
	}
	s.logger.Debug("task store mutated", "op", op)
}

// touch refreshes UpdatedAt, keeping it strictly increasing.
func (s *Store) touch(t *model.Task) {
	ts := s.now()
	if !ts.After(t.UpdatedAt) {
		ts = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = ts
}

func (s *Store) taskIndexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func (s *Store) categoryIndexLocked(id string) int {
	return slices.IndexFunc(s.categories, func(c model.Category) bool { return c.ID == id })
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil
	s.categories = nil
	s.commitLocked("reset")
}

// Import replaces the whole state.
func (s *Store) Import(snap Snapshot) {
	snap = snap.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = snap.Tasks
	s.categories = snap.Categories
	s.commitLocked("import")
}
