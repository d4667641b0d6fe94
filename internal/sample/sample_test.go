package sample

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

var fixedNow = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func TestListTasks(t *testing.T) {
	b := NewBackend(func() time.Time { return fixedNow })
	cases := []struct {
		name     string
		in       ListTasksInput
		filtered int
	}{
		{name: "default", in: ListTasksInput{}, filtered: 1},
		{name: "in progress", in: ListTasksInput{Filter: model.FilterInProgress}, filtered: 1},
		{name: "completed", in: ListTasksInput{Filter: model.FilterCompleted}, filtered: 0},
		{name: "search title", in: ListTasksInput{Search: "SAMPLE"}, filtered: 1},
		{name: "search description", in: ListTasksInput{Search: "backend api"}, filtered: 1},
		{name: "search ignores sub-tasks", in: ListTasksInput{Search: "first subtask"}, filtered: 0},
		{name: "category match", in: ListTasksInput{CategoryID: "cat-1"}, filtered: 1},
		{name: "category miss", in: ListTasksInput{CategoryID: "cat-2"}, filtered: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.ListTasks(tc.in)
			if err != nil {
				t.Fatalf("list tasks: %v", err)
			}
			if got.Total != 1 || got.Filtered != tc.filtered || len(got.Tasks) != tc.filtered {
				t.Fatalf("unexpected result: total=%d filtered=%d len=%d", got.Total, got.Filtered, len(got.Tasks))
			}
		})
	}

	if _, err := b.ListTasks(ListTasksInput{Filter: "bogus"}); !errors.Is(err, model.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestListCategories(t *testing.T) {
	got := NewBackend(func() time.Time { return fixedNow }).ListCategories()
	if got.Total != 3 || len(got.Categories) != 3 {
		t.Fatalf("unexpected categories: %+v", got)
	}
	if got.Categories[2].Name != "Finance" || !got.Categories[2].CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected third category: %+v", got.Categories[2])
	}
}

func TestInitialSnapshot(t *testing.T) {
	n := 0
	snap := InitialSnapshot(fixedNow, func() string {
		n++
		return fmt.Sprintf("st-%d", n)
	})
	if len(snap.Categories) != 3 || len(snap.Tasks) != 3 {
		t.Fatalf("unexpected seed size: %d categories, %d tasks", len(snap.Categories), len(snap.Tasks))
	}
	if n != 13 {
		t.Fatalf("expected 13 generated sub-task ids, got %d", n)
	}
	wantProgress := map[string]float64{"task-1": 40, "task-3": 60}
	for _, task := range snap.Tasks {
		if want, ok := wantProgress[task.ID]; ok && task.Progress() != want {
			t.Fatalf("task %s progress = %v, want %v", task.ID, task.Progress(), want)
		}
		if !task.CreatedAt.Equal(fixedNow) || !task.UpdatedAt.Equal(fixedNow) {
			t.Fatalf("task %s has unexpected timestamps", task.ID)
		}
	}
	if snap.Tasks[0].Metadata.ProgressNote == "" {
		t.Fatalf("expected legacy progress note on first task")
	}
}
