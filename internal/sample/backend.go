package sample

import (
	"strings"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

type ListTasksInput struct {
	Filter     model.StatusFilter
	Search     string
	CategoryID string
}

type TaskList struct {
	Tasks    []model.Task `json:"tasks"`
	Total    int          `json:"total"`
	Filtered int          `json:"filtered"`
}

type CategoryList struct {
	Categories []model.Category `json:"categories"`
	Total      int              `json:"total"`
}

// Backend serves fixed demo data. It is never the source of truth for the
// task store.
type Backend struct {
	now func() time.Time
}

func NewBackend(now func() time.Time) *Backend {
	if now == nil {
		now = time.Now
	}
	return &Backend{now: now}
}

func (b *Backend) tasks() []model.Task {
	now := b.now()
	return []model.Task{{
		ID:          "sample-task-1",
		Title:       "Sample Task from Backend",
		Description: "This task is fetched from the backend API",
		CategoryID:  "cat-1",
		SubTasks: []model.SubTask{
			{ID: "subtask-1", Description: "First subtask", Completed: true},
			{ID: "subtask-2", Description: "Second subtask", Timeline: "2 days"},
		},
		Metadata: model.TaskMetadata{
			Contact:  &model.Contact{Name: "API Service", Email: "api@example.com"},
			Timeline: "1 week",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

// ListTasks filters by status, then by title/description search, then by
// category. Total counts the unfiltered set.
func (b *Backend) ListTasks(in ListTasksInput) (TaskList, error) {
	if in.Filter == "" {
		in.Filter = model.FilterAll
	}
	if !in.Filter.IsValid() {
		return TaskList{}, model.ErrInvalidFilter
	}
	all := b.tasks()
	search := strings.ToLower(in.Search)
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if !in.Filter.Match(t) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if in.CategoryID != "" && t.CategoryID != in.CategoryID {
			continue
		}
		out = append(out, t)
	}
	return TaskList{Tasks: out, Total: len(all), Filtered: len(out)}, nil
}

func (b *Backend) ListCategories() CategoryList {
	cats := seedCategories(b.now())
	return CategoryList{Categories: cats, Total: len(cats)}
}
