package store

import (
	"slices"
	"strings"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

type TaskDraft struct {
	Title       string
	Description string
	CategoryID  string
	SubTasks    []model.SubTask
	Metadata    model.TaskMetadata
}

// TaskPatch replaces whichever fields are non-nil. SubTasks and Metadata are
// replaced wholesale; build partial metadata from the current value first.
type TaskPatch struct {
	Title       *string
	Description *string
	CategoryID  *string
	SubTasks    *[]model.SubTask
	Metadata    *model.TaskMetadata
}

func (s *Store) AddTask(draft TaskDraft) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	t := model.Task{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		CategoryID:  draft.CategoryID,
		SubTasks:    s.withSubTaskIDs(draft.SubTasks),
		Metadata:    s.withStepIDs(draft.Metadata.Clone()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, t)
	s.commitLocked("add_task")
	return t.ID
}

func (s *Store) UpdateTask(id string, patch TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.taskIndexLocked(id)
	if idx < 0 {
		return
	}
	t := &s.tasks[idx]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		t.CategoryID = *patch.CategoryID
	}
	if patch.SubTasks != nil {
		t.SubTasks = s.withSubTaskIDs(*patch.SubTasks)
	}
	if patch.Metadata != nil {
		t.Metadata = s.withStepIDs(patch.Metadata.Clone())
	}
	s.touch(t)
	s.commitLocked("update_task")
}

func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.taskIndexLocked(id)
	if idx < 0 {
		return
	}
	s.tasks = slices.Delete(s.tasks, idx, idx+1)
	s.commitLocked("delete_task")
}

// AddProgressStep appends a step, creating the tracker when the task has
// none, and returns the step id. CurrentStep moves to the first incomplete
// step.
func (s *Store) AddProgressStep(taskID string, step model.ProgressStep) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.taskIndexLocked(taskID)
	if idx < 0 {
		return ""
	}
	t := &s.tasks[idx]
	if t.Metadata.ProgressTracker == nil {
		t.Metadata.ProgressTracker = &model.ProgressTracker{}
	}
	tracker := t.Metadata.ProgressTracker
	if step.ID == "" {
		step.ID = s.newID()
	}
	tracker.Steps = append(tracker.Steps, step)
	if next, ok := tracker.FirstIncomplete(); ok {
		tracker.CurrentStep = next
	}
	s.touch(t)
	s.commitLocked("add_progress_step")
	return step.ID
}

// UpdateProgressStep sets one step and moves CurrentStep to the first
// incomplete step. CurrentStep is left alone once every step is complete.
func (s *Store) UpdateProgressStep(taskID, stepID string, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.taskIndexLocked(taskID)
	if idx < 0 {
		return
	}
	t := &s.tasks[idx]
	tracker := t.Metadata.ProgressTracker
	if tracker == nil {
		return
	}
	stepIdx := slices.IndexFunc(tracker.Steps, func(st model.ProgressStep) bool { return st.ID == stepID })
	if stepIdx < 0 {
		return
	}
	tracker.Steps[stepIdx].Completed = completed
	if next, ok := tracker.FirstIncomplete(); ok {
		tracker.CurrentStep = next
	}
	s.touch(t)
	s.commitLocked("update_progress_step")
}

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.taskIndexLocked(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

func (s *Store) GetTasksByCategory(categoryID string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasksInCategoryLocked(categoryID))
}

// GetTaskProgress is 0 for unknown tasks.
func (s *Store) GetTaskProgress(taskID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.taskIndexLocked(taskID)
	if idx < 0 {
		return 0
	}
	return s.tasks[idx].Progress()
}

// SearchTasks matches title, description, sub-task descriptions and contact
// name, case-insensitively. The query is used as given, whitespace included;
// only an empty query returns every task.
func (s *Store) SearchTasks(query string) []model.Task {
	return s.FilterTasks(model.FilterAll, query)
}

func (s *Store) FilterTasks(filter model.StatusFilter, query string) []model.Task {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !filter.Match(t) || !matchesQuery(t, q) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

func matchesQuery(t model.Task, q string) bool {
	if q == "" {
		return true
	}
	if containsFold(t.Title, q) || containsFold(t.Description, q) {
		return true
	}
	for _, st := range t.SubTasks {
		if containsFold(st.Description, q) {
			return true
		}
	}
	if c := t.Metadata.Contact; c != nil && containsFold(c.Name, q) {
		return true
	}
	return false
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) withSubTaskIDs(in []model.SubTask) []model.SubTask {
	if in == nil {
		return []model.SubTask{}
	}
	out := make([]model.SubTask, len(in))
	for i, st := range in {
		st = st.Clone()
		if st.ID == "" {
			st.ID = s.newID()
		}
		out[i] = st
	}
	return out
}

func (s *Store) withStepIDs(m model.TaskMetadata) model.TaskMetadata {
	if m.ProgressTracker == nil {
		return m
	}
	for i := range m.ProgressTracker.Steps {
		if m.ProgressTracker.Steps[i].ID == "" {
			m.ProgressTracker.Steps[i].ID = s.newID()
		}
	}
	return m
}
