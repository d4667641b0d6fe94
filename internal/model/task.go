package model

import (
	"slices"
	"time"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubTask struct {
	ID           string   `json:"id"`
	Heading      string   `json:"heading,omitempty"`
	Description  string   `json:"description"`
	BulletPoints []string `json:"bulletPoints,omitempty"`
	Timeline     string   `json:"timeline,omitempty"`
	Completed    bool     `json:"completed"`
}

func (s SubTask) Clone() SubTask {
	s.BulletPoints = slices.Clone(s.BulletPoints)
	return s
}

type ProgressStep struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Completed   bool   `json:"completed"`
}

type ProgressTracker struct {
	Steps       []ProgressStep `json:"steps"`
	CurrentStep string         `json:"currentStep,omitempty"`
}

func (p *ProgressTracker) Clone() *ProgressTracker {
	if p == nil {
		return nil
	}
	out := *p
	out.Steps = slices.Clone(p.Steps)
	return &out
}

// FirstIncomplete returns the id of the first step that is not completed.
func (p *ProgressTracker) FirstIncomplete() (string, bool) {
	if p == nil {
		return "", false
	}
	for _, step := range p.Steps {
		if !step.Completed {
			return step.ID, true
		}
	}
	return "", false
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (c *Contact) IsZero() bool {
	return c == nil || (c.Name == "" && c.Email == "" && c.Phone == "")
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CategoryID  string       `json:"categoryId"`
	SubTasks    []SubTask    `json:"subTasks"`
	Metadata    TaskMetadata `json:"metadata"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t Task) Clone() Task {
	if t.SubTasks != nil {
		subs := make([]SubTask, len(t.SubTasks))
		for i, st := range t.SubTasks {
			subs[i] = st.Clone()
		}
		t.SubTasks = subs
	}
	t.Metadata = t.Metadata.Clone()
	return t
}

func (t Task) CompletedSubTasks() int {
	n := 0
	for _, st := range t.SubTasks {
		if st.Completed {
			n++
		}
	}
	return n
}

// IsCompleted reports whether the task has sub-tasks and all of them are done.
func (t Task) IsCompleted() bool {
	return len(t.SubTasks) > 0 && t.CompletedSubTasks() == len(t.SubTasks)
}

// Progress is the completed sub-task ratio as a percentage in [0, 100].
func (t Task) Progress() float64 {
	if len(t.SubTasks) == 0 {
		return 0
	}
	return 100 * float64(t.CompletedSubTasks()) / float64(len(t.SubTasks))
}

func (t Task) SubTaskIndex(id string) int {
	return slices.IndexFunc(t.SubTasks, func(st SubTask) bool { return st.ID == id })
}

// CategoryProgress aggregates sub-task completion across tasks. Tasks are not
// weighted equally: a task with ten sub-tasks counts ten times as much as one
// with a single sub-task.
func CategoryProgress(tasks []Task) float64 {
	total, done := 0, 0
	for _, t := range tasks {
		total += len(t.SubTasks)
		done += t.CompletedSubTasks()
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(done) / float64(total)
}
