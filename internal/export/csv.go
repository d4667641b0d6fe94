package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

var Header = []string{
	"ID",
	"Title",
	"Description",
	"Category",
	"Progress",
	"Sub-Tasks",
	"Contact",
	"Cost",
	"Timeline",
	"Documents Needed",
	"Contingencies",
	"Progress Tracker",
	"Created At",
	"Updated At",
}

const dateLayout = "2006-01-02"

// CSV renders one row per task after the header. Rows are separated by a
// bare newline and there is no trailing newline.
func CSV(tasks []model.Task, categories []model.Category) string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	lines := make([]string, 0, len(tasks)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, t := range tasks {
		lines = append(lines, strings.Join(row(t, names), ","))
	}
	return strings.Join(lines, "\n")
}

func Write(w io.Writer, tasks []model.Task, categories []model.Category) error {
	if _, err := io.WriteString(w, CSV(tasks, categories)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func row(t model.Task, categoryNames map[string]string) []string {
	m := t.Metadata
	category := ""
	if name, ok := categoryNames[t.CategoryID]; ok {
		category = quote(name)
	}
	return []string{
		t.ID,
		quote(t.Title),
		quote(t.Description),
		category,
		fmt.Sprintf("%d%%", int(math.Round(t.Progress()))),
		quote(subTasksText(t.SubTasks)),
		quote(contactText(m.Contact)),
		optional(m.Cost),
		optional(m.Timeline),
		quote(strings.Join(m.DocumentsNeeded, "; ")),
		optional(m.Contingencies),
		optional(ProgressTrackerText(m)),
		t.CreatedAt.UTC().Format(dateLayout),
		t.UpdatedAt.UTC().Format(dateLayout),
	}
}

func subTasksText(subs []model.SubTask) string {
	parts := make([]string, 0, len(subs))
	for _, st := range subs {
		parts = append(parts, st.Description+" "+statusLabel(st.Completed))
	}
	return strings.Join(parts, "; ")
}

func contactText(c *model.Contact) string {
	if c == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, v := range []string{c.Name, c.Email, c.Phone} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " - ")
}

// ProgressTrackerText prefers the legacy free-text note, falling back to a
// summary of the structured steps.
func ProgressTrackerText(m model.TaskMetadata) string {
	if m.ProgressNote != "" {
		return m.ProgressNote
	}
	if m.ProgressTracker == nil {
		return ""
	}
	parts := make([]string, 0, len(m.ProgressTracker.Steps))
	for _, step := range m.ProgressTracker.Steps {
		parts = append(parts, step.Title+" "+statusLabel(step.Completed))
	}
	return strings.Join(parts, "; ")
}

func statusLabel(completed bool) string {
	if completed {
		return "(Completed)"
	}
	return "(Pending)"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func optional(s string) string {
	if s == "" {
		return ""
	}
	return quote(s)
}

// FileName is tasks_export_YYYYMMDD.csv for the UTC date of now.
func FileName(now time.Time) string {
	return "tasks_export_" + now.UTC().Format("20060102") + ".csv"
}
