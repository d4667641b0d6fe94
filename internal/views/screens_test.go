package views

import (
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

func TestProgressTextClampsAndRounds(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, "[----------] 0%"},
		{33.33, "[###-------] 33%"},
		{100, "[##########] 100%"},
		{140, "[##########] 100%"},
		{-5, "[----------] 0%"},
	}
	for _, tc := range cases {
		if got := ProgressText(tc.pct, 10); got != tc.want {
			t.Fatalf("ProgressText(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestTaskDetailMarkdownSkipsEmptySections(t *testing.T) {
	created := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	task := model.Task{
		Title:     "Pay rent",
		CreatedAt: created,
		UpdatedAt: created,
		SubTasks:  []model.SubTask{{Description: "transfer", Completed: true}},
		Metadata: model.TaskMetadata{
			Contact:         &model.Contact{Name: "Landlord", Phone: "555"},
			DocumentsNeeded: []string{"Lease"},
		},
	}
	md := TaskDetailMarkdown(TaskDetailFor(task, "Home", time.UTC))

	for _, want := range []string{"# Pay rent", "**Category:** Home", "**Progress:** 100%", "Landlord · 555", "- Lease", "_Created 2026-01-06"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
	for _, absent := range []string{"## Cost", "## Timeline", "## Contingencies", "## Progress Notes"} {
		if strings.Contains(md, absent) {
			t.Fatalf("did not expect %q in markdown:\n%s", absent, md)
		}
	}
}

func TestRenderTasksPanelMarksSelection(t *testing.T) {
	out := RenderTasksPanel(TasksPanelData{
		Filter:     "all",
		Search:     "rent",
		SelectedID: "b",
		Rows: []TaskRowData{
			{ID: "a", Title: "First", Total: 2},
			{ID: "b", Title: "Second", Done: 1, Total: 1, Progress: 100, Completed: true},
		},
	})
	if !strings.Contains(out, `search: "rent"`) {
		t.Fatalf("expected search in header:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "> ") || !strings.Contains(last, "Second") {
		t.Fatalf("expected selected marker on Second, got %q", last)
	}
}

func TestRenderTasksPanelEmpty(t *testing.T) {
	out := RenderTasksPanel(TasksPanelData{Filter: "completed"})
	if !strings.Contains(out, "(no tasks)") {
		t.Fatalf("expected empty marker:\n%s", out)
	}
}

func TestRenderMarkdownBlankInput(t *testing.T) {
	if got := RenderMarkdown("   ", true); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
	if got := RenderMarkdown("# Title", false); !strings.Contains(got, "Title") {
		t.Fatalf("expected rendered title, got %q", got)
	}
}

func TestRenderSettingsPanelShowsSaveCounts(t *testing.T) {
	out := RenderSettingsPanel(SettingsPanelData{IsLoggedIn: true, ProfileName: "Jane", ProfileEmail: "jane@example.com", SavesWritten: 4, SavesFailed: 1})
	for _, want := range []string{"account:        Jane <jane@example.com>", "saves:          4 written, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}
