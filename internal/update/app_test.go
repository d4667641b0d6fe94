package update

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/tasktrack/internal/datematch"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/sample"
	"github.com/sandeepkv93/tasktrack/internal/settings"
	"github.com/sandeepkv93/tasktrack/internal/store"
)

var testNow = time.Date(2023, 6, 15, 10, 0, 0, 0, time.UTC)

type memTasks struct {
	mu   sync.Mutex
	snap store.Snapshot
}

func (m *memTasks) Load(context.Context) (store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *memTasks) Save(_ context.Context, s store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s
	return nil
}

type memSettings struct {
	mu    sync.Mutex
	state *settings.State
}

func (m *memSettings) Load(context.Context) (*settings.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *memSettings) Save(_ context.Context, s *settings.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	return nil
}

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	logger := log.New(io.Discard)
	n := 0
	newID := func() string {
		n++
		return "id-" + string(rune('a'+n-1))
	}
	tasks, err := store.Open(testContext(t), &memTasks{}, store.Options{
		Now:    func() time.Time { return testNow },
		NewID:  newID,
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(tasks.Close)
	tasks.Import(sample.InitialSnapshot(testNow, newID))

	prefs, err := settings.Open(testContext(t), &memSettings{}, settings.Options{Logger: logger})
	if err != nil {
		t.Fatalf("open settings: %v", err)
	}
	t.Cleanup(prefs.Close)

	m := NewModel(Deps{
		Tasks:     tasks,
		Settings:  prefs,
		Backend:   sample.NewBackend(func() time.Time { return testNow }),
		Now:       func() time.Time { return testNow },
		Location:  time.UTC,
		ExportDir: t.TempDir(),
	})
	return m, tasks
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runCommand(t *testing.T, m Model, line string) Model {
	t.Helper()
	m = press(t, m, "/")
	if !m.Palette.Active {
		t.Fatalf("expected palette to open")
	}
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	m = updated.(Model)
	return press(t, m, "enter")
}

func TestViewSwitchingKeys(t *testing.T) {
	m, _ := newTestModel(t)
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected Tasks initially, got %s", m.CurrentView)
	}
	cases := []struct {
		key  string
		want View
	}{
		{"2", ViewCategories},
		{"3", ViewCalendar},
		{"4", ViewSettings},
		{"1", ViewTasks},
	}
	for _, tc := range cases {
		m = press(t, m, tc.key)
		if m.CurrentView != tc.want {
			t.Fatalf("key %s: expected %s, got %s", tc.key, tc.want, m.CurrentView)
		}
	}
}

func TestHelpToggleAndQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "?")
	if !m.HelpVisible {
		t.Fatalf("expected help visible")
	}
	if !strings.Contains(m.View(), "cycle status filter") {
		t.Fatalf("expected tasks bindings in help view")
	}
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)
	if !m.Quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
}

func TestTasksViewFilterCycleAndOpenDetail(t *testing.T) {
	m, tasks := newTestModel(t)
	if got := len(m.visibleTasks()); got != 3 {
		t.Fatalf("expected 3 visible tasks, got %d", got)
	}

	m = press(t, m, "f")
	if m.Filter != model.FilterInProgress {
		t.Fatalf("expected inProgress filter, got %s", m.Filter)
	}
	m = press(t, m, "f", "f")
	if m.Filter != model.FilterAll {
		t.Fatalf("expected filter to wrap to all, got %s", m.Filter)
	}

	m = press(t, m, "j", "enter")
	if m.CurrentView != ViewDetail {
		t.Fatalf("expected detail view, got %s", m.CurrentView)
	}
	want := tasks.Tasks()[1].ID
	if m.SelectedTaskID != want {
		t.Fatalf("expected selected %s, got %s", want, m.SelectedTaskID)
	}
	if !strings.Contains(m.View(), "sub-tasks:") {
		t.Fatalf("expected detail panel in view")
	}
	m = press(t, m, "esc")
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected back to tasks, got %s", m.CurrentView)
	}
}

func TestDetailToggleSubTask(t *testing.T) {
	m, tasks := newTestModel(t)
	m = press(t, m, "enter")
	task, ok := tasks.Task(m.SelectedTaskID)
	if !ok {
		t.Fatalf("selected task missing")
	}
	before := task.SubTasks[0].Completed

	m = press(t, m, "space")
	task, _ = tasks.Task(m.SelectedTaskID)
	if task.SubTasks[0].Completed == before {
		t.Fatalf("expected first sub-task to flip")
	}
	if !strings.HasPrefix(m.Status.Text, "toggled sub-task") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
}

func TestDetailDeleteSubTask(t *testing.T) {
	m, tasks := newTestModel(t)
	m = press(t, m, "enter")
	task, _ := tasks.Task(m.SelectedTaskID)
	n := len(task.SubTasks)

	m = press(t, m, "x")
	task, _ = tasks.Task(m.SelectedTaskID)
	if len(task.SubTasks) != n-1 {
		t.Fatalf("expected %d sub-tasks, got %d", n-1, len(task.SubTasks))
	}
}

func TestDeleteTaskFromList(t *testing.T) {
	m, tasks := newTestModel(t)
	m = press(t, m, "d")
	if got := len(tasks.Tasks()); got != 2 {
		t.Fatalf("expected 2 tasks, got %d", got)
	}
	if !strings.HasPrefix(m.Status.Text, "deleted task") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
}

func TestCategoriesEnterFiltersTasks(t *testing.T) {
	m, tasks := newTestModel(t)
	m = press(t, m, "2", "j", "j", "enter")
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %s", m.CurrentView)
	}
	cat := tasks.Categories()[2]
	if m.CategoryFilter != cat.ID {
		t.Fatalf("expected category filter %s, got %s", cat.ID, m.CategoryFilter)
	}
	for _, task := range m.visibleTasks() {
		if task.CategoryID != cat.ID {
			t.Fatalf("task %s leaked through category filter", task.ID)
		}
	}
	m = press(t, m, "esc")
	if m.CategoryFilter != "" {
		t.Fatalf("expected esc to clear category filter")
	}
}

func TestCategoryDeleteCascades(t *testing.T) {
	m, tasks := newTestModel(t)
	cat := tasks.Categories()[0]
	owned := len(tasks.GetTasksByCategory(cat.ID))
	total := len(tasks.Tasks())

	m = press(t, m, "2", "d")
	if _, ok := tasks.Category(cat.ID); ok {
		t.Fatalf("expected category removed")
	}
	if got := len(tasks.Tasks()); got != total-owned {
		t.Fatalf("expected %d tasks, got %d", total-owned, got)
	}
	if !strings.Contains(m.View(), "categories:") {
		t.Fatalf("expected categories panel")
	}
}

func TestCalendarNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "3")
	start := m.Calendar.Selected
	if !start.Equal(time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected calendar to start on today, got %s", start)
	}

	m = press(t, m, "l", "j")
	if want := start.AddDate(0, 0, 8); !m.Calendar.Selected.Equal(want) {
		t.Fatalf("expected %s, got %s", want, m.Calendar.Selected)
	}
	m = press(t, m, "t", "]")
	if m.Calendar.Selected.Month() != time.July || m.Calendar.Selected.Day() != 15 {
		t.Fatalf("expected July 15, got %s", m.Calendar.Selected)
	}
	if !strings.Contains(m.View(), "July 2023") {
		t.Fatalf("expected month title in view")
	}
}

func TestSettingsKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "4", "d", "b")
	state := m.settings.State()
	if !state.DarkMode || !state.ShowBackendDemo {
		t.Fatalf("expected dark mode and backend demo on, got %+v", state)
	}
	if !strings.Contains(m.View(), "mock api:") {
		t.Fatalf("expected backend demo summary in settings view")
	}
	if !strings.Contains(m.View(), "written, 0 failed") {
		t.Fatalf("expected task save counts in settings view")
	}
	m = press(t, m, "l")
	if m.settings.State().IsLoggedIn {
		t.Fatalf("expected logout")
	}
	m = press(t, m, "l")
	if !m.settings.State().IsLoggedIn {
		t.Fatalf("expected login")
	}
}

func TestPaletteAddTaskAndSubTask(t *testing.T) {
	m, tasks := newTestModel(t)
	m = runCommand(t, m, "add Renew passport cat:finance")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	if m.CurrentView != ViewDetail {
		t.Fatalf("expected detail view after add, got %s", m.CurrentView)
	}
	task, ok := tasks.Task(m.SelectedTaskID)
	if !ok || task.Title != "Renew passport" {
		t.Fatalf("expected new task selected, got %+v", task)
	}

	m = runCommand(t, m, "sub . Book appointment")
	task, _ = tasks.Task(m.SelectedTaskID)
	if len(task.SubTasks) != 1 || task.SubTasks[0].Description != "Book appointment" {
		t.Fatalf("expected one sub-task, got %+v", task.SubTasks)
	}

	m = runCommand(t, m, "toggle . 1")
	task, _ = tasks.Task(m.SelectedTaskID)
	if !task.SubTasks[0].Completed {
		t.Fatalf("expected sub-task completed")
	}
	if task.Progress() != 100 {
		t.Fatalf("expected 100%% progress, got %v", task.Progress())
	}
}

func TestPaletteAddWithMetadataShowsOnTimelineDay(t *testing.T) {
	m, tasks := newTestModel(t)
	m = runCommand(t, m, "add Renew passport timeline:5/6/27 cost:$130 contact:Passport Office email:help@passport.example docs:Old passport; Photos cat:Finance")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	task, ok := tasks.Task(m.SelectedTaskID)
	if !ok || task.Title != "Renew passport" || task.CategoryID != "cat-3" {
		t.Fatalf("unexpected task %+v", task)
	}
	meta := task.Metadata
	if meta.Timeline != "5/6/27" || meta.Cost != "$130" || len(meta.DocumentsNeeded) != 2 {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if meta.Contact == nil || meta.Contact.Name != "Passport Office" || meta.Contact.Email != "help@passport.example" {
		t.Fatalf("unexpected contact %+v", meta.Contact)
	}

	onDay := datematch.TasksOnDate(tasks.Tasks(), time.Date(2027, 6, 5, 0, 0, 0, 0, time.UTC))
	if len(onDay) != 1 || onDay[0].ID != task.ID {
		t.Fatalf("expected the new task on 2027-06-05, got %d task(s)", len(onDay))
	}

	m = runCommand(t, m, "add Bad contact email:not-an-email cat:Finance")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "invalid email") {
		t.Fatalf("expected email validation error, got %+v", m.Status)
	}
}

func TestPaletteEditTaskKeepsOtherMetadata(t *testing.T) {
	m, tasks := newTestModel(t)
	before, _ := tasks.Task("task-3")
	m = runCommand(t, m, "edit task-3 title:Open company account timeline:1/7/27 cat:Compliance")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	after, _ := tasks.Task("task-3")
	if after.Title != "Open company account" || after.CategoryID != "cat-2" || after.Metadata.Timeline != "1/7/27" {
		t.Fatalf("unexpected task after edit %+v", after)
	}
	if after.Description != before.Description || after.Metadata.Cost != before.Metadata.Cost {
		t.Fatalf("unnamed fields changed: %+v", after)
	}
	if after.Metadata.Contact == nil || after.Metadata.Contact.Name != before.Metadata.Contact.Name {
		t.Fatalf("contact lost: %+v", after.Metadata.Contact)
	}
	if (before.Metadata.ProgressTracker == nil) != (after.Metadata.ProgressTracker == nil) {
		t.Fatalf("progress tracker changed")
	}
	if len(after.SubTasks) != len(before.SubTasks) {
		t.Fatalf("sub-tasks changed")
	}

	m = runCommand(t, m, "edit task-3 cat:Nowhere")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown category") {
		t.Fatalf("expected unknown category error, got %+v", m.Status)
	}
}

func TestPaletteSubTaskFieldsAndEdit(t *testing.T) {
	m, tasks := newTestModel(t)
	m = runCommand(t, m, "sub task-1 heading:Paperwork timeline:10/6/23 bullets:• MOA; • AOA")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	task, _ := tasks.Task("task-1")
	st := task.SubTasks[len(task.SubTasks)-1]
	if st.Heading != "Paperwork" || st.Description != "" || st.Timeline != "10/6/23" {
		t.Fatalf("unexpected sub-task %+v", st)
	}
	if len(st.BulletPoints) != 2 || st.BulletPoints[0] != "MOA" || st.BulletPoints[1] != "AOA" {
		t.Fatalf("unexpected bullets %q", st.BulletPoints)
	}

	m = runCommand(t, m, "subedit task-1 "+st.ID+" desc:File with registrar bullets:")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	task, _ = tasks.Task("task-1")
	edited := task.SubTasks[len(task.SubTasks)-1]
	if edited.Description != "File with registrar" || edited.Heading != "Paperwork" || len(edited.BulletPoints) != 0 {
		t.Fatalf("unexpected edited sub-task %+v", edited)
	}

	m = runCommand(t, m, "subedit task-1 "+st.ID+" heading: desc:")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "heading or a description") {
		t.Fatalf("expected empty sub-task error, got %+v", m.Status)
	}
}

func TestPaletteRenameCategoryAndAddStep(t *testing.T) {
	m, tasks := newTestModel(t)
	m = runCommand(t, m, "rename business setup name:Company color:#123456")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	cat, _ := tasks.Category("cat-1")
	if cat.Name != "Company" || cat.Color != "#123456" {
		t.Fatalf("unexpected category %+v", cat)
	}

	m = runCommand(t, m, "stepadd task-2 Collect certificate due:2023-07-01")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	task, _ := tasks.Task("task-2")
	tracker := task.Metadata.ProgressTracker
	if tracker == nil {
		t.Fatal("expected a progress tracker")
	}
	last := tracker.Steps[len(tracker.Steps)-1]
	if last.Title != "Collect certificate" || last.DueDate != "2023-07-01" || last.ID == "" {
		t.Fatalf("unexpected step %+v", last)
	}

	m = runCommand(t, m, "step task-2 "+last.ID)
	task, _ = tasks.Task("task-2")
	if !task.Metadata.ProgressTracker.Steps[len(tracker.Steps)-1].Completed {
		t.Fatalf("expected new step completed, status %+v", m.Status)
	}
}

func TestPaletteErrors(t *testing.T) {
	m, _ := newTestModel(t)
	cases := []struct {
		line string
		want string
	}{
		{"add Thing cat:nope", "unknown category"},
		{"nonsense", "unknown_command"},
		{"toggle zzz 1", "unknown task"},
		{"day 2023-02-30", "invalid_argument"},
	}
	for _, tc := range cases {
		m = runCommand(t, m, tc.line)
		if !m.Status.IsError || !strings.Contains(m.Status.Text, tc.want) {
			t.Fatalf("%q: expected error containing %q, got %+v", tc.line, tc.want, m.Status)
		}
		if m.Palette.Active {
			t.Fatalf("expected palette closed after %q", tc.line)
		}
	}
}

func TestPaletteSearchFilterAndDay(t *testing.T) {
	m, _ := newTestModel(t)
	m = runCommand(t, m, "search tax")
	if m.Search != "tax" || m.CurrentView != ViewTasks {
		t.Fatalf("expected search applied, got %q in %s", m.Search, m.CurrentView)
	}
	m = runCommand(t, m, "filter completed")
	if m.Filter != model.FilterCompleted {
		t.Fatalf("expected completed filter, got %s", m.Filter)
	}
	m = runCommand(t, m, "day 2023-06-01")
	if m.CurrentView != ViewCalendar || m.Calendar.Selected.Day() != 1 {
		t.Fatalf("expected calendar on June 1, got %s %s", m.CurrentView, m.Calendar.Selected)
	}
}

func TestPaletteCategoryPicksColor(t *testing.T) {
	m, tasks := newTestModel(t)
	m = runCommand(t, m, "category Travel")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	cats := tasks.Categories()
	last := cats[len(cats)-1]
	if last.Name != "Travel" || last.Color != model.PickColor(3) {
		t.Fatalf("unexpected category %+v", last)
	}
}

func TestPaletteExport(t *testing.T) {
	m, _ := newTestModel(t)
	m = runCommand(t, m, "export")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	path := filepath.Join(m.exportDir, "tasks_export_20230615.csv")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "ID,Title,") {
		t.Fatalf("unexpected export header: %q", string(data)[:20])
	}

	var copied string
	m.clipboard = func(ts []model.Task, _ []model.Category) error {
		copied = ts[0].Title
		return nil
	}
	m = runCommand(t, m, "export clip")
	if copied == "" || !strings.Contains(m.Status.Text, "clipboard") {
		t.Fatalf("expected clipboard export, status %q", m.Status.Text)
	}
}

func TestPersistFailureSurfacesInStatus(t *testing.T) {
	m, _ := newTestModel(t)
	ch := make(chan error, 1)
	m.failures = ch
	ch <- errors.New("disk full")

	msg := m.Init()()
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "disk full") {
		t.Fatalf("expected persist failure in status, got %+v", m.Status)
	}
	if cmd == nil {
		t.Fatalf("expected model to keep listening for failures")
	}
}

func TestStatusMessages(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "hello"})
	m = updated.(Model)
	if !strings.Contains(m.View(), "status: hello") {
		t.Fatalf("expected status line")
	}
	updated, _ = m.Update(AppErrorMsg{Err: errors.New("boom")})
	m = updated.(Model)
	if !strings.Contains(m.View(), "status: error: boom") {
		t.Fatalf("expected error status line")
	}
	updated, _ = m.Update(ClearStatusMsg{})
	m = updated.(Model)
	if m.Status.Text != "" {
		t.Fatalf("expected status cleared")
	}
	updated, _ = m.Update(SwitchViewMsg{View: ViewCalendar})
	m = updated.(Model)
	if m.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view")
	}
}
