package update

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/commands"
	"github.com/sandeepkv93/tasktrack/internal/datematch"
	"github.com/sandeepkv93/tasktrack/internal/export"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/store"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw, m.loc)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	if m.tasks == nil {
		m.Status = StatusBar{Text: "task store unavailable", IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	return m
}

// paletteHandlers close over m; they run synchronously inside
// executePaletteCommand, so navigation changes land on the returned model.
func (m *Model) paletteHandlers() commands.Handlers {
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			cat, ok := m.resolveCategory(a.Category)
			if !ok {
				return commands.Result{}, invalidArg("unknown category %q", a.Category)
			}
			meta := a.Fields.ApplyMetadata(model.TaskMetadata{})
			if err := model.ValidateTaskDraft(a.Title, cat.ID, meta); err != nil {
				return commands.Result{}, invalidArg("%v", err)
			}
			draft := store.TaskDraft{Title: a.Title, CategoryID: cat.ID, Metadata: meta}
			if a.Fields.Description != nil {
				draft.Description = *a.Fields.Description
			}
			id := m.tasks.AddTask(draft)
			m.SelectedTaskID = id
			m.DetailCursor = 0
			m.CurrentView = ViewDetail
			return commands.Result{Message: fmt.Sprintf("added task: %s", a.Title)}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.TaskID)
			if err != nil {
				return commands.Result{}, err
			}
			patch := store.TaskPatch{Title: a.Fields.Title, Description: a.Fields.Description}
			title, categoryID := task.Title, task.CategoryID
			if a.Fields.Title != nil {
				title = *a.Fields.Title
			}
			if a.Fields.Category != nil {
				cat, ok := m.resolveCategory(*a.Fields.Category)
				if !ok {
					return commands.Result{}, invalidArg("unknown category %q", *a.Fields.Category)
				}
				categoryID = cat.ID
				patch.CategoryID = &categoryID
			}
			meta := a.Fields.ApplyMetadata(task.Metadata)
			if err := model.ValidateTaskDraft(title, categoryID, meta); err != nil {
				return commands.Result{}, invalidArg("%v", err)
			}
			patch.Metadata = &meta
			m.tasks.UpdateTask(task.ID, patch)
			m.SelectedTaskID = task.ID
			m.CurrentView = ViewDetail
			return commands.Result{Message: fmt.Sprintf("updated task: %s", title)}, nil
		},
		Category: func(a commands.CategoryArgs) (commands.Result, error) {
			color := a.Color
			if color == "" {
				color = model.PickColor(len(m.tasks.Categories()))
			}
			m.tasks.AddCategory(a.Name, color)
			m.CurrentView = ViewCategories
			return commands.Result{Message: fmt.Sprintf("added category: %s", a.Name)}, nil
		},
		Sub: func(a commands.SubArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.TaskID)
			if err != nil {
				return commands.Result{}, err
			}
			m.tasks.AddSubTask(task.ID, store.SubTaskDraft{
				Heading:      a.Heading,
				Description:  a.Description,
				BulletPoints: a.BulletPoints,
				Timeline:     a.Timeline,
			})
			m.SelectedTaskID = task.ID
			m.CurrentView = ViewDetail
			return commands.Result{Message: fmt.Sprintf("added sub-task to %s", task.Title)}, nil
		},
		SubEdit: func(a commands.SubEditArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.TaskID)
			if err != nil {
				return commands.Result{}, err
			}
			idx := resolveIndex(a.SubTaskID, len(task.SubTasks), func(i int) string { return task.SubTasks[i].ID })
			if idx < 0 {
				return commands.Result{}, invalidArg("unknown sub-task %q", a.SubTaskID)
			}
			st := task.SubTasks[idx]
			if a.Heading != nil {
				st.Heading = *a.Heading
			}
			if a.Description != nil {
				st.Description = *a.Description
			}
			if err := st.ValidateDraft(); err != nil {
				return commands.Result{}, invalidArg("%v", err)
			}
			m.tasks.UpdateSubTask(task.ID, st.ID, store.SubTaskPatch{
				Heading:      a.Heading,
				Description:  a.Description,
				BulletPoints: a.BulletPoints,
				Timeline:     a.Timeline,
			})
			m.SelectedTaskID = task.ID
			m.CurrentView = ViewDetail
			return commands.Result{Message: fmt.Sprintf("updated sub-task: %s", subTaskLabel(st))}, nil
		},
		Rename: func(a commands.RenameArgs) (commands.Result, error) {
			cat, ok := m.resolveCategory(a.Category)
			if !ok {
				return commands.Result{}, invalidArg("unknown category %q", a.Category)
			}
			m.tasks.UpdateCategory(cat.ID, store.CategoryPatch{Name: a.Name, Color: a.Color})
			m.CurrentView = ViewCategories
			name := cat.Name
			if a.Name != nil {
				name = *a.Name
			}
			return commands.Result{Message: fmt.Sprintf("updated category: %s", name)}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.Search = strings.TrimSpace(a.Query)
			m.TaskCursor = 0
			m.CurrentView = ViewTasks
			if m.Search == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search %q: %d match(es)", m.Search, len(m.visibleTasks()))}, nil
		},
		Day: func(a commands.DayArgs) (commands.Result, error) {
			m.Calendar.Selected = a.Date
			m.CurrentView = ViewCalendar
			n := len(datematch.TasksOnDate(m.tasks.Tasks(), a.Date))
			return commands.Result{Message: fmt.Sprintf("%d task(s) on %s", n, a.Date.Format("2006-01-02"))}, nil
		},
		Export: func(a commands.ExportArgs) (commands.Result, error) {
			tasks := m.tasks.Tasks()
			cats := m.tasks.Categories()
			if a.Clipboard {
				if err := m.clipboard(tasks, cats); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("copied %d task(s) to clipboard", len(tasks))}, nil
			}
			target := a.Path
			if target == "" {
				target = m.exportDir
			}
			path := export.ResolvePath(target, m.now())
			if err := export.WriteFile(path, tasks, cats); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported %d task(s) to %s", len(tasks), path)}, nil
		},
		Toggle: func(a commands.ToggleArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.TaskID)
			if err != nil {
				return commands.Result{}, err
			}
			idx := resolveIndex(a.SubTaskID, len(task.SubTasks), func(i int) string { return task.SubTasks[i].ID })
			if idx < 0 {
				return commands.Result{}, invalidArg("unknown sub-task %q", a.SubTaskID)
			}
			st := task.SubTasks[idx]
			m.tasks.ToggleSubTask(task.ID, st.ID)
			return commands.Result{Message: fmt.Sprintf("toggled sub-task: %s", subTaskLabel(st))}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.Filter = a.Filter
			m.TaskCursor = 0
			m.CurrentView = ViewTasks
			return commands.Result{Message: fmt.Sprintf("filter: %s", a.Filter)}, nil
		},
		Step: func(a commands.StepArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.TaskID)
			if err != nil {
				return commands.Result{}, err
			}
			tracker := task.Metadata.ProgressTracker
			if tracker == nil {
				return commands.Result{}, invalidArg("task %s has no progress tracker", task.Title)
			}
			idx := resolveIndex(a.StepID, len(tracker.Steps), func(i int) string { return tracker.Steps[i].ID })
			if idx < 0 {
				return commands.Result{}, invalidArg("unknown step %q", a.StepID)
			}
			step := tracker.Steps[idx]
			m.tasks.UpdateProgressStep(task.ID, step.ID, a.Completed)
			return commands.Result{Message: fmt.Sprintf("step %q marked %s", step.Title, doneLabel(a.Completed))}, nil
		},
		StepAdd: func(a commands.StepAddArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.TaskID)
			if err != nil {
				return commands.Result{}, err
			}
			m.tasks.AddProgressStep(task.ID, model.ProgressStep{
				Title:       a.Title,
				Description: a.Description,
				DueDate:     a.DueDate,
			})
			m.SelectedTaskID = task.ID
			m.CurrentView = ViewDetail
			return commands.Result{Message: fmt.Sprintf("added step %q to %s", a.Title, task.Title)}, nil
		},
	}
}

// resolveCategory matches an exact id first, then a case-insensitive name.
func (m Model) resolveCategory(ref string) (model.Category, bool) {
	if c, ok := m.tasks.Category(ref); ok {
		return c, true
	}
	for _, c := range m.tasks.Categories() {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return model.Category{}, false
}

// resolveTask accepts "." for the selected task, an exact id, or a unique id
// prefix.
func (m Model) resolveTask(ref string) (model.Task, error) {
	if ref == "." {
		if t, ok := m.selectedTask(); ok {
			return t, nil
		}
		return model.Task{}, invalidArg("no task selected")
	}
	if t, ok := m.tasks.Task(ref); ok {
		return t, nil
	}
	var match model.Task
	found := 0
	for _, t := range m.tasks.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			match = t
			found++
		}
	}
	switch found {
	case 0:
		return model.Task{}, invalidArg("unknown task %q", ref)
	case 1:
		return match, nil
	default:
		return model.Task{}, invalidArg("task id %q is ambiguous", ref)
	}
}

// resolveIndex maps an id or a 1-based position to an index, or -1.
func resolveIndex(ref string, n int, idAt func(int) string) int {
	for i := 0; i < n; i++ {
		if idAt(i) == ref {
			return i
		}
	}
	if pos, err := strconv.Atoi(ref); err == nil && pos >= 1 && pos <= n {
		return pos - 1
	}
	return -1
}

func invalidArg(format string, a ...any) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf(format, a...)}
}
