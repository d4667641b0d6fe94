package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/views"
)

// visibleTasks applies the status filter, search and category filter in that
// order.
func (m Model) visibleTasks() []model.Task {
	if m.tasks == nil {
		return nil
	}
	tasks := m.tasks.FilterTasks(m.Filter, m.Search)
	if m.CategoryFilter == "" {
		return tasks
	}
	out := tasks[:0]
	for _, t := range tasks {
		if t.CategoryID == m.CategoryFilter {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) allTasks() []model.Task {
	if m.tasks == nil {
		return nil
	}
	return m.tasks.Tasks()
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.tasks == nil || m.SelectedTaskID == "" {
		return model.Task{}, false
	}
	return m.tasks.Task(m.SelectedTaskID)
}

func (m Model) categoryIndex() map[string]model.Category {
	out := make(map[string]model.Category)
	if m.tasks == nil {
		return out
	}
	for _, c := range m.tasks.Categories() {
		out[c.ID] = c
	}
	return out
}

func (m Model) taskRows(tasks []model.Task) []views.TaskRowData {
	cats := m.categoryIndex()
	rows := make([]views.TaskRowData, 0, len(tasks))
	for _, t := range tasks {
		cat := cats[t.CategoryID]
		rows = append(rows, views.TaskRowData{
			ID:            t.ID,
			Title:         t.Title,
			Category:      cat.Name,
			CategoryColor: cat.Color,
			Progress:      t.Progress(),
			Done:          t.CompletedSubTasks(),
			Total:         len(t.SubTasks),
			Completed:     t.IsCompleted(),
		})
	}
	return rows
}

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	tasks := m.visibleTasks()
	switch msg.String() {
	case "j", "down":
		if m.TaskCursor < len(tasks)-1 {
			m.TaskCursor++
		}
	case "k", "up":
		if m.TaskCursor > 0 {
			m.TaskCursor--
		}
	case "enter":
		if len(tasks) == 0 {
			return m
		}
		m.SelectedTaskID = tasks[m.TaskCursor].ID
		m.DetailCursor = 0
		m.CurrentView = ViewDetail
		return m
	case "f":
		m.Filter = m.Filter.Next()
		m.TaskCursor = 0
		m.Status = StatusBar{Text: fmt.Sprintf("filter: %s", m.Filter)}
		return m
	case "d":
		if len(tasks) == 0 {
			return m
		}
		victim := tasks[m.TaskCursor]
		m.tasks.DeleteTask(victim.ID)
		if m.SelectedTaskID == victim.ID {
			m.SelectedTaskID = ""
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted task: %s", victim.Title)}
		return m
	case "esc":
		m.Search = ""
		m.CategoryFilter = ""
		m.TaskCursor = 0
		m.Status = StatusBar{Text: "filters cleared"}
		return m
	default:
		return m
	}
	if len(tasks) > 0 {
		m.SelectedTaskID = tasks[m.TaskCursor].ID
	}
	return m
}

func (m Model) renderTasksView() string {
	tasks := m.visibleTasks()
	data := views.TasksPanelData{
		Filter: string(m.Filter),
		Search: m.Search,
		Rows:   m.taskRows(tasks),
	}
	if m.CategoryFilter != "" {
		if c, ok := m.tasks.Category(m.CategoryFilter); ok {
			data.Category = c.Name
		}
	}
	if len(tasks) > 0 && m.TaskCursor < len(tasks) {
		data.SelectedID = tasks[m.TaskCursor].ID
	}
	return views.RenderTasksPanel(data)
}

// detailItems is the cursor order in the detail view: sub-tasks, then steps.
func detailItems(t model.Task) int {
	n := len(t.SubTasks)
	if t.Metadata.ProgressTracker != nil {
		n += len(t.Metadata.ProgressTracker.Steps)
	}
	return n
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		m.CurrentView = ViewTasks
		return m, nil
	}
	n := detailItems(task)
	switch msg.String() {
	case "j", "down":
		if m.DetailCursor < n-1 {
			m.DetailCursor++
		}
	case "k", "up":
		if m.DetailCursor > 0 {
			m.DetailCursor--
		}
	case " ", "space":
		m = m.toggleDetailItem(task)
	case "x":
		if m.DetailCursor < len(task.SubTasks) {
			st := task.SubTasks[m.DetailCursor]
			m.tasks.DeleteSubTask(task.ID, st.ID)
			m.Status = StatusBar{Text: "sub-task deleted"}
		}
	case "esc", "backspace":
		m.CurrentView = ViewTasks
	default:
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) toggleDetailItem(task model.Task) Model {
	if m.DetailCursor < len(task.SubTasks) {
		st := task.SubTasks[m.DetailCursor]
		m.tasks.ToggleSubTask(task.ID, st.ID)
		m.Status = StatusBar{Text: fmt.Sprintf("toggled sub-task: %s", subTaskLabel(st))}
		return m
	}
	tracker := task.Metadata.ProgressTracker
	idx := m.DetailCursor - len(task.SubTasks)
	if tracker == nil || idx < 0 || idx >= len(tracker.Steps) {
		return m
	}
	step := tracker.Steps[idx]
	m.tasks.UpdateProgressStep(task.ID, step.ID, !step.Completed)
	m.Status = StatusBar{Text: fmt.Sprintf("step %q marked %s", step.Title, doneLabel(!step.Completed))}
	return m
}

func (m Model) renderDetailView() string {
	task, ok := m.selectedTask()
	if !ok {
		return "task not found"
	}
	data := views.DetailPanelData{
		Title:        task.Title,
		ProgressView: m.taskProgress.ViewAs(task.Progress() / 100),
		Cursor:       m.DetailCursor,
	}
	for _, st := range task.SubTasks {
		data.SubTasks = append(data.SubTasks, views.SubTaskLineData{
			ID:        st.ID,
			Heading:   st.Heading,
			Text:      st.Description,
			Timeline:  st.Timeline,
			Completed: st.Completed,
		})
	}
	if tracker := task.Metadata.ProgressTracker; tracker != nil {
		today := m.today()
		for _, step := range tracker.Steps {
			line := views.StepLineData{
				ID:        step.ID,
				Title:     step.Title,
				DueDate:   step.DueDate,
				Completed: step.Completed,
				Current:   step.ID == tracker.CurrentStep,
			}
			if due, ok := model.ParseDueDate(step.DueDate, m.loc); ok && !step.Completed {
				line.Due = model.FormatDaysLeft(model.DaysLeft(due, today))
			}
			data.Steps = append(data.Steps, line)
		}
	}
	return views.RenderDetailPanel(data)
}

func (m Model) detailMarkdownFor(task model.Task) string {
	category := ""
	if c, ok := m.tasks.Category(task.CategoryID); ok {
		category = c.Name
	}
	return views.TaskDetailMarkdown(views.TaskDetailFor(task, category, m.loc))
}

func subTaskLabel(st model.SubTask) string {
	if strings.TrimSpace(st.Heading) != "" {
		return st.Heading
	}
	return st.Description
}

func doneLabel(done bool) string {
	if done {
		return "done"
	}
	return "not done"
}
