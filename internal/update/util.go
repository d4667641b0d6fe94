package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/views"
)

func waitForPersistFailureCmd(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return PersistFailedMsg{Err: err}
	}
}

// syncBubbleData copies store state into the bubble components after every
// update.
func (m *Model) syncBubbleData() {
	tasks := m.visibleTasks()
	if m.TaskCursor >= len(tasks) {
		m.TaskCursor = max(len(tasks)-1, 0)
	}

	rows := m.categoryRows()
	if m.CategoryCursor >= len(rows) {
		m.CategoryCursor = max(len(rows)-1, 0)
	}
	m.categoryTable.SetRows(categoryTableRows(rows))
	if len(rows) > 0 {
		m.categoryTable.SetCursor(m.CategoryCursor)
	}

	if m.Palette.Active {
		m.commandInput.Focus()
	}

	task, ok := m.selectedTask()
	if !ok {
		m.detailMarkdown = ""
		m.detailViewport.SetContent("")
		return
	}
	if n := detailItems(task); m.DetailCursor >= n {
		m.DetailCursor = max(n-1, 0)
	}
	if m.CurrentView == ViewDetail {
		md := m.detailMarkdownFor(task)
		dark := m.darkMode()
		if md != m.detailMarkdown || dark != m.detailDark {
			m.detailMarkdown = md
			m.detailDark = dark
			m.detailViewport.SetContent(views.RenderMarkdown(md, dark))
		}
	}
}
