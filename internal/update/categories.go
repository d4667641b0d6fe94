package update

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/views"
)

func (m Model) categoryRows() []views.CategoryRowData {
	if m.tasks == nil {
		return nil
	}
	cats := m.tasks.Categories()
	rows := make([]views.CategoryRowData, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, views.CategoryRowData{
			ID:        c.ID,
			Name:      c.Name,
			Color:     c.Color,
			TaskCount: len(m.tasks.GetTasksByCategory(c.ID)),
			Progress:  m.tasks.GetCategoryProgress(c.ID),
		})
	}
	return rows
}

func (m Model) handleCategoriesKey(msg tea.KeyMsg) Model {
	rows := m.categoryRows()
	switch msg.String() {
	case "j", "down":
		if m.CategoryCursor < len(rows)-1 {
			m.CategoryCursor++
		}
	case "k", "up":
		if m.CategoryCursor > 0 {
			m.CategoryCursor--
		}
	case "enter":
		if len(rows) == 0 {
			return m
		}
		m.CategoryFilter = rows[m.CategoryCursor].ID
		m.TaskCursor = 0
		m.CurrentView = ViewTasks
		m.Status = StatusBar{Text: fmt.Sprintf("showing category: %s", rows[m.CategoryCursor].Name)}
	case "d":
		if len(rows) == 0 {
			return m
		}
		victim := rows[m.CategoryCursor]
		m.tasks.DeleteCategory(victim.ID)
		if m.CategoryFilter == victim.ID {
			m.CategoryFilter = ""
		}
		if _, ok := m.selectedTask(); !ok {
			m.SelectedTaskID = ""
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted category %s and %d task(s)", victim.Name, victim.TaskCount)}
	}
	return m
}

func categoryTableRows(rows []views.CategoryRowData) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{
			views.ColorSwatch(r.Color),
			r.Name,
			fmt.Sprintf("%d", r.TaskCount),
			fmt.Sprintf("%d%%", int(math.Round(r.Progress))),
		})
	}
	return out
}

func (m Model) renderCategoriesView() string {
	rows := m.categoryRows()
	data := views.CategoriesPanelData{TableView: m.categoryTable.View()}
	if m.CategoryCursor < len(rows) {
		sel := rows[m.CategoryCursor]
		data.Selected = &sel
	}
	return views.RenderCategoriesPanel(data)
}
