package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/datematch"
	"github.com/sandeepkv93/tasktrack/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.Calendar.Selected = m.Calendar.Selected.AddDate(0, 0, -1)
	case "l", "right":
		m.Calendar.Selected = m.Calendar.Selected.AddDate(0, 0, 1)
	case "k", "up":
		m.Calendar.Selected = m.Calendar.Selected.AddDate(0, 0, -7)
	case "j", "down":
		m.Calendar.Selected = m.Calendar.Selected.AddDate(0, 0, 7)
	case "[":
		m.Calendar.Selected = datematch.ShiftMonth(m.Calendar.Selected, -1)
	case "]":
		m.Calendar.Selected = datematch.ShiftMonth(m.Calendar.Selected, 1)
	case "t":
		m.Calendar.Selected = m.today()
	}
	return m
}

func (m Model) renderCalendarView() string {
	selected := m.Calendar.Selected
	today := m.today()
	grid := datematch.MonthGrid(selected)

	all := m.allTasks()
	marks := datematch.DaysWithTasks(all, grid)
	cells := make([]views.CalendarCellData, len(grid))
	for i, day := range grid {
		cells[i] = views.CalendarCellData{
			Day:      day.Day(),
			InMonth:  datematch.InMonth(day, selected),
			HasTasks: marks[i],
			Selected: datematch.SameDay(day, selected),
			Today:    datematch.SameDay(day, today),
		}
	}
	return views.RenderCalendarPanel(views.CalendarPanelData{
		Month:        selected.Format("January 2006"),
		Cells:        cells,
		SelectedDate: selected.Format("Monday, 2 January 2006"),
		Tasks:        m.taskRows(datematch.TasksOnDate(all, selected)),
	})
}
