package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/views"
)

func (m Model) Init() tea.Cmd {
	return waitForPersistFailureCmd(m.failures)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Categories:
			m.CurrentView = ViewCategories
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			return m, nil
		case m.Keys.Settings:
			m.CurrentView = ViewSettings
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTasks:
			return m.handleTasksKey(typed), nil
		case ViewDetail:
			return m.handleDetailKey(typed)
		case ViewCategories:
			return m.handleCategoriesKey(typed), nil
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		case ViewSettings:
			return m.handleSettingsKey(typed), nil
		}
	case tea.WindowSizeMsg:
		m.detailViewport.Width = max(typed.Width/2-6, 20)
		m.detailViewport.Height = max(typed.Height-12, 5)
		m.detailMarkdown = ""
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case PersistFailedMsg:
		m.LastError = typed.Err
		m.Status = StatusBar{Text: fmt.Sprintf("save failed: %v", typed.Err), IsError: true}
		return m, waitForPersistFailureCmd(m.failures)
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
	case ViewDetail:
		leftPane = m.renderDetailView()
		rightPane = m.detailViewport.View()
	case ViewCategories:
		leftPane = m.renderCategoriesView()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
	case ViewSettings:
		leftPane = m.renderSettingsView()
	}
	rightPane = strings.TrimSpace(strings.Join([]string{
		rightPane,
		views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()),
		m.renderHelpIfVisible(),
	}, "\n"))

	selected := "-"
	if t, ok := m.selectedTask(); ok {
		selected = t.Title
	}
	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("tasktrack | view: %s | selected: %s", m.CurrentView, selected),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Footer: fmt.Sprintf("keys: %s tasks | %s categories | %s calendar | %s settings | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Categories, m.Keys.Calendar, m.Keys.Settings, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewCategories, ViewCalendar, ViewDetail, ViewSettings:
		return true
	default:
		return false
	}
}
