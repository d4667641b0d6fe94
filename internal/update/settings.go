package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktrack/internal/sample"
	"github.com/sandeepkv93/tasktrack/internal/views"
)

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	if m.settings == nil {
		return m
	}
	switch msg.String() {
	case "d":
		m.settings.ToggleDarkMode()
		m.Status = StatusBar{Text: fmt.Sprintf("dark mode %s", onOff(m.settings.State().DarkMode))}
	case "n":
		m.settings.ToggleNotifications()
		m.Status = StatusBar{Text: fmt.Sprintf("notifications %s", onOff(m.settings.State().Notifications))}
	case "b":
		m.settings.ToggleBackendDemo()
		m.Status = StatusBar{Text: fmt.Sprintf("backend demo %s", onOff(m.settings.State().ShowBackendDemo))}
	case "l":
		if m.settings.State().IsLoggedIn {
			m.settings.Logout()
			m.Status = StatusBar{Text: "signed out"}
		} else {
			m.settings.Login()
			m.Status = StatusBar{Text: "signed in"}
		}
	}
	return m
}

func (m Model) renderSettingsView() string {
	if m.settings == nil {
		return "settings unavailable"
	}
	state := m.settings.State()
	data := views.SettingsPanelData{
		DarkMode:        state.DarkMode,
		Notifications:   state.Notifications,
		ShowBackendDemo: state.ShowBackendDemo,
		IsLoggedIn:      state.IsLoggedIn,
	}
	if m.tasks != nil {
		data.SavesWritten, data.SavesFailed = m.tasks.PersistStats()
	}
	if state.UserProfile != nil {
		data.ProfileName = state.UserProfile.Name
		data.ProfileEmail = state.UserProfile.Email
	}
	if state.ShowBackendDemo && m.backend != nil {
		list, err := m.backend.ListTasks(sample.ListTasksInput{
			Filter:     m.Filter,
			Search:     m.Search,
			CategoryID: m.CategoryFilter,
		})
		if err != nil {
			data.BackendSummary = "error: " + err.Error()
		} else {
			data.BackendSummary = fmt.Sprintf("mock api: %d of %d task(s), %d categories",
				list.Filtered, list.Total, m.backend.ListCategories().Total)
			for _, t := range list.Tasks {
				data.BackendTasks = append(data.BackendTasks, t.Title)
			}
		}
	}
	return views.RenderSettingsPanel(data)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
