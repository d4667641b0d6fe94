package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/tasktrack/internal/export"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/sample"
	"github.com/sandeepkv93/tasktrack/internal/settings"
	"github.com/sandeepkv93/tasktrack/internal/store"
)

type View string

const (
	ViewTasks      View = "Tasks"
	ViewCategories View = "Categories"
	ViewCalendar   View = "Calendar"
	ViewDetail     View = "Detail"
	ViewSettings   View = "Settings"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks      string
	Categories string
	Calendar   string
	Settings   string
	Help       string
	Quit       string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// CalendarState.Selected is always midnight in the model's location; the
// visible month is the month of Selected.
type CalendarState struct {
	Selected time.Time
}

// Deps are the long-lived services the model drives.
type Deps struct {
	Tasks    *store.Store
	Settings *settings.Store
	Backend  *sample.Backend
	// Failures reports snapshots that could not be persisted.
	Failures  <-chan error
	Now       func() time.Time
	Location  *time.Location
	ExportDir string
	Clipboard func([]model.Task, []model.Category) error
}

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Filter         model.StatusFilter
	Search         string
	CategoryFilter string
	TaskCursor     int
	CategoryCursor int
	DetailCursor   int
	Calendar       CalendarState
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	tasks     *store.Store
	settings  *settings.Store
	backend   *sample.Backend
	failures  <-chan error
	now       func() time.Time
	loc       *time.Location
	exportDir string
	clipboard func([]model.Task, []model.Category) error

	commandInput   textinput.Model
	taskProgress   progress.Model
	helpModel      help.Model
	detailViewport viewport.Model
	categoryTable  table.Model
	detailMarkdown string
	detailDark     bool
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type PersistFailedMsg struct {
	Err error
}

func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Clipboard == nil {
		deps.Clipboard = export.CopyToClipboard
	}
	m := Model{
		CurrentView: ViewTasks,
		Filter:      model.FilterAll,
		Keys: GlobalKeyMap{
			Tasks:      "1",
			Categories: "2",
			Calendar:   "3",
			Settings:   "4",
			Help:       "?",
			Quit:       "q",
		},
		tasks:     deps.Tasks,
		settings:  deps.Settings,
		backend:   deps.Backend,
		failures:  deps.Failures,
		now:       deps.Now,
		loc:       deps.Location,
		exportDir: deps.ExportDir,
		clipboard: deps.Clipboard,
	}
	m.Calendar.Selected = m.today()
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add <title> cat:<category>"
	m.commandInput.CharLimit = 256

	m.taskProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	m.helpModel = help.New()
	m.detailViewport = viewport.New(56, 14)

	cols := []table.Column{
		{Title: "", Width: 2},
		{Title: "Category", Width: 22},
		{Title: "Tasks", Width: 6},
		{Title: "Progress", Width: 9},
	}
	m.categoryTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(8))
}

func (m Model) today() time.Time {
	y, mo, d := m.now().In(m.loc).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, m.loc)
}

func (m Model) darkMode() bool {
	if m.settings == nil {
		return false
	}
	return m.settings.State().DarkMode
}
