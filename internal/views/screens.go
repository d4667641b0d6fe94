package views

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

type TaskRowData struct {
	ID            string
	Title         string
	Category      string
	CategoryColor string
	Progress      float64
	Done          int
	Total         int
	Completed     bool
}

type TasksPanelData struct {
	Filter     string
	Search     string
	Category   string
	Rows       []TaskRowData
	SelectedID string
}

type CategoryRowData struct {
	ID        string
	Name      string
	Color     string
	TaskCount int
	Progress  float64
}

type CategoriesPanelData struct {
	TableView string
	Selected  *CategoryRowData
}

type CalendarCellData struct {
	Day      int
	InMonth  bool
	HasTasks bool
	Selected bool
	Today    bool
}

type CalendarPanelData struct {
	Month        string
	Cells        []CalendarCellData
	SelectedDate string
	Tasks        []TaskRowData
}

type SubTaskLineData struct {
	ID        string
	Heading   string
	Text      string
	Timeline  string
	Completed bool
}

type StepLineData struct {
	ID        string
	Title     string
	DueDate   string
	Due       string
	Completed bool
	Current   bool
}

type DetailPanelData struct {
	Title        string
	ProgressView string
	SubTasks     []SubTaskLineData
	Steps        []StepLineData
	Cursor       int
}

type TaskDetailData struct {
	Title           string
	Description     string
	Category        string
	Progress        float64
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	Cost            string
	Timeline        string
	DocumentsNeeded []string
	Contingencies   string
	ProgressNote    string
	CreatedAt       string
	UpdatedAt       string
}

type SettingsPanelData struct {
	DarkMode        bool
	Notifications   bool
	ShowBackendDemo bool
	IsLoggedIn      bool
	ProfileName     string
	ProfileEmail    string
	BackendSummary  string
	BackendTasks    []string
	SavesWritten    uint64
	SavesFailed     uint64
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString(fmt.Sprintf("filter: %s", data.Filter))
	if data.Search != "" {
		b.WriteString(fmt.Sprintf(" | search: %q", data.Search))
	}
	if data.Category != "" {
		b.WriteString(fmt.Sprintf(" | category: %s", data.Category))
	}
	b.WriteString("\nactions: [j/k]move [enter]open [f]filter [d]delete [esc]clear\n")
	if len(data.Rows) == 0 {
		b.WriteString(mutedStyle.Render("(no tasks)"))
		return b.String()
	}
	for _, row := range data.Rows {
		line := fmt.Sprintf("%s %s %s %d/%d",
			ColorSwatch(row.CategoryColor),
			row.Title,
			ProgressText(row.Progress, 10),
			row.Done,
			row.Total,
		)
		if row.Completed {
			line = doneStyle.Render(line)
		}
		b.WriteString(cursorPrefix(row.ID == data.SelectedID) + line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCategoriesPanel(data CategoriesPanelData) string {
	var b strings.Builder
	b.WriteString("categories:\n")
	b.WriteString("actions: [j/k]move [enter]show tasks [d]delete with tasks\n")
	b.WriteString(data.TableView)
	if data.Selected != nil {
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s %s\n", ColorSwatch(data.Selected.Color), data.Selected.Name))
		b.WriteString(fmt.Sprintf("tasks: %d\n", data.Selected.TaskCount))
		b.WriteString("progress: " + ProgressText(data.Selected.Progress, 20))
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar: " + data.Month + "\n")
	b.WriteString("actions: [h/l]day [j/k]week [[/]]month [t]today\n")
	b.WriteString(" Su  Mo  Tu  We  Th  Fr  Sa\n")
	for i, cell := range data.Cells {
		b.WriteString(renderCell(cell))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	b.WriteString(fmt.Sprintf("\n%s:\n", data.SelectedDate))
	if len(data.Tasks) == 0 {
		b.WriteString(mutedStyle.Render("  (no tasks on this day)"))
		return b.String()
	}
	for _, row := range data.Tasks {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", ColorSwatch(row.CategoryColor), row.Title, percent(row.Progress)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderCell(cell CalendarCellData) string {
	marker := " "
	if cell.HasTasks {
		marker = "•"
	}
	text := fmt.Sprintf("%3d%s", cell.Day, marker)
	switch {
	case cell.Selected:
		return cursorStyle.Render(text)
	case !cell.InMonth:
		return mutedStyle.Render(text)
	case cell.Today:
		return headerStyle.Render(text)
	default:
		return text
	}
}

func RenderDetailPanel(data DetailPanelData) string {
	var b strings.Builder
	b.WriteString("task: " + data.Title + "\n")
	b.WriteString("progress: " + data.ProgressView + "\n")
	b.WriteString("actions: [j/k]move [space]toggle [x]delete [esc]back\n\n")
	b.WriteString("sub-tasks:\n")
	if len(data.SubTasks) == 0 {
		b.WriteString(mutedStyle.Render("  (none)") + "\n")
	}
	for i, st := range data.SubTasks {
		text := st.Text
		if st.Heading != "" {
			text = st.Heading
			if st.Text != "" {
				text += ": " + st.Text
			}
		}
		line := fmt.Sprintf("%s %s", checkbox(st.Completed), text)
		if st.Timeline != "" {
			line += mutedStyle.Render(" (" + st.Timeline + ")")
		}
		b.WriteString(cursorPrefix(i == data.Cursor) + line + "\n")
	}
	if len(data.Steps) > 0 {
		b.WriteString("\nprogress tracker:\n")
		offset := len(data.SubTasks)
		for i, step := range data.Steps {
			line := fmt.Sprintf("%d. %s %s", i+1, checkbox(step.Completed), step.Title)
			if step.Due != "" {
				line += mutedStyle.Render(" - " + step.Due)
			}
			if step.Current {
				line += " <- current"
			}
			b.WriteString(cursorPrefix(offset+i == data.Cursor) + line + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func TaskDetailFor(t model.Task, category string, loc *time.Location) TaskDetailData {
	if loc == nil {
		loc = time.Local
	}
	data := TaskDetailData{
		Title:           t.Title,
		Description:     t.Description,
		Category:        category,
		Progress:        t.Progress(),
		Cost:            t.Metadata.Cost,
		Timeline:        t.Metadata.Timeline,
		DocumentsNeeded: t.Metadata.DocumentsNeeded,
		Contingencies:   t.Metadata.Contingencies,
		ProgressNote:    t.Metadata.ProgressNote,
		CreatedAt:       t.CreatedAt.In(loc).Format("2006-01-02"),
		UpdatedAt:       t.UpdatedAt.In(loc).Format("2006-01-02 15:04"),
	}
	if c := t.Metadata.Contact; c != nil {
		data.ContactName = c.Name
		data.ContactEmail = c.Email
		data.ContactPhone = c.Phone
	}
	return data
}

// TaskDetailMarkdown lays out the metadata section of a task.
func TaskDetailMarkdown(data TaskDetailData) string {
	var b strings.Builder
	b.WriteString("# " + data.Title + "\n\n")
	if data.Description != "" {
		b.WriteString(data.Description + "\n\n")
	}
	if data.Category != "" {
		b.WriteString("**Category:** " + data.Category + "  \n")
	}
	b.WriteString(fmt.Sprintf("**Progress:** %s\n\n", percent(data.Progress)))

	contact := make([]string, 0, 3)
	for _, v := range []string{data.ContactName, data.ContactEmail, data.ContactPhone} {
		if v != "" {
			contact = append(contact, v)
		}
	}
	if len(contact) > 0 {
		b.WriteString("## Contact\n\n" + strings.Join(contact, " · ") + "\n\n")
	}
	if data.Cost != "" {
		b.WriteString("## Cost\n\n" + data.Cost + "\n\n")
	}
	if data.Timeline != "" {
		b.WriteString("## Timeline\n\n" + data.Timeline + "\n\n")
	}
	if len(data.DocumentsNeeded) > 0 {
		b.WriteString("## Documents Needed\n\n")
		for _, doc := range data.DocumentsNeeded {
			b.WriteString("- " + doc + "\n")
		}
		b.WriteString("\n")
	}
	if data.Contingencies != "" {
		b.WriteString("## Contingencies\n\n" + data.Contingencies + "\n\n")
	}
	if data.ProgressNote != "" {
		b.WriteString("## Progress Notes\n\n" + data.ProgressNote + "\n\n")
	}
	b.WriteString(fmt.Sprintf("_Created %s · Updated %s_\n", data.CreatedAt, data.UpdatedAt))
	return b.String()
}

func RenderSettingsPanel(data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString("actions: [d]dark mode [n]notifications [b]backend demo [l]login/logout\n\n")
	b.WriteString(fmt.Sprintf("dark mode:      %s\n", onOff(data.DarkMode)))
	b.WriteString(fmt.Sprintf("notifications:  %s\n", onOff(data.Notifications)))
	b.WriteString(fmt.Sprintf("backend demo:   %s\n", onOff(data.ShowBackendDemo)))
	if data.IsLoggedIn {
		b.WriteString(fmt.Sprintf("account:        %s <%s>\n", data.ProfileName, data.ProfileEmail))
	} else {
		b.WriteString("account:        signed out\n")
	}
	b.WriteString(fmt.Sprintf("saves:          %d written, %d failed\n", data.SavesWritten, data.SavesFailed))
	if data.ShowBackendDemo {
		b.WriteString("\nbackend:\n" + data.BackendSummary + "\n")
		for _, line := range data.BackendTasks {
			b.WriteString("- " + line + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func cursorPrefix(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func percent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}
