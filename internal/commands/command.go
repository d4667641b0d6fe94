package commands

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeCategory Type = "category"
	TypeSub      Type = "sub"
	TypeSearch   Type = "search"
	TypeDay      Type = "day"
	TypeExport   Type = "export"
	TypeToggle   Type = "toggle"
	TypeFilter   Type = "filter"
	TypeStep     Type = "step"
	TypeEdit     Type = "edit"
	TypeSubEdit  Type = "subedit"
	TypeRename   Type = "rename"
	TypeStepAdd  Type = "stepadd"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, a ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, a...)}
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// AddArgs.Category is a category name or id; the handler resolves it.
// Fields carries the optional desc: and metadata fields.
type AddArgs struct {
	Title    string
	Category string
	Fields   TaskFields
}

type EditArgs struct {
	TaskID string
	Fields TaskFields
}

type CategoryArgs struct {
	Name  string
	Color string
}

type SubArgs struct {
	TaskID       string
	Heading      string
	Description  string
	Timeline     string
	BulletPoints []string
}

// SubEditArgs fields are nil when not given.
type SubEditArgs struct {
	TaskID       string
	SubTaskID    string
	Heading      *string
	Description  *string
	Timeline     *string
	BulletPoints *[]string
}

// RenameArgs.Category is a category name or id.
type RenameArgs struct {
	Category string
	Name     *string
	Color    *string
}

type SearchArgs struct {
	Query string
}

type DayArgs struct {
	Date time.Time
}

type ExportArgs struct {
	Path      string
	Clipboard bool
}

type ToggleArgs struct {
	TaskID    string
	SubTaskID string
}

type FilterArgs struct {
	Filter model.StatusFilter
}

type StepArgs struct {
	TaskID    string
	StepID    string
	Completed bool
}

type StepAddArgs struct {
	TaskID      string
	Title       string
	Description string
	DueDate     string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Category *CategoryArgs
	Sub      *SubArgs
	Search   *SearchArgs
	Day      *DayArgs
	Export   *ExportArgs
	Toggle   *ToggleArgs
	Filter   *FilterArgs
	Step     *StepArgs
	Edit     *EditArgs
	SubEdit  *SubEditArgs
	Rename   *RenameArgs
	StepAdd  *StepAddArgs
}

// Parse reads one palette line. A leading slash is optional. Dates in day
// commands are interpreted in loc.
func Parse(input string, loc *time.Location) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if loc == nil {
		loc = time.Local
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeCategory:
		return parseCategory(input, args)
	case TypeSub:
		return parseSub(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeDay:
		return parseDay(input, args, loc)
	case TypeExport:
		return parseExport(input, args)
	case TypeToggle:
		return parseToggle(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeStep:
		return parseStep(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeSubEdit:
		return parseSubEdit(input, args)
	case TypeRename:
		return parseRename(input, args)
	case TypeStepAdd:
		return parseStepAdd(input, args, loc)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	f := splitFields(args, taskFieldKeys...)
	if f.has("title") {
		return Command{}, invalid("add takes the title as free text, not title:")
	}
	out := AddArgs{Title: f.free, Fields: taskFieldsFrom(f)}
	if out.Fields.Category != nil {
		out.Category = *out.Fields.Category
	}
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	if out.Category == "" {
		return Command{}, invalid("add requires cat:<category>")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("edit requires task id and at least one field")
	}
	f := splitFields(args[1:], taskFieldKeys...)
	if f.free != "" {
		return Command{}, invalid("edit takes key:value fields, got %q", f.free)
	}
	out := EditArgs{TaskID: args[0], Fields: taskFieldsFrom(f)}
	if out.Fields.IsZero() {
		return Command{}, invalid("edit requires at least one field")
	}
	if t := out.Fields.Title; t != nil && strings.TrimSpace(*t) == "" {
		return Command{}, invalid("title cannot be empty")
	}
	if c := out.Fields.Category; c != nil && strings.TrimSpace(*c) == "" {
		return Command{}, invalid("cat cannot be empty")
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &out}, nil
}

func parseCategory(raw string, args []string) (Command, error) {
	out := CategoryArgs{}
	nameParts := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), "color:") {
			out.Color = strings.TrimSpace(arg[len("color:"):])
			continue
		}
		nameParts = append(nameParts, arg)
	}
	out.Name = strings.TrimSpace(strings.Join(nameParts, " "))
	if err := model.ValidateCategoryName(out.Name); err != nil {
		return Command{}, invalid("category requires a name")
	}
	if out.Color != "" && !hexColorPattern.MatchString(out.Color) {
		return Command{}, invalid("color must be #rgb or #rrggbb, got %q", out.Color)
	}
	return Command{Type: TypeCategory, Raw: raw, Category: &out}, nil
}

func parseSub(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("sub requires task id and description")
	}
	f := splitFields(args[1:], subTaskFieldKeys...)
	out := SubArgs{TaskID: args[0], Description: f.free}
	if d := f.get("desc"); d != nil {
		out.Description = strings.TrimSpace(strings.Join([]string{out.Description, *d}, " "))
	}
	overlay(&out.Heading, f.get("heading"))
	overlay(&out.Timeline, f.get("timeline"))
	if v := f.get("bullets"); v != nil {
		out.BulletPoints = bulletList(*v)
	}
	draft := model.SubTask{Heading: out.Heading, Description: out.Description}
	if err := draft.ValidateDraft(); err != nil {
		return Command{}, invalid("sub requires a description or heading:")
	}
	return Command{Type: TypeSub, Raw: raw, Sub: &out}, nil
}

func parseSubEdit(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, invalid("subedit requires task id, sub-task id and at least one field")
	}
	f := splitFields(args[2:], subTaskFieldKeys...)
	if f.free != "" {
		return Command{}, invalid("subedit takes key:value fields, got %q", f.free)
	}
	out := SubEditArgs{
		TaskID:      args[0],
		SubTaskID:   args[1],
		Heading:     f.get("heading"),
		Description: f.get("desc"),
		Timeline:    f.get("timeline"),
	}
	if v := f.get("bullets"); v != nil {
		bullets := bulletList(*v)
		out.BulletPoints = &bullets
	}
	return Command{Type: TypeSubEdit, Raw: raw, SubEdit: &out}, nil
}

func parseRename(raw string, args []string) (Command, error) {
	f := splitFields(args, "name", "color")
	out := RenameArgs{Category: f.free, Name: f.get("name"), Color: f.get("color")}
	if out.Category == "" {
		return Command{}, invalid("rename requires a category")
	}
	if out.Name == nil && out.Color == nil {
		return Command{}, invalid("rename requires name: or color:")
	}
	if out.Name != nil && model.ValidateCategoryName(*out.Name) != nil {
		return Command{}, invalid("category name cannot be empty")
	}
	if out.Color != nil && !hexColorPattern.MatchString(*out.Color) {
		return Command{}, invalid("color must be #rgb or #rrggbb, got %q", *out.Color)
	}
	return Command{Type: TypeRename, Raw: raw, Rename: &out}, nil
}

func parseDay(raw string, args []string, loc *time.Location) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("day requires a date as YYYY-MM-DD")
	}
	d, err := time.ParseInLocation("2006-01-02", args[0], loc)
	if err != nil {
		return Command{}, invalid("day requires a date as YYYY-MM-DD, got %q", args[0])
	}
	return Command{Type: TypeDay, Raw: raw, Day: &DayArgs{Date: d}}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	out := ExportArgs{}
	pathParts := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.EqualFold(arg, "clip") || strings.EqualFold(arg, "clipboard") {
			out.Clipboard = true
			continue
		}
		pathParts = append(pathParts, arg)
	}
	out.Path = strings.Join(pathParts, " ")
	return Command{Type: TypeExport, Raw: raw, Export: &out}, nil
}

func parseToggle(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("toggle requires task id and sub-task id")
	}
	return Command{Type: TypeToggle, Raw: raw, Toggle: &ToggleArgs{TaskID: args[0], SubTaskID: args[1]}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	f, err := model.ParseStatusFilter(strings.Join(args, " "))
	if err != nil {
		return Command{}, invalid("filter must be all, inProgress or completed")
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}

func parseStep(raw string, args []string) (Command, error) {
	if len(args) < 2 || len(args) > 3 {
		return Command{}, invalid("step requires task id, step id and optional done|undone")
	}
	out := StepArgs{TaskID: args[0], StepID: args[1], Completed: true}
	if len(args) == 3 {
		switch strings.ToLower(args[2]) {
		case "done":
		case "undone":
			out.Completed = false
		default:
			return Command{}, invalid("step state must be done or undone, got %q", args[2])
		}
	}
	return Command{Type: TypeStep, Raw: raw, Step: &out}, nil
}

func parseStepAdd(raw string, args []string, loc *time.Location) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("stepadd requires task id and a step title")
	}
	f := splitFields(args[1:], "due", "desc")
	out := StepAddArgs{TaskID: args[0], Title: f.free}
	if out.Title == "" {
		return Command{}, invalid("stepadd requires a step title")
	}
	overlay(&out.Description, f.get("desc"))
	if due := f.get("due"); due != nil && *due != "" {
		d, err := time.ParseInLocation("2006-01-02", *due, loc)
		if err != nil {
			return Command{}, invalid("due must be YYYY-MM-DD, got %q", *due)
		}
		out.DueDate = d.Format("2006-01-02")
	}
	return Command{Type: TypeStepAdd, Raw: raw, StepAdd: &out}, nil
}
