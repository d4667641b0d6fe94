package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	flag "github.com/spf13/pflag"

	"github.com/sandeepkv93/tasktrack/internal/app"
	"github.com/sandeepkv93/tasktrack/internal/datematch"
	"github.com/sandeepkv93/tasktrack/internal/export"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/sample"
	"github.com/sandeepkv93/tasktrack/internal/settings"
	"github.com/sandeepkv93/tasktrack/internal/views"
)

var (
	ErrTaskNotFound     = errors.New("cli: task not found")
	ErrAmbiguousTask    = errors.New("cli: task id is ambiguous")
	ErrCategoryNotFound = errors.New("cli: category not found")
	ErrStoreNotEmpty    = errors.New("cli: task store is not empty (use --force)")
	ErrConfirmRequired  = errors.New("cli: reset needs --yes")
)

// commands lists every subcommand; s may be nil when only help is printed.
func commands(s *session) []*Command {
	return []*Command{
		tuiCommand(s),
		listCommand(s),
		showCommand(s),
		calendarCommand(s),
		exportCommand(s),
		seedCommand(s),
		resetCommand(s),
		settingsCommand(s),
		profileCommand(s),
		apiCommand(s),
		configCommand(s),
	}
}

func withApp(ctx context.Context, s *session, fn func(*app.App) error) error {
	a, err := s.open(ctx)
	if err != nil {
		return err
	}
	runErr := fn(a)
	if err := a.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close storage: %w", err)
	}
	return runErr
}

func listCommand(s *session) *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	filter := fs.StringP("filter", "f", "all", "Status filter: all, inProgress, completed")
	search := fs.StringP("search", "s", "", "Match title, description, sub-tasks and contact")
	category := fs.String("category", "", "Category name or id")
	asJSON := fs.Bool("json", false, "Print tasks as JSON")

	return &Command{
		Flags: fs,
		Usage: "list [flags]",
		Short: "List tasks with their progress",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			f, err := model.ParseStatusFilter(*filter)
			if err != nil {
				return err
			}
			return withApp(ctx, s, func(a *app.App) error {
				tasks := a.Tasks.FilterTasks(f, *search)
				if *category != "" {
					cat, ok := findCategory(a.Tasks.Categories(), *category)
					if !ok {
						return fmt.Errorf("%w: %s", ErrCategoryNotFound, *category)
					}
					tasks = filterByCategory(tasks, cat.ID)
				}
				if *asJSON {
					return writeJSON(o, tasks)
				}
				names := categoryNames(a.Tasks.Categories())
				for _, t := range tasks {
					o.Printf("%-38s %4s  %s (%s)\n", t.ID, pct(t.Progress()), t.Title, names[t.CategoryID])
				}
				return nil
			})
		},
	}
}

func showCommand(s *session) *Command {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	raw := fs.Bool("raw", false, "Print markdown without rendering")
	dark := fs.Bool("dark", false, "Render with the dark style")

	return &Command{
		Flags: fs,
		Usage: "show <task-id> [flags]",
		Short: "Show a task's details",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return errors.New("show takes exactly one task id")
			}
			return withApp(ctx, s, func(a *app.App) error {
				task, err := findTask(a.Tasks.Tasks(), args[0])
				if err != nil {
					return err
				}
				category := categoryNames(a.Tasks.Categories())[task.CategoryID]
				md := views.TaskDetailMarkdown(views.TaskDetailFor(task, category, s.loc))
				md += subTaskMarkdown(task)
				if *raw {
					o.Printf("%s", md)
					return nil
				}
				useDark := *dark || a.Settings.State().DarkMode
				o.Println(views.RenderMarkdown(md, useDark))
				return nil
			})
		},
	}
}

func subTaskMarkdown(t model.Task) string {
	var b strings.Builder
	if len(t.SubTasks) > 0 {
		b.WriteString("\n## Sub-Tasks\n\n")
		for _, st := range t.SubTasks {
			mark := " "
			if st.Completed {
				mark = "x"
			}
			text := st.Description
			if st.Heading != "" {
				text = "**" + st.Heading + "** " + text
			}
			b.WriteString(fmt.Sprintf("- [%s] %s\n", mark, strings.TrimSpace(text)))
			for _, bp := range st.BulletPoints {
				b.WriteString("  - " + bp + "\n")
			}
		}
	}
	if tracker := t.Metadata.ProgressTracker; tracker != nil && len(tracker.Steps) > 0 {
		b.WriteString("\n## Progress Tracker\n\n")
		for i, step := range tracker.Steps {
			mark := " "
			if step.Completed {
				mark = "x"
			}
			line := fmt.Sprintf("%d. [%s] %s", i+1, mark, step.Title)
			if step.DueDate != "" {
				line += " (due " + step.DueDate + ")"
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func calendarCommand(s *session) *Command {
	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	month := fs.String("month", "", "Month to list as YYYY-MM (default: current)")
	day := fs.String("day", "", "Single day as YYYY-MM-DD")

	return &Command{
		Flags: fs,
		Usage: "calendar [flags]",
		Short: "List tasks by the days they fall on",
		Long:  "List tasks by day. A task falls on a day when it was created or updated that day, or when a dd/mm/yyyy date in its timelines names it.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			days, err := calendarDays(s, *month, *day)
			if err != nil {
				return err
			}
			return withApp(ctx, s, func(a *app.App) error {
				tasks := a.Tasks.Tasks()
				for _, d := range days {
					hits := datematch.TasksOnDate(tasks, d)
					if len(hits) == 0 && *day == "" {
						continue
					}
					titles := make([]string, 0, len(hits))
					for _, t := range hits {
						titles = append(titles, t.Title)
					}
					o.Printf("%s  %s\n", d.Format("2006-01-02"), strings.Join(titles, "; "))
				}
				return nil
			})
		},
	}
}

func calendarDays(s *session, month, day string) ([]time.Time, error) {
	if day != "" {
		d, err := time.ParseInLocation("2006-01-02", day, s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --day %q: want YYYY-MM-DD", day)
		}
		return []time.Time{d}, nil
	}
	anchor := s.now().In(s.loc)
	if month != "" {
		m, err := time.ParseInLocation("2006-01", month, s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --month %q: want YYYY-MM", month)
		}
		anchor = m
	}
	var out []time.Time
	for _, d := range datematch.MonthGrid(anchor) {
		if datematch.InMonth(d, anchor) {
			out = append(out, d)
		}
	}
	return out, nil
}

func exportCommand(s *session) *Command {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	clip := fs.Bool("clipboard", false, "Copy the CSV to the clipboard instead of writing a file")

	return &Command{
		Flags: fs,
		Usage: "export [path] [flags]",
		Short: "Export all tasks as CSV",
		Long:  "Export all tasks as CSV. Without a path, or with a directory, the file is named tasks_export_YYYYMMDD.csv.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 1 {
				return errors.New("export takes at most one path")
			}
			return withApp(ctx, s, func(a *app.App) error {
				tasks, cats := a.Tasks.Tasks(), a.Tasks.Categories()
				if *clip {
					if err := export.CopyToClipboard(tasks, cats); err != nil {
						return err
					}
					o.Printf("copied %d task(s) to clipboard\n", len(tasks))
					return nil
				}
				target := ""
				if len(args) == 1 {
					target = args[0]
				}
				path := export.ResolvePath(target, s.now())
				if err := export.WriteFile(path, tasks, cats); err != nil {
					return err
				}
				o.Printf("exported %d task(s) to %s\n", len(tasks), path)
				return nil
			})
		},
	}
}

func seedCommand(s *session) *Command {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	force := fs.Bool("force", false, "Replace existing tasks")

	return &Command{
		Flags: fs,
		Usage: "seed [flags]",
		Short: "Load the sample tasks and categories",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return withApp(ctx, s, func(a *app.App) error {
				if !*force && (len(a.Tasks.Tasks()) > 0 || len(a.Tasks.Categories()) > 0) {
					return ErrStoreNotEmpty
				}
				a.Seed(nil)
				o.Printf("seeded %d task(s) in %d categories\n", len(a.Tasks.Tasks()), len(a.Tasks.Categories()))
				return nil
			})
		},
	}
}

func resetCommand(s *session) *Command {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Confirm deleting every task and category")
	all := fs.Bool("all", false, "Also delete settings; the next run starts fresh and reseeds")

	return &Command{
		Flags: fs,
		Usage: "reset --yes [--all]",
		Short: "Delete every task and category",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			if !*yes {
				return ErrConfirmRequired
			}
			return withApp(ctx, s, func(a *app.App) error {
				if *all {
					if err := a.Wipe(ctx); err != nil {
						return err
					}
					o.Println("storage wiped")
					return nil
				}
				a.Tasks.Reset()
				o.Println("task store cleared")
				return nil
			})
		},
	}
}

func settingsCommand(s *session) *Command {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	dark := fs.Bool("toggle-dark", false, "Toggle dark mode")
	notify := fs.Bool("toggle-notifications", false, "Toggle notifications")
	demo := fs.Bool("toggle-backend-demo", false, "Toggle the backend demo panel")
	login := fs.Bool("login", false, "Sign in with the demo profile")
	logout := fs.Bool("logout", false, "Sign out")

	return &Command{
		Flags: fs,
		Usage: "settings [flags]",
		Short: "Show or change settings",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			if *login && *logout {
				return errors.New("--login and --logout are mutually exclusive")
			}
			return withApp(ctx, s, func(a *app.App) error {
				if *dark {
					a.Settings.ToggleDarkMode()
				}
				if *notify {
					a.Settings.ToggleNotifications()
				}
				if *demo {
					a.Settings.ToggleBackendDemo()
				}
				if *login {
					a.Settings.Login()
				}
				if *logout {
					a.Settings.Logout()
				}
				return writeJSON(o, a.Settings.State())
			})
		},
	}
}

func profileCommand(s *session) *Command {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	location := fs.String("location", "", "Location")
	bio := fs.String("bio", "", "Short bio")

	return &Command{
		Flags: fs,
		Usage: "profile [flags]",
		Short: "Show or update the user profile",
		Long:  "Show or update the user profile. Only the flags given are changed.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			if *email != "" {
				if err := model.ValidateEmail(*email); err != nil {
					return err
				}
			}
			return withApp(ctx, s, func(a *app.App) error {
				p := settings.Profile{Name: *name, Email: *email, Phone: *phone, Location: *location, Bio: *bio}
				if p != (settings.Profile{}) {
					a.Settings.UpdateUserProfile(p)
				}
				return writeJSON(o, a.Settings.State().UserProfile)
			})
		},
	}
}

func apiCommand(s *session) *Command {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	filter := fs.StringP("filter", "f", "all", "Status filter")
	search := fs.StringP("search", "s", "", "Title or description search")
	category := fs.String("category", "", "Category id")

	return &Command{
		Flags: fs,
		Usage: "api <tasks|categories> [flags]",
		Short: "Query the mock backend",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return errors.New("api needs a resource: tasks or categories")
			}
			backend := sample.NewBackend(s.now)
			switch args[0] {
			case "tasks":
				f, err := model.ParseStatusFilter(*filter)
				if err != nil {
					return err
				}
				list, err := backend.ListTasks(sample.ListTasksInput{Filter: f, Search: *search, CategoryID: *category})
				if err != nil {
					return err
				}
				return writeJSON(o, list)
			case "categories":
				return writeJSON(o, backend.ListCategories())
			default:
				return fmt.Errorf("unknown api resource %q", args[0])
			}
		},
	}
}

func configCommand(s *session) *Command {
	return &Command{
		Flags: flag.NewFlagSet("config", flag.ContinueOnError),
		Usage: "config",
		Short: "Print the resolved configuration and stored partitions",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			data, err := toml.Marshal(s.cfg)
			if err != nil {
				return err
			}
			o.Printf("%s", data)

			report, err := app.DescribeStorage(ctx, s.cfg)
			if err != nil {
				return err
			}
			o.Printf("\n# storage: %s at %s\n", report.Backend, report.Location)
			for _, p := range report.Partitions {
				line := fmt.Sprintf("# partition %s: %d bytes", p.Name, p.Bytes)
				if p.Revision > 0 {
					line += fmt.Sprintf(", revision %d, updated %s", p.Revision, p.UpdatedAt.Format(time.RFC3339))
				}
				o.Println(line)
			}
			return nil
		},
	}
}

func writeJSON(o *IO, v any) error {
	enc := json.NewEncoder(o.Out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// findTask accepts an exact id or a unique id prefix.
func findTask(tasks []model.Task, ref string) (model.Task, error) {
	var match model.Task
	found := 0
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			match = t
			found++
		}
	}
	switch found {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return match, nil
	default:
		return model.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousTask, ref)
	}
}

func findCategory(cats []model.Category, ref string) (model.Category, bool) {
	for _, c := range cats {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return model.Category{}, false
}

func filterByCategory(tasks []model.Task, categoryID string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out
}

func categoryNames(cats []model.Category) map[string]string {
	out := make(map[string]string, len(cats))
	for _, c := range cats {
		out[c.ID] = c.Name
	}
	return out
}

func pct(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}
