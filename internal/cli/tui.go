package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/sandeepkv93/tasktrack/internal/app"
	"github.com/sandeepkv93/tasktrack/internal/logging"
	"github.com/sandeepkv93/tasktrack/internal/update"
)

const tuiLogFileName = "tasktrack.log"

func tuiCommand(s *session) *Command {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	exportDir := fs.String("export-dir", "", "Directory for palette exports (default: working directory)")

	return &Command{
		Flags: fs,
		Usage: "tui [flags]",
		Short: "Open the interactive tracker",
		Exec: func(ctx context.Context, _ *IO, _ []string) error {
			// The terminal belongs to the program, so logs go to a file.
			logDir := filepath.Dir(s.cfg.DBPath)
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
			logPath := filepath.Join(logDir, tuiLogFileName)
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()
			s.logger = logging.New(logFile, s.cfg.LogLevel, s.cfg.LogFormat)

			return withApp(ctx, s, func(a *app.App) error {
				model := update.NewModel(update.Deps{
					Tasks:     a.Tasks,
					Settings:  a.Settings,
					Backend:   a.Backend,
					Failures:  a.PersistFailures(),
					Now:       s.now,
					Location:  s.loc,
					ExportDir: *exportDir,
				})
				program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
				_, err := program.Run()
				return err
			})
		},
	}
}
