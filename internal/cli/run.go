package cli

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/sandeepkv93/tasktrack/internal/app"
	"github.com/sandeepkv93/tasktrack/internal/config"
	"github.com/sandeepkv93/tasktrack/internal/logging"
)

const defaultCommand = "tui"

type globalFlags struct {
	configPath string
	backend    string
	dbPath     string
	dataDir    string
	logLevel   string
	logFormat  string
}

// session carries what every command needs once global flags and config
// are resolved.
type session struct {
	cfg    config.RuntimeConfig
	logger *log.Logger
	errOut io.Writer
	now    func() time.Time
	loc    *time.Location
}

func (s *session) open(ctx context.Context) (*app.App, error) {
	return app.Open(ctx, s.cfg, s.logger, app.Options{Now: s.now})
}

// Run is the main entry point; args excludes the program name.
func Run(ctx context.Context, out, errOut io.Writer, args []string) int {
	o := NewIO(out, errOut)

	flags, rest, err := parseGlobalFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printUsage(o, commands(nil))
		return 0
	}
	if err != nil {
		o.ErrPrintln("error:", err)
		printUsage(o, nil)
		return 1
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	s := &session{
		cfg:    cfg,
		logger: logging.New(errOut, cfg.LogLevel, cfg.LogFormat),
		errOut: errOut,
		now:    time.Now,
		loc:    time.Local,
	}
	cmds := commands(s)

	name := defaultCommand
	if len(rest) > 0 {
		name = rest[0]
		rest = rest[1:]
	}
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(o, cmds)
		return 0
	}
	for _, cmd := range cmds {
		if cmd.Name() == name {
			return cmd.Run(ctx, o, rest)
		}
	}
	o.ErrPrintln("error: unknown command:", name)
	printUsage(o, cmds)
	return 1
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var g globalFlags
	fs := flag.NewFlagSet("tasktrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	fs.StringVarP(&g.configPath, "config", "c", "", "Config file (default: user config dir)")
	fs.StringVar(&g.backend, "backend", "", "Storage backend: sqlite or file")
	fs.StringVar(&g.dbPath, "db", "", "SQLite database path")
	fs.StringVar(&g.dataDir, "data-dir", "", "Directory for the file backend")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&g.logFormat, "log-format", "", "Log format: text, json, logfmt")
	if err := fs.Parse(args); err != nil {
		return g, nil, err
	}
	return g, fs.Args(), nil
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(g globalFlags) (config.RuntimeConfig, error) {
	path := g.configPath
	if path == "" {
		path = filepath.Join(config.DefaultDir(), config.DefaultConfigFileName)
	}
	cfg, err := config.LoadOrCreate(path, config.DefaultRuntimeConfig())
	if err != nil {
		return cfg, err
	}
	cfg = config.RuntimeConfigFromEnv(cfg)
	if g.backend != "" {
		cfg.Backend = g.backend
	}
	if g.dbPath != "" {
		cfg.DBPath = g.dbPath
	}
	if g.dataDir != "" {
		cfg.DataDir = g.dataDir
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFormat != "" {
		cfg.LogFormat = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func printUsage(o *IO, cmds []*Command) {
	o.Println("tasktrack - personal task tracker")
	o.Println()
	o.Println("Usage: tasktrack [global flags] <command> [flags] [args]")
	o.Println()
	o.Println("Global flags:")
	o.Println("  -c, --config <path>    Config file")
	o.Println("      --backend <name>   sqlite or file")
	o.Println("      --db <path>        SQLite database path")
	o.Println("      --data-dir <path>  File backend directory")
	o.Println("      --log-level <lvl>  debug, info, warn, error")
	o.Println("      --log-format <f>   text, json, logfmt")
	if len(cmds) == 0 {
		return
	}
	o.Println()
	o.Println("Commands:")
	for _, cmd := range cmds {
		o.Println(cmd.HelpLine())
	}
	o.Println()
	o.Printf("Run 'tasktrack <command> --help' for details. Default command: %s.\n", defaultCommand)
}
