// Command drill is a terminal drill-down picker over hierarchical option
// lists. It prints the committed option id and breadcrumb to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/drill/pkg/config"
	"github.com/vanderheijden86/drill/pkg/export"
	"github.com/vanderheijden86/drill/pkg/loader"
	"github.com/vanderheijden86/drill/pkg/nav"
	"github.com/vanderheijden86/drill/pkg/tree"
	"github.com/vanderheijden86/drill/pkg/ui"
	"github.com/vanderheijden86/drill/pkg/watcher"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK        = 0
	exitError     = 1
	exitUsage     = 2
	exitCancelled = 130
)

type cliFlags struct {
	sources     []string
	configPath  string
	useButton   string
	selected    int
	query       string
	watch       bool
	exportPath  string
	robotState  bool
	logPath     string
	showVersion bool
	help        bool

	set map[string]bool // flags given on the command line
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, *flag.FlagSet, error) {
	f := &cliFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Func("source", "Option source: .json, .yaml/.yml, .db/.sqlite/.sqlite3, or - for stdin (repeatable)", func(v string) error {
		f.sources = append(f.sources, v)
		return nil
	})
	fs.StringVar(&f.configPath, "config", "", "Config file (default: nearest .drill.yaml, then the user config)")
	fs.StringVar(&f.useButton, "use-button", "", "Label of the button that picks a group itself (empty disables it)")
	fs.IntVar(&f.selected, "selected", 0, "Initially selected option id (0 = none)")
	fs.StringVar(&f.query, "query", "", "SQL query for SQLite sources, returning id, parent, title")
	fs.BoolVar(&f.watch, "watch", false, "Reload when a source file changes")
	fs.StringVar(&f.exportPath, "export", "", "Export the tree to a file (.txt, .md, .svg, .png) and exit")
	fs.BoolVar(&f.robotState, "robot-state", false, "Print the navigation state for -selected as JSON and exit")
	fs.StringVar(&f.logPath, "log", "", "Write debug logs to this file")
	fs.BoolVar(&f.showVersion, "version", false, "Show version")
	fs.BoolVar(&f.help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, fs, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if flags.help {
		fmt.Fprintln(stdout, "Usage: drill [options]")
		fmt.Fprintln(stdout, "\nPick a value from a hierarchical option list, one level at a time.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return exitOK
	}
	if flags.showVersion {
		fmt.Fprintf(stdout, "drill %s\n", version)
		return exitOK
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitError
	}
	applyFlags(&cfg, flags)

	logger, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening log file: %v\n", err)
		return exitError
	}
	defer closeLog()

	if len(cfg.Sources) == 0 {
		if isTerminal(stdin) {
			fmt.Fprintln(stderr, "Error: no option sources (use -source or a .drill.yaml)")
			return exitUsage
		}
		cfg.Sources = []string{loader.Stdin}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loadOpts := cfg.LoaderOptions()
	loadOpts.Stdin = stdin

	options, err := loader.LoadAll(ctx, cfg.Sources, loadOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading options: %v\n", err)
		return exitError
	}
	logger.Info("loaded options", "sources", len(cfg.Sources), "count", len(options))

	t, err := tree.Build(options)
	if err != nil {
		fmt.Fprintf(stderr, "Error building tree: %v\n", err)
		return exitError
	}

	if flags.selected != 0 {
		if _, ok := t.Get(flags.selected); !ok {
			fmt.Fprintf(stderr, "Error: -selected %d is not an option id\n", flags.selected)
			return exitUsage
		}
	}

	if flags.exportPath != "" {
		if err := export.ExportFile(flags.exportPath, t); err != nil {
			fmt.Fprintf(stderr, "Error exporting: %v\n", err)
			return exitError
		}
		fmt.Fprintf(stderr, "Exported %d options to %s\n", t.Len(), flags.exportPath)
		return exitOK
	}

	if flags.robotState {
		state := nav.Compute(t, flags.selected, nav.AllIDs(t))
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(state); err != nil {
			fmt.Fprintf(stderr, "Error encoding state: %v\n", err)
			return exitError
		}
		return exitOK
	}

	return runPicker(ctx, t, cfg, flags, stdin, stdout, stderr, logger)
}

func runPicker(ctx context.Context, t *tree.Tree, cfg config.Config, flags *cliFlags,
	stdin io.Reader, stdout, stderr io.Writer, logger *log.Logger) int {
	// The picker draws on stderr when stdout is captured, so the result can be
	// piped while the UI stays visible.
	out := stdout
	if !isTerminal(stdout) {
		out = stderr
	}

	picker, err := ui.NewPicker(t, ui.Options{
		UseButtonLabel: cfg.UseButtonLabel,
		Placeholder:    cfg.Placeholder,
		SelectedID:     flags.selected,
		StartOpen:      true,
		QuitOnCommit:   true,
		Theme:          ui.DefaultTheme(lipgloss.NewRenderer(out)),
		Logger:         logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	progOpts := []tea.ProgramOption{tea.WithOutput(out), tea.WithContext(ctx)}
	if isTerminal(stdin) {
		progOpts = append(progOpts, tea.WithInput(stdin))
	} else {
		// Options were piped in; keys come from the controlling terminal.
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	prog := tea.NewProgram(picker, progOpts...)

	if cfg.Watch {
		startWatcher(ctx, prog, cfg, logger)
	}

	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(stderr, "Error running picker: %v\n", err)
		return exitError
	}

	n, ok := picker.Result()
	if !ok {
		return exitCancelled
	}
	fmt.Fprintf(stdout, "%d\t%s\n", n.ID(), nav.Breadcrumb(picker.Tree(), n))
	return exitOK
}

// startWatcher reloads every source when one of them changes and hands the
// result to the picker, which rebuilds its tree on the UI goroutine.
func startWatcher(ctx context.Context, prog *tea.Program, cfg config.Config, logger *log.Logger) {
	for _, src := range cfg.Sources {
		if src == loader.Stdin {
			logger.Warn("watch disabled", "reason", "stdin cannot be reloaded")
			return
		}
	}

	reload := func() {
		options, err := loader.LoadAll(ctx, cfg.Sources, cfg.LoaderOptions())
		prog.Send(ui.SourcesChangedMsg{Options: options, Err: err})
	}

	w, err := watcher.New(cfg.Sources, reload, watcher.WithLogger(logger))
	if err != nil {
		logger.Warn("watch disabled", "err", err)
		return
	}
	logger.Info("watching sources", "files", strings.Join(w.Files(), ", "))

	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("watcher stopped", "err", err)
		}
	}()
}

func loadConfig(flags *cliFlags) (config.Config, error) {
	if flags.configPath != "" {
		return config.Load(flags.configPath)
	}
	return config.LoadDiscovered()
}

// applyFlags lets command-line flags override config file values.
func applyFlags(cfg *config.Config, flags *cliFlags) {
	if len(flags.sources) > 0 {
		cfg.Sources = flags.sources
	}
	if flags.set["use-button"] {
		cfg.UseButtonLabel = flags.useButton
	}
	if flags.set["query"] {
		cfg.SQLiteQuery = flags.query
	}
	if flags.set["watch"] {
		cfg.Watch = flags.watch
	}
	if flags.set["log"] {
		cfg.LogFile = flags.logPath
	}
}

// newLogger writes to path, or discards everything when path is empty. The
// terminal belongs to the picker, so logs never go to stderr.
func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		Prefix:          "drill",
	})
	return logger, func() { f.Close() }, nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
