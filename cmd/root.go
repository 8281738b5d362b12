// Package cmd implements the CLI command structure for duelist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nibzard/duelist/internal/app"
	"github.com/nibzard/duelist/internal/config"
	"github.com/nibzard/duelist/internal/logging"
	"github.com/nibzard/duelist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams. Tests swap them for buffers.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the duelist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("duelist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Without a subcommand the TUI starts.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "done":
		return doneCommand(cfg, remainingArgs, true)
	case "undone":
		return doneCommand(cfg, remainingArgs, false)
	case "clean":
		return cleanCommand(cfg, remainingArgs)
	case "notify":
		return notifyCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openApp builds the application for a headless command. Log output is
// copied to stderr.
func openApp(cfg *config.Config) (*app.App, error) {
	return app.New(cfg, app.Options{Console: stderr})
}

// tuiCommand launches the interactive task manager.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duelist tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// The TUI owns the terminal, so it logs to the file only.
	a, err := app.New(cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.RunTUI(ctx, a)
}

// tailCommand tails the latest log file.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duelist tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stderr, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stderr, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// configCommand prints the effective configuration or an example file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	action := "show"
	if len(args) > 0 {
		action = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	switch action {
	case "show":
		for _, f := range cws.Files {
			fmt.Fprintf(stdout, "# loaded %s\n", f)
		}
		if err := cws.Config.Encode(stdout); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}

		keys := make([]string, 0, len(cws.Sources))
		for k, src := range cws.Sources {
			if src != config.SourceDefault {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			sort.Strings(keys)
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, "# Overrides:")
			for _, k := range keys {
				fmt.Fprintf(stdout, "#   %s (%s)\n", k, cws.Sources[k])
			}
		}
		for _, u := range cws.Unknown {
			fmt.Fprintf(stderr, "Warning: unknown config key %s\n", u)
		}
		return nil
	case "example":
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	default:
		return fmt.Errorf("unknown config action %q (expected show|example)", action)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "duelist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Duelist - a to-do list that reminds you before things are due")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  duelist [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  add [options] text  Add a task")
	fmt.Fprintln(w, "  ls [options]        List tasks, soonest due first")
	fmt.Fprintln(w, "  done <id>...        Mark tasks done (unique id prefixes are accepted)")
	fmt.Fprintln(w, "  undone <id>...      Mark tasks pending again")
	fmt.Fprintln(w, "  clean               Delete all done tasks")
	fmt.Fprintln(w, "  notify [-once]      Send reminders for tasks due soon")
	fmt.Fprintln(w, "  doctor              Check config, task file and notifier")
	fmt.Fprintln(w, "  tail                Show the latest log file")
	fmt.Fprintln(w, "  config [show|example]  Print the effective config or an example file")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add' command):")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date, YYYY-MM-DD or YYYY-MM-DDTHH:MM (default today)")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        Priority: Low, Normal or High (default Normal)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -pending    Only pending tasks")
	fmt.Fprintln(w, "  -done       Only done tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
