package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/duelist/internal/config"
	"github.com/nibzard/duelist/internal/task"
	"github.com/nibzard/duelist/internal/utils"
)

// doctorCommand checks config, the task file, the log directory and the
// notifier.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("duelist doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "Duelist Doctor")
	fmt.Fprintln(stdout, "==============")
	fmt.Fprintln(stdout)

	allOK := true

	// Check config
	fmt.Fprintln(stdout, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "  ✅ No config file (using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "  ✅ Loaded %s\n", f)
	}
	for _, u := range cws.Unknown {
		fmt.Fprintf(stdout, "  ⚠️  Unknown key %s\n", u)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ Valid")
	}
	fmt.Fprintln(stdout)

	// Check task file
	fmt.Fprintf(stdout, "Task file: %s\n", cfg.TasksFile)
	if !checkTaskFile(cfg.TasksFile, *verbose) {
		allOK = false
	}
	fmt.Fprintln(stdout)

	// Check log directory
	fmt.Fprintf(stdout, "Log directory: %s\n", cfg.LogDir)
	if info, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on first run)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	// Check notifier
	fmt.Fprintf(stdout, "Notifier: %s\n", cfg.Notifier)
	switch cfg.Notifier {
	case config.NotifierNone:
		fmt.Fprintln(stdout, "  ⚠️  Notifications are disabled")
	case config.NotifierCommand:
		fields := strings.Fields(cfg.NotifyCommand)
		binary := ""
		if len(fields) > 0 {
			binary = fields[0]
		}
		if resolved, err := utils.ResolveExecutable(binary); err != nil {
			fmt.Fprintf(stdout, "  ❌ Command: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(stdout, "  ✅ Command: %s\n", resolved)
		}
	default:
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	if *verbose {
		fmt.Fprintf(stdout, "  Interval: %s, window: %s\n", cfg.NotifyInterval(), cfg.NotifyWindow())
	}
	fmt.Fprintln(stdout)

	// Overall status
	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. Duelist may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkTaskFile prints the state of the task file and reports whether
// it is usable. A missing file is fine.
func checkTaskFile(path string, verbose bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on first save)")
			return true
		}
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is a directory")
		return false
	}

	result, err := task.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		return false
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintln(stdout, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(stdout, "  ✅ Valid")

	if verbose {
		tasks, err := task.Load(path)
		if err == nil {
			fmt.Fprintf(stdout, "  Tasks: %d\n", len(tasks))
			for _, t := range task.Sorted(tasks) {
				fmt.Fprintf(stdout, "    - %s %s\n", shortID(t.ID), t.Label())
			}
		}
	}
	return true
}
