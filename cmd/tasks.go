package cmd

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/duelist/internal/config"
	"github.com/nibzard/duelist/internal/task"
)

// shortIDLen is how much of a task id the listing shows.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// addCommand appends a task to the task file.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duelist add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	due := fs.String("due", "", "Due date, YYYY-MM-DD or YYYY-MM-DDTHH:MM (default today)")
	priorityArg := fs.String("priority", string(task.PriorityNormal), "Priority (Low|Normal|High)")
	fs.StringVar(priorityArg, "p", string(task.PriorityNormal), "Priority (Low|Normal|High)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	priority, err := task.ParsePriority(*priorityArg)
	if err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.Store.Add(text, *due, priority)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}
	if _, err := t.Due(time.Local); err != nil {
		a.Logger.Warn("Due date not recognized, no reminder will be sent", "task_id", t.ID, "due", t.DueDate)
	}
	a.Logger.Debug("Added task", "task_id", t.ID)

	fmt.Fprintf(stdout, "Added %s %s\n", shortID(t.ID), t.Label())
	return nil
}

// lsCommand lists tasks in display order.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duelist ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	all := fs.Bool("all", false, "Show all tasks (default)")
	pending := fs.Bool("pending", false, "Only pending tasks")
	done := fs.Bool("done", false, "Only done tasks")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	selected := 0
	for _, set := range []bool{*all, *pending, *done} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return fmt.Errorf("-all, -pending and -done are mutually exclusive")
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var shown []task.Task
	for _, t := range a.Store.Tasks() {
		if (*pending && t.Done) || (*done && !t.Done) {
			continue
		}
		shown = append(shown, t)
	}
	if len(shown) == 0 {
		fmt.Fprintln(stdout, "No tasks found.")
		return nil
	}

	task.Sort(shown)
	for _, t := range shown {
		printTask(t)
	}
	return nil
}

// printTask prints a single task.
func printTask(t task.Task) {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}
	fmt.Fprintf(stdout, "%s %-8s %s\n", box, shortID(t.ID), t.Label())
}

// doneCommand marks the tasks named by id prefix done or pending.
func doneCommand(cfg *config.Config, args []string, done bool) error {
	name := "done"
	if !done {
		name = "undone"
	}
	if len(args) == 0 {
		return fmt.Errorf("%s requires at least one task id", name)
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ids := make([]string, 0, len(args))
	for _, arg := range args {
		t, err := a.Store.Resolve(arg)
		if err != nil {
			return err
		}
		ids = append(ids, t.ID)
	}

	changed, err := a.Store.SetDone(ids, done)
	if err != nil {
		return fmt.Errorf("updating tasks: %w", err)
	}
	a.Logger.Debug("Updated tasks", "done", done, "count", changed)
	fmt.Fprintf(stdout, "Updated %d task(s).\n", changed)
	return nil
}

// cleanCommand deletes every done task.
func cleanCommand(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.Store.DeleteDone()
	if err != nil {
		return fmt.Errorf("deleting done tasks: %w", err)
	}
	a.Logger.Debug("Deleted done tasks", "count", removed)
	fmt.Fprintf(stdout, "Deleted %d task(s).\n", removed)
	return nil
}
