package task

import (
	"sort"
	"strings"
	"time"
)

// compareDue orders two due dates. Dates that parse come first and
// compare as instants; the rest follow and compare as strings.
func compareDue(a, b string) int {
	ta, errA := ParseDue(a, time.Local)
	tb, errB := ParseDue(b, time.Local)
	switch {
	case errA == nil && errB == nil:
		return ta.Compare(tb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b: earlier due date first, then
// higher priority.
func Less(a, b Task) bool {
	if c := compareDue(a.DueDate, b.DueDate); c != 0 {
		return c < 0
	}
	return a.Priority.Rank() < b.Priority.Rank()
}

// Sort orders tasks in place by (due date, priority rank). Equal keys
// keep their relative order.
func Sort(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

// Sorted returns a sorted copy of tasks.
func Sorted(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	Sort(out)
	return out
}
