package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Load reads the task array from path. A missing file yields an empty
// collection. Tasks without a due date get today's date, tasks without
// an id get a fresh UUID.
func Load(path string) ([]Task, error) {
	tasks, _, err := loadAt(path, time.Now())
	return tasks, err
}

// loadAt is Load with an explicit clock. It also reports whether any
// task was given a new id, in which case the caller must save to keep
// the ids stable across loads.
func loadAt(path string, now time.Time) ([]Task, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Task{}, false, nil
		}
		return nil, false, fmt.Errorf("read task file: %w", err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return []Task{}, false, nil
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, false, fmt.Errorf("parse task file: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}

	assigned := backfill(tasks, now)
	return tasks, assigned, nil
}

// backfill fills in fields older files may lack and reports whether it
// assigned ids.
func backfill(tasks []Task, now time.Time) bool {
	today := Today(now)
	assigned := false
	for i := range tasks {
		if strings.TrimSpace(tasks[i].DueDate) == "" {
			tasks[i].DueDate = today
		}
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
			assigned = true
		}
		if tasks[i].Priority == "" {
			tasks[i].Priority = PriorityNormal
		}
	}
	return assigned
}

// Save writes the whole task array to path with 2-space indentation.
func Save(path string, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create task dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}

	return nil
}
