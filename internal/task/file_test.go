package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	original := []Task{
		{ID: "a", Text: "Write report", Priority: PriorityHigh, DueDate: "2026-10-16"},
		{ID: "b", Text: "Call Sam", Done: true, Priority: PriorityLow, DueDate: "2026-10-15T18:00", Notified: true},
	}

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != len(original) {
		t.Fatalf("Tasks count: got %d, want %d", len(loaded), len(original))
	}
	for i := range original {
		if loaded[i] != original[i] {
			t.Errorf("task %d: got %+v, want %+v", i, loaded[i], original[i])
		}
	}
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")

	if err := Save(path, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]\n" {
		t.Errorf("empty save: got %q, want %q", data, "[]\n")
	}

	if err := Save(path, []Task{{ID: "x", Text: "t", Priority: PriorityNormal, DueDate: "2026-10-15"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n    \"text\": \"t\"") {
		t.Errorf("expected 2-space indentation, got:\n%s", data)
	}
	if strings.Contains(string(data), "notified") {
		t.Errorf("notified=false should be omitted, got:\n%s", data)
	}
}

func TestLoadMissingFile(t *testing.T) {
	tasks, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil collection, got %#v", tasks)
	}
}

func TestLoadBackfillsLegacyTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	legacy := `[
    {"text": "No date", "done": false, "priority": "High"},
    {"text": "Dated", "done": true, "priority": "Low", "due_date": "2026-01-02"}
]`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.Local)
	tasks, assigned, err := loadAt(path, now)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !assigned {
		t.Error("expected loadAt to report assigned ids")
	}
	if len(tasks) != 2 {
		t.Fatalf("Tasks count: got %d, want 2", len(tasks))
	}
	if tasks[0].DueDate != "2026-10-15" {
		t.Errorf("backfilled due: got %q, want 2026-10-15", tasks[0].DueDate)
	}
	if tasks[1].DueDate != "2026-01-02" {
		t.Errorf("existing due changed: got %q", tasks[1].DueDate)
	}
	for i, tk := range tasks {
		if tk.ID == "" {
			t.Errorf("task %d: expected an assigned id", i)
		}
	}
	if tasks[0].ID == tasks[1].ID {
		t.Error("assigned ids must be unique")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	} else if !strings.Contains(err.Error(), "parse task file") {
		t.Errorf("error should be wrapped, got %v", err)
	}
}
