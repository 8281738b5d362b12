package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []Task
		wantValid bool
		wantPath  string
	}{
		{
			name: "valid tasks",
			tasks: []Task{
				{ID: "a", Text: "ok", Priority: PriorityHigh, DueDate: "2026-10-15"},
			},
			wantValid: true,
		},
		{
			name: "bad priority",
			tasks: []Task{
				{ID: "a", Text: "ok", Priority: "Urgent", DueDate: "2026-10-15"},
			},
			wantValid: false,
			wantPath:  "[0].priority",
		},
		{
			name: "empty text",
			tasks: []Task{
				{ID: "a", Text: "", Priority: PriorityLow, DueDate: "2026-10-15"},
			},
			wantValid: false,
			wantPath:  "[0].text",
		},
		{
			name: "duplicate ids",
			tasks: []Task{
				{ID: "a", Text: "one", Priority: PriorityLow, DueDate: "2026-10-15"},
				{ID: "a", Text: "two", Priority: PriorityLow, DueDate: "2026-10-15"},
			},
			wantValid: false,
			wantPath:  "[1].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.tasks)
			if result.Valid != tt.wantValid {
				t.Fatalf("Valid: got %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.wantPath == "" {
				return
			}
			found := false
			for _, err := range result.Errors {
				if ve, ok := err.(*ValidationError); ok && ve.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error at %s, got %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestValidateWarnsOnUnparseableDue(t *testing.T) {
	result := Validate([]Task{{ID: "a", Text: "x", Priority: PriorityLow, DueDate: "2026-10-15 noonish"}})
	if !result.Valid {
		t.Fatalf("expected valid, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "never notify") {
		t.Errorf("expected a due-date warning, got %v", result.Warnings)
	}
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `[{"text": "x", "done": false, "priority": "Low", "due_date": "2026-10-15", "colour": "red"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := ValidateFile(path)
	if err != nil {
		t.Fatalf("ValidateFile failed: %v", err)
	}
	if result.Valid {
		t.Error("expected unknown property to be rejected")
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a missing-id warning")
	}
}

func TestBundledSchemaIsCopy(t *testing.T) {
	a := BundledSchema()
	a[0] = 'X'
	if BundledSchema()[0] == 'X' {
		t.Error("BundledSchema must return a copy")
	}
}
