package task

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func benchTasks(n int) []Task {
	base := time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{
			ID:       fmt.Sprintf("T%04d", i),
			Text:     fmt.Sprintf("Task %d", i),
			Priority: Priorities[i%len(Priorities)],
			DueDate:  base.Add(time.Duration(n-i) * 17 * time.Minute).Format("2006-01-02T15:04"),
		}
	}
	return tasks
}

// BenchmarkLoad benchmarks task file loading and parsing with 100 tasks.
func BenchmarkLoad(b *testing.B) {
	path := filepath.Join(b.TempDir(), "tasks.json")
	if err := Save(path, benchTasks(100)); err != nil {
		b.Fatalf("Failed to create test file: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(path); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

// BenchmarkSorted benchmarks the display sort with 500 tasks.
func BenchmarkSorted(b *testing.B) {
	tasks := benchTasks(500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Sorted(tasks)
	}
}
