package notify

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nibzard/duelist/internal/task"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local)

// fakeNotifier records deliveries and fails while fail is set.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []Notification
	fail bool
}

func (f *fakeNotifier) Name() string { return "fake" }

func (f *fakeNotifier) Notify(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("display unavailable")
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newStore(t *testing.T) *task.Store {
	t.Helper()
	store, err := task.Open(filepath.Join(t.TempDir(), "tasks.json"), task.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store
}

func add(t *testing.T, store *task.Store, text, due string) task.Task {
	t.Helper()
	tk, err := store.Add(text, due, task.PriorityNormal)
	if err != nil {
		t.Fatalf("Add(%q): %v", text, err)
	}
	return tk
}

func TestTickNotifiesOnce(t *testing.T) {
	store := newStore(t)
	soon := add(t, store, "Water plants", "2026-10-15T12:30")
	fake := &fakeNotifier{}
	s := NewScheduler(store, fake, SchedulerOptions{Timeout: 8 * time.Second})

	sent, err := s.Tick(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(sent) != 1 || sent[0].ID != soon.ID {
		t.Fatalf("sent: got %+v", sent)
	}
	n := fake.sent[0]
	if n.Title != "Task Due Soon" {
		t.Errorf("Title: got %q", n.Title)
	}
	if n.Message != "Water plants due at 12:30" {
		t.Errorf("Message: got %q", n.Message)
	}
	if n.Timeout != 8*time.Second || n.TaskID != soon.ID {
		t.Errorf("unexpected notification %+v", n)
	}

	// Persisted, so a fresh load sees the flag.
	tasks, err := task.Load(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !tasks[0].Notified {
		t.Error("notified flag not saved")
	}

	for i := 1; i <= 3; i++ {
		if _, err := s.Tick(context.Background(), fixedNow.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	if fake.count() != 1 {
		t.Errorf("expected exactly one notification, got %d", fake.count())
	}
}

func TestTickWindow(t *testing.T) {
	tests := []struct {
		name string
		due  string
		want bool
	}{
		{"within the hour", "2026-10-15T12:59", true},
		{"exactly one hour", "2026-10-15T13:00", true},
		{"two hours away", "2026-10-15T14:00", false},
		{"already past", "2026-10-15T11:00", false},
		{"due right now", "2026-10-15T12:00", false},
		{"date only is past midnight", "2026-10-15", false},
		{"unparseable", "someday", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			add(t, store, "Task", tt.due)
			fake := &fakeNotifier{}
			s := NewScheduler(store, fake, SchedulerOptions{})

			if _, err := s.Tick(context.Background(), fixedNow); err != nil {
				t.Fatalf("Tick: %v", err)
			}
			if got := fake.count() == 1; got != tt.want {
				t.Errorf("notified: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTickSkipsDoneTasks(t *testing.T) {
	store := newStore(t)
	tk := add(t, store, "Done already", "2026-10-15T12:10")
	if _, err := store.SetDone([]string{tk.ID}, true); err != nil {
		t.Fatal(err)
	}
	fake := &fakeNotifier{}
	s := NewScheduler(store, fake, SchedulerOptions{})

	if _, err := s.Tick(context.Background(), fixedNow); err != nil {
		t.Fatal(err)
	}
	if fake.count() != 0 {
		t.Errorf("expected no notification for a done task, got %d", fake.count())
	}
}

func TestTickRetriesFailedDelivery(t *testing.T) {
	store := newStore(t)
	tk := add(t, store, "Call back", "2026-10-15T12:20")
	fake := &fakeNotifier{fail: true}
	s := NewScheduler(store, fake, SchedulerOptions{})

	sent, err := s.Tick(context.Background(), fixedNow)
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if !strings.Contains(err.Error(), tk.ID) {
		t.Errorf("error should name the task: %v", err)
	}
	if len(sent) != 0 {
		t.Errorf("sent: got %d", len(sent))
	}
	if got, _ := store.Get(tk.ID); got.Notified {
		t.Error("failed delivery must not mark the task notified")
	}

	fake.fail = false
	if _, err := s.Tick(context.Background(), fixedNow.Add(5*time.Minute)); err != nil {
		t.Fatalf("retry Tick: %v", err)
	}
	if fake.count() != 1 {
		t.Errorf("expected the retry to deliver, got %d", fake.count())
	}
}

func TestTickOrdersBySoonestDue(t *testing.T) {
	store := newStore(t)
	add(t, store, "Later", "2026-10-15T12:50")
	add(t, store, "Sooner", "2026-10-15T12:10")
	fake := &fakeNotifier{}
	s := NewScheduler(store, fake, SchedulerOptions{})

	if _, err := s.Tick(context.Background(), fixedNow); err != nil {
		t.Fatal(err)
	}
	if fake.count() != 2 || !strings.HasPrefix(fake.sent[0].Message, "Sooner") {
		t.Errorf("unexpected order: %+v", fake.sent)
	}
}

func TestRunWithStatus(t *testing.T) {
	store := newStore(t)
	tk := add(t, store, "Stand-up", "2026-10-15T12:15")
	fake := &fakeNotifier{}
	s := NewScheduler(store, fake, SchedulerOptions{
		Interval: 10 * time.Millisecond,
		Now:      func() time.Time { return fixedNow },
	})

	ctx, cancel := context.WithCancel(context.Background())
	statusCh := make(chan Status, 16)
	done := make(chan error, 1)
	go func() { done <- s.RunWithStatus(ctx, statusCh) }()

	select {
	case st := <-statusCh:
		if st.Status != StatusNotified || st.TaskID != tk.ID {
			t.Errorf("first status: got %+v", st)
		}
		if st.Message != "Stand-up due at 12:15" {
			t.Errorf("Message: got %q", st.Message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no status received")
	}

	// Later ticks only report checks.
	select {
	case st := <-statusCh:
		if st.Status != StatusChecked {
			t.Errorf("second status: got %+v", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no second status")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithStatus: got %v, want context.Canceled", err)
	}
	for range statusCh {
	}
	if fake.count() != 1 {
		t.Errorf("expected one notification across ticks, got %d", fake.count())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := newStore(t)
	s := NewScheduler(store, &fakeNotifier{}, SchedulerOptions{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run: got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
