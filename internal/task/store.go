package task

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyText is returned when adding a task without text.
	ErrEmptyText = errors.New("task cannot be empty")
	// ErrNotFound is returned when no task matches an id or prefix.
	ErrNotFound = errors.New("task not found")
	// ErrAmbiguous is returned when an id prefix matches several tasks.
	ErrAmbiguous = errors.New("ambiguous task id")
)

// Store is the in-memory task list bound to its file. Each mutating
// method is one critical section: it changes the list and saves the
// whole file before releasing the lock.
type Store struct {
	mu    sync.RWMutex
	path  string
	tasks []Task
	now   func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used for default due dates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// Open loads the task file at path into a new Store.
func Open(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	tasks, assigned, err := loadAt(path, s.now())
	if err != nil {
		return nil, err
	}
	s.tasks = tasks
	if assigned {
		if err := s.saveLocked(); err != nil {
			return nil, fmt.Errorf("persist assigned task ids: %w", err)
		}
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the store. Every mutation is already on disk, so there
// is nothing to flush.
func (s *Store) Close() error {
	return nil
}

// Reload replaces the in-memory list with the file contents. Ids given
// to tasks that had none are written back before the lock is released.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, assigned, err := loadAt(s.path, s.now())
	if err != nil {
		return err
	}
	s.tasks = tasks
	if assigned {
		if err := s.saveLocked(); err != nil {
			return fmt.Errorf("persist assigned task ids: %w", err)
		}
	}
	return nil
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Tasks returns a sorted copy of the list.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Sorted(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Resolve finds the single task whose id starts with prefix.
func (s *Store) Resolve(prefix string) (Task, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return Task{}, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var match *Task
	for i := range s.tasks {
		id := strings.ToLower(s.tasks[i].ID)
		if id == prefix {
			return s.tasks[i], nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != nil {
				return Task{}, fmt.Errorf("%w: %q", ErrAmbiguous, prefix)
			}
			match = &s.tasks[i]
		}
	}
	if match == nil {
		return Task{}, fmt.Errorf("%w: %q", ErrNotFound, prefix)
	}
	return *match, nil
}

// Add appends a new pending task and saves. Blank text is rejected with
// ErrEmptyText and leaves the list unchanged. A blank due date means today.
func (s *Store) Add(text, due string, priority Priority) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("invalid priority %q", priority)
	}
	due = strings.TrimSpace(due)
	if due == "" {
		due = Today(s.now())
	}

	t := Task{
		ID:       uuid.NewString(),
		Text:     text,
		Priority: priority,
		DueDate:  due,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshotLocked()
	s.tasks = append(s.tasks, t)
	if err := s.commitLocked(prev); err != nil {
		return Task{}, err
	}
	return t, nil
}

// ApplyDone sets the done flag of each listed task to its checkbox state.
// Unknown ids are ignored. It returns the number of tasks that changed.
func (s *Store) ApplyDone(states map[string]bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshotLocked()
	changed := 0
	for i := range s.tasks {
		done, ok := states[s.tasks[i].ID]
		if !ok || s.tasks[i].Done == done {
			continue
		}
		s.tasks[i].Done = done
		changed++
	}
	if err := s.commitLocked(prev); err != nil {
		return 0, err
	}
	return changed, nil
}

// SetDone marks the listed tasks done or pending.
func (s *Store) SetDone(ids []string, done bool) (int, error) {
	states := make(map[string]bool, len(ids))
	for _, id := range ids {
		states[id] = done
	}
	return s.ApplyDone(states)
}

// DeleteChecked removes exactly the listed tasks, keeping the relative
// order of the rest. It returns the number removed.
func (s *Store) DeleteChecked(ids []string) (int, error) {
	checked := make(map[string]bool, len(ids))
	for _, id := range ids {
		checked[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(func(t Task) bool { return checked[t.ID] })
}

// DeleteDone removes every task whose done flag is set.
func (s *Store) DeleteDone() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(func(t Task) bool { return t.Done })
}

func (s *Store) removeLocked(drop func(Task) bool) (int, error) {
	prev := s.tasks
	kept := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !drop(t) {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	if err := s.commitLocked(prev); err != nil {
		return 0, err
	}
	return removed, nil
}

// Due returns the tasks that need a notification at now.
func (s *Store) Due(now time.Time, window time.Duration) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []Task
	for _, t := range s.tasks {
		if t.NeedsNotice(now, window) {
			due = append(due, t)
		}
	}
	return due
}

// MarkNotified flags the listed tasks as notified. Tasks that were
// deleted or completed in the meantime are skipped. The file is only
// written when a flag actually changed.
func (s *Store) MarkNotified(ids []string) (int, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshotLocked()
	changed := 0
	for i := range s.tasks {
		t := &s.tasks[i]
		if !want[t.ID] || t.Done || t.Notified {
			continue
		}
		t.Notified = true
		changed++
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.commitLocked(prev); err != nil {
		return 0, err
	}
	return changed, nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked() error {
	return Save(s.path, s.tasks)
}

// snapshotLocked copies the list so a failed save can roll it back.
func (s *Store) snapshotLocked() []Task {
	return append([]Task(nil), s.tasks...)
}

// commitLocked saves the list. On failure the list is restored to prev
// so memory keeps matching the file.
func (s *Store) commitLocked(prev []Task) error {
	if err := s.saveLocked(); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}
