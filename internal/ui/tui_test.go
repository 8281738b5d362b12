package ui

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/duelist/internal/logging"
	"github.com/nibzard/duelist/internal/notify"
	"github.com/nibzard/duelist/internal/task"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func newTestModel(t *testing.T) (*tuiModel, *task.Store) {
	t.Helper()
	store, err := task.Open(filepath.Join(t.TempDir(), "tasks.json"), task.WithClock(clock))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return newTUIModel(store, logging.Discard(), clock), store
}

func send(m *tuiModel, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	right = tea.KeyMsg{Type: tea.KeyRight}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	ctrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)

	if m.focus != focusText {
		t.Errorf("focus: got %v, want text", m.focus)
	}
	if got := m.dueInput.Value(); got != "2026-10-15" {
		t.Errorf("due prefill: got %q, want today", got)
	}
	if m.priority != task.PriorityNormal {
		t.Errorf("priority: got %q, want Normal", m.priority)
	}
}

func TestAddTask(t *testing.T) {
	m, store := newTestModel(t)

	send(m, typeText("Buy milk"), enter)

	if store.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", store.Len())
	}
	got := store.Tasks()[0]
	if got.Text != "Buy milk" || got.Priority != task.PriorityNormal || got.DueDate != "2026-10-15" {
		t.Errorf("unexpected task %+v", got)
	}
	if m.textInput.Value() != "" {
		t.Errorf("text input not cleared: %q", m.textInput.Value())
	}
	if !strings.Contains(m.View(), "Buy milk [Normal] — Due: 2026-10-15") {
		t.Errorf("view missing task label:\n%s", m.View())
	}
}

func TestAddEmptyTaskWarns(t *testing.T) {
	m, store := newTestModel(t)

	send(m, typeText("   "), enter)

	if store.Len() != 0 {
		t.Errorf("list should be unchanged, got %d tasks", store.Len())
	}
	if m.notice != "Task cannot be empty." || m.noticeKind != noticeWarn {
		t.Errorf("notice: got %q (%v)", m.notice, m.noticeKind)
	}
	if !strings.Contains(m.View(), "Task cannot be empty.") {
		t.Error("warning not rendered")
	}
}

func TestPrioritySelector(t *testing.T) {
	m, store := newTestModel(t)

	send(m, typeText("Ship release"), tab)
	m.dueInput.SetValue("2026-10-16T09:00")
	send(m, tab)
	if m.focus != focusPriority {
		t.Fatalf("focus: got %v, want priority", m.focus)
	}
	send(m, right)
	if m.priority != task.PriorityHigh {
		t.Errorf("right from Normal: got %q, want High", m.priority)
	}
	send(m, left, left)
	if m.priority != task.PriorityLow {
		t.Errorf("left twice from High: got %q, want Low", m.priority)
	}
	send(m, space, space)
	if m.priority != task.PriorityHigh {
		t.Errorf("space cycles: got %q, want High", m.priority)
	}
	send(m, enter)

	tasks := store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Priority != task.PriorityHigh || tasks[0].DueDate != "2026-10-16T09:00" {
		t.Errorf("unexpected task %+v", tasks[0])
	}
}

func TestFocusCycle(t *testing.T) {
	m, _ := newTestModel(t)

	want := []focusArea{focusDue, focusPriority, focusList, focusText}
	for _, f := range want {
		send(m, tab)
		if m.focus != f {
			t.Fatalf("after tab: got %v, want %v", m.focus, f)
		}
	}
	send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusList {
		t.Errorf("shift+tab from text: got %v, want list", m.focus)
	}
}

func TestControlKeysOnlyInList(t *testing.T) {
	m, _ := newTestModel(t)

	send(m, keyRune('q'), keyRune('m'), keyRune('D'))
	if m.textInput.Value() != "qmD" {
		t.Errorf("keys should be typed into the field, got %q", m.textInput.Value())
	}

	send(m, esc)
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, quit := cmd().(tea.QuitMsg); !quit {
		t.Error("q in the list should quit")
	}
}

func TestCtrlCQuitsAnywhere(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(ctrlC)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, quit := cmd().(tea.QuitMsg); !quit {
		t.Error("ctrl+c should quit")
	}
}

func seed(t *testing.T, store *task.Store, texts ...string) []task.Task {
	t.Helper()
	var out []task.Task
	for i, text := range texts {
		tk, err := store.Add(text, fmt.Sprintf("2026-10-%02d", 16+i), task.PriorityNormal)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, tk)
	}
	return out
}

func TestToggleAndMarkDone(t *testing.T) {
	m, store := newTestModel(t)
	seeded := seed(t, store, "first", "second", "third")
	m.refresh()

	send(m, esc, space, down, down, space, keyRune('m'))

	for i, want := range []bool{true, false, true} {
		got, _ := store.Get(seeded[i].ID)
		if got.Done != want {
			t.Errorf("%s: done = %v, want %v", got.Text, got.Done, want)
		}
	}
	if len(m.pending) != 0 {
		t.Errorf("pending not cleared: %v", m.pending)
	}

	// Unticking a done task and applying marks it pending again.
	send(m, space, keyRune('m'))
	if got, _ := store.Get(seeded[2].ID); got.Done {
		t.Error("third task should be pending after untick")
	}
}

func TestToggleWithoutApplyChangesNothing(t *testing.T) {
	m, store := newTestModel(t)
	seeded := seed(t, store, "only")
	m.refresh()

	send(m, esc, space)
	if !m.checked(m.tasks[0]) {
		t.Fatal("checkbox should be ticked")
	}
	if got, _ := store.Get(seeded[0].ID); got.Done {
		t.Error("toggle alone must not change the stored task")
	}

	send(m, keyRune('r'))
	if m.checked(m.tasks[0]) {
		t.Error("refresh should discard unapplied checkbox changes")
	}
}

func TestDeleteChecked(t *testing.T) {
	m, store := newTestModel(t)
	seeded := seed(t, store, "a", "b", "c", "d")
	m.refresh()

	send(m, esc, down, space, down, down, space, keyRune('D'))

	tasks := store.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks left, got %d", len(tasks))
	}
	if tasks[0].ID != seeded[0].ID || tasks[1].ID != seeded[2].ID {
		t.Errorf("wrong tasks remain: %+v", tasks)
	}
	if m.cursor >= len(m.tasks) {
		t.Errorf("cursor out of range: %d", m.cursor)
	}
}

func TestDeleteWithNothingChecked(t *testing.T) {
	m, store := newTestModel(t)
	seed(t, store, "keep")
	m.refresh()

	send(m, esc, keyRune('D'))
	if store.Len() != 1 {
		t.Error("nothing should be deleted")
	}
	if m.noticeKind != noticeWarn {
		t.Errorf("expected a warning, got %q", m.notice)
	}
}

func TestScrolling(t *testing.T) {
	m, store := newTestModel(t)
	seed(t, store, "t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9")
	m.refresh()

	send(m, tea.WindowSizeMsg{Width: 80, Height: chromeLines + 3}, esc)
	for i := 0; i < 5; i++ {
		send(m, down)
	}
	if m.cursor != 5 {
		t.Fatalf("cursor: got %d, want 5", m.cursor)
	}
	if m.offset != 3 {
		t.Errorf("offset: got %d, want 3", m.offset)
	}

	view := m.View()
	if strings.Contains(view, "t0 [") || !strings.Contains(view, "t5 [") {
		t.Errorf("view shows the wrong window:\n%s", view)
	}

	send(m, keyRune('g'))
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("top: cursor %d offset %d", m.cursor, m.offset)
	}
	send(m, keyRune('G'))
	if m.cursor != 9 || m.offset != 7 {
		t.Errorf("bottom: cursor %d offset %d", m.cursor, m.offset)
	}
}

func TestStatusMessages(t *testing.T) {
	m, store := newTestModel(t)
	ch := make(chan notify.Status)
	m.statusCh = ch

	seed(t, store, "external")
	_, cmd := m.Update(statusMsg{status: notify.Status{Status: notify.StatusNotified, Message: "external due at 00:00"}})
	if cmd == nil {
		t.Error("expected to keep waiting for status")
	}
	if len(m.tasks) != 1 {
		t.Errorf("notified status should refresh the list, got %d tasks", len(m.tasks))
	}
	if !strings.Contains(m.notice, "external due at 00:00") {
		t.Errorf("notice: got %q", m.notice)
	}

	m.Update(statusMsg{status: notify.Status{Status: notify.StatusChecked}})
	if !m.lastCheck.Equal(fixedNow) {
		t.Errorf("lastCheck: got %v", m.lastCheck)
	}

	m.Update(schedulerDoneMsg{})
	if !m.schedulerDone {
		t.Error("schedulerDone not set")
	}
}

func TestFileChangeReloads(t *testing.T) {
	m, store := newTestModel(t)

	other := []task.Task{{ID: "ext-1", Text: "Edited elsewhere", Priority: task.PriorityLow, DueDate: "2026-10-20"}}
	if err := task.Save(store.Path(), other); err != nil {
		t.Fatal(err)
	}
	m.Update(fileChangedMsg{})

	if len(m.tasks) != 1 || m.tasks[0].ID != "ext-1" {
		t.Errorf("reload did not pick up the file: %+v", m.tasks)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
