// Package ui provides the terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/nibzard/duelist/internal/app"
	"github.com/nibzard/duelist/internal/notify"
	"github.com/nibzard/duelist/internal/task"
	"github.com/nibzard/duelist/internal/utils"
)

// RunTUI runs the interactive task manager until the user quits or ctx
// is cancelled. The notification scheduler runs in the background.
func RunTUI(ctx context.Context, a *app.App) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	var watcher *fsnotify.Watcher
	if a.Config.WatchFile {
		w, err := watchFile(a.Store.Path())
		if err != nil {
			a.Logger.Warn("File watch disabled", "path", a.Store.Path(), "err", err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	model := newTUIModel(a.Store, a.Logger, time.Now)
	model.statusCh = a.Start(ctx)
	model.watcher = watcher
	model.notifier = a.Notifier.Name()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

type focusArea int

const (
	focusText focusArea = iota
	focusDue
	focusPriority
	focusList
	focusCount
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeWarn
	noticeError
)

// chromeLines is the number of rows View uses outside the checklist.
const chromeLines = 9

type tuiModel struct {
	store    *task.Store
	logger   *log.Logger
	now      func() time.Time
	statusCh <-chan notify.Status
	watcher  *fsnotify.Watcher
	notifier string

	textInput textinput.Model
	dueInput  textinput.Model
	priority  task.Priority
	focus     focusArea

	tasks []task.Task
	// pending holds checkbox states the user changed but has not applied.
	pending map[string]bool
	cursor  int
	offset  int
	width   int
	height  int

	notice        string
	noticeKind    noticeKind
	lastCheck     time.Time
	schedulerDone bool

	keys     keyMap
	help     help.Model
	showHelp bool
}

type statusMsg struct {
	status notify.Status
}

type schedulerDoneMsg struct{}

type fileChangedMsg struct{}

type watchErrMsg struct {
	err error
}

func newTUIModel(store *task.Store, logger *log.Logger, now func() time.Time) *tuiModel {
	text := textinput.New()
	text.Placeholder = "What needs doing?"
	text.Prompt = ""
	text.CharLimit = 200
	text.Width = 40
	text.Focus()

	due := textinput.New()
	due.Placeholder = task.DateLayout
	due.Prompt = ""
	due.CharLimit = 25
	due.Width = 16
	due.SetValue(task.Today(now()))

	m := &tuiModel{
		store:     store,
		logger:    logger,
		now:       now,
		textInput: text,
		dueInput:  due,
		priority:  task.PriorityNormal,
		focus:     focusText,
		pending:   make(map[string]bool),
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.statusCh != nil {
		cmds = append(cmds, waitForStatus(m.statusCh))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForFileChange(m.watcher, m.store.Path()))
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case statusMsg:
		m.handleStatus(msg.status)
		return m, waitForStatus(m.statusCh)
	case schedulerDoneMsg:
		m.schedulerDone = true
		return m, nil
	case fileChangedMsg:
		m.reload(false)
		return m, waitForFileChange(m.watcher, m.store.Path())
	case watchErrMsg:
		m.logger.Warn("File watch error", "err", msg.err)
		return m, waitForFileChange(m.watcher, m.store.Path())
	}

	return m.updateInputs(msg)
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQ):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus == focusList {
		return m.handleListKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Add):
		m.addTask()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		return m, m.setFocus(focusList)
	case m.focus == focusPriority && key.Matches(msg, m.keys.Priority):
		if msg.String() == "left" {
			m.priority = prevPriority(m.priority)
		} else {
			m.priority = m.priority.Next()
		}
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m *tuiModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.visibleRows())
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.tasks))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.tasks))
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.MarkDone):
		m.markDone()
	case key.Matches(msg, m.keys.Delete):
		m.deleteChecked()
	case key.Matches(msg, m.keys.Refresh):
		m.reload(true)
	case key.Matches(msg, m.keys.Back):
		return m, m.setFocus(focusText)
	}
	return m, nil
}

func (m *tuiModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusText:
		m.textInput, cmd = m.textInput.Update(msg)
	case focusDue:
		m.dueInput, cmd = m.dueInput.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.textInput.Blur()
	m.dueInput.Blur()
	switch f {
	case focusText:
		return m.textInput.Focus()
	case focusDue:
		return m.dueInput.Focus()
	}
	return nil
}

func (m *tuiModel) handleStatus(st notify.Status) {
	switch st.Status {
	case notify.StatusNotified:
		m.setNotice(noticeInfo, "Reminder sent: "+st.Message)
		m.refresh()
	case notify.StatusFailed:
		m.setNotice(noticeError, fmt.Sprintf("%s: %v", st.Message, st.Error))
	case notify.StatusChecked:
		m.lastCheck = m.now()
	}
}

// addTask adds the task described by the input row.
func (m *tuiModel) addTask() {
	t, err := m.store.Add(m.textInput.Value(), m.dueInput.Value(), m.priority)
	if errors.Is(err, task.ErrEmptyText) {
		m.setNotice(noticeWarn, "Task cannot be empty.")
		return
	}
	if err != nil {
		m.fail("Add failed", err)
		return
	}
	m.logger.Info("Task added", "task_id", t.ID, "priority", t.Priority, "due", t.DueDate)
	m.textInput.SetValue("")
	m.setNotice(noticeInfo, "Added: "+utils.Truncate(t.Text, 40))
	m.refresh()
}

func (m *tuiModel) toggle() {
	if len(m.tasks) == 0 {
		return
	}
	t := m.tasks[m.cursor]
	next := !m.checked(t)
	if next == t.Done {
		delete(m.pending, t.ID)
	} else {
		m.pending[t.ID] = next
	}
}

// markDone writes every checkbox state to the done flags.
func (m *tuiModel) markDone() {
	states := make(map[string]bool, len(m.tasks))
	for _, t := range m.tasks {
		states[t.ID] = m.checked(t)
	}
	n, err := m.store.ApplyDone(states)
	if err != nil {
		m.fail("Mark done failed", err)
		return
	}
	m.logger.Info("Applied done states", "count", n)
	m.pending = make(map[string]bool)
	m.setNotice(noticeInfo, fmt.Sprintf("Updated %d task(s).", n))
	m.refresh()
}

// deleteChecked removes every task whose checkbox is ticked.
func (m *tuiModel) deleteChecked() {
	var ids []string
	for _, t := range m.tasks {
		if m.checked(t) {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		m.setNotice(noticeWarn, "No checked tasks to delete.")
		return
	}
	n, err := m.store.DeleteChecked(ids)
	if err != nil {
		m.fail("Delete failed", err)
		return
	}
	m.logger.Info("Deleted tasks", "count", n)
	m.pending = make(map[string]bool)
	m.setNotice(noticeInfo, fmt.Sprintf("Deleted %d task(s).", n))
	m.refresh()
}

// reload re-reads the task file. A manual reload also drops checkbox
// changes that were never applied.
func (m *tuiModel) reload(manual bool) {
	if err := m.store.Reload(); err != nil {
		m.fail("Reload failed", err)
		return
	}
	if manual {
		m.pending = make(map[string]bool)
		m.setNotice(noticeInfo, "Refreshed.")
	}
	m.refresh()
}

// refresh rebuilds the checklist from the store.
func (m *tuiModel) refresh() {
	m.tasks = m.store.Tasks()
	present := make(map[string]bool, len(m.tasks))
	for _, t := range m.tasks {
		present[t.ID] = true
	}
	for id := range m.pending {
		if !present[id] {
			delete(m.pending, id)
		}
	}
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *tuiModel) checked(t task.Task) bool {
	if v, ok := m.pending[t.ID]; ok {
		return v
	}
	return t.Done
}

func (m *tuiModel) moveCursor(delta int) {
	if len(m.tasks) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	m.ensureVisible()
}

// visibleRows is the checklist height. Zero height means unknown, in
// which case every row is shown.
func (m *tuiModel) visibleRows() int {
	if m.height == 0 {
		return len(m.tasks)
	}
	rows := m.height - chromeLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *tuiModel) ensureVisible() {
	rows := m.visibleRows()
	if rows <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if maxOffset := len(m.tasks) - rows; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *tuiModel) setNotice(kind noticeKind, text string) {
	m.notice = text
	m.noticeKind = kind
}

func (m *tuiModel) fail(what string, err error) {
	m.logger.Error(what, "err", err)
	m.setNotice(noticeError, fmt.Sprintf("%s: %v", what, err))
}

func prevPriority(p task.Priority) task.Priority {
	for i, q := range task.Priorities {
		if q == p {
			return task.Priorities[(i+len(task.Priorities)-1)%len(task.Priorities)]
		}
	}
	return task.PriorityNormal
}

func waitForStatus(ch <-chan notify.Status) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return schedulerDoneMsg{}
		}
		return statusMsg{status: status}
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
