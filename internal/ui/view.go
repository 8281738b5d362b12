package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/duelist/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	dividerString = strings.Repeat("─", 60)
)

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)
	m.writeInputRow(&b)
	b.WriteString(faintStyle.Render(dividerString) + "\n")
	m.writeChecklist(&b)
	b.WriteString(faintStyle.Render(dividerString) + "\n")
	m.writeStatusLine(&b)
	b.WriteString(m.help.View(m.keys) + "\n")
	return b.String()
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	pending := 0
	for _, t := range m.tasks {
		if !t.Done {
			pending++
		}
	}
	b.WriteString(titleStyle.Render("duelist"))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %d pending, %d total", pending, len(m.tasks))))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeInputRow(b *strings.Builder) {
	field := func(name string, f focusArea) string {
		if m.focus == f {
			return focusedStyle.Render(name)
		}
		return labelStyle.Render(name)
	}

	priority := string(m.priority)
	if m.focus == focusPriority {
		priority = focusedStyle.Render("‹ " + priority + " ›")
	}

	b.WriteString(field("Task: ", focusText) + m.textInput.View() + "\n")
	b.WriteString(field("Due: ", focusDue) + m.dueInput.View() + "  ")
	b.WriteString(field("Priority: ", focusPriority) + priority + "\n")
}

func (m *tuiModel) writeChecklist(b *strings.Builder) {
	if len(m.tasks) == 0 {
		b.WriteString(faintStyle.Render("  No tasks yet. Type one above and press enter.") + "\n")
		return
	}

	rows := m.visibleRows()
	end := m.offset + rows
	if end > len(m.tasks) {
		end = len(m.tasks)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.formatRow(i) + "\n")
	}
	if hidden := len(m.tasks) - (end - m.offset); hidden > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.tasks))) + "\n")
	}
}

func (m *tuiModel) formatRow(i int) string {
	t := m.tasks[i]

	pointer := "  "
	if i == m.cursor && m.focus == focusList {
		pointer = cursorStyle.Render("> ")
	}

	box := "[ ]"
	if m.checked(t) {
		box = "[x]"
	}

	label := t.Label()
	switch {
	case t.Done:
		label = doneStyle.Render(label)
	case t.Priority == task.PriorityHigh:
		label = highStyle.Render(label)
	case t.Priority == task.PriorityLow:
		label = lowStyle.Render(label)
	}
	return pointer + box + " " + label
}

func (m *tuiModel) writeStatusLine(b *strings.Builder) {
	switch {
	case m.notice != "":
		style := infoStyle
		switch m.noticeKind {
		case noticeWarn:
			style = warnStyle
		case noticeError:
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice))
	case m.statusCh == nil || m.schedulerDone:
		b.WriteString(faintStyle.Render("Notifications off."))
	case !m.lastCheck.IsZero():
		b.WriteString(faintStyle.Render(fmt.Sprintf("Checked for due tasks at %s (%s).", m.lastCheck.Format("15:04"), m.notifier)))
	default:
		b.WriteString(faintStyle.Render("Watching for due tasks."))
	}
	b.WriteString("\n")
}
