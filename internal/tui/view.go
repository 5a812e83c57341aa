package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/todo-tui/internal/todo"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	tabs := m.renderTabs()
	footer := m.renderFooter()

	// Whatever is left goes to the list
	listHeight := m.height - lipgloss.Height(header) - lipgloss.Height(tabs) - lipgloss.Height(footer) - 2
	if listHeight < 1 {
		listHeight = 1
	}

	list := m.styles.border.
		Width(m.width - 2).
		Height(listHeight).
		Render(m.renderList(m.width-4, listHeight))

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, list, footer)
}

// renderHeader renders the title line with the active count
func (m Model) renderHeader() string {
	counters := m.store.Counters()

	title := m.styles.title.Render("Tasks")
	left := fmt.Sprintf("%d left", counters.Active)
	header := title + "  " + m.styles.muted.Render(left)

	if m.degraded != nil {
		header += "  " + m.styles.warning.Render("[not saved: "+m.degraded.Error()+"]")
	} else if err := m.store.PersistErr(); err != nil {
		header += "  " + m.styles.warning.Render("[not saved]")
	}

	return header
}

// renderTabs renders the filter selector
func (m Model) renderTabs() string {
	current := m.store.Filter()

	var tabs []string
	for i, f := range todo.Filters() {
		label := fmt.Sprintf("%d %s", i+1, filterLabel(f))
		if f == current {
			tabs = append(tabs, m.styles.tabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.tab.Render(label))
		}
	}

	return strings.Join(tabs, "   ")
}

// renderList renders at most height lines of the visible tasks, scrolled
// so the selection shows
func (m Model) renderList(width, height int) string {
	if height < 1 {
		height = 1
	}

	var lines []string
	if m.mode == modeAdd {
		lines = append(lines, m.input.View())
		height--
		// Keep a spacer under the input only when a task row still fits
		if height >= 2 {
			lines = append(lines, "")
			height--
		}
		if height == 0 {
			return strings.Join(lines, "\n")
		}
	}

	tasks := m.store.VisibleTasks()
	if len(tasks) == 0 {
		lines = append(lines, m.styles.muted.Render(emptyMessage(m.store.Filter())))
		return strings.Join(lines, "\n")
	}

	// Calculate visible range
	startIdx := 0
	if m.selected >= height {
		startIdx = m.selected - height + 1
	}

	for i := startIdx; i < len(tasks) && i < startIdx+height; i++ {
		t := tasks[i]

		if m.mode == modeEdit && t.ID == m.editID {
			lines = append(lines, "    "+m.input.View())
			continue
		}

		box := "[ ] "
		if t.Completed {
			box = "[x] "
		}
		text := fit(t.Text, width-len(box))

		var line string
		switch {
		case i == m.selected && m.mode == modeList:
			line = m.styles.selected.Render(box + text)
		case t.Completed:
			line = m.styles.muted.Render(box) + m.styles.completed.Render(text)
		default:
			line = box + text
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderFooter renders counters, messages and help
func (m Model) renderFooter() string {
	c := m.store.Counters()
	counters := m.styles.muted.Render(fmt.Sprintf(
		"Total: %d • Active: %d • Completed: %d", c.Total, c.Active, c.Completed))

	lines := []string{counters}

	if m.errMsg != "" {
		lines = append(lines, m.styles.errorMsg.Render(m.errMsg))
	} else if m.notice != "" {
		lines = append(lines, m.styles.notice.Render(m.notice))
	}

	if m.mode == modeList {
		lines = append(lines, m.help.View(m.keys))
	} else {
		lines = append(lines, m.help.View(m.inputKeys))
	}

	return strings.Join(lines, "\n")
}

func filterLabel(f todo.Filter) string {
	switch f {
	case todo.FilterActive:
		return "Active"
	case todo.FilterCompleted:
		return "Completed"
	}
	return "All"
}

func emptyMessage(f todo.Filter) string {
	switch f {
	case todo.FilterActive:
		return "Nothing left to do."
	case todo.FilterCompleted:
		return "No completed tasks yet."
	}
	return "No tasks yet. Press a to add one, or D for demo tasks."
}
