package tui

import (
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/todo-tui/internal/todo"
)

const (
	errorTimeout  = 3 * time.Second
	noticeTimeout = 2 * time.Second

	// addCharLimit caps new task text typed in the TUI. Edits lift the cap
	// so longer text stored by other clients survives intact.
	addCharLimit = 500
)

// ThemeStore persists the theme preference
type ThemeStore interface {
	SaveTheme(theme todo.Theme) error
	LoadTheme(def todo.Theme) todo.Theme
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// clearErrorMsg hides the error line if it is still the one identified by seq
type clearErrorMsg struct{ seq int }

// clearNoticeMsg hides the notice line if it is still the one identified by seq
type clearNoticeMsg struct{ seq int }

// Model represents the main application state
type Model struct {
	store  *todo.Store
	prefs  ThemeStore
	theme  todo.Theme
	styles styles

	keys      keyMap
	inputKeys inputKeyMap
	help      help.Model
	input     textinput.Model

	mode     mode
	editID   int64
	selected int
	width    int
	height   int

	// editStart is the input value when the edit opened; submitting it
	// unchanged cancels
	editStart string

	errMsg    string
	errSeq    int
	notice    string
	noticeSeq int

	// degraded explains why no durable storage is in use, if so
	degraded error
}

// Options configures a new Model
type Options struct {
	// Prefs stores the theme toggle; nil keeps it for the session only
	Prefs ThemeStore
	// DefaultTheme applies when no theme has been stored
	DefaultTheme todo.Theme
	// Degraded is shown as a warning when storage fell back to memory
	Degraded error
}

// New creates a new application model over store
func New(store *todo.Store, opts Options) Model {
	theme := opts.DefaultTheme
	if theme == "" {
		theme = todo.ThemeDark
	}
	if opts.Prefs != nil {
		theme = opts.Prefs.LoadTheme(theme)
	}

	// Setup task input
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Width = 40
	ti.CharLimit = addCharLimit
	ti.Prompt = "> "

	keys := newKeyMap()

	return Model{
		store:     store,
		prefs:     opts.Prefs,
		theme:     theme,
		styles:    newStyles(theme),
		keys:      keys,
		inputKeys: inputKeyMap{Submit: keys.Submit, Cancel: keys.Cancel},
		help:      help.New(),
		input:     ti,
		degraded:  opts.Degraded,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.width > 8 {
			m.input.Width = m.width - 8
		}
		return m, nil

	case clearErrorMsg:
		if msg.seq == m.errSeq {
			m.errMsg = ""
		}
		return m, nil

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Interrupt) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

// updateAdd handles keys while the add input has focus
func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.Blur()
		m.input.Reset()
		m.errMsg = ""
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		task, err := m.store.Add(m.input.Value())
		if errors.Is(err, todo.ErrEmptyInput) {
			cmd := m.showError("Please enter a task")
			return m, cmd
		}
		if err != nil {
			cmd := m.showError(err.Error())
			return m, cmd
		}

		// Stay in add mode so several tasks can be entered in a row
		m.input.Reset()
		m.errMsg = ""
		m.selectTask(task.ID)
		log.Printf("task added: %d", task.ID)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateEdit handles keys while a task is being edited in place
func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.finishEdit()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		if value == m.editStart {
			// The input may hold a cleaned-up copy of the stored text
			m.finishEdit()
			return m, nil
		}
		_, changed, err := m.store.EditText(m.editID, value)
		m.finishEdit()
		if err != nil || !changed {
			// Missing task or empty/unchanged text both cancel the edit
			return m, nil
		}
		cmd := m.showNotice("Task updated")
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) finishEdit() {
	m.mode = modeList
	m.editID = 0
	m.editStart = ""
	m.input.CharLimit = addCharLimit
	m.input.Blur()
	m.input.Reset()
	m.selected = m.ensureValidSelection()
}

// updateList handles keys in normal list mode
func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.store.VisibleTasks())-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.Reset()
		m.input.Placeholder = "What needs to be done?"
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		task, ok := m.current()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = task.ID
		m.input.CharLimit = 0
		m.input.SetValue(task.Text)
		m.editStart = m.input.Value()
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.current(); ok {
			m.store.ToggleCompleted(task.ID)
			// The task may have left the current filter
			m.selected = m.ensureValidSelection()
		}

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.current(); ok {
			m.store.Delete(task.ID)
			m.selected = m.ensureValidSelection()
		}

	case key.Matches(msg, m.keys.ClearDone):
		if m.store.ClearCompleted() == 0 {
			cmd := m.showNotice("No completed tasks to clear")
			return m, cmd
		}
		m.selected = m.ensureValidSelection()
		cmd := m.showNotice("Completed tasks cleared")
		return m, cmd

	case key.Matches(msg, m.keys.NextFilter):
		cmd := m.setFilter(m.store.Filter().Next())
		return m, cmd

	case key.Matches(msg, m.keys.FilterAll):
		cmd := m.setFilter(todo.FilterAll)
		return m, cmd

	case key.Matches(msg, m.keys.FilterOpen):
		cmd := m.setFilter(todo.FilterActive)
		return m, cmd

	case key.Matches(msg, m.keys.FilterDone):
		cmd := m.setFilter(todo.FilterCompleted)
		return m, cmd

	case key.Matches(msg, m.keys.Demo):
		m.store.AddDemo()
		m.selected = m.ensureValidSelection()
		cmd := m.showNotice("Demo tasks added!")
		return m, cmd

	case key.Matches(msg, m.keys.Theme):
		cmd := m.toggleTheme()
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) setFilter(mode todo.Filter) tea.Cmd {
	if err := m.store.SetFilter(mode); err != nil {
		return m.showError(err.Error())
	}
	m.selected = 0
	return nil
}

func (m *Model) toggleTheme() tea.Cmd {
	if m.theme == todo.ThemeLight {
		m.theme = todo.ThemeDark
	} else {
		m.theme = todo.ThemeLight
	}
	m.styles = newStyles(m.theme)

	if m.prefs != nil {
		if err := m.prefs.SaveTheme(m.theme); err != nil {
			log.Printf("warning: %v", err)
		}
	}
	return nil
}

// current returns the highlighted task in the visible list
func (m Model) current() (todo.Task, bool) {
	tasks := m.store.VisibleTasks()
	if len(tasks) == 0 || m.selected < 0 || m.selected >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.selected], true
}

// selectTask moves the cursor to id if it is visible
func (m *Model) selectTask(id int64) {
	for i, t := range m.store.VisibleTasks() {
		if t.ID == id {
			m.selected = i
			return
		}
	}
	m.selected = m.ensureValidSelection()
}

// ensureValidSelection ensures the current selection is within bounds
func (m Model) ensureValidSelection() int {
	tasks := m.store.VisibleTasks()
	if len(tasks) == 0 {
		return 0
	}
	if m.selected >= len(tasks) {
		return len(tasks) - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}

// showError displays msg until errorTimeout passes
func (m *Model) showError(msg string) tea.Cmd {
	m.errSeq++
	m.errMsg = msg
	seq := m.errSeq
	return tea.Tick(errorTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{seq: seq}
	})
}

// showNotice displays msg until noticeTimeout passes
func (m *Model) showNotice(msg string) tea.Cmd {
	m.noticeSeq++
	m.notice = msg
	seq := m.noticeSeq
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}
