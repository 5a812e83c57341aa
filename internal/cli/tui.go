package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/todo-tui/internal/tui"
)

// runTUI opens the task list and starts the interactive program
func runTUI(opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so log output goes to a
	// file next to the database or nowhere
	if opts.verbose {
		logDir := filepath.Dir(cfg.Database.Path)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := tea.LogToFile(filepath.Join(logDir, "debug.log"), "todo-tui")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	a, err := opts.open()
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.New(a.store, tui.Options{
		Prefs:        a.adapter,
		DefaultTheme: a.cfg.Theme(),
		Degraded:     a.manager.Degraded(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}
