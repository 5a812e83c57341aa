package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pdxmph/todo-tui/internal/todo"
)

// styles is the palette for one theme
type styles struct {
	title     lipgloss.Style
	selected  lipgloss.Style
	completed lipgloss.Style
	muted     lipgloss.Style
	tabActive lipgloss.Style
	tab       lipgloss.Style
	errorMsg  lipgloss.Style
	notice    lipgloss.Style
	warning   lipgloss.Style
	border    lipgloss.Style
}

func newStyles(theme todo.Theme) styles {
	if theme == todo.ThemeLight {
		return styles{
			title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
			selected:  lipgloss.NewStyle().Background(lipgloss.Color("153")).Foreground(lipgloss.Color("16")),
			completed: lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("246")),
			muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
			tabActive: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("25")),
			tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
			errorMsg:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
			notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("166")),
			border: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("250")),
		}
	}

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")),
		selected:  lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")),
		completed: lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		tabActive: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("214")),
		tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errorMsg:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		border: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")),
	}
}

// sanitize makes stored text safe to draw: escape sequences are removed
// and remaining control characters become spaces
func sanitize(text string) string {
	text = ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
}

// fit sanitizes text and truncates it to width cells
func fit(text string, width int) string {
	text = sanitize(text)
	if width <= 0 {
		return text
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, "…")
}
