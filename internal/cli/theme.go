package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/cli/formatter"
)

// chantierHuhTheme styles the phase edit form in the formatter palette. A
// phase that is already locked gets the purple accent used for lock badges.
func chantierHuhTheme(locked bool) *huh.Theme {
	accent := formatter.ColorHeader
	if locked {
		accent = formatter.ColorPurple
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t := huh.ThemeBase()
	f := &t.Focused
	f.Title = fg(accent).Bold(true)
	f.NoteTitle = fg(formatter.ColorFg).Bold(true).MarginBottom(1)
	f.Description = fg(formatter.ColorDim)
	f.TextInput.Cursor = fg(accent)
	f.TextInput.Prompt = fg(accent)
	f.TextInput.Text = fg(formatter.ColorFg)
	f.TextInput.Placeholder = fg(formatter.ColorDim)
	f.ErrorIndicator = fg(formatter.ColorRed)
	f.ErrorMessage = fg(formatter.ColorRed)
	f.FocusedButton = fg(formatter.ColorFg).Background(accent).Padding(0, 1)
	f.BlurredButton = fg(formatter.ColorDim).Padding(0, 1)

	// Fields other than the one being typed into fade to the dim tone.
	b := &t.Blurred
	b.Title = fg(formatter.ColorDim)
	b.NoteTitle = fg(formatter.ColorFg)
	b.Description = fg(formatter.ColorDim)
	b.TextInput.Prompt = fg(formatter.ColorDim)
	b.TextInput.Text = fg(formatter.ColorDim)
	b.FocusedButton = fg(formatter.ColorDim).Padding(0, 1)
	b.BlurredButton = fg(formatter.ColorDim).Padding(0, 1)
	return t
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := calendar.Parse(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
