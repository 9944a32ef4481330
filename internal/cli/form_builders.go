package cli

import (
	"github.com/charmbracelet/huh"
)

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title, placeholder string, value *string) *huh.Input {
	if placeholder == "" {
		placeholder = "2025-06-30"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalDate)
}

// editFormValues carries the fields of the interactive phase edit.
type editFormValues struct {
	Start string
	End   string
	Lock  bool
}

// editPhaseForm returns a themed form for moving one phase. Current dates
// are used as placeholders; blank fields keep their value.
func editPhaseForm(phaseName, currentStart, currentEnd string, v *editFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(phaseName),
			dateInput("New start (YYYY-MM-DD, blank to keep)", currentStart, &v.Start),
			dateInput("New end (YYYY-MM-DD, blank to keep duration)", currentEnd, &v.End),
			huh.NewConfirm().
				Title("Lock these dates?").
				Description("Locked phases are never moved by recalculation").
				Value(&v.Lock),
		),
	).WithTheme(chantierHuhTheme(v.Lock)).WithShowHelp(false)
}
