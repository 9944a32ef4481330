package domain

import "time"

// Warning is a non-fatal scheduling finding. It carries data only; wording is
// left to the presentation layer.
type Warning struct {
	Kind            WarningKind
	PhaseID         string
	OriginalDate    time.Time
	ConflictingDate time.Time
	DelayDays       int
}
