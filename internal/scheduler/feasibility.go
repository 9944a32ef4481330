package scheduler

import (
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/domain"
)

// Feasibility is the outcome of checking a requested construction start
// against the end of the preparatory phases.
type Feasibility struct {
	EarliestStart time.Time
	Anchor        time.Time
	Warning       *domain.Warning
}

// CheckFeasibility returns the effective anchor date. When preparation cannot
// finish before target, the anchor moves to the business day after
// prepFinish and an infeasible_start warning describes the delay. The
// adjustment is data, never an error.
func CheckFeasibility(prepFinish, target time.Time) Feasibility {
	earliest := calendar.AddBusinessDays(calendar.Truncate(prepFinish), 1)
	target = calendar.Truncate(target)

	if !earliest.After(target) {
		return Feasibility{EarliestStart: earliest, Anchor: target}
	}
	return Feasibility{
		EarliestStart: earliest,
		Anchor:        earliest,
		Warning: &domain.Warning{
			Kind:            domain.WarnInfeasibleStart,
			OriginalDate:    target,
			ConflictingDate: earliest,
			DelayDays:       calendar.DaysBetween(target, earliest),
		},
	}
}
