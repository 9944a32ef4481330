package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project is the schedule owner. ScheduleVersion and ScheduleDigest track the
// last committed schedule write for optimistic concurrency and no-op detection.
type Project struct {
	ID                 string
	ShortID            string
	Name               string
	TargetStartDate    time.Time
	EffectiveStartDate *time.Time
	ScheduleVersion    int
	ScheduleDigest     string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. MAISON01).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. CHALET01)", p.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Scheduled reports whether a schedule has ever been committed.
func (p *Project) Scheduled() bool {
	return p.ScheduleVersion > 0
}

// ScheduleMatches reports whether a freshly computed schedule with the given
// digest and construction anchor is identical to the committed one, in which
// case nothing needs writing and the version stays put.
func (p *Project) ScheduleMatches(digest string, anchor time.Time) bool {
	return p.Scheduled() && digest == p.ScheduleDigest && SameDate(p.EffectiveStartDate, &anchor)
}
