package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/domain"
)

// canonicalEntry is the part of a schedule entry that defines the plan.
// Row IDs and timestamps are left out so the same plan always hashes the same.
type canonicalEntry struct {
	Phase    string `json:"phase"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Estimate int    `json:"estimate"`
	Actual   *int   `json:"actual,omitempty"`
	Manual   bool   `json:"manual"`
	Status   string `json:"status"`
}

// Canonicalize returns a stable JSON form of the entries. Callers pass
// entries in catalog order.
func Canonicalize(entries []domain.ScheduleEntry) ([]byte, error) {
	out := make([]canonicalEntry, len(entries))
	for i, e := range entries {
		c := canonicalEntry{
			Phase:    e.PhaseID,
			Estimate: e.EstimatedDays,
			Actual:   e.ActualDays,
			Manual:   e.Manual,
			Status:   string(e.Status),
		}
		if e.StartDate != nil {
			c.Start = calendar.Format(*e.StartDate)
		}
		if e.EndDate != nil {
			c.End = calendar.Format(*e.EndDate)
		}
		out[i] = c
	}
	return json.Marshal(out)
}

// Fingerprint computes the blake3 digest of the canonicalized entries.
func Fingerprint(entries []domain.ScheduleEntry) (string, error) {
	canonical, err := Canonicalize(entries)
	if err != nil {
		return "", fmt.Errorf("canonicalize schedule: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash schedule: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
