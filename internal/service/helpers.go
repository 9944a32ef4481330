package service

import (
	"fmt"
	"time"

	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// mergeByPhase overlays planned entries onto existing ones by phase.
func mergeByPhase(existing, planned []domain.ScheduleEntry) []domain.ScheduleEntry {
	index := make(map[string]int, len(existing)+len(planned))
	out := make([]domain.ScheduleEntry, 0, len(existing)+len(planned))
	for _, e := range existing {
		index[e.PhaseID] = len(out)
		out = append(out, e.Clone())
	}
	for _, e := range planned {
		if i, ok := index[e.PhaseID]; ok {
			out[i] = e.Clone()
			continue
		}
		index[e.PhaseID] = len(out)
		out = append(out, e.Clone())
	}
	return out
}

// constructionStart returns the start of the first dated construction phase.
func constructionStart(cat *catalog.Catalog, sorted []domain.ScheduleEntry) *time.Time {
	for _, e := range sorted {
		ph, ok := cat.Get(e.PhaseID)
		if ok && !ph.Preparatory && e.StartDate != nil {
			return domain.TimePtr(*e.StartDate)
		}
	}
	return nil
}

// validation marks a domain state-machine refusal as a validation failure.
func validation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
