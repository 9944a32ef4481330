package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// DetectConflicts reports every calendar day on which two or more distinct
// trades are scheduled. Trades are listed once per day in catalog order.
// Entries without dates or with phases unknown to the catalog are ignored.
func DetectConflicts(cat *catalog.Catalog, entries []domain.ScheduleEntry) []domain.Conflict {
	type span struct {
		start, end time.Time
		trade      string
		order      int
	}

	var spans []span
	var first, last time.Time
	for _, e := range entries {
		if !e.HasDates() {
			continue
		}
		order := cat.IndexOf(e.PhaseID)
		if order < 0 {
			continue
		}
		s := span{start: *e.StartDate, end: *e.EndDate, trade: cat.Trade(e.PhaseID), order: order}
		if len(spans) == 0 || s.start.Before(first) {
			first = s.start
		}
		if len(spans) == 0 || s.end.After(last) {
			last = s.end
		}
		spans = append(spans, s)
	}
	if len(spans) < 2 {
		return nil
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].order < spans[j].order })

	var conflicts []domain.Conflict
	calendar.Each(first, last, func(day time.Time) {
		seen := make(map[string]bool)
		var trades []string
		for _, s := range spans {
			if day.Before(s.start) || day.After(s.end) || seen[s.trade] {
				continue
			}
			seen[s.trade] = true
			trades = append(trades, s.trade)
		}
		if len(trades) >= 2 {
			conflicts = append(conflicts, domain.Conflict{Date: day, Trades: trades})
		}
	})
	return conflicts
}
