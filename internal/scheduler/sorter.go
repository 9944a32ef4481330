package scheduler

import (
	"sort"

	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// SortByCatalog orders entries by their phase's catalog position and returns
// the same slice. Phases unknown to the catalog sort last, by phase ID.
func SortByCatalog(cat *catalog.Catalog, entries []domain.ScheduleEntry) []domain.ScheduleEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := cat.IndexOf(entries[i].PhaseID), cat.IndexOf(entries[j].PhaseID)
		if (a < 0) != (b < 0) {
			return a >= 0
		}
		if a != b {
			return a < b
		}
		return entries[i].PhaseID < entries[j].PhaseID
	})
	return entries
}

// SortAlerts sorts alerts by the deterministic display rules:
// 1. Date: earliest first
// 2. Type: lexical ascending
// 3. Phase ID: lexical ascending
func SortAlerts(alerts []domain.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.PhaseID < b.PhaseID
	})
}
