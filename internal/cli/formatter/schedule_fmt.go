package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// FormatSchedule renders entries in catalog order as a table.
func FormatSchedule(cat *catalog.Catalog, entries []domain.ScheduleEntry) string {
	if len(entries) == 0 {
		return Dim("No schedule entries. Run 'chantier schedule generate' first.")
	}

	headers := []string{"#", "PHASE", "TRADE", "START", "END", "DAYS", "STATUS", ""}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.PhaseID
		pos := "--"
		if ph, ok := cat.Get(e.PhaseID); ok {
			name = ph.Name
			pos = fmt.Sprintf("%d", cat.IndexOf(e.PhaseID)+1)
		}
		days := fmt.Sprintf("%d", e.DurationDays())
		if e.ActualDays != nil {
			days += Dim(fmt.Sprintf(" (est %d)", e.EstimatedDays))
		}
		rows = append(rows, []string{
			pos,
			Bold(name),
			TradeBadge(cat.Trade(e.PhaseID)),
			ShortDate(e.StartDate),
			ShortDate(e.EndDate),
			days,
			EntryStatusPill(e.Status),
			LockBadge(e.Manual),
		})
	}
	return Table{Headers: headers, Rows: rows, Right: []int{0, 5}}.Render()
}

// FormatWarning renders one warning as an English sentence.
func FormatWarning(cat *catalog.Catalog, w domain.Warning) string {
	phase := phaseName(cat, w.PhaseID)
	var msg string
	switch w.Kind {
	case domain.WarnInfeasibleStart:
		msg = fmt.Sprintf("Target start %s cannot be met; construction moved to %s (%s later).",
			w.OriginalDate.Format("Jan 2, 2006"), w.ConflictingDate.Format("Jan 2, 2006"), pluralDays(w.DelayDays))
	case domain.WarnLockedPhaseConflict:
		msg = fmt.Sprintf("%s is locked on %s but the schedule would place it on %s (%s).",
			phase, w.OriginalDate.Format("Jan 2, 2006"), w.ConflictingDate.Format("Jan 2, 2006"), signedDays(w.DelayDays))
	case domain.WarnPreparationOverrun:
		msg = fmt.Sprintf("Preparation now finishes too late for %s on %s; construction moved to %s (%s late).",
			phase, w.OriginalDate.Format("Jan 2, 2006"), w.ConflictingDate.Format("Jan 2, 2006"), pluralDays(w.DelayDays))
	default:
		msg = fmt.Sprintf("%s: %s", w.Kind, phase)
	}
	return WarningIndicator(w.Kind) + " " + msg
}

// FormatWarnings renders a warning section, or nothing when there are none.
func FormatWarnings(cat *catalog.Catalog, warnings []domain.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header("Warnings") + "\n")
	for _, w := range warnings {
		b.WriteString(FormatWarning(cat, w) + "\n")
	}
	return b.String()
}

// FormatConflicts renders trade overlap days.
func FormatConflicts(conflicts []domain.Conflict) string {
	if len(conflicts) == 0 {
		return StyleGreen.Render("✔ No trade conflicts")
	}
	headers := []string{"DATE", "TRADES"}
	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		trades := make([]string, len(c.Trades))
		for i, t := range c.Trades {
			trades[i] = TradeBadge(t)
		}
		rows = append(rows, []string{
			ShortDate(&c.Date),
			strings.Join(trades, Dim(", ")),
		})
	}
	return RenderBox(fmt.Sprintf("%d conflict days", len(conflicts)), RenderTable(headers, rows))
}

// FormatAlerts renders alerts ordered as given.
func FormatAlerts(cat *catalog.Catalog, alerts []domain.Alert) string {
	if len(alerts) == 0 {
		return Dim("No alerts.")
	}
	headers := []string{"ID", "DATE", "TYPE", "PHASE", "MESSAGE"}
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		typ := AlertColor(a.Type).Render(string(a.Type))
		if a.Dismissed {
			typ = Dim(string(a.Type) + " (dismissed)")
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			ShortDate(&a.Date),
			typ,
			phaseName(cat, a.PhaseID),
			a.Message,
		})
	}
	return RenderTable(headers, rows)
}

// FormatCatalog lists the phases in order with their lead times.
func FormatCatalog(cat *catalog.Catalog) string {
	headers := []string{"#", "ID", "NAME", "TRADE", "DAYS", "LEADS", "CONSTRAINTS"}
	rows := make([][]string, 0, cat.Len())
	for i, ph := range cat.Phases() {
		var leads []string
		if ph.SupplierLeadDays > 0 {
			leads = append(leads, fmt.Sprintf("supplier %d", ph.SupplierLeadDays))
		}
		if ph.FabricationLeadDays > 0 {
			leads = append(leads, fmt.Sprintf("fabrication %d", ph.FabricationLeadDays))
		}
		if ph.ContactLeadDays > 0 {
			leads = append(leads, fmt.Sprintf("contact %d", ph.ContactLeadDays))
		}
		var constraints []string
		if ph.Preparatory {
			constraints = append(constraints, "prep")
		}
		if ph.MinDelay != nil {
			constraints = append(constraints, fmt.Sprintf("+%dd after %s", ph.MinDelay.Days, ph.MinDelay.AfterPhaseID))
		}
		if ph.Measurement != nil {
			constraints = append(constraints, "measure after "+ph.Measurement.AfterPhaseID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Dim(ph.ID),
			Bold(ph.Name),
			TradeBadge(ph.Trade),
			fmt.Sprintf("%d", ph.DurationDays),
			orDash(strings.Join(leads, ", ")),
			orDash(strings.Join(constraints, ", ")),
		})
	}
	return RenderBox(fmt.Sprintf("Catalog (%d phases)", cat.Len()), RenderTable(headers, rows))
}

func phaseName(cat *catalog.Catalog, id string) string {
	if cat != nil {
		if ph, ok := cat.Get(id); ok {
			return ph.Name
		}
	}
	if id == "" {
		return "--"
	}
	return id
}

func pluralDays(n int) string {
	if n < 0 {
		n = -n
	}
	return FormatDays(n)
}

func signedDays(n int) string {
	switch {
	case n > 0:
		return FormatDays(n) + " later"
	case n < 0:
		return FormatDays(-n) + " earlier"
	default:
		return "same day"
	}
}

func orDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}
