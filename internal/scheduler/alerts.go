package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// DeriveAlerts computes the reminders implied by the schedule. Lead times are
// counted in calendar days back from the phase start. Measurement alerts fall
// on the end date of the phase they reference. Alerts dated before today are
// dropped. The result is sorted with SortAlerts.
func DeriveAlerts(cat *catalog.Catalog, entries []domain.ScheduleEntry, today time.Time) []domain.Alert {
	today = calendar.Truncate(today)
	byPhase := make(map[string]domain.ScheduleEntry, len(entries))
	for _, e := range entries {
		byPhase[e.PhaseID] = e
	}

	var alerts []domain.Alert
	emit := func(e domain.ScheduleEntry, typ domain.AlertType, date time.Time, msg string) {
		if date.Before(today) {
			return
		}
		alerts = append(alerts, domain.Alert{
			ScheduleEntryID: e.ID,
			ProjectID:       e.ProjectID,
			PhaseID:         e.PhaseID,
			Type:            typ,
			Date:            date,
			Message:         msg,
		})
	}

	for _, e := range entries {
		ph, ok := cat.Get(e.PhaseID)
		if !ok || e.StartDate == nil {
			continue
		}
		start := *e.StartDate
		startStr := calendar.Format(start)

		if ph.SupplierLeadDays > 0 {
			emit(e, domain.AlertSupplierCall, calendar.AddDays(start, -ph.SupplierLeadDays),
				fmt.Sprintf("Call supplier for %s (starts %s, %d days lead)", ph.Name, startStr, ph.SupplierLeadDays))
		}
		if ph.FabricationLeadDays > 0 {
			emit(e, domain.AlertFabricationStart, calendar.AddDays(start, -ph.FabricationLeadDays),
				fmt.Sprintf("Start fabrication for %s (starts %s, %d days lead)", ph.Name, startStr, ph.FabricationLeadDays))
		}
		if ph.ContactLeadDays > 0 {
			emit(e, domain.AlertContactSubcontractor, calendar.AddDays(start, -ph.ContactLeadDays),
				fmt.Sprintf("Confirm %s crew for %s (starts %s)", ph.Trade, ph.Name, startStr))
		}
		if ph.Measurement != nil {
			ref, found := byPhase[ph.Measurement.AfterPhaseID]
			if !found || ref.EndDate == nil {
				continue
			}
			msg := fmt.Sprintf("Measure on site for %s after %s", ph.Name, ph.Measurement.AfterPhaseID)
			if ph.Measurement.Notes != "" {
				msg += ": " + ph.Measurement.Notes
			}
			emit(e, domain.AlertMeasurement, calendar.Truncate(*ref.EndDate), msg)
		}
	}

	SortAlerts(alerts)
	return alerts
}

// MergeAlerts reconciles freshly derived alerts with the stored ones.
//
// A pair with an active stored alert is never inserted again; if the stored
// date or message went stale the stored alert is returned in update with the
// new values. A pair whose stored alert was dismissed for the same date stays
// quiet. Everything else is returned in create.
func MergeAlerts(existing, derived []domain.Alert) (create, update []domain.Alert) {
	active := make(map[string]domain.Alert, len(existing))
	dismissed := make(map[string][]time.Time)
	for _, a := range existing {
		key := a.PairKey()
		if a.Dismissed {
			dismissed[key] = append(dismissed[key], a.Date)
			continue
		}
		active[key] = a
	}

	for _, d := range derived {
		key := d.PairKey()
		if cur, ok := active[key]; ok {
			if !cur.Date.Equal(d.Date) || cur.Message != d.Message {
				cur.Date = d.Date
				cur.Message = d.Message
				update = append(update, cur)
				active[key] = cur
			}
			continue
		}
		if dismissedOn(dismissed[key], d.Date) {
			continue
		}
		create = append(create, d)
		active[key] = d
	}
	return create, update
}

func dismissedOn(dates []time.Time, day time.Time) bool {
	for _, d := range dates {
		if d.Equal(day) {
			return true
		}
	}
	return false
}
