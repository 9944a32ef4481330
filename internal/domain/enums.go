package domain

type EntryStatus string

const (
	StatusScheduled  EntryStatus = "scheduled"
	StatusInProgress EntryStatus = "in_progress"
	StatusCompleted  EntryStatus = "completed"
)

// ValidEntryStatuses is the canonical set of accepted schedule entry statuses.
var ValidEntryStatuses = map[string]bool{
	"scheduled": true, "in_progress": true, "completed": true,
}

type AlertType string

const (
	AlertSupplierCall         AlertType = "supplier_call"
	AlertFabricationStart     AlertType = "fabrication_start"
	AlertMeasurement          AlertType = "measurement"
	AlertContactSubcontractor AlertType = "contact_subcontractor"
)

// ValidAlertTypes is the canonical set of accepted alert types.
var ValidAlertTypes = map[string]bool{
	"supplier_call": true, "fabrication_start": true,
	"measurement": true, "contact_subcontractor": true,
}

type WarningKind string

const (
	WarnInfeasibleStart     WarningKind = "infeasible_start"
	WarnLockedPhaseConflict WarningKind = "locked_phase_conflict"
	WarnPreparationOverrun  WarningKind = "preparation_overrun"
)
