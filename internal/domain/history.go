package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceRecord captures completed maintenance work for the audit
// trail: what was done, to which bus, when, by whom, and at what cost.
// Records are append-only.
type MaintenanceRecord struct {
	ID             uuid.UUID `json:"id"`
	BusID          uuid.UUID `json:"busId"`
	WorkOrderID    uuid.UUID `json:"workOrderId"`
	Description    string    `json:"description"`
	ComponentTypes []string  `json:"componentTypes"`
	Cost           float64   `json:"cost"`
	Mechanic       string    `json:"mechanic,omitempty"`
	PerformedAt    time.Time `json:"performedAt"`
	KmAtService    float64   `json:"kmAtService"` // Odometer reading when the work was done
}
