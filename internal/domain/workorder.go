// Package domain contains core business types and interfaces.
//
// This file defines the WorkOrder domain type: the record that carries a
// maintenance obligation from detection through completion or cancellation.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Work Order Status
// =============================================================================

// WorkOrderStatus represents the lifecycle state of a work order.
type WorkOrderStatus string

const (
	// WorkOrderStatusPending indicates the order has been created and is
	// waiting to be scheduled or picked up.
	WorkOrderStatusPending WorkOrderStatus = "pending"

	// WorkOrderStatusInProgress indicates a mechanic is working the order.
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"

	// WorkOrderStatusCompleted indicates the work was carried out. Terminal.
	WorkOrderStatusCompleted WorkOrderStatus = "completed"

	// WorkOrderStatusCancelled indicates the order was abandoned without the
	// work being done. Terminal; orders are never deleted, only cancelled.
	WorkOrderStatusCancelled WorkOrderStatus = "cancelled"
)

// String returns the string representation of the status.
func (s WorkOrderStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusPending, WorkOrderStatusInProgress,
		WorkOrderStatusCompleted, WorkOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further status transitions are permitted.
func (s WorkOrderStatus) IsTerminal() bool {
	return s == WorkOrderStatusCompleted || s == WorkOrderStatusCancelled
}

// IsOpen returns true for statuses that count against the
// one-open-order-per-component rule.
func (s WorkOrderStatus) IsOpen() bool {
	return s == WorkOrderStatusPending || s == WorkOrderStatusInProgress
}

// CanTransitionTo checks if the status can move to the target status.
//
// Valid transitions:
// - pending -> in_progress
// - in_progress -> completed
// - pending -> completed (an order may be closed out without being started)
// - pending | in_progress -> cancelled
// Terminal states permit no transitions.
func (s WorkOrderStatus) CanTransitionTo(target WorkOrderStatus) bool {
	if s == target {
		return true
	}
	if s.IsTerminal() {
		return false
	}

	switch s {
	case WorkOrderStatusPending:
		return target == WorkOrderStatusInProgress ||
			target == WorkOrderStatusCompleted ||
			target == WorkOrderStatusCancelled
	case WorkOrderStatusInProgress:
		return target == WorkOrderStatusCompleted ||
			target == WorkOrderStatusCancelled
	}

	return false
}

// =============================================================================
// Work Order Priority
// =============================================================================

// WorkOrderPriority represents the urgency of a work order.
type WorkOrderPriority string

const (
	PriorityLow      WorkOrderPriority = "low"
	PriorityMedium   WorkOrderPriority = "medium"
	PriorityHigh     WorkOrderPriority = "high"
	PriorityCritical WorkOrderPriority = "critical"
)

// String returns the string representation of the priority.
func (p WorkOrderPriority) String() string {
	return string(p)
}

// IsValid returns true if the priority is a recognized value.
func (p WorkOrderPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// PriorityForCondition maps a degraded condition state onto the priority
// of the work order it generates. ConditionGood never generates an order,
// so it has no mapping and falls through to the lowest priority.
func PriorityForCondition(c ConditionState) WorkOrderPriority {
	switch c {
	case ConditionOverdue:
		return PriorityCritical
	case ConditionCritical:
		return PriorityHigh
	case ConditionWarning:
		return PriorityMedium
	}
	return PriorityLow
}

// =============================================================================
// Work Order Domain Type
// =============================================================================

// WorkOrder represents a unit of maintenance work against a bus.
//
// ComponentTypes holds the catalog types the order covers; an empty set
// means the order originated from an ad-hoc maintenance item rather than
// a cataloged component. The garage ID is denormalized from the bus at
// creation time so the order remains routable even if the bus moves.
type WorkOrder struct {
	ID               uuid.UUID         `json:"id"`
	BusID            uuid.UUID         `json:"busId"`
	GarageID         string            `json:"garageId"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	ComponentTypes   []string          `json:"componentTypes"`
	Priority         WorkOrderPriority `json:"priority"`
	Status           WorkOrderStatus   `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	ScheduledDate    *time.Time        `json:"scheduledDate,omitempty"`
	DueDate          *time.Time        `json:"dueDate,omitempty"`
	CompletedDate    *time.Time        `json:"completedDate,omitempty"`
	EstimatedCost    float64           `json:"estimatedCost"`
	ActualCost       *float64          `json:"actualCost,omitempty"`
	AssignedMechanic string            `json:"assignedMechanic,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	AutoGenerated    bool              `json:"autoGenerated"` // true for generator-created orders
}

// TransitionTo moves the work order to the target status, or returns an
// error if the transition is not permitted. The status is left unchanged
// on error.
func (w *WorkOrder) TransitionTo(target WorkOrderStatus) error {
	if !w.Status.CanTransitionTo(target) {
		return Conflict("workorder.transition",
			fmt.Sprintf("cannot transition work order from %s to %s", w.Status, target))
	}
	w.Status = target
	return nil
}

// References returns true if the order's component set includes the given
// catalog type.
func (w *WorkOrder) References(componentType string) bool {
	for _, t := range w.ComponentTypes {
		if t == componentType {
			return true
		}
	}
	return false
}

// =============================================================================
// Service Parameters
// =============================================================================

// CompleteWorkOrderParams contains parameters for closing out a work order.
type CompleteWorkOrderParams struct {
	ID             uuid.UUID
	ActualCost     float64  // Zero falls back to the order's estimated cost
	ComponentTypes []string // Components whose wear clock is reset; empty for item-derived orders
	Notes          string

	// MaintenanceItemID identifies the originating maintenance item for
	// item-derived orders. Optional; when empty the item is located by the
	// order's derived title.
	MaintenanceItemID string
}

// UpdateWorkOrderParams contains parameters for field-level edits to a
// non-terminal work order. Nil fields are left unchanged.
type UpdateWorkOrderParams struct {
	ID               uuid.UUID
	Priority         *WorkOrderPriority
	Status           *WorkOrderStatus
	ScheduledDate    *time.Time
	DueDate          *time.Time
	AssignedMechanic *string
	Notes            *string
}

// CompletionResult is the user-facing outcome of a completion attempt.
// Constraint violations (missing order, terminal state) surface here as
// a failed result rather than an opaque error.
type CompletionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
