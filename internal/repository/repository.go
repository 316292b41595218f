// Package repository provides durable storage for buses, work orders,
// garages, and maintenance history.
//
// The FleetRepository interface is the boundary the business logic
// depends on; it is satisfied by the Postgres implementation in
// production and by the in-memory implementation in tests.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/refayetSiam/SpareHub/internal/domain"
)

// FleetRepository defines storage operations for the fleet maintenance
// core.
type FleetRepository interface {
	// ListBuses returns all buses, ordered by vehicle number.
	ListBuses(ctx context.Context) ([]domain.Bus, error)

	// GetBus returns the bus with the given ID.
	// Returns domain.ENOTFOUND if no such bus exists.
	GetBus(ctx context.Context, id uuid.UUID) (*domain.Bus, error)

	// SaveBus persists the full bus record, including its components and
	// maintenance items.
	SaveBus(ctx context.Context, bus *domain.Bus) error

	// ListWorkOrders returns all work orders, newest first.
	ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error)

	// ListWorkOrdersForBus returns all work orders for a bus, newest first.
	ListWorkOrdersForBus(ctx context.Context, busID uuid.UUID) ([]domain.WorkOrder, error)

	// GetWorkOrder returns the work order with the given ID.
	// Returns domain.ENOTFOUND if no such order exists.
	GetWorkOrder(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error)

	// CreateWorkOrder persists a new work order.
	CreateWorkOrder(ctx context.Context, order *domain.WorkOrder) error

	// SaveWorkOrder persists changes to an existing work order.
	SaveWorkOrder(ctx context.Context, order *domain.WorkOrder) error

	// RecordCompletion persists a completed work order, the updated bus it
	// belongs to, and the maintenance history record in a single atomic
	// write. Either all three land or none do.
	RecordCompletion(ctx context.Context, bus *domain.Bus, order *domain.WorkOrder, record *domain.MaintenanceRecord) error

	// AppendMaintenanceHistory appends a maintenance history record.
	AppendMaintenanceHistory(ctx context.Context, record *domain.MaintenanceRecord) error

	// ListMaintenanceHistory returns history records for a bus, newest first.
	ListMaintenanceHistory(ctx context.Context, busID uuid.UUID) ([]domain.MaintenanceRecord, error)

	// ListGarages returns all garages.
	ListGarages(ctx context.Context) ([]domain.Garage, error)
}
