package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/refayetSiam/SpareHub/internal/domain"
)

// MemoryRepository is an in-memory FleetRepository guarded by a single
// mutex. It backs unit tests and gives the completion path the same
// all-or-nothing write semantics as the Postgres transaction.
type MemoryRepository struct {
	mu      sync.Mutex
	buses   map[uuid.UUID]domain.Bus
	orders  map[uuid.UUID]domain.WorkOrder
	history []domain.MaintenanceRecord
	garages []domain.Garage
}

// NewMemory creates an empty MemoryRepository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		buses:  make(map[uuid.UUID]domain.Bus),
		orders: make(map[uuid.UUID]domain.WorkOrder),
	}
}

var _ FleetRepository = (*MemoryRepository)(nil)

// =============================================================================
// Buses
// =============================================================================

func (r *MemoryRepository) ListBuses(ctx context.Context) ([]domain.Bus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buses := make([]domain.Bus, 0, len(r.buses))
	for _, bus := range r.buses {
		buses = append(buses, copyBus(bus))
	}
	sort.Slice(buses, func(i, j int) bool {
		return buses[i].VehicleNumber < buses[j].VehicleNumber
	})
	return buses, nil
}

func (r *MemoryRepository) GetBus(ctx context.Context, id uuid.UUID) (*domain.Bus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bus, ok := r.buses[id]
	if !ok {
		return nil, domain.NotFound("repository.get_bus", "bus", id.String())
	}
	out := copyBus(bus)
	return &out, nil
}

func (r *MemoryRepository) SaveBus(ctx context.Context, bus *domain.Bus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.buses[bus.ID]; !ok {
		return domain.NotFound("repository.save_bus", "bus", bus.ID.String())
	}
	r.buses[bus.ID] = copyBus(*bus)
	return nil
}

// CreateBus inserts a new bus record. Used by tests and data ingestion.
func (r *MemoryRepository) CreateBus(ctx context.Context, bus *domain.Bus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buses[bus.ID] = copyBus(*bus)
	return nil
}

// =============================================================================
// Work Orders
// =============================================================================

func (r *MemoryRepository) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]domain.WorkOrder, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, copyWorkOrder(order))
	}
	sortWorkOrders(orders)
	return orders, nil
}

func (r *MemoryRepository) ListWorkOrdersForBus(ctx context.Context, busID uuid.UUID) ([]domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []domain.WorkOrder
	for _, order := range r.orders {
		if order.BusID == busID {
			orders = append(orders, copyWorkOrder(order))
		}
	}
	sortWorkOrders(orders)
	return orders, nil
}

func (r *MemoryRepository) GetWorkOrder(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NotFound("repository.get_work_order", "work order", id.String())
	}
	out := copyWorkOrder(order)
	return &out, nil
}

func (r *MemoryRepository) CreateWorkOrder(ctx context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID] = copyWorkOrder(*order)
	return nil
}

func (r *MemoryRepository) SaveWorkOrder(ctx context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return domain.NotFound("repository.save_work_order", "work order", order.ID.String())
	}
	r.orders[order.ID] = copyWorkOrder(*order)
	return nil
}

func (r *MemoryRepository) RecordCompletion(ctx context.Context, bus *domain.Bus, order *domain.WorkOrder, record *domain.MaintenanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate both records exist before touching either, so a failure
	// leaves the store unchanged.
	if _, ok := r.buses[bus.ID]; !ok {
		return domain.NotFound("repository.record_completion", "bus", bus.ID.String())
	}
	if _, ok := r.orders[order.ID]; !ok {
		return domain.NotFound("repository.record_completion", "work order", order.ID.String())
	}

	r.buses[bus.ID] = copyBus(*bus)
	r.orders[order.ID] = copyWorkOrder(*order)
	r.history = append(r.history, copyRecord(*record))
	return nil
}

// =============================================================================
// Maintenance History
// =============================================================================

func (r *MemoryRepository) AppendMaintenanceHistory(ctx context.Context, record *domain.MaintenanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, copyRecord(*record))
	return nil
}

func (r *MemoryRepository) ListMaintenanceHistory(ctx context.Context, busID uuid.UUID) ([]domain.MaintenanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []domain.MaintenanceRecord
	for _, record := range r.history {
		if record.BusID == busID {
			records = append(records, copyRecord(record))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].PerformedAt.After(records[j].PerformedAt)
	})
	return records, nil
}

// =============================================================================
// Garages
// =============================================================================

func (r *MemoryRepository) ListGarages(ctx context.Context) ([]domain.Garage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	garages := make([]domain.Garage, len(r.garages))
	copy(garages, r.garages)
	return garages, nil
}

// SetGarages replaces the garage reference data.
func (r *MemoryRepository) SetGarages(garages []domain.Garage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.garages = make([]domain.Garage, len(garages))
	copy(r.garages, garages)
}

// =============================================================================
// Copy helpers
// =============================================================================

// Records are deep-copied in and out so callers never share slices with
// the store.

func copyBus(bus domain.Bus) domain.Bus {
	out := bus
	out.Components = append([]domain.Component(nil), bus.Components...)
	out.MaintenanceItems = append([]domain.MaintenanceItem(nil), bus.MaintenanceItems...)
	if bus.EstimatedActiveDate != nil {
		t := *bus.EstimatedActiveDate
		out.EstimatedActiveDate = &t
	}
	if bus.Coordinates != nil {
		c := *bus.Coordinates
		out.Coordinates = &c
	}
	return out
}

func copyWorkOrder(order domain.WorkOrder) domain.WorkOrder {
	out := order
	out.ComponentTypes = append([]string(nil), order.ComponentTypes...)
	if order.ScheduledDate != nil {
		t := *order.ScheduledDate
		out.ScheduledDate = &t
	}
	if order.DueDate != nil {
		t := *order.DueDate
		out.DueDate = &t
	}
	if order.CompletedDate != nil {
		t := *order.CompletedDate
		out.CompletedDate = &t
	}
	if order.ActualCost != nil {
		v := *order.ActualCost
		out.ActualCost = &v
	}
	return out
}

func copyRecord(record domain.MaintenanceRecord) domain.MaintenanceRecord {
	out := record
	out.ComponentTypes = append([]string(nil), record.ComponentTypes...)
	return out
}

func sortWorkOrders(orders []domain.WorkOrder) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID.String() < orders[j].ID.String()
	})
}
