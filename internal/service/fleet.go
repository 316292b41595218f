// Package service contains the business logic layer.
//
// This file implements the fleet service: bus queries, odometer updates,
// condition recomputation, ad-hoc maintenance item management, and fleet
// statistics.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/refayetSiam/SpareHub/internal/catalog"
	"github.com/refayetSiam/SpareHub/internal/domain"
	"github.com/refayetSiam/SpareHub/internal/metrics"
	"github.com/refayetSiam/SpareHub/internal/repository"
)

// =============================================================================
// Interface Definition
// =============================================================================

// FleetService defines operations on buses and their owned records.
type FleetService interface {
	// ListBuses returns all buses, ordered by vehicle number.
	ListBuses(ctx context.Context) ([]domain.Bus, error)

	// GetBus retrieves a bus by ID.
	// Returns domain.ENOTFOUND if the bus does not exist.
	GetBus(ctx context.Context, id uuid.UUID) (*domain.Bus, error)

	// UpdateMileage records a new odometer reading. The reading must be
	// monotonically non-decreasing; a regression is rejected as a data
	// anomaly with domain.EINVALID, never silently clamped.
	UpdateMileage(ctx context.Context, params domain.UpdateMileageParams) (*domain.Bus, error)

	// RefreshConditions recomputes the condition state of every component
	// on every bus from its current wear ratio. Components backed by a
	// malformed catalog entry are flagged and skipped, not defaulted to
	// good. Returns the number of components whose state changed.
	RefreshConditions(ctx context.Context) (int, error)

	// AddMaintenanceItem attaches an ad-hoc maintenance item to a bus. A
	// non-good item immediately generates a work order.
	AddMaintenanceItem(ctx context.Context, params domain.AddMaintenanceItemParams) (*domain.MaintenanceItem, error)

	// UpdateMaintenanceItem edits an existing maintenance item. A status
	// change away from good generates a work order if none is open.
	UpdateMaintenanceItem(ctx context.Context, params domain.UpdateMaintenanceItemParams) (*domain.MaintenanceItem, error)

	// DeleteMaintenanceItem removes a maintenance item from a bus.
	DeleteMaintenanceItem(ctx context.Context, busID uuid.UUID, itemID string) error

	// Statistics returns fleet-wide counts and outstanding cost.
	Statistics(ctx context.Context) (*domain.FleetStatistics, error)
}

// =============================================================================
// Implementation
// =============================================================================

// fleetService implements the FleetService interface.
type fleetService struct {
	repo       repository.FleetRepository
	catalog    catalog.Catalog
	workOrders WorkOrderService
	logger     *slog.Logger
}

// NewFleetService creates a new FleetService. The work order service is
// used to generate orders inline when maintenance item edits degrade an
// item's condition.
func NewFleetService(
	repo repository.FleetRepository,
	cat catalog.Catalog,
	workOrders WorkOrderService,
	logger *slog.Logger,
) FleetService {
	return &fleetService{
		repo:       repo,
		catalog:    cat,
		workOrders: workOrders,
		logger:     logger,
	}
}

func (s *fleetService) ListBuses(ctx context.Context) ([]domain.Bus, error) {
	return s.repo.ListBuses(ctx)
}

func (s *fleetService) GetBus(ctx context.Context, id uuid.UUID) (*domain.Bus, error) {
	return s.repo.GetBus(ctx, id)
}

// =============================================================================
// Mileage & Conditions
// =============================================================================

// UpdateMileage records a new odometer reading and recomputes the bus's
// component conditions against it.
func (s *fleetService) UpdateMileage(ctx context.Context, params domain.UpdateMileageParams) (*domain.Bus, error) {
	const op = "fleet.update_mileage"

	bus, err := s.repo.GetBus(ctx, params.BusID)
	if err != nil {
		return nil, err
	}

	if params.CurrentKm < bus.CurrentKm {
		return nil, domain.Invalid(op, fmt.Sprintf(
			"odometer regression: new reading %.0f km is below current %.0f km",
			params.CurrentKm, bus.CurrentKm))
	}

	bus.CurrentKm = params.CurrentKm
	s.refreshBusConditions(bus)

	if err := s.repo.SaveBus(ctx, bus); err != nil {
		return nil, err
	}

	s.logger.Info("mileage updated",
		"bus", bus.VehicleNumber,
		"current_km", bus.CurrentKm,
	)
	return bus, nil
}

// RefreshConditions recomputes every component's condition fleet-wide.
func (s *fleetService) RefreshConditions(ctx context.Context) (int, error) {
	const op = "fleet.refresh_conditions"

	buses, err := s.repo.ListBuses(ctx)
	if err != nil {
		return 0, domain.Internal(err, op, "failed to list buses")
	}

	changed := 0
	for i := range buses {
		bus := &buses[i]
		n := s.refreshBusConditions(bus)
		if n == 0 {
			continue
		}
		if err := s.repo.SaveBus(ctx, bus); err != nil {
			return changed, err
		}
		changed += n
	}

	if changed > 0 {
		s.logger.Info("component conditions refreshed", "changed", changed)
	}
	return changed, nil
}

// refreshBusConditions recomputes conditions on a single bus in place and
// returns the number of components whose state changed. Components with a
// malformed lifetime keep their stored state and are flagged.
func (s *fleetService) refreshBusConditions(bus *domain.Bus) int {
	changed := 0
	for i := range bus.Components {
		component := &bus.Components[i]
		condition, err := domain.ComputeCondition(component.InstalledAtKm, bus.CurrentKm, component.LifetimeKm)
		if err != nil {
			s.logger.Warn("component has malformed catalog lifetime, skipping",
				"bus", bus.VehicleNumber,
				"component_type", component.Type,
				"lifetime_km", component.LifetimeKm,
			)
			metrics.InvalidCatalogEntries.Inc()
			continue
		}
		if condition != component.Condition {
			component.Condition = condition
			changed++
		}
	}
	return changed
}

// =============================================================================
// Maintenance Items
// =============================================================================

// AddMaintenanceItem attaches an ad-hoc maintenance item to a bus.
func (s *fleetService) AddMaintenanceItem(ctx context.Context, params domain.AddMaintenanceItemParams) (*domain.MaintenanceItem, error) {
	const op = "fleet.add_maintenance_item"

	if params.Description == "" {
		return nil, domain.Invalid(op, "description is required")
	}
	if params.RenewalDate.IsZero() {
		return nil, domain.Invalid(op, "renewal date is required")
	}

	condition := params.Condition
	if condition == "" {
		condition = domain.ConditionGood
	}
	if !condition.IsValid() {
		return nil, domain.Invalid(op, "invalid condition: "+condition.String())
	}

	installed := params.InstalledDate
	if installed.IsZero() {
		installed = time.Now()
	}

	bus, err := s.repo.GetBus(ctx, params.BusID)
	if err != nil {
		return nil, err
	}

	item := domain.MaintenanceItem{
		ID:            uuid.NewString(),
		Description:   params.Description,
		InstalledDate: installed,
		RenewalDate:   params.RenewalDate,
		Cost:          params.Cost,
		Condition:     condition,
		Notes:         params.Notes,
	}
	bus.MaintenanceItems = append(bus.MaintenanceItems, item)

	if err := s.repo.SaveBus(ctx, bus); err != nil {
		return nil, err
	}

	s.logger.Info("maintenance item added",
		"bus", bus.VehicleNumber,
		"item_id", item.ID,
		"description", item.Description,
	)

	// A degraded item needs a work order right away, the same as a
	// degraded component would during a fleet scan.
	if item.Condition.NeedsAttention() {
		if _, err := s.workOrders.GenerateForMaintenanceItem(ctx, bus, item); err != nil {
			return nil, err
		}
	}

	return &item, nil
}

// UpdateMaintenanceItem edits an existing maintenance item.
func (s *fleetService) UpdateMaintenanceItem(ctx context.Context, params domain.UpdateMaintenanceItemParams) (*domain.MaintenanceItem, error) {
	const op = "fleet.update_maintenance_item"

	bus, err := s.repo.GetBus(ctx, params.BusID)
	if err != nil {
		return nil, err
	}

	item := bus.MaintenanceItemByID(params.ItemID)
	if item == nil {
		return nil, domain.NotFound(op, "maintenance item", params.ItemID)
	}

	if params.Description != nil {
		if *params.Description == "" {
			return nil, domain.Invalid(op, "description cannot be empty")
		}
		item.Description = *params.Description
	}
	if params.RenewalDate != nil {
		item.RenewalDate = *params.RenewalDate
	}
	if params.Cost != nil {
		item.Cost = *params.Cost
	}
	if params.Notes != nil {
		item.Notes = *params.Notes
	}
	if params.Condition != nil {
		if !params.Condition.IsValid() {
			return nil, domain.Invalid(op, "invalid condition: "+params.Condition.String())
		}
		item.Condition = *params.Condition
	}

	if err := s.repo.SaveBus(ctx, bus); err != nil {
		return nil, err
	}

	if params.Condition != nil && item.Condition.NeedsAttention() {
		if _, err := s.workOrders.GenerateForMaintenanceItem(ctx, bus, *item); err != nil {
			return nil, err
		}
	}

	return item, nil
}

// DeleteMaintenanceItem removes a maintenance item from a bus.
func (s *fleetService) DeleteMaintenanceItem(ctx context.Context, busID uuid.UUID, itemID string) error {
	const op = "fleet.delete_maintenance_item"

	bus, err := s.repo.GetBus(ctx, busID)
	if err != nil {
		return err
	}

	items := bus.MaintenanceItems[:0]
	found := false
	for _, item := range bus.MaintenanceItems {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return domain.NotFound(op, "maintenance item", itemID)
	}
	bus.MaintenanceItems = items

	if err := s.repo.SaveBus(ctx, bus); err != nil {
		return err
	}

	s.logger.Info("maintenance item deleted", "bus", bus.VehicleNumber, "item_id", itemID)
	return nil
}

// =============================================================================
// Statistics
// =============================================================================

// Statistics aggregates fleet-wide counts for the summary view.
func (s *fleetService) Statistics(ctx context.Context) (*domain.FleetStatistics, error) {
	const op = "fleet.statistics"

	buses, err := s.repo.ListBuses(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list buses")
	}
	orders, err := s.repo.ListWorkOrders(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list work orders")
	}

	stats := &domain.FleetStatistics{TotalBuses: len(buses)}
	for _, bus := range buses {
		switch bus.Status {
		case domain.BusStatusActive:
			stats.ActiveBuses++
		case domain.BusStatusInMaintenance:
			stats.BusesInMaintenance++
		case domain.BusStatusDecommissioned:
			stats.DecommissionedBuses++
		}
		for _, component := range bus.Components {
			if component.Condition.NeedsAttention() {
				stats.DegradedComponents++
			}
		}
	}
	for _, order := range orders {
		switch order.Status {
		case domain.WorkOrderStatusPending:
			stats.PendingWorkOrders++
			stats.OutstandingCost += order.EstimatedCost
		case domain.WorkOrderStatusInProgress:
			stats.InProgressWorkOrders++
			stats.OutstandingCost += order.EstimatedCost
		case domain.WorkOrderStatusCompleted:
			stats.CompletedWorkOrders++
		case domain.WorkOrderStatusCancelled:
			stats.CancelledWorkOrders++
		}
	}

	return stats, nil
}
