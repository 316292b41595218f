// Package service contains the business logic layer.
//
// This file implements the work order service: generation of work orders
// from component wear state and the lifecycle state machine that carries
// an order from creation through completion or cancellation.
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

// averageDailyKm is the assumed daily mileage used to project renewal
// dates from remaining component lifetime.
const averageDailyKm = 50

// =============================================================================
// Interface Definition
// =============================================================================

// WorkOrderService defines operations on work orders.
//
// Generation is effectful: both entry points persist the orders they
// create before returning them. Callers never persist generator output
// themselves.
type WorkOrderService interface {
	// List returns all work orders, newest first.
	List(ctx context.Context) ([]domain.WorkOrder, error)

	// GetByID retrieves a work order by ID.
	// Returns domain.ENOTFOUND if the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error)

	// GenerateForComponent creates and persists a pending work order for a
	// degraded component. Returns nil when the component is in good
	// condition or an open order already references the same bus and
	// component type, so repeated calls are safe.
	GenerateForComponent(ctx context.Context, bus *domain.Bus, component domain.Component) (*domain.WorkOrder, error)

	// GenerateForMaintenanceItem is GenerateForComponent for ad-hoc
	// maintenance items. The resulting order carries an empty component
	// type set.
	GenerateForMaintenanceItem(ctx context.Context, bus *domain.Bus, item domain.MaintenanceItem) (*domain.WorkOrder, error)

	// GenerateForFleet scans every bus's components and maintenance items
	// and returns the batch of newly created orders. Iteration order is
	// deterministic for a fixed fleet state. Catalog problems degrade the
	// affected component, never the whole batch.
	GenerateForFleet(ctx context.Context) ([]domain.WorkOrder, error)

	// Update applies field-level edits to a non-terminal work order.
	// Returns domain.ECONFLICT if the order is terminal; terminal orders
	// are frozen entirely, notes included.
	Update(ctx context.Context, params domain.UpdateWorkOrderParams) (*domain.WorkOrder, error)

	// Complete closes out a work order and resets the wear clock of every
	// affected component (or the originating maintenance item) against the
	// bus's current odometer reading. The bus, order, and history record
	// are persisted atomically.
	// Returns domain.ENOTFOUND if the order does not exist and
	// domain.ECONFLICT if it is already terminal.
	Complete(ctx context.Context, params domain.CompleteWorkOrderParams) (*domain.WorkOrder, error)

	// Cancel marks a work order cancelled. No component side effects.
	// Returns domain.ECONFLICT if the order is already terminal.
	Cancel(ctx context.Context, id uuid.UUID) error
}

// =============================================================================
// Implementation
// =============================================================================

// workOrderService implements the WorkOrderService interface.
type workOrderService struct {
	repo    repository.FleetRepository
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewWorkOrderService creates a new WorkOrderService.
func NewWorkOrderService(
	repo repository.FleetRepository,
	cat catalog.Catalog,
	logger *slog.Logger,
) WorkOrderService {
	return &workOrderService{
		repo:    repo,
		catalog: cat,
		logger:  logger,
	}
}

func (s *workOrderService) List(ctx context.Context) ([]domain.WorkOrder, error) {
	return s.repo.ListWorkOrders(ctx)
}

func (s *workOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	return s.repo.GetWorkOrder(ctx, id)
}

// =============================================================================
// Generation
// =============================================================================

// GenerateForComponent creates a work order for a degraded component.
func (s *workOrderService) GenerateForComponent(ctx context.Context, bus *domain.Bus, component domain.Component) (*domain.WorkOrder, error) {
	const op = "workorder.generate_component"

	if !component.Condition.NeedsAttention() {
		return nil, nil
	}

	open, err := s.hasOpenOrderForComponent(ctx, bus.ID, component.Type)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to check open work orders")
	}
	if open {
		return nil, nil
	}

	displayName := catalog.DisplayName(s.catalog, component.Type)

	order := &domain.WorkOrder{
		ID:             uuid.New(),
		BusID:          bus.ID,
		GarageID:       bus.GarageID,
		Title:          fmt.Sprintf("%s Maintenance - %s", displayName, bus.VehicleNumber),
		Description:    fmt.Sprintf("Scheduled maintenance for %s. Component has reached %s status and requires attention.", displayName, component.Condition),
		ComponentTypes: []string{component.Type},
		Priority:       domain.PriorityForCondition(component.Condition),
		Status:         domain.WorkOrderStatusPending,
		CreatedAt:      time.Now(),
		EstimatedCost:  component.EstimatedCost,
		AutoGenerated:  true,
	}

	if err := s.repo.CreateWorkOrder(ctx, order); err != nil {
		return nil, domain.Internal(err, op, "failed to persist work order")
	}

	s.logger.Info("work order generated",
		"work_order_id", order.ID,
		"bus", bus.VehicleNumber,
		"component_type", component.Type,
		"condition", component.Condition,
		"priority", order.Priority,
	)
	metrics.WorkOrdersGenerated.Inc()

	return order, nil
}

// GenerateForMaintenanceItem creates a work order for a degraded ad-hoc
// maintenance item.
func (s *workOrderService) GenerateForMaintenanceItem(ctx context.Context, bus *domain.Bus, item domain.MaintenanceItem) (*domain.WorkOrder, error) {
	const op = "workorder.generate_item"

	if !item.Condition.NeedsAttention() {
		return nil, nil
	}

	title := fmt.Sprintf("%s - %s", item.Description, bus.VehicleNumber)

	open, err := s.hasOpenOrderWithTitle(ctx, bus.ID, title)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to check open work orders")
	}
	if open {
		return nil, nil
	}

	order := &domain.WorkOrder{
		ID:             uuid.New(),
		BusID:          bus.ID,
		GarageID:       bus.GarageID,
		Title:          title,
		Description:    fmt.Sprintf("Scheduled maintenance for %s. Item has reached %s status and requires attention.", item.Description, item.Condition),
		ComponentTypes: []string{},
		Priority:       domain.PriorityForCondition(item.Condition),
		Status:         domain.WorkOrderStatusPending,
		CreatedAt:      time.Now(),
		EstimatedCost:  item.Cost,
		AutoGenerated:  true,
	}

	if err := s.repo.CreateWorkOrder(ctx, order); err != nil {
		return nil, domain.Internal(err, op, "failed to persist work order")
	}

	s.logger.Info("work order generated",
		"work_order_id", order.ID,
		"bus", bus.VehicleNumber,
		"maintenance_item", item.Description,
		"condition", item.Condition,
	)
	metrics.WorkOrdersGenerated.Inc()

	return order, nil
}

// GenerateForFleet scans the whole fleet and creates work orders for
// everything degraded that lacks an open order.
func (s *workOrderService) GenerateForFleet(ctx context.Context) ([]domain.WorkOrder, error) {
	const op = "workorder.generate_fleet"

	buses, err := s.repo.ListBuses(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list buses")
	}

	var created []domain.WorkOrder
	for i := range buses {
		bus := &buses[i]

		for _, component := range bus.Components {
			order, err := s.GenerateForComponent(ctx, bus, component)
			if err != nil {
				// A single bad component must not abort the fleet-wide batch.
				s.logger.Warn("skipping component during fleet generation",
					"bus", bus.VehicleNumber,
					"component_type", component.Type,
					"error", err,
				)
				continue
			}
			if order != nil {
				created = append(created, *order)
			}
		}

		for _, item := range bus.MaintenanceItems {
			order, err := s.GenerateForMaintenanceItem(ctx, bus, item)
			if err != nil {
				s.logger.Warn("skipping maintenance item during fleet generation",
					"bus", bus.VehicleNumber,
					"maintenance_item", item.Description,
					"error", err,
				)
				continue
			}
			if order != nil {
				created = append(created, *order)
			}
		}
	}

	s.logger.Info("fleet generation finished", "buses", len(buses), "created", len(created))
	return created, nil
}

func (s *workOrderService) hasOpenOrderForComponent(ctx context.Context, busID uuid.UUID, componentType string) (bool, error) {
	orders, err := s.repo.ListWorkOrdersForBus(ctx, busID)
	if err != nil {
		return false, err
	}
	for _, order := range orders {
		if order.Status.IsOpen() && order.References(componentType) {
			return true, nil
		}
	}
	return false, nil
}

func (s *workOrderService) hasOpenOrderWithTitle(ctx context.Context, busID uuid.UUID, title string) (bool, error) {
	orders, err := s.repo.ListWorkOrdersForBus(ctx, busID)
	if err != nil {
		return false, err
	}
	for _, order := range orders {
		if order.Status.IsOpen() && len(order.ComponentTypes) == 0 && order.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// Lifecycle
// =============================================================================

// Update applies field-level edits to a non-terminal work order.
func (s *workOrderService) Update(ctx context.Context, params domain.UpdateWorkOrderParams) (*domain.WorkOrder, error) {
	const op = "workorder.update"

	order, err := s.repo.GetWorkOrder(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, domain.Conflict(op,
			fmt.Sprintf("work order is %s and can no longer be edited", order.Status))
	}

	if params.Priority != nil {
		if !params.Priority.IsValid() {
			return nil, domain.Invalid(op, "invalid priority: "+params.Priority.String())
		}
		order.Priority = *params.Priority
	}
	if params.ScheduledDate != nil {
		order.ScheduledDate = params.ScheduledDate
	}
	if params.DueDate != nil {
		order.DueDate = params.DueDate
	}
	if params.AssignedMechanic != nil {
		order.AssignedMechanic = *params.AssignedMechanic
	}
	if params.Notes != nil {
		order.Notes = *params.Notes
	}
	if params.Status != nil {
		if err := order.TransitionTo(*params.Status); err != nil {
			return nil, err
		}
		if order.Status == domain.WorkOrderStatusCompleted && order.CompletedDate == nil {
			now := time.Now()
			order.CompletedDate = &now
		}
	}

	if err := s.repo.SaveWorkOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("work order updated", "work_order_id", order.ID, "status", order.Status)
	return order, nil
}

// Complete closes out a work order and resets the wear clocks it covers.
func (s *workOrderService) Complete(ctx context.Context, params domain.CompleteWorkOrderParams) (*domain.WorkOrder, error) {
	const op = "workorder.complete"

	order, err := s.repo.GetWorkOrder(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, domain.Conflict(op,
			fmt.Sprintf("work order is already %s", order.Status))
	}

	bus, err := s.repo.GetBus(ctx, order.BusID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	actualCost := params.ActualCost
	if actualCost <= 0 {
		actualCost = order.EstimatedCost
	}

	if err := order.TransitionTo(domain.WorkOrderStatusCompleted); err != nil {
		return nil, err
	}
	order.CompletedDate = &now
	order.ActualCost = &actualCost
	if params.Notes != "" {
		order.Notes = params.Notes
	}

	// Reset the wear clock of everything the order covered, against the
	// bus's current odometer reading rather than the creation-time
	// snapshot.
	componentTypes := params.ComponentTypes
	if len(componentTypes) == 0 {
		componentTypes = order.ComponentTypes
	}

	if len(componentTypes) > 0 {
		reset := 0
		for _, componentType := range componentTypes {
			component := bus.ComponentByType(componentType)
			if component == nil {
				s.logger.Warn("completed work order references unknown component",
					"work_order_id", order.ID,
					"bus", bus.VehicleNumber,
					"component_type", componentType,
				)
				continue
			}
			s.resetComponent(component, bus.CurrentKm, now)
			reset++
		}
		metrics.ComponentsReset.Add(float64(reset))
	} else {
		// Maintenance-item-derived order: reset the originating item instead.
		item := s.findOrderItem(bus, order, params.MaintenanceItemID)
		if item == nil {
			return nil, domain.Invalid(op,
				"work order references no components and no matching maintenance item was found")
		}
		resetMaintenanceItem(item, now)
	}

	bus.LastMaintenanceDate = now

	record := &domain.MaintenanceRecord{
		ID:             uuid.New(),
		BusID:          bus.ID,
		WorkOrderID:    order.ID,
		Description:    order.Title,
		ComponentTypes: componentTypes,
		Cost:           actualCost,
		Mechanic:       order.AssignedMechanic,
		PerformedAt:    now,
		KmAtService:    bus.CurrentKm,
	}

	// Bus, work order, and history land together or not at all.
	if err := s.repo.RecordCompletion(ctx, bus, order, record); err != nil {
		return nil, err
	}

	s.logger.Info("work order completed",
		"work_order_id", order.ID,
		"bus", bus.VehicleNumber,
		"actual_cost", actualCost,
		"components", componentTypes,
	)
	metrics.WorkOrdersCompleted.Inc()

	return order, nil
}

// Cancel marks a work order cancelled.
func (s *workOrderService) Cancel(ctx context.Context, id uuid.UUID) error {
	const op = "workorder.cancel"

	order, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.Status.IsTerminal() {
		return domain.Conflict(op,
			fmt.Sprintf("work order is already %s", order.Status))
	}

	if err := order.TransitionTo(domain.WorkOrderStatusCancelled); err != nil {
		return err
	}
	if err := s.repo.SaveWorkOrder(ctx, order); err != nil {
		return err
	}

	s.logger.Info("work order cancelled", "work_order_id", order.ID)
	metrics.WorkOrdersCancelled.Inc()
	return nil
}

// resetComponent clears a component's wear clock after replacement.
// The renewal projection uses the catalog lifetime when available so a
// stale override does not survive the replacement.
func (s *workOrderService) resetComponent(component *domain.Component, currentKm float64, now time.Time) {
	if master, ok := s.catalog.Lookup(component.Type); ok && master.DefaultLifetimeKm > 0 {
		component.LifetimeKm = master.DefaultLifetimeKm
	}

	component.InstalledAtKm = currentKm
	component.InstalledDate = now
	component.Condition = domain.ConditionGood

	if component.LifetimeKm > 0 {
		days := component.LifetimeKm / averageDailyKm
		component.RenewalDate = now.Add(time.Duration(days*24) * time.Hour)
	}
}

// resetMaintenanceItem clears an ad-hoc item after the work is done. The
// renewal date advances by the item's previous interval, defaulting to a
// year when the stored dates are unusable.
func resetMaintenanceItem(item *domain.MaintenanceItem, now time.Time) {
	interval := item.RenewalDate.Sub(item.InstalledDate)
	if interval <= 0 {
		interval = 365 * 24 * time.Hour
	}
	item.InstalledDate = now
	item.RenewalDate = now.Add(interval)
	item.Condition = domain.ConditionGood
}

// findOrderItem locates the maintenance item a work order was generated
// from, preferring an explicit item ID and falling back to the derived
// title.
func (s *workOrderService) findOrderItem(bus *domain.Bus, order *domain.WorkOrder, itemID string) *domain.MaintenanceItem {
	if itemID != "" {
		return bus.MaintenanceItemByID(itemID)
	}
	for i := range bus.MaintenanceItems {
		title := fmt.Sprintf("%s - %s", bus.MaintenanceItems[i].Description, bus.VehicleNumber)
		if title == order.Title {
			return &bus.MaintenanceItems[i]
		}
	}
	return nil
}
