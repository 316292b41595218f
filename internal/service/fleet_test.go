package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refayetSiam/SpareHub/internal/catalog"
	"github.com/refayetSiam/SpareHub/internal/domain"
	"github.com/refayetSiam/SpareHub/internal/repository"
)

func newFleetFixture(t *testing.T) (*repository.MemoryRepository, FleetService) {
	t.Helper()
	repo := repository.NewMemory()
	cat := catalog.Default()
	logger := testLogger()
	workOrders := NewWorkOrderService(repo, cat, logger)
	return repo, NewFleetService(repo, cat, workOrders, logger)
}

// =============================================================================
// Mileage
// =============================================================================

func TestUpdateMileage_RecomputesConditions(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	bus := newTestBus(10000, wornTire(0, domain.ConditionGood))
	require.NoError(t, repo.CreateBus(ctx, bus))

	updated, err := svc.UpdateMileage(ctx, domain.UpdateMileageParams{
		BusID:     bus.ID,
		CurrentKm: 75000,
	})
	require.NoError(t, err)
	assert.Equal(t, 75000.0, updated.CurrentKm)
	assert.Equal(t, domain.ConditionCritical, updated.ComponentByType("tire_fl").Condition)
}

func TestUpdateMileage_RejectsRegression(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	bus := newTestBus(50000, wornTire(0, domain.ConditionGood))
	require.NoError(t, repo.CreateBus(ctx, bus))

	_, err := svc.UpdateMileage(ctx, domain.UpdateMileageParams{
		BusID:     bus.ID,
		CurrentKm: 49999,
	})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	// The stored reading is untouched, not clamped.
	stored, err := repo.GetBus(ctx, bus.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, stored.CurrentKm)
}

func TestUpdateMileage_SameReadingAccepted(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	bus := newTestBus(50000, wornTire(0, domain.ConditionGood))
	require.NoError(t, repo.CreateBus(ctx, bus))

	_, err := svc.UpdateMileage(ctx, domain.UpdateMileageParams{
		BusID:     bus.ID,
		CurrentKm: 50000,
	})
	require.NoError(t, err)
}

// =============================================================================
// Condition Refresh
// =============================================================================

func TestRefreshConditions(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	// Stored condition is stale relative to the odometer.
	bus := newTestBus(75000, wornTire(0, domain.ConditionGood))
	require.NoError(t, repo.CreateBus(ctx, bus))

	changed, err := svc.RefreshConditions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	stored, err := repo.GetBus(ctx, bus.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionCritical, stored.ComponentByType("tire_fl").Condition)

	// Re-running over settled state changes nothing.
	changed, err = svc.RefreshConditions(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestRefreshConditions_MalformedLifetimeSkipped(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	broken := domain.Component{
		ID:         uuid.NewString(),
		Type:       "battery",
		Position:   domain.PositionNone,
		LifetimeKm: 0,
		Condition:  domain.ConditionWarning,
	}
	bus := newTestBus(75000, broken, wornTire(0, domain.ConditionGood))
	require.NoError(t, repo.CreateBus(ctx, bus))

	changed, err := svc.RefreshConditions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	stored, err := repo.GetBus(ctx, bus.ID)
	require.NoError(t, err)
	// The broken component keeps its stored state; it is never defaulted
	// to good.
	assert.Equal(t, domain.ConditionWarning, stored.ComponentByType("battery").Condition)
	assert.Equal(t, domain.ConditionCritical, stored.ComponentByType("tire_fl").Condition)
}

// =============================================================================
// Maintenance Items
// =============================================================================

func TestAddMaintenanceItem(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	bus := newTestBus(10000)
	require.NoError(t, repo.CreateBus(ctx, bus))

	item, err := svc.AddMaintenanceItem(ctx, domain.AddMaintenanceItemParams{
		BusID:       bus.ID,
		Description: "Annual Safety Inspection",
		RenewalDate: time.Now().AddDate(1, 0, 0),
		Cost:        300,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, domain.ConditionGood, item.Condition)

	stored, err := repo.GetBus(ctx, bus.ID)
	require.NoError(t, err)
	require.Len(t, stored.MaintenanceItems, 1)

	// A good item generates no work order.
	orders, err := repo.ListWorkOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestAddMaintenanceItem_DegradedGeneratesOrder(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	bus := newTestBus(10000)
	require.NoError(t, repo.CreateBus(ctx, bus))

	_, err := svc.AddMaintenanceItem(ctx, domain.AddMaintenanceItemParams{
		BusID:       bus.ID,
		Description: "Coolant Flush",
		RenewalDate: time.Now().AddDate(0, 1, 0),
		Cost:        150,
		Condition:   domain.ConditionCritical,
	})
	require.NoError(t, err)

	orders, err := repo.ListWorkOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Coolant Flush - TL-N-001", orders[0].Title)
	assert.Equal(t, domain.PriorityHigh, orders[0].Priority)
}

func TestAddMaintenanceItem_Validation(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	bus := newTestBus(10000)
	require.NoError(t, repo.CreateBus(ctx, bus))

	_, err := svc.AddMaintenanceItem(ctx, domain.AddMaintenanceItemParams{
		BusID:       bus.ID,
		RenewalDate: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.AddMaintenanceItem(ctx, domain.AddMaintenanceItemParams{
		BusID:       bus.ID,
		Description: "Missing renewal date",
	})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestDeleteMaintenanceItem(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	bus := newTestBus(10000)
	require.NoError(t, repo.CreateBus(ctx, bus))

	item, err := svc.AddMaintenanceItem(ctx, domain.AddMaintenanceItemParams{
		BusID:       bus.ID,
		Description: "Annual Safety Inspection",
		RenewalDate: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMaintenanceItem(ctx, bus.ID, item.ID))

	err = svc.DeleteMaintenanceItem(ctx, bus.ID, item.ID)
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

// =============================================================================
// Statistics
// =============================================================================

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFleetFixture(t)

	active := newTestBus(75000, wornTire(0, domain.ConditionCritical))
	inShop := newTestBus(20000, wornTire(0, domain.ConditionGood))
	inShop.VehicleNumber = "TL-N-002"
	inShop.Status = domain.BusStatusInMaintenance
	require.NoError(t, repo.CreateBus(ctx, active))
	require.NoError(t, repo.CreateBus(ctx, inShop))

	pending := &domain.WorkOrder{
		ID:            uuid.New(),
		BusID:         active.ID,
		Status:        domain.WorkOrderStatusPending,
		EstimatedCost: 450,
		CreatedAt:     time.Now(),
	}
	cancelled := &domain.WorkOrder{
		ID:            uuid.New(),
		BusID:         active.ID,
		Status:        domain.WorkOrderStatusCancelled,
		EstimatedCost: 9999,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, repo.CreateWorkOrder(ctx, pending))
	require.NoError(t, repo.CreateWorkOrder(ctx, cancelled))

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalBuses)
	assert.Equal(t, 1, stats.ActiveBuses)
	assert.Equal(t, 1, stats.BusesInMaintenance)
	assert.Equal(t, 1, stats.DegradedComponents)
	assert.Equal(t, 1, stats.PendingWorkOrders)
	assert.Equal(t, 1, stats.CancelledWorkOrders)
	// Closed orders contribute nothing to outstanding cost.
	assert.Equal(t, 450.0, stats.OutstandingCost)
}
