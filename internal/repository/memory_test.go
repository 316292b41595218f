package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refayetSiam/SpareHub/internal/domain"
)

func seedBus(t *testing.T, repo *MemoryRepository) *domain.Bus {
	t.Helper()

	bus := &domain.Bus{
		ID:            uuid.New(),
		VehicleNumber: "TL-N-001",
		Type:          domain.BusTypeStandard,
		Status:        domain.BusStatusActive,
		CurrentKm:     50000,
	}
	require.NoError(t, repo.CreateBus(context.Background(), bus))
	return bus
}

func TestMemory_GetBus_NotFound(t *testing.T) {
	repo := NewMemory()

	_, err := repo.GetBus(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestMemory_ListWorkOrders_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	bus := seedBus(t, repo)

	base := time.Now()
	older := &domain.WorkOrder{ID: uuid.New(), BusID: bus.ID, CreatedAt: base.Add(-time.Hour)}
	newer := &domain.WorkOrder{ID: uuid.New(), BusID: bus.ID, CreatedAt: base}
	require.NoError(t, repo.CreateWorkOrder(ctx, older))
	require.NoError(t, repo.CreateWorkOrder(ctx, newer))

	orders, err := repo.ListWorkOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestMemory_RecordCompletion_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	bus := seedBus(t, repo)

	// The order was never persisted; the whole write must be refused.
	order := &domain.WorkOrder{ID: uuid.New(), BusID: bus.ID, Status: domain.WorkOrderStatusCompleted}
	mutated := *bus
	mutated.CurrentKm = 60000

	err := repo.RecordCompletion(ctx, &mutated, order, &domain.MaintenanceRecord{
		ID:          uuid.New(),
		BusID:       bus.ID,
		WorkOrderID: order.ID,
	})
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	// The bus is untouched and no history was written.
	stored, err := repo.GetBus(ctx, bus.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, stored.CurrentKm)

	records, err := repo.ListMaintenanceHistory(ctx, bus.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	bus := seedBus(t, repo)
	bus.Components = []domain.Component{{ID: uuid.NewString(), Type: "tire_fl"}}
	require.NoError(t, repo.SaveBus(ctx, bus))

	first, err := repo.GetBus(ctx, bus.ID)
	require.NoError(t, err)
	first.Components[0].Type = "mutated"
	first.CurrentKm = 0

	fresh, err := repo.GetBus(ctx, bus.ID)
	require.NoError(t, err)
	assert.Equal(t, "tire_fl", fresh.Components[0].Type)
	assert.Equal(t, 50000.0, fresh.CurrentKm)
}
