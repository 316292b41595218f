package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refayetSiam/SpareHub/internal/catalog"
	"github.com/refayetSiam/SpareHub/internal/domain"
	"github.com/refayetSiam/SpareHub/internal/repository"
	"github.com/refayetSiam/SpareHub/internal/service"
)

func TestScanner_Scan(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := repository.NewMemory()
	cat := catalog.Default()
	workOrders := service.NewWorkOrderService(repo, cat, logger)
	fleet := service.NewFleetService(repo, cat, workOrders, logger)

	// Stored condition is stale; the odometer says the tire is critical.
	bus := &domain.Bus{
		ID:            uuid.New(),
		VehicleNumber: "TL-N-001",
		Type:          domain.BusTypeStandard,
		Status:        domain.BusStatusActive,
		GarageID:      "garage-north",
		CurrentKm:     75000,
		Components: []domain.Component{{
			ID:            uuid.NewString(),
			Type:          "tire_fl",
			Position:      domain.PositionFrontLeft,
			InstalledAtKm: 0,
			LifetimeKm:    80000,
			EstimatedCost: 450,
			Condition:     domain.ConditionGood,
		}},
	}
	require.NoError(t, repo.CreateBus(ctx, bus))

	scanner, err := New(fleet, workOrders, DefaultConfig(), logger)
	require.NoError(t, err)

	// One full pass refreshes conditions and generates the work order.
	scanner.scan(ctx)

	stored, err := repo.GetBus(ctx, bus.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionCritical, stored.ComponentByType("tire_fl").Condition)

	orders, err := repo.ListWorkOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.PriorityHigh, orders[0].Priority)

	// A second pass over settled state is a no-op.
	scanner.scan(ctx)

	orders, err = repo.ListWorkOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
