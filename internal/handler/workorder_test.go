package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refayetSiam/SpareHub/internal/catalog"
	"github.com/refayetSiam/SpareHub/internal/domain"
	"github.com/refayetSiam/SpareHub/internal/repository"
	"github.com/refayetSiam/SpareHub/internal/service"
)

func newTestServer(t *testing.T) (*repository.MemoryRepository, *http.ServeMux) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewMemory()
	cat := catalog.Default()
	workOrders := service.NewWorkOrderService(repo, cat, logger)
	fleet := service.NewFleetService(repo, cat, workOrders, logger)

	mux := http.NewServeMux()
	NewWorkOrderHandler(workOrders, logger).RegisterRoutes(mux)
	NewFleetHandler(fleet, repo, logger).RegisterRoutes(mux)
	return repo, mux
}

func seedDegradedBus(t *testing.T, repo *repository.MemoryRepository) *domain.Bus {
	t.Helper()

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
			Condition:     domain.ConditionCritical,
		}},
	}
	require.NoError(t, repo.CreateBus(context.Background(), bus))
	return bus
}

func TestGenerateEndpoint(t *testing.T) {
	repo, mux := newTestServer(t)
	seedDegradedBus(t, repo)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/work-orders/generate", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Created []domain.WorkOrder `json:"created"`
		Count   int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Created, 1)
	assert.Equal(t, "Front Left Tire Maintenance - TL-N-001", body.Created[0].Title)
}

func TestCompleteEndpoint(t *testing.T) {
	repo, mux := newTestServer(t)
	bus := seedDegradedBus(t, repo)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/work-orders/generate", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	orders, err := repo.ListWorkOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/work-orders/"+orders[0].ID.String()+"/complete",
		strings.NewReader(`{"actualCost": 480}`))
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)

	stored, err := repo.GetBus(context.Background(), bus.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionGood, stored.ComponentByType("tire_fl").Condition)
}

// TestCompleteEndpoint_TerminalOrder verifies that completing a terminal
// order comes back as a failed result with a conflict status, not an
// error envelope.
func TestCompleteEndpoint_TerminalOrder(t *testing.T) {
	repo, mux := newTestServer(t)
	bus := seedDegradedBus(t, repo)

	order := &domain.WorkOrder{
		ID:     uuid.New(),
		BusID:  bus.ID,
		Title:  "Front Left Tire Maintenance - TL-N-001",
		Status: domain.WorkOrderStatusCompleted,
	}
	require.NoError(t, repo.CreateWorkOrder(context.Background(), order))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/work-orders/"+order.ID.String()+"/complete", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var result domain.CompletionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "already completed")
}

func TestCompleteEndpoint_UnknownOrder(t *testing.T) {
	_, mux := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/work-orders/"+uuid.NewString()+"/complete", nil)
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var result domain.CompletionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
}

func TestGetWorkOrder_InvalidID(t *testing.T) {
	_, mux := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/work-orders/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMileageEndpoint_Regression(t *testing.T) {
	repo, mux := newTestServer(t)
	bus := seedDegradedBus(t, repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/buses/"+bus.ID.String()+"/mileage",
		strings.NewReader(`{"currentKm": 1000}`))
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFleetSummaryEndpoint(t *testing.T) {
	repo, mux := newTestServer(t)
	seedDegradedBus(t, repo)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/work-orders/generate", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/fleet/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Statistics               domain.FleetStatistics `json:"statistics"`
		OutstandingCostFormatted string                 `json:"outstandingCostFormatted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Statistics.TotalBuses)
	assert.Equal(t, 1, body.Statistics.PendingWorkOrders)
	assert.Equal(t, "$450.00", body.OutstandingCostFormatted)
}
