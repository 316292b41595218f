package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/refayetSiam/SpareHub/internal/domain"
	"github.com/refayetSiam/SpareHub/internal/service"
)

// WorkOrderHandler serves the work order endpoints.
type WorkOrderHandler struct {
	workOrders service.WorkOrderService
	logger     *slog.Logger
}

// NewWorkOrderHandler creates a new WorkOrderHandler.
func NewWorkOrderHandler(workOrders service.WorkOrderService, logger *slog.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrders: workOrders,
		logger:     logger,
	}
}

// RegisterRoutes registers work order routes on the mux.
func (h *WorkOrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/work-orders", h.List)
	mux.HandleFunc("GET /api/work-orders/{id}", h.Get)
	mux.HandleFunc("POST /api/work-orders/generate", h.Generate)
	mux.HandleFunc("PATCH /api/work-orders/{id}", h.Update)
	mux.HandleFunc("POST /api/work-orders/{id}/complete", h.Complete)
	mux.HandleFunc("POST /api/work-orders/{id}/cancel", h.Cancel)
}

// List handles GET /api/work-orders
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.workOrders.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/work-orders/{id}
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	order, err := h.workOrders.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Generate handles POST /api/work-orders/generate
//
// Triggers an on-demand fleet scan. The response is the batch of orders
// the scan created; an empty batch means the fleet is already covered.
func (h *WorkOrderHandler) Generate(w http.ResponseWriter, r *http.Request) {
	created, err := h.workOrders.GenerateForFleet(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if created == nil {
		created = []domain.WorkOrder{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"created": created,
		"count":   len(created),
	})
}

type updateWorkOrderRequest struct {
	Priority         *string    `json:"priority"`
	Status           *string    `json:"status"`
	ScheduledDate    *time.Time `json:"scheduledDate"`
	DueDate          *time.Time `json:"dueDate"`
	AssignedMechanic *string    `json:"assignedMechanic"`
	Notes            *string    `json:"notes"`
}

// Update handles PATCH /api/work-orders/{id}
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req updateWorkOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	params := domain.UpdateWorkOrderParams{
		ID:               id,
		ScheduledDate:    req.ScheduledDate,
		DueDate:          req.DueDate,
		AssignedMechanic: req.AssignedMechanic,
		Notes:            req.Notes,
	}
	if req.Priority != nil {
		priority := domain.WorkOrderPriority(*req.Priority)
		params.Priority = &priority
	}
	if req.Status != nil {
		status := domain.WorkOrderStatus(*req.Status)
		params.Status = &status
	}

	order, err := h.workOrders.Update(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type completeWorkOrderRequest struct {
	ActualCost        float64  `json:"actualCost"`
	ComponentTypes    []string `json:"componentTypes"`
	Notes             string   `json:"notes"`
	MaintenanceItemID string   `json:"maintenanceItemId"`
}

// Complete handles POST /api/work-orders/{id}/complete
//
// Constraint violations (unknown order, already-terminal order, bad
// request) come back as a failed CompletionResult with the mapped status
// code rather than the generic error envelope.
func (h *WorkOrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req completeWorkOrderRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
	}

	order, err := h.workOrders.Complete(r.Context(), domain.CompleteWorkOrderParams{
		ID:                id,
		ActualCost:        req.ActualCost,
		ComponentTypes:    req.ComponentTypes,
		Notes:             req.Notes,
		MaintenanceItemID: req.MaintenanceItemID,
	})
	if err != nil {
		code := domain.ErrorCode(err)
		if code == domain.EINTERNAL {
			ErrorResponse(w, r, h.logger, err)
			return
		}
		writeJSON(w, ErrorCodeToHTTPStatus(code), domain.CompletionResult{
			Success: false,
			Message: domain.ErrorMessage(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "work order completed",
		"workOrder": order,
	})
}

// Cancel handles POST /api/work-orders/{id}/cancel
func (h *WorkOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.workOrders.Cancel(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "work order cancelled",
	})
}

// pathUUID parses a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Invalid("handler.path", "invalid "+name+": must be a UUID")
	}
	return id, nil
}
