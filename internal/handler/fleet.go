package handler

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/refayetSiam/SpareHub/internal/domain"
	"github.com/refayetSiam/SpareHub/internal/repository"
	"github.com/refayetSiam/SpareHub/internal/service"
)

// FleetHandler serves the bus, garage, and fleet summary endpoints.
type FleetHandler struct {
	fleet   service.FleetService
	repo    repository.FleetRepository
	logger  *slog.Logger
	printer *message.Printer
}

// NewFleetHandler creates a new FleetHandler. The repository is used
// directly for read-only garage and history lookups that carry no
// business logic.
func NewFleetHandler(fleet service.FleetService, repo repository.FleetRepository, logger *slog.Logger) *FleetHandler {
	return &FleetHandler{
		fleet:   fleet,
		repo:    repo,
		logger:  logger,
		printer: message.NewPrinter(language.English),
	}
}

// RegisterRoutes registers fleet routes on the mux.
func (h *FleetHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/buses", h.ListBuses)
	mux.HandleFunc("GET /api/buses/{id}", h.GetBus)
	mux.HandleFunc("PATCH /api/buses/{id}/mileage", h.UpdateMileage)
	mux.HandleFunc("GET /api/buses/{id}/history", h.History)
	mux.HandleFunc("POST /api/buses/{id}/maintenance-items", h.AddMaintenanceItem)
	mux.HandleFunc("PATCH /api/buses/{id}/maintenance-items/{itemId}", h.UpdateMaintenanceItem)
	mux.HandleFunc("DELETE /api/buses/{id}/maintenance-items/{itemId}", h.DeleteMaintenanceItem)
	mux.HandleFunc("GET /api/garages", h.ListGarages)
	mux.HandleFunc("GET /api/fleet/summary", h.Summary)
}

// ListBuses handles GET /api/buses
func (h *FleetHandler) ListBuses(w http.ResponseWriter, r *http.Request) {
	buses, err := h.fleet.ListBuses(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, buses)
}

// GetBus handles GET /api/buses/{id}
func (h *FleetHandler) GetBus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	bus, err := h.fleet.GetBus(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bus)
}

type updateMileageRequest struct {
	CurrentKm float64 `json:"currentKm"`
}

// UpdateMileage handles PATCH /api/buses/{id}/mileage
func (h *FleetHandler) UpdateMileage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req updateMileageRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	bus, err := h.fleet.UpdateMileage(r.Context(), domain.UpdateMileageParams{
		BusID:     id,
		CurrentKm: req.CurrentKm,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bus)
}

// History handles GET /api/buses/{id}/history
func (h *FleetHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// Confirm the bus exists so an unknown ID is a 404, not an empty list.
	if _, err := h.fleet.GetBus(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	records, err := h.repo.ListMaintenanceHistory(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if records == nil {
		records = []domain.MaintenanceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

type addMaintenanceItemRequest struct {
	Description   string     `json:"description"`
	InstalledDate *time.Time `json:"installedDate"`
	RenewalDate   time.Time  `json:"renewalDate"`
	Cost          float64    `json:"cost"`
	Condition     string     `json:"condition"`
	Notes         string     `json:"notes"`
}

// AddMaintenanceItem handles POST /api/buses/{id}/maintenance-items
func (h *FleetHandler) AddMaintenanceItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req addMaintenanceItemRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	params := domain.AddMaintenanceItemParams{
		BusID:       id,
		Description: req.Description,
		RenewalDate: req.RenewalDate,
		Cost:        req.Cost,
		Condition:   domain.ConditionState(req.Condition),
		Notes:       req.Notes,
	}
	if req.InstalledDate != nil {
		params.InstalledDate = *req.InstalledDate
	}

	item, err := h.fleet.AddMaintenanceItem(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type updateMaintenanceItemRequest struct {
	Description *string    `json:"description"`
	RenewalDate *time.Time `json:"renewalDate"`
	Cost        *float64   `json:"cost"`
	Condition   *string    `json:"condition"`
	Notes       *string    `json:"notes"`
}

// UpdateMaintenanceItem handles PATCH /api/buses/{id}/maintenance-items/{itemId}
func (h *FleetHandler) UpdateMaintenanceItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req updateMaintenanceItemRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	params := domain.UpdateMaintenanceItemParams{
		BusID:       id,
		ItemID:      r.PathValue("itemId"),
		Description: req.Description,
		RenewalDate: req.RenewalDate,
		Cost:        req.Cost,
		Notes:       req.Notes,
	}
	if req.Condition != nil {
		condition := domain.ConditionState(*req.Condition)
		params.Condition = &condition
	}

	item, err := h.fleet.UpdateMaintenanceItem(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteMaintenanceItem handles DELETE /api/buses/{id}/maintenance-items/{itemId}
func (h *FleetHandler) DeleteMaintenanceItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.fleet.DeleteMaintenanceItem(r.Context(), id, r.PathValue("itemId")); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGarages handles GET /api/garages
func (h *FleetHandler) ListGarages(w http.ResponseWriter, r *http.Request) {
	garages, err := h.repo.ListGarages(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, garages)
}

// Summary handles GET /api/fleet/summary
//
// The statistics come back with the outstanding cost pre-formatted for
// display alongside the raw number.
func (h *FleetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.fleet.Statistics(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"statistics":               stats,
		"outstandingCostFormatted": h.printer.Sprintf("$%.2f", stats.OutstandingCost),
	})
}
