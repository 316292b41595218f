// Package domain contains core business types and interfaces.
//
// This file defines the Bus domain type and the component and maintenance
// item records it owns.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Bus Type
// =============================================================================

// BusType classifies a bus by body style. Each type has a fixed passenger
// capacity.
type BusType string

const (
	BusTypeMini         BusType = "mini"
	BusTypeStandard     BusType = "standard"
	BusTypeArticulated  BusType = "articulated"
	BusTypeDoubleDecker BusType = "double_decker"
)

// String returns the string representation of the type.
func (t BusType) String() string {
	return string(t)
}

// IsValid returns true if the type is a recognized value.
func (t BusType) IsValid() bool {
	switch t {
	case BusTypeMini, BusTypeStandard, BusTypeArticulated, BusTypeDoubleDecker:
		return true
	}
	return false
}

// Capacity returns the passenger capacity for the bus type.
// Unknown types report zero capacity.
func (t BusType) Capacity() int {
	switch t {
	case BusTypeMini:
		return 25
	case BusTypeStandard:
		return 40
	case BusTypeArticulated:
		return 60
	case BusTypeDoubleDecker:
		return 80
	}
	return 0
}

// =============================================================================
// Bus Status
// =============================================================================

// BusStatus represents the operational state of a bus.
type BusStatus string

const (
	BusStatusActive         BusStatus = "active"
	BusStatusInMaintenance  BusStatus = "in_maintenance"
	BusStatusDecommissioned BusStatus = "decommissioned"
)

// String returns the string representation of the status.
func (s BusStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized canonical value.
func (s BusStatus) IsValid() bool {
	switch s {
	case BusStatusActive, BusStatusInMaintenance, BusStatusDecommissioned:
		return true
	}
	return false
}

// ParseBusStatus normalizes a stored status string to the canonical
// enumeration. Legacy spellings from older data exports are accepted here
// and only here; the rest of the core never branches on more than one
// spelling of the same state.
func ParseBusStatus(s string) (BusStatus, error) {
	switch s {
	case "active", "operational":
		return BusStatusActive, nil
	case "in_maintenance", "maintenance":
		return BusStatusInMaintenance, nil
	case "decommissioned", "out_of_service":
		return BusStatusDecommissioned, nil
	}
	return "", Invalid("bus.parse_status", "unknown bus status: "+s)
}

// =============================================================================
// Component
// =============================================================================

// ComponentPosition identifies where a positional component (tire, brake
// pad, rotor) is mounted. Components without a mounting position use
// PositionNone.
type ComponentPosition string

const (
	PositionFrontLeft  ComponentPosition = "FL"
	PositionFrontRight ComponentPosition = "FR"
	PositionRearLeft   ComponentPosition = "RL"
	PositionRearRight  ComponentPosition = "RR"
	PositionNone       ComponentPosition = "N/A"
)

// Component is a physical part installed on a bus, tracked against the
// component catalog. Components are owned exclusively by their bus.
type Component struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`     // Catalog type key, e.g. "tire_fl"
	Position      ComponentPosition `json:"position"` // Mounting position, PositionNone if not positional
	InstalledDate time.Time         `json:"installedDate"`
	InstalledAtKm float64           `json:"installedAtKm"` // Odometer reading at installation
	LifetimeKm    float64           `json:"lifetimeKm"`    // Expected lifetime, copied from catalog (may be overridden)
	RenewalDate   time.Time         `json:"renewalDate"`   // Projected replacement date
	EstimatedCost float64           `json:"estimatedCost"` // Replacement cost estimate
	Condition     ConditionState    `json:"condition"`
}

// =============================================================================
// Maintenance Item
// =============================================================================

// MaintenanceItem is an ad-hoc maintenance obligation on a bus that is not
// modeled by the component catalog (e.g. "annual inspection"). It shares
// the component lifecycle shape but is tracked by description rather than
// catalog type.
type MaintenanceItem struct {
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	InstalledDate time.Time      `json:"installedDate"`
	RenewalDate   time.Time      `json:"renewalDate"`
	Cost          float64        `json:"cost"`
	Condition     ConditionState `json:"condition"`
	Notes         string         `json:"notes,omitempty"`
}

// =============================================================================
// Bus Domain Type
// =============================================================================

// Coordinates is a geographic position, carried through from fleet data
// imports for display purposes.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bus represents a fleet vehicle together with the components and
// maintenance items it owns.
//
// CurrentKm is assumed monotonically non-decreasing over the bus's life.
// The wear calculation depends on this; a regression is a data anomaly
// and is rejected at the mileage-update boundary rather than clamped.
type Bus struct {
	ID                  uuid.UUID         `json:"id"`
	VehicleNumber       string            `json:"vehicleNumber"` // Human-facing identifier, e.g. "TL-N-001"
	Type                BusType           `json:"type"`
	Status              BusStatus         `json:"status"`
	GarageID            string            `json:"garageId"`
	CurrentKm           float64           `json:"currentKm"`
	RegistrationDate    time.Time         `json:"registrationDate"`
	LastMaintenanceDate time.Time         `json:"lastMaintenanceDate"`
	EstimatedActiveDate *time.Time        `json:"estimatedActiveDate,omitempty"` // When a bus in maintenance is expected back
	Coordinates         *Coordinates      `json:"coordinates,omitempty"`
	Components          []Component       `json:"components"`
	MaintenanceItems    []MaintenanceItem `json:"maintenanceItems"`
}

// ComponentByType returns the first component of the given catalog type,
// or nil if the bus has none.
func (b *Bus) ComponentByType(componentType string) *Component {
	for i := range b.Components {
		if b.Components[i].Type == componentType {
			return &b.Components[i]
		}
	}
	return nil
}

// MaintenanceItemByID returns the maintenance item with the given ID, or
// nil if the bus has none.
func (b *Bus) MaintenanceItemByID(id string) *MaintenanceItem {
	for i := range b.MaintenanceItems {
		if b.MaintenanceItems[i].ID == id {
			return &b.MaintenanceItems[i]
		}
	}
	return nil
}

// =============================================================================
// Service Parameters
// =============================================================================

// UpdateMileageParams contains parameters for recording a new odometer
// reading on a bus.
type UpdateMileageParams struct {
	BusID     uuid.UUID
	CurrentKm float64
}

// AddMaintenanceItemParams contains validated parameters for attaching an
// ad-hoc maintenance item to a bus.
type AddMaintenanceItemParams struct {
	BusID         uuid.UUID
	Description   string // Required
	InstalledDate time.Time
	RenewalDate   time.Time // Required
	Cost          float64
	Condition     ConditionState
	Notes         string
}

// UpdateMaintenanceItemParams contains parameters for editing a
// maintenance item. Nil fields are left unchanged.
type UpdateMaintenanceItemParams struct {
	BusID       uuid.UUID
	ItemID      string
	Description *string
	RenewalDate *time.Time
	Cost        *float64
	Condition   *ConditionState
	Notes       *string
}
