// Package domain contains core business types and interfaces.
//
// This file defines the wear model shared by bus components and ad-hoc
// maintenance items: the condition states and the calculation that maps
// odometer usage onto them.
package domain

// =============================================================================
// Condition State
// =============================================================================

// ConditionState describes how worn a component or maintenance item is.
// States are totally ordered by severity: good < warning < critical < overdue.
type ConditionState string

const (
	// ConditionGood indicates the component is within its normal service window.
	ConditionGood ConditionState = "good"

	// ConditionWarning indicates the component is approaching the end of its
	// expected lifetime and should be scheduled for replacement soon.
	ConditionWarning ConditionState = "warning"

	// ConditionCritical indicates the component is at or near the end of its
	// expected lifetime and requires prompt replacement.
	ConditionCritical ConditionState = "critical"

	// ConditionOverdue indicates the component has exceeded its expected
	// lifetime and replacement is past due.
	ConditionOverdue ConditionState = "overdue"
)

// String returns the string representation of the state.
func (c ConditionState) String() string {
	return string(c)
}

// IsValid returns true if the state is a recognized value.
func (c ConditionState) IsValid() bool {
	switch c {
	case ConditionGood, ConditionWarning, ConditionCritical, ConditionOverdue:
		return true
	}
	return false
}

// Severity returns the state's rank in the severity order.
// Higher values are more severe. Unknown states rank below good.
func (c ConditionState) Severity() int {
	switch c {
	case ConditionGood:
		return 0
	case ConditionWarning:
		return 1
	case ConditionCritical:
		return 2
	case ConditionOverdue:
		return 3
	}
	return -1
}

// NeedsAttention returns true if the state warrants a work order.
func (c ConditionState) NeedsAttention() bool {
	return c.Severity() > ConditionGood.Severity()
}

// =============================================================================
// Wear Calculation
// =============================================================================

// Wear policy thresholds, expressed as a fraction of expected lifetime used.
// These are the single source of truth for the condition mapping.
const (
	WearWarningRatio  = 0.7
	WearCriticalRatio = 0.9
	WearOverdueRatio  = 1.1
)

// ComputeCondition maps a component's usage onto a condition state.
//
// The usage ratio is (currentKm - installedAtKm) / lifetimeKm. A ratio
// above the overdue threshold yields overdue, above critical yields
// critical, above warning yields warning, anything else is good.
//
// A non-positive lifetime means the catalog entry backing the component
// is malformed; that is reported as an EINVALID error rather than
// defaulting the component to good.
func ComputeCondition(installedAtKm, currentKm, lifetimeKm float64) (ConditionState, error) {
	const op = "condition.compute"

	if lifetimeKm <= 0 {
		return "", Invalid(op, "invalid catalog entry: lifetime must be positive")
	}

	ratio := (currentKm - installedAtKm) / lifetimeKm

	switch {
	case ratio > WearOverdueRatio:
		return ConditionOverdue, nil
	case ratio > WearCriticalRatio:
		return ConditionCritical, nil
	case ratio > WearWarningRatio:
		return ConditionWarning, nil
	default:
		return ConditionGood, nil
	}
}
