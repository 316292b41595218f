package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    WorkOrderStatus
		to      WorkOrderStatus
		allowed bool
	}{
		{WorkOrderStatusPending, WorkOrderStatusInProgress, true},
		{WorkOrderStatusPending, WorkOrderStatusCompleted, true},
		{WorkOrderStatusPending, WorkOrderStatusCancelled, true},
		{WorkOrderStatusInProgress, WorkOrderStatusCompleted, true},
		{WorkOrderStatusInProgress, WorkOrderStatusCancelled, true},
		{WorkOrderStatusInProgress, WorkOrderStatusPending, false},
		{WorkOrderStatusCompleted, WorkOrderStatusPending, false},
		{WorkOrderStatusCompleted, WorkOrderStatusInProgress, false},
		{WorkOrderStatusCompleted, WorkOrderStatusCancelled, false},
		{WorkOrderStatusCancelled, WorkOrderStatusPending, false},
		{WorkOrderStatusCancelled, WorkOrderStatusCompleted, false},

		// Same-status transitions are no-ops, always permitted.
		{WorkOrderStatusPending, WorkOrderStatusPending, true},
		{WorkOrderStatusCompleted, WorkOrderStatusCompleted, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestWorkOrder_TransitionTo_TerminalUnchanged(t *testing.T) {
	order := &WorkOrder{Status: WorkOrderStatusCompleted}

	err := order.TransitionTo(WorkOrderStatusInProgress)
	require.Error(t, err)
	assert.Equal(t, ECONFLICT, ErrorCode(err))
	assert.Equal(t, WorkOrderStatusCompleted, order.Status, "status must not change on a rejected transition")
}

func TestWorkOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, WorkOrderStatusPending.IsTerminal())
	assert.False(t, WorkOrderStatusInProgress.IsTerminal())
	assert.True(t, WorkOrderStatusCompleted.IsTerminal())
	assert.True(t, WorkOrderStatusCancelled.IsTerminal())
}

func TestPriorityForCondition(t *testing.T) {
	tests := []struct {
		condition ConditionState
		want      WorkOrderPriority
	}{
		{ConditionOverdue, PriorityCritical},
		{ConditionCritical, PriorityHigh},
		{ConditionWarning, PriorityMedium},
		{ConditionGood, PriorityLow},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, PriorityForCondition(tc.condition), "condition %s", tc.condition)
	}
}

func TestParseBusStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    BusStatus
		wantErr bool
	}{
		{"active", BusStatusActive, false},
		{"operational", BusStatusActive, false},
		{"in_maintenance", BusStatusInMaintenance, false},
		{"maintenance", BusStatusInMaintenance, false},
		{"decommissioned", BusStatusDecommissioned, false},
		{"out_of_service", BusStatusDecommissioned, false},
		{"retired", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseBusStatus(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, EINVALID, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWorkOrder_References(t *testing.T) {
	order := &WorkOrder{ComponentTypes: []string{"tire_fl", "brake_pads"}}

	assert.True(t, order.References("tire_fl"))
	assert.True(t, order.References("brake_pads"))
	assert.False(t, order.References("engine"))

	empty := &WorkOrder{}
	assert.False(t, empty.References("tire_fl"))
}
