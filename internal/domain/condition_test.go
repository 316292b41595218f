package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCondition(t *testing.T) {
	tests := []struct {
		name          string
		installedAtKm float64
		currentKm     float64
		lifetimeKm    float64
		want          ConditionState
	}{
		{
			name:          "fresh component",
			installedAtKm: 0,
			currentKm:     0,
			lifetimeKm:    80000,
			want:          ConditionGood,
		},
		{
			name:          "just past warning threshold",
			installedAtKm: 0,
			currentKm:     56001,
			lifetimeKm:    80000,
			want:          ConditionWarning,
		},
		{
			name:          "just past critical threshold",
			installedAtKm: 0,
			currentKm:     72001,
			lifetimeKm:    80000,
			want:          ConditionCritical,
		},
		{
			name:          "past end of life",
			installedAtKm: 0,
			currentKm:     88001,
			lifetimeKm:    80000,
			want:          ConditionOverdue,
		},
		{
			name:          "exactly at warning boundary stays good",
			installedAtKm: 0,
			currentKm:     56000,
			lifetimeKm:    80000,
			want:          ConditionGood,
		},
		{
			name:          "exactly at critical boundary stays warning",
			installedAtKm: 0,
			currentKm:     72000,
			lifetimeKm:    80000,
			want:          ConditionWarning,
		},
		{
			name:          "exactly at lifetime stays critical",
			installedAtKm: 0,
			currentKm:     80000,
			lifetimeKm:    80000,
			want:          ConditionCritical,
		},
		{
			name:          "exactly at overdue boundary stays critical",
			installedAtKm: 0,
			currentKm:     88000,
			lifetimeKm:    80000,
			want:          ConditionCritical,
		},
		{
			name:          "non-zero install point",
			installedAtKm: 100000,
			currentKm:     160001,
			lifetimeKm:    80000,
			want:          ConditionWarning,
		},
		{
			name:          "current below install reads as zero wear",
			installedAtKm: 50000,
			currentKm:     50000,
			lifetimeKm:    50000,
			want:          ConditionGood,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeCondition(tc.installedAtKm, tc.currentKm, tc.lifetimeKm)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeCondition_InvalidLifetime(t *testing.T) {
	for _, lifetime := range []float64{0, -1, -80000} {
		_, err := ComputeCondition(0, 10000, lifetime)
		require.Error(t, err)
		assert.Equal(t, EINVALID, ErrorCode(err))
	}
}

// TestComputeCondition_Monotonic verifies that condition severity never
// decreases as the odometer advances.
func TestComputeCondition_Monotonic(t *testing.T) {
	const lifetime = 80000.0

	prev := ConditionGood
	for km := 0.0; km <= 2*lifetime; km += 1000 {
		got, err := ComputeCondition(0, km, lifetime)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Severity(), prev.Severity(),
			"severity regressed at %.0f km", km)
		prev = got
	}
}

func TestConditionState_NeedsAttention(t *testing.T) {
	assert.False(t, ConditionGood.NeedsAttention())
	assert.True(t, ConditionWarning.NeedsAttention())
	assert.True(t, ConditionCritical.NeedsAttention())
	assert.True(t, ConditionOverdue.NeedsAttention())
}
