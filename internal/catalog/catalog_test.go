package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Lookup(t *testing.T) {
	cat := Default()

	tire, ok := cat.Lookup("tire_fl")
	require.True(t, ok)
	assert.Equal(t, "Front Left Tire", tire.DisplayName)
	assert.Equal(t, 80000.0, tire.DefaultLifetimeKm)
	assert.Equal(t, 450.0, tire.AverageCost)
	assert.True(t, tire.RequiresPosition)

	engine, ok := cat.Lookup("engine")
	require.True(t, ok)
	assert.Equal(t, 500000.0, engine.DefaultLifetimeKm)
	assert.False(t, engine.RequiresPosition)

	_, ok = cat.Lookup("flux_capacitor")
	assert.False(t, ok)
}

func TestDefault_AllEntriesValid(t *testing.T) {
	for _, m := range Default().Masters() {
		assert.NotEmpty(t, m.Type)
		assert.NotEmpty(t, m.DisplayName)
		assert.Positive(t, m.DefaultLifetimeKm, "lifetime for %s", m.Type)
		assert.Positive(t, m.AverageCost, "cost for %s", m.Type)
	}
}

func TestDisplayName_Fallback(t *testing.T) {
	cat := Default()

	assert.Equal(t, "Battery", DisplayName(cat, "battery"))
	// Unknown types fall back to the raw key instead of failing.
	assert.Equal(t, "custom_widget", DisplayName(cat, "custom_widget"))
}

func TestMasters_ReturnsCopy(t *testing.T) {
	cat := Default()

	first := cat.Masters()
	first[0].DisplayName = "mutated"

	fresh := cat.Masters()
	assert.NotEqual(t, "mutated", fresh[0].DisplayName)
}
