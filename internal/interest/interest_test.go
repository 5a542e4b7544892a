package interest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/pkg/core"
)

func TestNewTracker_CampaignStart(t *testing.T) {
	tr := NewTracker(0)
	assert.Equal(t, InitialOverall, tr.Overall())
	assert.Equal(t, 20, tr.Of(core.CategoryRecon))
	assert.Equal(t, 0, tr.Of(core.CategoryTerrorAttack))
	assert.Equal(t, 0, tr.Of(core.CategoryMax))
}

func TestHourly_OnePointPerDelay(t *testing.T) {
	tr := NewTracker(2)
	for i := 0; i < HoursPerPoint-2; i++ {
		tr.Hourly()
	}
	assert.Equal(t, InitialOverall, tr.Overall())

	tr.Hourly()
	assert.Equal(t, InitialOverall+1, tr.Overall())
}

func TestChangeIndividual(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		pct     float64
		want    int
		overall int
	}{
		{name: "below overall gains fully", start: 0, pct: 0.5, overall: 100, want: 50},
		{name: "crossing overall slows down", start: 80, pct: 0.5, overall: 100, want: 115},
		{name: "above overall gains half", start: 120, pct: 0.2, overall: 100, want: 130},
		{name: "negative clamps at zero", start: 10, pct: -0.5, overall: 100, want: 0},
		{name: "negative subtracts", start: 80, pct: -0.2, overall: 100, want: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(0)
			tr.SetOverall(tt.overall)
			tr.Set(core.CategoryXVI, tt.start)
			require.NoError(t, tr.ChangeIndividual(tt.pct, core.CategoryXVI))
			assert.Equal(t, tt.want, tr.Of(core.CategoryXVI))
		})
	}
}

func TestChangeIndividual_InvalidCategory(t *testing.T) {
	tr := NewTracker(0)
	assert.Error(t, tr.ChangeIndividual(0.1, core.CategoryMax))
}

func TestSnapshotRestore(t *testing.T) {
	tr := NewTracker(0)
	tr.SetOverall(321)
	tr.Set(core.CategorySupply, 44)
	tr.Hourly()

	restored := NewTracker(0)
	require.NoError(t, restored.Restore(tr.Snapshot()))
	assert.Equal(t, tr.Values(), restored.Values())
	assert.Equal(t, 321, restored.Overall())

	assert.Error(t, restored.Restore(State{Individual: map[string]int{"bogus": 1}}))
}
