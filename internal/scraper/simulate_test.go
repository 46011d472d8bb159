package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

func TestSimulateShape(t *testing.T) {
	t.Parallel()

	s := NewSimulator()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	record := s.Simulate("Ayala", "Buendia", "MRT-3")

	assert.Equal(t, "MRT-3", record.Line)
	assert.Equal(t, "Ayala", record.Origin)
	assert.Equal(t, "Buendia", record.Destination)
	assert.True(t, record.Simulated)
	assert.Equal(t, models.SourceSimulated, record.Source)
	assert.Equal(t, "operational", record.Status)
	require.Len(t, record.NextTrains, SimulatedTrainCount)

	// Cumulative gaps 3,5,7,8,10 -> offsets 3,8,15,23,33.
	wantOffsets := []int{3, 8, 15, 23, 33}
	for i, train := range record.NextTrains {
		assert.Equal(t, wantOffsets[i], train.MinutesAway)
		assert.Equal(t, now.Add(time.Duration(wantOffsets[i])*time.Minute).Format("15:04"), train.Time)

		if wantOffsets[i] > DelayThresholdMinutes {
			assert.Equal(t, models.StatusDelayed, train.Status)
		} else {
			assert.Equal(t, models.StatusOnTime, train.Status)
		}
	}
}

func TestSimulateDeterminism(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := NewSimulator()
	a.now = func() time.Time { return now }
	b := NewSimulator()
	b.now = func() time.Time { return now }

	first := a.Simulate("Ayala", "Buendia", "MRT-3")
	second := b.Simulate("Ayala", "Buendia", "MRT-3")

	require.Len(t, second.NextTrains, len(first.NextTrains))
	for i := range first.NextTrains {
		assert.Equal(t, first.NextTrains[i].MinutesAway, second.NextTrains[i].MinutesAway)
		assert.Equal(t, first.NextTrains[i].Time, second.NextTrains[i].Time)
	}
	assert.Equal(t, first.EstimatedTravelTime, second.EstimatedTravelTime)
}

func TestEstimateTravelTime(t *testing.T) {
	t.Parallel()

	// Stable across calls, bounded by the 2..11 pseudo station distance.
	first := EstimateTravelTime("Ayala")
	assert.Equal(t, first, EstimateTravelTime("Ayala"))
	assert.GreaterOrEqual(t, first, 2*MinutesPerStation)
	assert.LessOrEqual(t, first, 11*MinutesPerStation)
}

func TestSimulateLineStatus(t *testing.T) {
	t.Parallel()

	s := NewSimulator()
	status := s.SimulateLineStatus("LRT-1")

	assert.Equal(t, "LRT-1", status.Line)
	assert.Equal(t, "operational", status.Status)
	assert.True(t, status.Simulated)
	assert.NotEmpty(t, status.Message)
}
