package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

func validateClock(t *testing.T, clock string) bool {
	t.Helper()
	parts := strings.SplitN(clock, ":", 2)
	require.Len(t, parts, 2)
	return ValidateTimeToken(parts[0], parts[1])
}

func TestValidateTimeToken(t *testing.T) {
	t.Parallel()

	assert.True(t, validateClock(t, "23:59"))
	assert.True(t, validateClock(t, "0:00"))
	assert.False(t, validateClock(t, "24:00"))
	assert.False(t, validateClock(t, "12:60"))
	assert.False(t, ValidateTimeToken("ab", "00"))
	assert.False(t, ValidateTimeToken("12", "cd"))
}

func TestNormalizeTimeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hour, minute, meridiem string
		want                   string
		ok                     bool
	}{
		{"8", "05", "", "08:05", true},
		{"8", "05", "AM", "08:05", true},
		{"8", "05", "pm", "20:05", true},
		{"12", "30", "AM", "00:30", true},
		{"12", "30", "PM", "12:30", true},
		{"0", "00", "", "00:00", true},
		{"23", "59", "", "23:59", true},
		{"24", "00", "", "", false},
		{"12", "60", "", "", false},
		{"13", "00", "PM", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeTimeToken(tt.hour, tt.minute, tt.meridiem)
		assert.Equal(t, tt.ok, ok, "%s:%s %s", tt.hour, tt.minute, tt.meridiem)
		assert.Equal(t, tt.want, got, "%s:%s %s", tt.hour, tt.minute, tt.meridiem)
	}
}

func TestMinutesUntilRollsOverToTomorrow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)

	// A target earlier than "now" is assumed to occur tomorrow.
	assert.Equal(t, 2, MinutesUntil("00:01", now))
	assert.Equal(t, 1, MinutesUntil("00:00", now))

	earlier := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, MinutesUntil("10:30", earlier))
	assert.GreaterOrEqual(t, MinutesUntil("09:00", earlier), 0)
}

func TestNormalizeDeduplicatesAndOrders(t *testing.T) {
	t.Parallel()

	mining := NewDOMMiningStrategy()
	tokens := mining.mineTimeTokens("08:05 08:05 08:05 AM 07:59")

	n := NewNormalizer()
	n.now = func() time.Time { return time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC) }

	trains := make([]models.TrainTime, len(tokens))
	for i, token := range tokens {
		trains[i] = models.TrainTime{Time: token}
	}

	record := n.Normalize(trains, "Ayala", "Buendia", "MRT-3", models.SourceDOMExtraction, nil)

	require.Len(t, record.NextTrains, 2)
	assert.Equal(t, "07:59", record.NextTrains[0].Time)
	assert.Equal(t, "08:05", record.NextTrains[1].Time)
	for _, train := range record.NextTrains {
		assert.GreaterOrEqual(t, train.MinutesAway, 0)
		assert.Equal(t, models.StatusOnTime, train.Status)
	}
}

func TestNormalizeStampsRecordFields(t *testing.T) {
	t.Parallel()

	n := NewNormalizer()
	fixed := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	details := &models.ExtractionDetails{SelectorsTried: 3, ElementsMatched: 7, UniqueTimes: 1}
	record := n.Normalize(
		[]models.TrainTime{{Time: "08:15"}},
		"Cubao", "Taft Avenue", "MRT-3",
		models.SourceNetworkInterception, details,
	)

	assert.Equal(t, "MRT-3", record.Line)
	assert.Equal(t, "Cubao", record.Origin)
	assert.Equal(t, "Taft Avenue", record.Destination)
	assert.Equal(t, "operational", record.Status)
	assert.False(t, record.Simulated)
	assert.Equal(t, models.SourceNetworkInterception, record.Source)
	assert.Equal(t, fixed.Format(time.RFC3339), record.LastUpdated)
	assert.Same(t, details, record.ExtractionDetails)
	assert.Equal(t, EstimateTravelTime("Cubao"), record.EstimatedTravelTime)
	require.Len(t, record.NextTrains, 1)
	assert.Equal(t, 15, record.NextTrains[0].MinutesAway)
}

func TestNormalizeCapsTrainCount(t *testing.T) {
	t.Parallel()

	n := NewNormalizer()
	var trains []models.TrainTime
	for hour := 6; hour < 20; hour++ {
		trains = append(trains, models.TrainTime{Time: time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC).Format("15:04")})
	}

	record := n.Normalize(trains, "Ayala", "Buendia", "MRT-3", models.SourceDOMExtraction, nil)
	assert.Len(t, record.NextTrains, MaxTrainTimes)
}

func TestInferStatusAndDirection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.StatusDelayed, inferStatus("train delayed due to maintenance"))
	assert.Equal(t, models.StatusCancelled, inferStatus("trip CANCELLED"))
	assert.Equal(t, models.StatusOnTime, inferStatus("arriving soon"))

	assert.Equal(t, "northbound", inferDirection("Northbound to North Avenue"))
	assert.Equal(t, "southbound", inferDirection("going south"))
	assert.Equal(t, "", inferDirection("no hint here"))
}
