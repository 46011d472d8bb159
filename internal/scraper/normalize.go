package scraper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

// Normalizer converts the heterogeneous raw shapes produced by the
// extraction strategies into the single ScheduleRecord schema.
type Normalizer struct {
	now func() time.Time // injectable for tests
}

// NewNormalizer returns a Normalizer using wall-clock time.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize shapes a slice of raw train times into a ScheduleRecord: fills
// missing minutesAway with forward rollover, sorts and deduplicates by
// literal time string, computes the travel estimate and stamps provenance.
func (n *Normalizer) Normalize(trains []models.TrainTime, origin, destination, line, source string, details *models.ExtractionDetails) models.ScheduleRecord {
	now := n.now()

	seen := make(map[string]bool, len(trains))
	unique := make([]models.TrainTime, 0, len(trains))
	for _, train := range trains {
		if seen[train.Time] {
			continue
		}
		seen[train.Time] = true

		if train.MinutesAway == 0 && train.Time != "" {
			train.MinutesAway = MinutesUntil(train.Time, now)
		}
		if train.Status == "" {
			train.Status = models.StatusOnTime
		}
		unique = append(unique, train)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].Time < unique[j].Time
	})

	if len(unique) > MaxTrainTimes {
		unique = unique[:MaxTrainTimes]
	}

	return models.ScheduleRecord{
		Line:                line,
		Origin:              origin,
		Destination:         destination,
		NextTrains:          unique,
		EstimatedTravelTime: EstimateTravelTime(origin),
		LastUpdated:         now.Format(time.RFC3339),
		Status:              "operational",
		Simulated:           false,
		Source:              source,
		ExtractionDetails:   details,
	}
}

// ValidateTimeToken reports whether hour and minute strings form a valid
// 24-hour wall-clock time (0-23 hours, 0-59 minutes).
func ValidateTimeToken(hourStr, minuteStr string) bool {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return false
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		return false
	}
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

// NormalizeTimeToken converts matched hour/minute/meridiem parts into a
// canonical HH:MM 24-hour string. Returns false for out-of-bounds tokens.
func NormalizeTimeToken(hourStr, minuteStr, meridiem string) (string, bool) {
	if !ValidateTimeToken(hourStr, minuteStr) {
		return "", false
	}
	hour, _ := strconv.Atoi(hourStr)
	minute, _ := strconv.Atoi(minuteStr)

	switch strings.ToUpper(meridiem) {
	case "PM":
		if hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// MinutesUntil computes the forward delta in minutes from now to the given
// HH:MM time, rolling over to tomorrow when the naive same-day time has
// already passed. The result is never negative.
func MinutesUntil(clock string, now time.Time) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if target.Before(now) {
		target = target.Add(24 * time.Hour)
	}

	return int(target.Sub(now).Minutes())
}

// inferStatus scans surrounding text for delay/cancellation keywords.
func inferStatus(context string) string {
	lower := strings.ToLower(context)
	for _, kw := range CancelKeywords {
		if strings.Contains(lower, kw) {
			return models.StatusCancelled
		}
	}
	for _, kw := range DelayKeywords {
		if strings.Contains(lower, kw) {
			return models.StatusDelayed
		}
	}
	return models.StatusOnTime
}

// inferDirection scans surrounding text for compass-style direction hints.
// Empty when nothing matches.
func inferDirection(context string) string {
	lower := strings.ToLower(context)
	for _, kw := range NorthboundKeywords {
		if strings.Contains(lower, kw) {
			return "northbound"
		}
	}
	for _, kw := range SouthboundKeywords {
		if strings.Contains(lower, kw) {
			return "southbound"
		}
	}
	return ""
}
