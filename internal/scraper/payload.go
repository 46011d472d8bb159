package scraper

import (
	"encoding/json"
	"strings"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
)

// payloadParser is one tagged attempt at reading a decoded JSON payload.
// Parsers never guess beyond their declared shape; the generic scan is the
// explicit last resort.
type payloadParser struct {
	name  string
	parse func(decoded any) []models.TrainTime
}

// payloadParsers run in fixed priority order over every captured payload.
var payloadParsers = []payloadParser{
	{"flat-array", parseFlatArray},
	{"data-wrapped", parseDataWrapped},
	{"nested-wrapper", parseNestedWrapper},
	{"generic-scan", parseGenericScan},
}

// timeFieldKeys are the object keys a departure time may hide under.
var timeFieldKeys = []string{"time", "arrival", "arrivalTime", "arrival_time", "departure", "departureTime", "departure_time", "eta"}

// ParsePayload decodes a JSON body and tries each payload shape in priority
// order, returning the first parser's non-empty result. Malformed JSON
// yields nil.
func ParsePayload(raw []byte) []models.TrainTime {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}

	for _, parser := range payloadParsers {
		if trains := parser.parse(decoded); len(trains) > 0 {
			return trains
		}
	}
	return nil
}

// parseFlatArray reads a top-level array of train objects.
func parseFlatArray(decoded any) []models.TrainTime {
	items, ok := decoded.([]any)
	if !ok {
		return nil
	}

	var trains []models.TrainTime
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if train, ok := trainFromObject(obj); ok {
			trains = append(trains, train)
			if len(trains) >= MaxTrainTimes {
				break
			}
		}
	}
	return trains
}

// parseDataWrapped reads {"data": [...]} payloads.
func parseDataWrapped(decoded any) []models.TrainTime {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil
	}
	inner, ok := obj["data"]
	if !ok {
		return nil
	}
	return parseFlatArray(inner)
}

// parseNestedWrapper reads {"result": ...} / {"response": ...} payloads,
// recursing exactly one level into the wrapper.
func parseNestedWrapper(decoded any) []models.TrainTime {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil
	}

	for _, key := range []string{"result", "response", "schedules", "trains"} {
		inner, ok := obj[key]
		if !ok {
			continue
		}
		if trains := parseFlatArray(inner); len(trains) > 0 {
			return trains
		}
		if trains := parseDataWrapped(inner); len(trains) > 0 {
			return trains
		}
	}
	return nil
}

// parseGenericScan walks the whole structure and collects string values that
// look like wall-clock times. Last resort when no known shape matched.
func parseGenericScan(decoded any) []models.TrainTime {
	seen := make(map[string]bool)
	var trains []models.TrainTime

	var walk func(v any)
	walk = func(v any) {
		if len(trains) >= MaxTrainTimes {
			return
		}
		switch val := v.(type) {
		case string:
			for _, match := range TimePatternColon.FindAllStringSubmatch(val, -1) {
				clock, ok := NormalizeTimeToken(match[1], match[2], match[3])
				if !ok || seen[clock] {
					continue
				}
				seen[clock] = true
				trains = append(trains, models.TrainTime{Time: clock, Status: models.StatusOnTime})
			}
		case []any:
			for _, item := range val {
				walk(item)
			}
		case map[string]any:
			for _, item := range val {
				walk(item)
			}
		}
	}
	walk(decoded)

	return trains
}

// trainFromObject reads one train object: a valid time field is required,
// status and direction are optional.
func trainFromObject(obj map[string]any) (models.TrainTime, bool) {
	var clock string
	for _, key := range timeFieldKeys {
		raw, ok := obj[key].(string)
		if !ok {
			continue
		}
		match := TimePatternColon.FindStringSubmatch(raw)
		if match == nil {
			continue
		}
		if normalized, ok := NormalizeTimeToken(match[1], match[2], match[3]); ok {
			clock = normalized
			break
		}
	}
	if clock == "" {
		return models.TrainTime{}, false
	}

	train := models.TrainTime{Time: clock, Status: models.StatusOnTime}

	if status, ok := obj["status"].(string); ok {
		train.Status = canonicalStatus(status)
	}
	if direction, ok := obj["direction"].(string); ok {
		train.Direction = strings.ToLower(strings.TrimSpace(direction))
	}
	if minutes, ok := obj["minutesAway"].(float64); ok && minutes >= 0 {
		train.MinutesAway = int(minutes)
	} else if minutes, ok := obj["minutes_away"].(float64); ok && minutes >= 0 {
		train.MinutesAway = int(minutes)
	}

	return train, true
}

// canonicalStatus maps free-form status text onto the three modeled states.
func canonicalStatus(raw string) string {
	lower := strings.ToLower(raw)
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
