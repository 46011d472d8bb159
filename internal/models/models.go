// Package models defines the data structures exchanged between the scraping
// engine and its callers: schedule records, individual train departures,
// line status, and cache diagnostics.
package models

import "time"

// Train status values. No further states are modeled until a live example
// confirms the site uses them.
const (
	StatusOnTime    = "On Time"
	StatusDelayed   = "Delayed"
	StatusCancelled = "Cancelled"
)

// Source tags identifying which extraction strategy produced a record.
const (
	SourceDOMExtraction       = "dom-extraction"
	SourceEmbeddedState       = "embedded-state"
	SourceNetworkInterception = "network-interception"
	SourceSimulated           = "simulated"
)

// TrainTime represents one scheduled departure.
type TrainTime struct {
	Time          string `json:"time"`                    // normalized HH:MM, 24-hour
	MinutesAway   int    `json:"minutesAway"`             // non-negative, relative to extraction time
	Status        string `json:"status"`                  // On Time | Delayed | Cancelled
	Direction     string `json:"direction,omitempty"`     // best-effort compass-style label
	ExtractedFrom string `json:"extractedFrom,omitempty"` // diagnostic: selector that produced this entry
	Context       string `json:"context,omitempty"`       // diagnostic: surrounding text snippet
}

// ExtractionDetails carries diagnostic counters from a strategy run.
// Never semantically required by callers.
type ExtractionDetails struct {
	SelectorsTried  int `json:"selectorsTried"`
	ElementsMatched int `json:"elementsMatched"`
	UniqueTimes     int `json:"uniqueTimes"`
}

// ScheduleRecord is the unit of value returned to callers. It is created
// once per cache-miss request and immutable thereafter.
type ScheduleRecord struct {
	Line                string             `json:"line"`
	Origin              string             `json:"origin"`
	Destination         string             `json:"destination"`
	NextTrains          []TrainTime        `json:"nextTrains"`
	EstimatedTravelTime int                `json:"estimatedTravelTime"` // minutes, always present
	LastUpdated         string             `json:"lastUpdated"`         // ISO-8601
	Status              string             `json:"status"`              // "operational"
	Simulated           bool               `json:"simulated"`           // authoritative trust signal
	Source              string             `json:"source,omitempty"`
	ExtractionDetails   *ExtractionDetails `json:"extractionDetails,omitempty"`
}

// LineStatus reports the operational state of a single line.
type LineStatus struct {
	Line        string `json:"line"`
	Status      string `json:"status"`
	LastUpdated string `json:"lastUpdated"`
	Message     string `json:"message"`
	Simulated   bool   `json:"simulated"`
}

// CacheEntryInfo describes one cached record for diagnostics.
type CacheEntryInfo struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	Valid     bool      `json:"valid"`
	Simulated bool      `json:"simulated"`
}

// CacheInfo is the read-only view returned by the engine's cache diagnostics.
type CacheInfo struct {
	TotalEntries  int              `json:"totalEntries"`
	CacheDuration int              `json:"cacheDuration"` // seconds
	Entries       []CacheEntryInfo `json:"entries"`
}

// ErrorResponse represents error responses from the HTTP layer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
