// Package scraper implements the extraction-and-resilience engine for
// rush-ph.com train schedules: a shared headless browser session, a search
// interaction layer, an ordered chain of extraction strategies, and a
// deterministic simulated fallback that guarantees every caller receives a
// well-formed ScheduleRecord.
package scraper

import "regexp"

// Search input probes, in priority order. The markup is unversioned, so
// these are heuristics over placeholder text, roles, test ids and class
// fragments. Hidden duplicates exist in the page; visibility gates every
// probe.
var SearchInputSelectors = []string{
	`input[placeholder*="station" i]`,
	`input[placeholder*="search" i]`,
	`input[type="search"]`,
	`input[role="combobox"]`,
	`[data-testid*="search"] input`,
	`input[class*="search"]`,
	`input[class*="station"]`,
	`input[type="text"]`,
}

// Suggestion item probes, in priority order.
var SuggestionSelectors = []string{
	`[role="option"]`,
	`[data-testid*="suggestion"]`,
	`li[class*="suggestion"]`,
	`div[class*="suggestion"]`,
	`li[class*="option"]`,
	`div[class*="dropdown"] li`,
	`ul[class*="result"] li`,
	`div[class*="autocomplete"] div`,
}

// Line selector probes: interactive elements whose visible label may carry
// the line name (MRT-3, LRT-1, LRT-2).
var LineSelectors = []string{
	`button`,
	`[role="tab"]`,
	`[role="button"]`,
	`a[class*="line"]`,
	`div[class*="line"]`,
}

// Schedule container probes used by the DOM mining strategy, broadest last.
var ScheduleSelectors = []string{
	`[class*="schedule"]`,
	`[class*="train"]`,
	`[class*="arrival"]`,
	`[class*="departure"]`,
	`[class*="time"]`,
	`[class*="eta"]`,
	`[data-testid*="schedule"]`,
	`table td`,
	`li`,
	`span`,
}

// Refresh control probes used to provoke server round-trips during network
// interception.
var RefreshSelectors = []string{
	`button[class*="refresh"]`,
	`[aria-label*="refresh" i]`,
	`button[class*="reload"]`,
	`[data-testid*="refresh"]`,
}

// Conjectured backend endpoint paths, relative to the base URL. The site
// exposes no stable public API; these shapes mirror what comparable SPAs use.
var APIEndpointPaths = []string{
	"/api/schedules",
	"/api/trains",
	"/api/stations",
	"/schedules",
}

// Allow-list of URL fragments identifying JSON responses worth capturing.
var NetworkURLPatterns = []string{
	"/api/",
	"schedule",
	"train",
	"arrival",
	"station",
}

// Global state keys probed by the embedded-state strategy.
var GlobalStateKeys = []string{
	"__INITIAL_STATE__",
	"__NEXT_DATA__",
	"__NUXT__",
	"__APP_STATE__",
}

// Time token patterns tried in order: H:MM with optional AM/PM, then H.MM.
// Candidates are still validated against calendar bounds after matching.
var (
	TimePatternColon = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(AM|PM|am|pm)?\b`)
	TimePatternDot   = regexp.MustCompile(`\b(\d{1,2})\.(\d{2})\b`)
)

// JSONFragmentPattern pulls candidate JSON objects out of inline script
// bodies. A parse failure disqualifies the fragment, nothing more.
var JSONFragmentPattern = regexp.MustCompile(`\{[^{}]*"[^"]*train[^"]*"[^{}]*\}`)

// Keyword sets for best-effort status and direction inference from text
// surrounding a time token.
var (
	DelayKeywords      = []string{"delay", "delayed", "late"}
	CancelKeywords     = []string{"cancel", "cancelled", "canceled", "suspended"}
	NorthboundKeywords = []string{"north", "northbound", "up"}
	SouthboundKeywords = []string{"south", "southbound", "down"}
)

// MaxTrainTimes caps how many departures a strategy keeps per request.
const MaxTrainTimes = 8

// SimulatedTrainCount is how many synthetic departures the fallback emits.
const SimulatedTrainCount = 5

// DelayThresholdMinutes marks a simulated departure Delayed once its
// cumulative offset exceeds it.
const DelayThresholdMinutes = 20

// MinutesPerStation is the fixed travel-time constant per station hop.
const MinutesPerStation = 3
