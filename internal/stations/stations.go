// Package stations holds the static station tables for the Manila rail
// lines (MRT-3, LRT-1, LRT-2) and the validation/lookup logic the HTTP
// layer uses before handing a route to the scraping engine.
package stations

import (
	"sort"
	"strings"
)

// lineStations maps each line to its stations in track order, north to south
// (east to west for LRT-2).
var lineStations = map[string][]string{
	"MRT-3": {
		"North Avenue", "Quezon Avenue", "GMA-Kamuning", "Cubao", "Santolan-Annapolis",
		"Ortigas", "Shaw Boulevard", "Boni", "Guadalupe", "Buendia", "Ayala", "Magallanes", "Taft Avenue",
	},
	"LRT-1": {
		"Roosevelt", "Balintawak", "Monumento", "5th Avenue", "R. Papa", "Abad Santos",
		"Blumentritt", "Tayuman", "Bambang", "Doroteo Jose", "Carriedo", "Central Terminal",
		"United Nations", "Pedro Gil", "Quirino", "Vito Cruz", "Gil Puyat", "Libertad",
		"EDSA", "Baclaran",
	},
	"LRT-2": {
		"Antipolo", "Marikina", "Santolan", "Katipunan", "Anonas", "Cubao", "Betty Go-Belmonte",
		"Gilmore", "J. Ruiz", "V. Mapa", "Pureza", "Legarda", "Recto",
	},
}

// RouteInfo describes a validated route between two stations.
type RouteInfo struct {
	Line             string `json:"line"`
	Origin           string `json:"origin"`
	Destination      string `json:"destination"`
	Direction        string `json:"direction,omitempty"` // northbound | southbound
	StationsBetween  int    `json:"stationsBetween"`
	TransferRequired bool   `json:"transferRequired"`
	OriginLine       string `json:"originLine,omitempty"`
	DestinationLine  string `json:"destinationLine,omitempty"`
}

// Manager answers station and route questions from the static tables.
type Manager struct {
	stationToLine map[string]string
}

// NewManager builds the reverse station-to-line index. Lines are indexed in
// sorted order and the first mapping wins, so shared station names (Cubao is
// on both LRT-2 and MRT-3) resolve deterministically.
func NewManager() *Manager {
	index := make(map[string]string)
	lines := make([]string, 0, len(lineStations))
	for line := range lineStations {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	for _, line := range lines {
		for _, station := range lineStations[line] {
			key := strings.ToLower(station)
			if _, ok := index[key]; !ok {
				index[key] = line
			}
		}
	}
	return &Manager{stationToLine: index}
}

// Lines returns the known line names, sorted.
func (m *Manager) Lines() []string {
	lines := make([]string, 0, len(lineStations))
	for line := range lineStations {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}

// AllStations returns every station name across all lines, line by line in
// Lines() order.
func (m *Manager) AllStations() []string {
	var all []string
	for _, line := range m.Lines() {
		all = append(all, lineStations[line]...)
	}
	return all
}

// LineStations returns the stations of one line in track order, or nil for
// an unknown line.
func (m *Manager) LineStations(line string) []string {
	return lineStations[line]
}

// FindLine returns which line a station belongs to.
func (m *Manager) FindLine(station string) (string, bool) {
	line, ok := m.stationToLine[strings.ToLower(strings.TrimSpace(station))]
	return line, ok
}

// Validate normalizes station input to its proper name: exact match first
// (case-insensitive), then a bidirectional substring match.
func (m *Manager) Validate(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	lower := strings.ToLower(input)

	for _, station := range m.AllStations() {
		if strings.ToLower(station) == lower {
			return station, true
		}
	}
	for _, station := range m.AllStations() {
		stationLower := strings.ToLower(station)
		if strings.Contains(stationLower, lower) || strings.Contains(lower, stationLower) {
			return station, true
		}
	}

	return "", false
}

// Suggestions returns up to max station names resembling the input, best
// matches first. Similarity is a simple shared-prefix plus substring score;
// enough for typo help without a fuzzy-match dependency.
func (m *Manager) Suggestions(input string, max int) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || max <= 0 {
		return nil
	}

	type scored struct {
		name  string
		score int
	}
	var candidates []scored

	for _, station := range m.AllStations() {
		lower := strings.ToLower(station)
		score := 0
		if strings.Contains(lower, input) || strings.Contains(input, lower) {
			score += 3
		}
		score += sharedPrefixLen(lower, input)
		if score > 0 {
			candidates = append(candidates, scored{station, score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}

// Route validates a station pair and describes the trip. Same-station pairs
// are invalid. Cross-line pairs are flagged as requiring a transfer and
// carry no direction.
func (m *Manager) Route(origin, destination string) (RouteInfo, bool) {
	originLine, ok := m.FindLine(origin)
	if !ok {
		return RouteInfo{}, false
	}
	destinationLine, ok := m.FindLine(destination)
	if !ok {
		return RouteInfo{}, false
	}

	if originLine != destinationLine {
		return RouteInfo{
			Line:             originLine + " -> " + destinationLine,
			Origin:           origin,
			Destination:      destination,
			TransferRequired: true,
			OriginLine:       originLine,
			DestinationLine:  destinationLine,
		}, true
	}

	stations := lineStations[originLine]
	originIdx := indexOf(stations, origin)
	destinationIdx := indexOf(stations, destination)
	if originIdx < 0 || destinationIdx < 0 || originIdx == destinationIdx {
		return RouteInfo{}, false
	}

	direction := "southbound"
	if destinationIdx < originIdx {
		direction = "northbound"
	}

	return RouteInfo{
		Line:            originLine,
		Origin:          origin,
		Destination:     destination,
		Direction:       direction,
		StationsBetween: abs(destinationIdx - originIdx),
	}, true
}

func indexOf(stations []string, name string) int {
	lower := strings.ToLower(name)
	for i, station := range stations {
		if strings.ToLower(station) == lower {
			return i
		}
	}
	return -1
}

func sharedPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
