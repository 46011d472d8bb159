// Package main runs the HTTP front-end for the schedule extraction engine.
// The Messenger webhook and conversation layers live elsewhere; this service
// exposes the engine itself: schedule lookups, line status, station lookup
// and cache administration.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Miguel2604/Rush-PH-Messenger/internal/config"
	"github.com/Miguel2604/Rush-PH-Messenger/internal/models"
	"github.com/Miguel2604/Rush-PH-Messenger/internal/scraper"
	"github.com/Miguel2604/Rush-PH-Messenger/internal/stations"
)

type server struct {
	engine   *scraper.Scraper
	stations *stations.Manager
}

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := config.FromEnv()
	srv := &server{
		engine:   scraper.NewScraper(cfg),
		stations: stations.NewManager(),
	}
	defer srv.engine.Cleanup()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", srv.handleHealth)
	r.Get("/schedule", srv.handleSchedule)
	r.Get("/status/{line}", srv.handleLineStatus)
	r.Get("/stations", srv.handleStations)
	r.Get("/stations/{line}", srv.handleLineStations)
	r.Get("/cache", srv.handleCacheInfo)
	r.Delete("/cache", srv.handleCacheClear)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Bool("liveBrowser", cfg.UseLiveBrowser).Msg("starting schedule service")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	rawOrigin := r.URL.Query().Get("origin")
	rawDestination := r.URL.Query().Get("destination")
	if rawOrigin == "" || rawDestination == "" {
		writeError(w, http.StatusBadRequest, "missing origin or destination query parameter", "")
		return
	}

	origin, ok := s.stations.Validate(rawOrigin)
	if !ok {
		writeSuggestions(w, rawOrigin, s.stations.Suggestions(rawOrigin, 3))
		return
	}
	destination, ok := s.stations.Validate(rawDestination)
	if !ok {
		writeSuggestions(w, rawDestination, s.stations.Suggestions(rawDestination, 3))
		return
	}
	if origin == destination {
		writeError(w, http.StatusBadRequest, "origin and destination are the same station", "")
		return
	}

	line := r.URL.Query().Get("line")
	if line == "" {
		if route, ok := s.stations.Route(origin, destination); ok {
			line = route.Line
		}
	}

	record := s.engine.ScrapeTrainSchedule(r.Context(), origin, destination, line)
	writeJSON(w, http.StatusOK, record)
}

func (s *server) handleLineStatus(w http.ResponseWriter, r *http.Request) {
	line := chi.URLParam(r, "line")
	if s.stations.LineStations(line) == nil {
		writeError(w, http.StatusNotFound, "unknown line", line)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.GetLineStatus(r.Context(), line))
}

func (s *server) handleStations(w http.ResponseWriter, r *http.Request) {
	lines := make(map[string][]string)
	for _, line := range s.stations.Lines() {
		lines[line] = s.stations.LineStations(line)
	}
	writeJSON(w, http.StatusOK, lines)
}

func (s *server) handleLineStations(w http.ResponseWriter, r *http.Request) {
	line := chi.URLParam(r, "line")
	list := s.stations.LineStations(line)
	if list == nil {
		writeError(w, http.StatusNotFound, "unknown line", line)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handleCacheInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.GetCacheInfo())
}

func (s *server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func writeSuggestions(w http.ResponseWriter, input string, suggestions []string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":       "unknown station: " + input,
		"suggestions": suggestions,
	})
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, models.ErrorResponse{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encoding response failed")
	}
}
