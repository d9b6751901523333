// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/carrera/internal/adapters/repository"
	"github.com/okian/carrera/internal/domain/model"
	"github.com/okian/carrera/internal/domain/simulation"
	"github.com/okian/carrera/pkg/logger"
)

// Client-facing messages.
const (
	msgInvalidInput  = "Se requieren un número de corredores y una distancia por recorrer."
	msgNotFound      = "Carrera no encontrada."
	msgDeleted       = "Carrera eliminada exitosamente."
	msgBadRaceID     = "Identificador de carrera inválido."
	msgInternalError = "Error interno del servidor."
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateRace(ctx context.Context, runnerCount int, distance float64) (model.Race, error)
	AdvanceRace(ctx context.Context, id int64) (model.Race, model.Results, error)
	GetRace(ctx context.Context, id int64) (model.Race, model.Results, error)
	ListRaces(ctx context.Context) ([]model.Race, error)
	DeleteRace(ctx context.Context, id int64) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	racesHandler  *RacesHandler
	infoHandler   *InfoHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		racesHandler:  NewRacesHandler(deps, log),
		infoHandler:   NewInfoHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/carreras", MetricsMiddleware(s.racesHandler.HandleCollection, "races"))
	mux.HandleFunc("/carreras/", MetricsMiddleware(s.racesHandler.HandleRace, "race"))
	mux.HandleFunc(InfoPath, MetricsMiddleware(s.infoHandler.HandleInfo, "all"))
}

// createRaceRequest mirrors the OpenAPI schema for POST /carreras.
// Absent fields decode to zero and are rejected by the engine.
type createRaceRequest struct {
	RunnerCount int     `json:"numero_de_corredores"`
	Distance    float64 `json:"distancia_recorrida"`
}

// raceResponse is returned by PUT and GET /carreras/{id}.
type raceResponse struct {
	Race    model.Race    `json:"carrera"`
	Results model.Results `json:"resultados"`
}

type messageResponse struct {
	Message string `json:"mensaje"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusFor maps service errors to an HTTP status, error code and message.
// Anything unrecognised, store faults included, becomes a 500.
func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, simulation.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", msgInvalidInput
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request", msgBadRaceID
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found", msgNotFound
	default:
		return http.StatusInternalServerError, "internal_error", msgInternalError
	}
}
