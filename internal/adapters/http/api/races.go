// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/carrera/internal/domain/simulation"
	"github.com/okian/carrera/pkg/logger"
)

const racesPrefix = "/carreras/"

// RacesHandler handles the race CRUD routes.
type RacesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRacesHandler creates a new races handler.
func NewRacesHandler(deps Dependencies, log logger.Logger) *RacesHandler {
	return &RacesHandler{deps: deps, logger: log}
}

// HandleCollection handles POST and GET /carreras.
func (h *RacesHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleRace handles PUT, GET and DELETE /carreras/{id}.
func (h *RacesHandler) HandleRace(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.advance(w, r)
	case http.MethodGet:
		h.get(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RacesHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_race"
	var req createRaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, WrapKind(op, simulation.ErrInvalidInput, err))
		return
	}
	race, err := h.deps.CreateRace(r.Context(), req.RunnerCount, req.Distance)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, race)
}

func (h *RacesHandler) list(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_races"
	races, err := h.deps.ListRaces(r.Context())
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, races)
}

func (h *RacesHandler) advance(w http.ResponseWriter, r *http.Request) {
	const op = "api.advance_race"
	id, err := raceID(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	race, results, err := h.deps.AdvanceRace(r.Context(), id)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, raceResponse{Race: race, Results: results})
}

func (h *RacesHandler) get(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_race"
	id, err := raceID(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	race, results, err := h.deps.GetRace(r.Context(), id)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, raceResponse{Race: race, Results: results})
}

func (h *RacesHandler) delete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_race"
	id, err := raceID(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.DeleteRace(r.Context(), id); err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgDeleted})
}

// fail writes the error response for err and logs server-side faults.
func (h *RacesHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := statusFor(err)
	if h.logger != nil {
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "race request failed", logger.Error(err), logger.String("path", r.URL.Path))
		} else {
			h.logger.Debug(r.Context(), "race request rejected", logger.Error(err), logger.Int("status", status))
		}
	}
	writeError(w, status, code, msg)
}

// raceID extracts the numeric id after /carreras/.
func raceID(r *http.Request) (int64, error) {
	path := strings.TrimPrefix(r.URL.Path, racesPrefix)
	if path == "" || strings.Contains(path, "/") {
		return 0, ErrBadRequest
	}
	return strconv.ParseInt(path, 10, 64)
}
