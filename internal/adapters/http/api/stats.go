// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// StatsProvider reports service statistics, such as stored and completed races.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.statsProvider.GetStats()
	if _, failed := stats["error"]; failed {
		writeJSON(w, http.StatusServiceUnavailable, stats)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
