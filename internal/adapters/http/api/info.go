// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
)

// InfoPath is the diagnostic route answering every method.
const InfoPath = "/all"

// InfoHandler echoes the received method on InfoPath.
type InfoHandler struct{}

// NewInfoHandler creates a new info handler.
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// HandleInfo handles any method on /all.
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Se recibió una solicitud %s en la ruta /info.", r.Method),
	})
}
