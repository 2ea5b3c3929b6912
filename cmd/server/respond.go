package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Simplici0/planquote/internal/catalog"
	"github.com/Simplici0/planquote/internal/pricing"
	"github.com/Simplici0/planquote/internal/quotes"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps validation failures to 422, missing records to 404
// and everything else to 500.
func (s *server) writeDomainError(w http.ResponseWriter, err error) {
	if verr, ok := pricing.AsValidationError(err); ok {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   "pricing configuration error",
			Field:   verr.Field,
			Message: verr.Message,
		})
		return
	}
	if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, quotes.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Message: err.Error()})
		return
	}

	s.log.Error().Err(err).Msg("request failed")
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Message: err.Error()})
		return false
	}
	return true
}
