package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/points-casino-go/internal/games"
)

// EngineError is the structured error envelope every handler writes.
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e EngineError) Error() string {
	return e.Message
}

// Error types.
const (
	ErrTypeInvalidParams     = "invalid_params"
	ErrTypeInsufficientFunds = "insufficient_funds"
	ErrTypeInvalidAction     = "invalid_action"
	ErrTypeRoundBusy         = "round_busy"
	ErrTypeRoundNotFound     = "round_not_found"
	ErrTypeInternal          = "internal_error"
)

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	s.writeJSON(w, status, EngineError{
		Type:      errType,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeEngineError maps an engine error onto the HTTP surface. The engines
// reject invalid actions as structured errors rather than swallowing them,
// so every rejection surfaces to the caller with a type it can render.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, games.ErrInsufficientFunds):
		s.writeError(w, r, http.StatusPaymentRequired, ErrTypeInsufficientFunds, err.Error())
	case errors.Is(err, games.ErrInvalidAction):
		s.writeError(w, r, http.StatusConflict, ErrTypeInvalidAction, err.Error())
	case errors.Is(err, games.ErrInvalidConfiguration):
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, err.Error())
	default:
		s.logger.Printf("error_occurred request_id=%s path=%s message=%q",
			middleware.GetReqID(r.Context()), r.URL.Path, err.Error())
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "internal error")
	}
}

// recoverer turns handler panics into structured 500 responses.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				s.logger.Printf("panic_recovered request_id=%s path=%s method=%s panic=%v",
					requestID, r.URL.Path, r.Method, rvr)
				s.writeJSON(w, http.StatusInternalServerError, EngineError{
					Type:      ErrTypeInternal,
					Message:   "Internal server error",
					Context:   map[string]any{"panic": fmt.Sprintf("%v", rvr)},
					RequestID: requestID,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
