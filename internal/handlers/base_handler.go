package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/courseforge/backend/internal/apperrors"
)

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondFieldError sends an error JSON response naming the field at fault
func (h *BaseHandler) respondFieldError(w http.ResponseWriter, status int, message, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "field": field})
}

// respondServiceError maps a service error onto an HTTP status. Denials keep
// their uniform messages so responses never reveal which check failed; Taken
// and Invalid carry the field at fault so a client can highlight the input.
// Anything unrecognized is an opaque 500.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		h.respondError(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		h.respondError(w, http.StatusForbidden, apperrors.ErrForbidden.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		h.respondError(w, http.StatusNotFound, apperrors.ErrNotFound.Error())
	case errors.Is(err, apperrors.ErrTaken):
		h.respondFieldError(w, http.StatusConflict, err.Error(), apperrors.Field(err))
	case errors.Is(err, apperrors.ErrInvalidParent):
		h.respondFieldError(w, http.StatusBadRequest, err.Error(), "parentId")
	case errors.Is(err, apperrors.ErrInvalid):
		h.respondFieldError(w, http.StatusBadRequest, err.Error(), apperrors.Field(err))
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
