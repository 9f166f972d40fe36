package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = true

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{"success": false, "message": message})
}

var errorStatuses = []struct {
	err    error
	status int
	// detailed responses echo the wrapped message instead of the sentinel text
	detailed bool
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, false},
	{domain.ErrTokenExpired, http.StatusUnauthorized, false},
	{domain.ErrInvalidToken, http.StatusUnauthorized, false},
	{domain.ErrSessionExpired, http.StatusUnauthorized, false},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, false},
	{domain.ErrForbidden, http.StatusForbidden, true},
	{domain.ErrUserNotFound, http.StatusNotFound, false},
	{domain.ErrDuplicateEmail, http.StatusConflict, false},
	{domain.ErrActivationCodeMismatch, http.StatusBadRequest, false},
	{domain.ErrBadRequest, http.StatusBadRequest, true},
	{domain.ErrMailDelivery, http.StatusBadGateway, false},
}

// errorResponse maps a domain error to its status and client-facing message.
// Anything unrecognised becomes a generic 500.
func errorResponse(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			if e.detailed {
				return e.status, err.Error()
			}
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, domain.ErrInternal.Error()
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, message := errorResponse(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	writeMessage(w, status, message)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrBadRequest)
	}
	return nil
}
