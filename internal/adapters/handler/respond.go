package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/logging"
)

const (
	ErrCodeInvalidPayload  = "invalid_payload"
	ErrCodeValidation      = "validation_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeMissingSociety  = "missing_society"
	ErrCodeNotFound        = "not_found"
	ErrCodeUpstream        = "upstream_error"
	ErrCodeUnavailable     = "upstream_unavailable"
	ErrCodeInternal        = "internal_server_error"
	ErrCodeUnknownEntity   = "unknown_entity"
	ErrCodeInvalidID       = "invalid_id"
	ErrCodeRequestCanceled = "request_canceled"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Logger.WithError(err).Error("failed to encode response")
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeError maps a core error to its HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status, code, message := classify(err)

	entry := logging.Logger.WithFields(logrus.Fields{
		"status": status,
		"code":   code,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	writeErrorCode(w, status, code, message)
}

func classify(err error) (int, string, string) {
	var (
		apiErr *domain.APIError
		valErr *domain.ValidationError
	)

	switch {
	case errors.Is(err, domain.ErrMissingSociety):
		return http.StatusPreconditionFailed, ErrCodeMissingSociety, "select a society first"
	case errors.As(err, &valErr):
		return http.StatusBadRequest, ErrCodeValidation, valErr.Error()
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, ErrCodeInvalidID, "invalid id"
	case errors.Is(err, domain.ErrUnknownEntity):
		return http.StatusNotFound, ErrCodeUnknownEntity, "unknown entity"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "not found"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "unauthenticated"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable, ErrCodeUnavailable, "upstream temporarily unavailable"
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= http.StatusInternalServerError {
			return http.StatusBadGateway, ErrCodeUpstream, apiErr.Error()
		}
		return apiErr.StatusCode, ErrCodeUpstream, apiErr.Error()
	case errors.Is(err, context.Canceled):
		// nginx's "client closed request"
		return 499, ErrCodeRequestCanceled, "request canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeUpstream, "upstream timed out"
	default:
		return http.StatusInternalServerError, ErrCodeInternal, "internal error"
	}
}
