package handler

import (
	"encoding/json"
	"net/http"

	"github.com/playforge/walletd/internal/shared/apperr"
)

// ErrorBody is the error half of the response envelope
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every failure is written in
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError classifies err through the apperr taxonomy and writes the
// structured error envelope. Callers never see stack traces or SQL.
func respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	message := "internal server error"
	if appErr, ok := apperr.As(err); ok && kind != apperr.KindInternal {
		message = appErr.Message
	}

	respondJSON(w, statusForKind(kind), ErrorResponse{
		Error: ErrorBody{
			Code:    string(kind),
			Message: message,
		},
	})
}

// respondErrorMessage writes a failure with an explicit kind and message,
// for transport-level rejections that never reach the core
func respondErrorMessage(w http.ResponseWriter, kind apperr.Kind, message string) {
	respondJSON(w, statusForKind(kind), ErrorResponse{
		Error: ErrorBody{
			Code:    string(kind),
			Message: message,
		},
	})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnprocessable:
		return http.StatusUnprocessableEntity
	case apperr.KindTransient:
		return http.StatusServiceUnavailable
	case apperr.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
