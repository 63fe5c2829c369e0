package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
)

type errorBody struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

type ErrorResponse struct {
	Error errorBody `json:"error"`
}

var kindStatus = map[domain.ErrorKind]int{
	domain.KindNotFound:             http.StatusNotFound,
	domain.KindInvalidInput:         http.StatusBadRequest,
	domain.KindInvalidTransition:    http.StatusBadRequest,
	domain.KindConflict:             http.StatusConflict,
	domain.KindPaymentCaptureFailed: http.StatusBadGateway,
	domain.KindStorageTimeout:       http.StatusGatewayTimeout,
	domain.KindStorageError:         http.StatusInternalServerError,
	domain.KindUnauthorized:         http.StatusUnauthorized,
	domain.KindForbidden:            http.StatusForbidden,
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind domain.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError renders err as {"error":{"kind","message"}}. Only the message of
// a domain error reaches the client; causes are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.WrapError(domain.KindStorageError, err, "internal error")
	}
	status := StatusFor(de.Kind)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "kind", de.Kind, "error", err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", "kind", de.Kind, "error", err)
	}
	message := de.Message
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{Error: errorBody{Kind: de.Kind, Message: message}})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.WrapError(domain.KindInvalidInput, err, "invalid request body")
	}
	return nil
}
