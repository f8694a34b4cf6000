package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/redmonkez12/taskmanager-api/internal/apperror"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Machine-readable codes for failures raised outside the services.
const (
	CodeMissingAuth      = "missing_auth"
	CodeInvalidToken     = "invalid_token"
	CodeInvalidRequest   = "invalid_request_body"
	CodeInvalidID        = "invalid_id"
	CodeRouteNotFound    = "route_not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeTooManyRequests  = "too_many_requests"
)

const internalErrorMessage = "Something went wrong"

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondSuccess sends a successful envelope.
func RespondSuccess(w http.ResponseWriter, statusCode int, data any, message string) {
	RespondJSON(w, Envelope{Success: true, Data: data, Message: message}, statusCode)
}

// RespondErrorWithCode sends an error envelope with a machine-readable code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, Envelope{Success: false, Error: message, Code: code}, statusCode)
}

// RespondError maps err to a status by its apperror kind. Messages of
// internal errors are only exposed when exposeInternal is set.
func RespondError(w http.ResponseWriter, err error, exposeInternal bool) {
	kind := apperror.KindOf(err)

	message := apperror.MessageOf(err)
	if kind == apperror.Internal {
		message = internalErrorMessage
		if exposeInternal {
			message = err.Error()
		}
	}

	RespondErrorWithCode(w, message, kind.String(), StatusForKind(kind))
}

// StatusForKind returns the HTTP status for an error kind.
func StatusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.Validation:
		return http.StatusBadRequest
	case apperror.Unauthorized:
		return http.StatusUnauthorized
	case apperror.Forbidden:
		return http.StatusForbidden
	case apperror.NotFound:
		return http.StatusNotFound
	case apperror.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
