package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error codes returned to API clients
const (
	// Authentication
	ErrMissingToken          = "AUTH_001"
	ErrInvalidToken          = "AUTH_002"
	ErrExpiredToken          = "AUTH_003"
	ErrInsufficientPrivilege = "AUTH_004"
	ErrAuthDisabled          = "AUTH_005"

	// Validation
	ErrInvalidRequest = "VAL_001"
	ErrInvalidFormat  = "VAL_002"

	// Routing
	ErrNotFound         = "RTE_001"
	ErrMethodNotAllowed = "RTE_002"

	// Sync
	ErrSyncRunning = "SYNC_001"

	// Server
	ErrInternalServer     = "SRV_001"
	ErrDatabaseOperation  = "SRV_002"
	ErrExternalService    = "SRV_003"
	ErrServiceUnavailable = "SRV_004"
)

var httpStatusMap = map[string]int{
	ErrMissingToken:          http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrAuthDisabled:          http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrNotFound:              http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrSyncRunning:           http.StatusConflict,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrServiceUnavailable:    http.StatusServiceUnavailable,
}

// APIError is the body of every error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor returns the HTTP status bound to code
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError writes an APIError with the status bound to code
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error into an APIError
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
