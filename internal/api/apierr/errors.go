package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/minebase/playerstats/internal/model"
	"github.com/minebase/playerstats/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Failures []FailureDetail `json:"failures,omitempty"`
}

// FailureDetail describes one stat merge that failed within an otherwise
// accepted upload
type FailureDetail struct {
	PlayerID string `json:"player_id,omitempty"`
	Global   bool   `json:"global,omitempty"`
	StatID   string `json:"stat_id"`
	Reason   string `json:"reason"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidNamespace   = "INVALID_NAMESPACE"
	CodeInvalidStatID      = "INVALID_STAT_ID"
	CodeUnknownStatType    = "UNKNOWN_STAT_TYPE"
	CodeInvalidValue       = "INVALID_VALUE"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeStatNotFound       = "STAT_NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePartialFailure     = "PARTIAL_FAILURE"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Partial failures enumerate which tuples failed; everything else in
	// the bundle is persisted
	var partial *model.PartialFailureError
	if errors.As(err, &partial) {
		return &httpError{http.StatusConflict, APIError{
			Code:     CodePartialFailure,
			Message:  "Some statistics failed to merge",
			Failures: failureDetails(partial),
		}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidNamespace):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidNamespace, Message: "Namespace must not be empty"}}
	case errors.Is(err, model.ErrInvalidStatID):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidStatID, Message: "Stat ids must not contain '.'"}}
	case errors.Is(err, model.ErrUnknownStatType):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeUnknownStatType, Message: "Unknown stat type"}}
	case errors.Is(err, model.ErrInvalidValue):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidValue, Message: "Value does not match stat type"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePlayerNotFound, Message: "Player not found"}}
	case errors.Is(err, model.ErrStatNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeStatNotFound, Message: "Stat not found"}}
	case errors.Is(err, model.ErrStorageUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{Code: CodeStorageUnavailable, Message: "Storage unavailable, retry later"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid server token"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

func failureDetails(partial *model.PartialFailureError) []FailureDetail {
	details := make([]FailureDetail, 0, len(partial.Failures))
	for _, f := range partial.Failures {
		d := FailureDetail{
			Global: f.Global,
			StatID: f.StatID,
			Reason: f.Err.Error(),
		}
		if !f.Global {
			d.PlayerID = f.PlayerID.String()
		}
		details = append(details, d)
	}
	return details
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
