package handler

import (
	"net/http"

	"github.com/minebase/playerstats/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeInvalidNamespace   = apierr.CodeInvalidNamespace
	CodeInvalidStatID      = apierr.CodeInvalidStatID
	CodeUnknownStatType    = apierr.CodeUnknownStatType
	CodeInvalidValue       = apierr.CodeInvalidValue
	CodePlayerNotFound     = apierr.CodePlayerNotFound
	CodeStatNotFound       = apierr.CodeStatNotFound
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodePartialFailure     = apierr.CodePartialFailure
	CodeStorageUnavailable = apierr.CodeStorageUnavailable
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
