package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-ranking-engine/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrorCodeIndexNotFound         ErrorCode = "INDEX_NOT_FOUND"
	ErrorCodeDocumentNotFound      ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrorCodeIndexExists           ErrorCode = "INDEX_ALREADY_EXISTS"
	ErrorCodeInvalidJSON           ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery          ErrorCode = "INVALID_QUERY"
	ErrorCodeInvalidFilter         ErrorCode = "INVALID_FILTER"
	ErrorCodeConfigurationConflict ErrorCode = "CONFIGURATION_CONFLICT"

	// Server Error Codes (5xx)
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrorCodePersistenceFailed  ErrorCode = "PERSISTENCE_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)
	if id := c.GetString(requestIDKey); id != "" {
		errorResponse.RequestID = id
	}
	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with one detail per problem.
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendIndexNotFoundError sends a standardized index not found error
func SendIndexNotFoundError(c *gin.Context, indexName string) {
	SendError(c, http.StatusNotFound, ErrorCodeIndexNotFound,
		"Index '"+indexName+"' not found")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendPersistenceError reports a change that was applied in memory but not saved.
func SendPersistenceError(c *gin.Context, indexName string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed,
		"Failed to persist index '"+indexName+"': "+err.Error())
}

// SendEngineError maps an error of the engine taxonomy to its HTTP status.
func SendEngineError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, internalErrors.ErrIndexNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeIndexNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrDocumentNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeDocumentNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrIndexAlreadyExists):
		SendError(c, http.StatusConflict, ErrorCodeIndexExists, err.Error())
	case errors.Is(err, internalErrors.ErrInvalidFilter):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidFilter, err.Error())
	case errors.Is(err, internalErrors.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
	case errors.Is(err, internalErrors.ErrConfigurationConflict):
		SendError(c, http.StatusUnprocessableEntity, ErrorCodeConfigurationConflict, err.Error())
	case errors.Is(err, internalErrors.ErrStorageUnavailable):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeStorageUnavailable, err.Error())
	default:
		SendInternalError(c, operation, err)
	}
}
