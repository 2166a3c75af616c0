// Package errors defines the error taxonomy of the query engine: sentinel
// errors for errors.Is checks and typed errors carrying context.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexNotFound is returned when an index is not found
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexAlreadyExists is returned when trying to create an index that already exists
	ErrIndexAlreadyExists = errors.New("index already exists")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFilter is returned when a filter tree references an unknown
	// attribute or applies an operator to an incompatible value.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrStorageUnavailable is returned when a snapshot cannot be opened or read.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConfigurationConflict is returned when a query asks for something the
	// index settings do not allow, such as sorting on a non-sortable field.
	ErrConfigurationConflict = errors.New("configuration conflict")

	// ErrBudgetExceeded marks a ranking that stopped early. It never reaches
	// callers of Execute, which report it through Result.Exhaustive.
	ErrBudgetExceeded = errors.New("query budget exceeded")
)

// IndexNotFoundError represents an index not found error with context
type IndexNotFoundError struct {
	IndexName string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index named '%s' not found", e.IndexName)
}

func (e *IndexNotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}

// NewIndexNotFoundError creates a new IndexNotFoundError
func NewIndexNotFoundError(indexName string) *IndexNotFoundError {
	return &IndexNotFoundError{IndexName: indexName}
}

// IndexAlreadyExistsError represents an index already exists error with context
type IndexAlreadyExistsError struct {
	IndexName string
}

func (e *IndexAlreadyExistsError) Error() string {
	return fmt.Sprintf("index named '%s' already exists", e.IndexName)
}

func (e *IndexAlreadyExistsError) Is(target error) bool {
	return target == ErrIndexAlreadyExists
}

// NewIndexAlreadyExistsError creates a new IndexAlreadyExistsError
func NewIndexAlreadyExistsError(indexName string) *IndexAlreadyExistsError {
	return &IndexAlreadyExistsError{IndexName: indexName}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidFilterError describes why a filter tree was rejected.
type InvalidFilterError struct {
	Attribute string
	Message   string
}

func (e *InvalidFilterError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("invalid filter on attribute `%s`: %s", e.Attribute, e.Message)
	}
	return fmt.Sprintf("invalid filter: %s", e.Message)
}

func (e *InvalidFilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// NewInvalidFilterError creates a new InvalidFilterError
func NewInvalidFilterError(attribute, message string) *InvalidFilterError {
	return &InvalidFilterError{Attribute: attribute, Message: message}
}

// NewUnknownAttributeError reports an attribute that cannot be filtered on,
// listing the ones that can.
func NewUnknownAttributeError(attribute string, available []string) *InvalidFilterError {
	msg := "attribute is not filterable"
	if len(available) == 0 {
		msg += ", this index does not have configured filterable attributes"
	} else {
		msg += ", available filterable attributes are: " + strings.Join(available, ", ")
	}
	return &InvalidFilterError{Attribute: attribute, Message: msg}
}

// StorageError wraps a failure reading from a snapshot.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// ConfigurationConflictError reports a query that contradicts index settings.
type ConfigurationConflictError struct {
	Setting string
	Message string
}

func (e *ConfigurationConflictError) Error() string {
	return fmt.Sprintf("configuration conflict with '%s': %s", e.Setting, e.Message)
}

func (e *ConfigurationConflictError) Is(target error) bool {
	return target == ErrConfigurationConflict
}

// NewConfigurationConflictError creates a new ConfigurationConflictError
func NewConfigurationConflictError(setting, message string) *ConfigurationConflictError {
	return &ConfigurationConflictError{Setting: setting, Message: message}
}

// IsClientError reports whether err was caused by the request rather than
// by the engine.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidFilter) || errors.Is(err, ErrConfigurationConflict) ||
		errors.Is(err, ErrIndexNotFound) || errors.Is(err, ErrIndexAlreadyExists) || errors.Is(err, ErrDocumentNotFound)
}
