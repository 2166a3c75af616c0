package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateIndexName validates an index name parameter
func ValidateIndexName(indexName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if indexName == "" {
		result.AddError("indexName", "Index name is required")
		return result
	}
	if strings.TrimSpace(indexName) != indexName {
		result.AddError("indexName", "Index name cannot have leading or trailing whitespace")
		return result
	}
	if strings.ContainsAny(indexName, `/\`) || indexName == "." || indexName == ".." {
		result.AddError("indexName", "Index name cannot be a path")
	}
	return result
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("documentID", "Document ID is required")
		return result
	}
	if strings.TrimSpace(documentID) != documentID {
		result.AddError("documentID", "Document ID cannot have leading or trailing whitespace")
	}
	return result
}

// ValidateIndexSettings applies defaults to settings and reports every
// conflict, one error per problem.
func ValidateIndexSettings(settings *config.IndexSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Index settings are required")
		return result
	}
	if nameResult := ValidateIndexName(settings.Name); nameResult.HasErrors() {
		for _, e := range nameResult.Errors {
			result.AddError("name", e.Message)
		}
		return result
	}

	settings.ApplyDefaults()
	for _, conflict := range settings.Validate() {
		result.AddError("settings", conflict)
	}
	return result
}

// ValidateDocuments validates a slice of documents for addition. Every
// document needs a non-empty string "documentID", which is trimmed in place.
func ValidateDocuments(docs []model.Document) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(docs) == 0 {
		result.AddError("documents", "No documents provided")
		return result
	}

	for i, doc := range docs {
		field := fmt.Sprintf("documents[%d].documentID", i)
		docIDVal, exists := doc["documentID"]
		if !exists {
			result.AddError(field, "Document must have a 'documentID' field")
			continue
		}
		docIDStr, ok := docIDVal.(string)
		if !ok {
			result.AddError(field, "Document ID must be a string")
			continue
		}
		if strings.TrimSpace(docIDStr) == "" {
			result.AddError(field, "Document ID cannot be empty or whitespace-only")
			continue
		}
		doc["documentID"] = strings.TrimSpace(docIDStr)
	}
	return result
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}
	return result
}
