package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ranking-engine/model"
)

// AddDocumentsHandler handles adding/updating documents in an index. The
// body is a document object or an array of them.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, "get index", err)
		return
	}

	var rawData interface{}
	if err := c.ShouldBindJSON(&rawData); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	var docs []model.Document
	switch data := rawData.(type) {
	case []interface{}:
		docs = make([]model.Document, len(data))
		for i, item := range data {
			docMap, isMap := item.(map[string]interface{})
			if !isMap {
				result := &ValidationResult{Valid: true}
				result.AddError(fmt.Sprintf("documents[%d]", i), "Document is not a valid object")
				SendStructuredValidationError(c, result)
				return
			}
			docs[i] = docMap
		}
	case map[string]interface{}:
		docs = []model.Document{data}
	default:
		result := &ValidationResult{Valid: true}
		result.AddError("request_body", "Expecting a document object or an array of documents")
		SendStructuredValidationError(c, result)
		return
	}

	if result := ValidateDocuments(docs); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := indexAccessor.AddDocuments(docs); err != nil {
		SendEngineError(c, "add documents", err)
		return
	}
	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("%d document(s) added/updated in index '%s'", len(docs), indexName),
		"document_count": len(docs),
	})
}

// DeleteAllDocumentsHandler handles the request to delete all documents from an index.
func (api *API) DeleteAllDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, "get index", err)
		return
	}

	if err := indexAccessor.DeleteAllDocuments(); err != nil {
		SendEngineError(c, "delete all documents", err)
		return
	}
	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All documents deleted from index '" + indexName + "'"})
}

// DeleteDocumentHandler deletes a specific document by its documentID.
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, "get index", err)
		return
	}

	if err := indexAccessor.DeleteDocument(documentID); err != nil {
		SendEngineError(c, "delete document", err)
		return
	}
	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted from index '" + indexName + "'"})
}
