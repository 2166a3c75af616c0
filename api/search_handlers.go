package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ranking-engine/services"
)

// DefaultSearchLimit is the page size used when a request does not set one.
const DefaultSearchLimit = 20

// SearchRequest is the JSON body of a search. Limit is optional so an
// explicit 0 (count only) can be told apart from an absent value.
type SearchRequest struct {
	services.Query
	Limit *int `json:"limit,omitempty"`
}

// toQuery converts the request, applying the default limit.
func (r SearchRequest) toQuery() services.Query {
	q := r.Query
	q.Limit = DefaultSearchLimit
	if r.Limit != nil {
		q.Limit = *r.Limit
	}
	return q
}

// MultiSearchRequest represents the JSON request for multi-search
type MultiSearchRequest struct {
	Queries []NamedSearchRequest `json:"queries" binding:"required"`
}

// NamedSearchRequest represents a single named search query in the request
type NamedSearchRequest struct {
	Name string `json:"name" binding:"required"`
	SearchRequest
}

// SearchHandler handles search requests to an index.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, "get index", err)
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	result, err := indexAccessor.Execute(c.Request.Context(), req.toQuery())
	if err != nil {
		SendEngineError(c, "search", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MultiSearchHandler handles multi-query search requests to an index.
// Request Body: MultiSearchRequest
func (api *API) MultiSearchHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, "get index", err)
		return
	}

	var req MultiSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	query := services.MultiSearchQuery{Queries: make([]services.NamedQuery, len(req.Queries))}
	for i, named := range req.Queries {
		query.Queries[i] = services.NamedQuery{Name: named.Name, Query: named.toQuery()}
	}

	result, err := indexAccessor.MultiSearch(c.Request.Context(), query)
	if err != nil {
		SendEngineError(c, "multi-search", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
