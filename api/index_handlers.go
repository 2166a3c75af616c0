package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ranking-engine/config"
)

// CreateIndexHandler handles the request to create a new index.
// Request Body: config.IndexSettings
func (api *API) CreateIndexHandler(c *gin.Context) {
	var settings config.IndexSettings

	if result := ValidateJSONBinding(c, &settings); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}
	if result := ValidateIndexSettings(&settings); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.engine.CreateIndex(settings); err != nil {
		SendEngineError(c, "create index", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + settings.Name + "' created successfully"})
}

// ListIndexesHandler lists all available indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler returns the settings and statistics of an index.
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, "get index", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": indexAccessor.Settings(),
		"stats":    indexAccessor.Stats(),
	})
}

// DeleteIndexHandler handles deleting an index.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if err := api.engine.DeleteIndex(indexName); err != nil {
		SendEngineError(c, "delete index", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
}

// UpdateIndexSettingsHandler applies a partial settings update: keys present
// in the body replace the current values, absent keys are kept. The index
// name cannot change.
func (api *API) UpdateIndexSettingsHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	settings, err := api.engine.GetIndexSettings(indexName)
	if err != nil {
		SendEngineError(c, "get index settings", err)
		return
	}

	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if settings.Name != indexName {
		result := &ValidationResult{Valid: true}
		result.AddError("name", "Index name cannot be changed through a settings update")
		SendStructuredValidationError(c, result)
		return
	}
	if result := ValidateIndexSettings(&settings); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.engine.UpdateIndexSettings(indexName, settings); err != nil {
		SendEngineError(c, "update index settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings of index '" + indexName + "' updated",
		"settings": settings,
	})
}

// GetIndexStatsHandler returns statistics for a specific index
func (api *API) GetIndexStatsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, "get index", err)
		return
	}

	settings := indexAccessor.Settings()
	stats := indexAccessor.Stats()
	c.JSON(http.StatusOK, gin.H{
		"name":              stats.Name,
		"document_count":    stats.DocumentCount,
		"generation":        stats.Generation,
		"active_readers":    stats.ActiveReaders,
		"searchable_fields": settings.SearchableFields,
		"filterable_fields": settings.FilterableFields,
		"sortable_fields":   settings.SortableFields,
		"ranking_rules":     settings.RankingRules,
		"typo_settings": gin.H{
			"min_word_size_for_1_typo":  settings.MinWordSizeFor1Typo,
			"min_word_size_for_2_typos": settings.MinWordSizeFor2Typos,
			"max_typos":                 settings.TypoLimit(),
		},
	})
}
