package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/engine"
	internalErrors "github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

// CreateIndexHandler handles the request to create a new index.
// Request Body: config.IndexSettings
func (api *API) CreateIndexHandler(c *gin.Context) {
	var settings config.IndexSettings

	if result := ValidateJSONBinding(c, &settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if result := ValidateIndexSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	// Create index asynchronously
	var jobID string
	var err error
	if concreteEngine, ok := api.engine.(*engine.Engine); ok {
		jobID, err = concreteEngine.CreateIndexAsync(settings)
	} else {
		err = api.engine.CreateIndex(settings)
	}

	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexAlreadyExists) {
			SendIndexExistsError(c, settings.Name)
			return
		}
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
			return
		}
		SendIndexingError(c, "create index", err)
		return
	}

	if jobID != "" {
		// Async response with job ID
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "accepted",
			"message": "Index creation started for '" + settings.Name + "'",
			"job_id":  jobID,
		})
	} else {
		c.JSON(http.StatusCreated, gin.H{"message": "Index '" + settings.Name + "' created successfully"})
	}
}

// ListIndexesHandler lists all available indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler retrieves details about a specific index (its settings).
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}
	c.JSON(http.StatusOK, indexAccessor.Settings())
}

// GetIndexStatsHandler reports the size of each structure of an index.
func (api *API) GetIndexStatsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index stats", err)
		return
	}
	c.JSON(http.StatusOK, indexAccessor.Stats())
}

// DeleteIndexHandler handles deleting an index.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	// Delete index asynchronously
	var jobID string
	var err error
	if concreteEngine, ok := api.engine.(*engine.Engine); ok {
		jobID, err = concreteEngine.DeleteIndexAsync(indexName)
	} else {
		err = api.engine.DeleteIndex(indexName)
	}

	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendIndexingError(c, "delete index", err)
		return
	}

	if jobID != "" {
		// Async response with job ID
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "accepted",
			"message": "Index deletion started for '" + indexName + "'",
			"job_id":  jobID,
		})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
	}
}

// RenameIndexRequest defines the structure for renaming an index
type RenameIndexRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// RenameIndexHandler handles requests to rename an index
func (api *API) RenameIndexHandler(c *gin.Context) {
	oldName := c.Param("indexName")

	var req RenameIndexRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if result := ValidateRenameRequest(oldName, req.NewName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	// Rename index asynchronously
	var jobID string
	var err error
	if concreteEngine, ok := api.engine.(*engine.Engine); ok {
		jobID, err = concreteEngine.RenameIndexAsync(oldName, req.NewName)
	} else {
		err = api.engine.RenameIndex(oldName, req.NewName)
	}

	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, oldName)
			return
		}
		if errors.Is(err, internalErrors.ErrIndexAlreadyExists) {
			SendIndexExistsError(c, req.NewName)
			return
		}
		if errors.Is(err, internalErrors.ErrSameName) {
			SendSameNameError(c, req.NewName)
			return
		}
		SendIndexingError(c, "rename index", err)
		return
	}

	if jobID != "" {
		// Async response with job ID
		c.JSON(http.StatusAccepted, gin.H{
			"status":   "accepted",
			"message":  fmt.Sprintf("Index rename started: '%s' -> '%s'", oldName, req.NewName),
			"job_id":   jobID,
			"old_name": oldName,
			"new_name": req.NewName,
		})
	} else {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Index renamed successfully",
			"old_name": oldName,
			"new_name": req.NewName,
		})
	}
}

// UpdateIndexSettingsHandler handles requests to update index settings.
// Keys absent from the request body keep their current value; a stop_words
// of null restores the default list, while [] disables stop word removal.
// The engine decides whether the change needs a full rebuild.
func (api *API) UpdateIndexSettingsHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	settings, err := api.engine.GetIndexSettings(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index settings", err)
		return
	}

	// Read the raw request so key presence can be distinguished from an
	// explicit null (which matters for stop_words).
	rawRequest := make(map[string]json.RawMessage)
	if err := c.ShouldBindJSON(&rawRequest); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if raw, ok := rawRequest["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil || name != indexName {
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed,
				"Index name cannot be changed via settings; use the rename endpoint")
			return
		}
	}

	updated := false
	if raw, ok := rawRequest["stop_words"]; ok {
		var words []string
		if err := json.Unmarshal(raw, &words); err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "stop_words must be null or an array of strings")
			return
		}
		settings.StopWords = words
		updated = true
	}
	if raw, ok := rawRequest["stemmer"]; ok {
		var stemmer string
		if err := json.Unmarshal(raw, &stemmer); err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "stemmer must be a string")
			return
		}
		settings.Stemmer = stemmer
		updated = true
	}
	if raw, ok := rawRequest["min_token_length"]; ok {
		var minLen int
		if err := json.Unmarshal(raw, &minLen); err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "min_token_length must be an integer")
			return
		}
		settings.MinTokenLength = minLen
		updated = true
	}
	if raw, ok := rawRequest["phonetic"]; ok {
		var phonetic bool
		if err := json.Unmarshal(raw, &phonetic); err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "phonetic must be a boolean")
			return
		}
		settings.Phonetic = phonetic
		updated = true
	}
	if raw, ok := rawRequest["default_p_norm"]; ok {
		var pNorm float64
		if err := json.Unmarshal(raw, &pNorm); err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "default_p_norm must be a number")
			return
		}
		settings.DefaultPNorm = pNorm
		updated = true
	}

	if !updated {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "No updatable settings provided")
		return
	}

	if problems := settings.Validate(); len(problems) > 0 {
		result := &ValidationResult{Valid: false}
		for _, problem := range problems {
			result.AddError("settings", problem)
		}
		SendValidationError(c, result)
		return
	}

	// The engine compares old and new settings and rebuilds only when the
	// indexing pipeline changed.
	var jobID string
	if engineWithAsyncRebuild, ok := api.engine.(services.IndexManagerWithAsyncRebuild); ok {
		jobID, err = engineWithAsyncRebuild.UpdateIndexSettingsWithAsyncRebuild(indexName, settings)
		if err != nil {
			SendJobExecutionError(c, "settings update", err)
			return
		}
	} else {
		if err := api.engine.UpdateIndexSettings(indexName, settings); err != nil {
			SendInternalError(c, "update index settings", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Settings updated successfully for index '" + indexName + "'",
		})
		return
	}

	// Return async response with job ID
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Settings update started for index '" + indexName + "'",
		"job_id":  jobID,
	})
}
