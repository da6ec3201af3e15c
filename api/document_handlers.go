package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/engine"
	internalErrors "github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// AddDocumentsHandler handles adding/updating documents in an index. The
// body may be a single document object or an array of documents.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	_, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Failed to read request body: "+err.Error())
		return
	}

	var docs []model.Document
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(raw, &docs); err != nil {
			SendInvalidJSONError(c, err)
			return
		}
	} else {
		var doc model.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			SendInvalidJSONError(c, err)
			return
		}
		docs = []model.Document{doc}
	}

	if result := ValidateDocuments(docs); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	// Add documents asynchronously
	var jobID string
	if concreteEngine, ok := api.engine.(*engine.Engine); ok {
		jobID, err = concreteEngine.AddDocumentsAsync(indexName, docs)
		if err != nil {
			SendJobExecutionError(c, "document addition", err)
			return
		}

		// Return job ID with 202 Accepted status
		c.JSON(http.StatusAccepted, gin.H{
			"status":         "accepted",
			"message":        fmt.Sprintf("Document addition started for index '%s' (%d documents)", indexName, len(docs)),
			"job_id":         jobID,
			"document_count": len(docs),
		})
	} else {
		indexAccessor, _ := api.engine.GetIndex(indexName)
		if err := indexAccessor.AddDocuments(docs); err != nil {
			SendIndexingError(c, "add documents", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d document(s) added/updated in index '%s'", len(docs), indexName)})
	}
}

// DeleteAllDocumentsHandler handles the request to delete all documents from an index.
func (api *API) DeleteAllDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	_, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}

	// Delete all documents asynchronously
	var jobID string
	if concreteEngine, ok := api.engine.(*engine.Engine); ok {
		jobID, err = concreteEngine.DeleteAllDocumentsAsync(indexName)
		if err != nil {
			SendJobExecutionError(c, "document deletion", err)
			return
		}

		// Return job ID with 202 Accepted status
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "accepted",
			"message": fmt.Sprintf("Document deletion started for index '%s'", indexName),
			"job_id":  jobID,
		})
	} else {
		indexAccessor, _ := api.engine.GetIndex(indexName)
		if err := indexAccessor.DeleteAllDocuments(); err != nil {
			SendIndexingError(c, "delete all documents", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All documents deleted from index '" + indexName + "'"})
	}
}

// DocumentListRequest defines the structure for document listing requests
type DocumentListRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// GetDocumentsHandler lists documents in an index with pagination, ordered
// by document ID.
func (api *API) GetDocumentsHandler(c *gin.Context) {
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

	var req DocumentListRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	page, pageSize, result := ValidatePagination(req.Page, req.PageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	documents := []model.Document{}
	totalCount := 0
	if instance, ok := indexAccessor.(*engine.IndexInstance); ok {
		documents, totalCount = instance.ListDocuments(page, pageSize)
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
		"pages":     (totalCount + pageSize - 1) / pageSize,
	})
}

// GetDocumentHandler retrieves a specific document by ID.
func (api *API) GetDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}

	instance, ok := indexAccessor.(*engine.IndexInstance)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Document retrieval not supported by this engine")
		return
	}

	document, err := instance.GetDocument(documentID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID, indexName)
			return
		}
		SendInternalError(c, "get document", err)
		return
	}

	c.JSON(http.StatusOK, document)
}

// DeleteDocumentHandler deletes a specific document by ID.
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	_, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}

	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	// Delete document asynchronously
	var jobID string
	if concreteEngine, ok := api.engine.(*engine.Engine); ok {
		jobID, err = concreteEngine.DeleteDocumentAsync(indexName, documentID)
		if err != nil {
			if errors.Is(err, internalErrors.ErrDocumentNotFound) {
				SendDocumentNotFoundError(c, documentID, indexName)
				return
			}
			SendJobExecutionError(c, "document deletion", err)
			return
		}

		// Return job ID with 202 Accepted status
		c.JSON(http.StatusAccepted, gin.H{
			"status":      "accepted",
			"message":     fmt.Sprintf("Document deletion started for document '%s' in index '%s'", documentID, indexName),
			"job_id":      jobID,
			"document_id": documentID,
		})
	} else {
		indexAccessor, _ := api.engine.GetIndex(indexName)
		if err := indexAccessor.DeleteDocument(documentID); err != nil {
			if errors.Is(err, internalErrors.ErrDocumentNotFound) {
				SendDocumentNotFoundError(c, documentID, indexName)
				return
			}
			SendIndexingError(c, "delete document", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted from index '" + indexName + "'"})
	}
}

// LoadCorpusRequest defines the structure for bulk corpus loading requests.
// Format "dir" reads every .txt file under Source; "sqlite" reads rows from
// the Table (default "documents") of the database file at Source.
type LoadCorpusRequest struct {
	Format string `json:"format" binding:"required"`
	Source string `json:"source" binding:"required"`
	Table  string `json:"table"`
}

// LoadCorpusHandler starts a bulk load of documents from a directory or a
// SQLite database on the server's filesystem.
func (api *API) LoadCorpusHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	_, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}

	var req LoadCorpusRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	concreteEngine, ok := api.engine.(*engine.Engine)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Corpus loading not supported by this engine")
		return
	}

	var jobID string
	switch strings.ToLower(req.Format) {
	case "dir":
		jobID, err = concreteEngine.LoadCorpusDirAsync(indexName, req.Source)
	case "sqlite":
		jobID, err = concreteEngine.LoadCorpusSQLiteAsync(indexName, req.Source, req.Table)
	default:
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
			"Unknown corpus format '"+req.Format+"' (expected 'dir' or 'sqlite')")
		return
	}
	if err != nil {
		SendJobExecutionError(c, "corpus load", err)
		return
	}

	// Return job ID with 202 Accepted status
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": fmt.Sprintf("Corpus load started for index '%s' from %s", indexName, req.Source),
		"job_id":  jobID,
	})
}
