package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/soundex"
)

// SoundexEncodeRequest defines the structure for batch soundex encoding.
type SoundexEncodeRequest struct {
	Names []string `json:"names" binding:"required"`
}

// SoundexEncodeHandler encodes a batch of names to their soundex codes.
// Request Body: SoundexEncodeRequest
func (api *API) SoundexEncodeHandler(c *gin.Context) {
	var req SoundexEncodeRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if len(req.Names) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "At least one name is required")
		return
	}

	codes := make(map[string]string, len(req.Names))
	for _, name := range req.Names {
		if strings.TrimSpace(name) == "" {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Names cannot be empty")
			return
		}
		codes[name] = soundex.Encode(name)
	}

	c.JSON(http.StatusOK, gin.H{
		"codes": codes,
		"count": len(codes),
	})
}

// SoundexCompareRequest defines the structure for comparing two names.
type SoundexCompareRequest struct {
	NameA string `json:"name_a" binding:"required"`
	NameB string `json:"name_b" binding:"required"`
}

// SoundexCompareHandler reports whether two names share a soundex code.
// Request Body: SoundexCompareRequest
func (api *API) SoundexCompareHandler(c *gin.Context) {
	var req SoundexCompareRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name_a": req.NameA,
		"name_b": req.NameB,
		"code_a": soundex.Encode(req.NameA),
		"code_b": soundex.Encode(req.NameB),
		"match":  soundex.Matches(req.NameA, req.NameB),
	})
}
