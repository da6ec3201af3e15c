package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsHandler handles the request to get the analytics dashboard.
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	if api.analytics == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Analytics not configured for this server")
		return
	}

	dashboard, err := api.analytics.GetDashboardData()
	if err != nil {
		SendInternalError(c, "retrieve analytics data", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
