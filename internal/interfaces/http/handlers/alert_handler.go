package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/jalak-hijau/internal/application/service"
)

// AlertHandler serves the alert endpoints.
type AlertHandler struct {
	alerts *service.AlertAppService
}

// NewAlertHandler creates an AlertHandler.
func NewAlertHandler(alerts *service.AlertAppService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// ListAlerts returns the current alerts.
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alerts.ListAlerts(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"alerts": alerts})
}

// GetAlert returns one alert by id.
func (h *AlertHandler) GetAlert(c *gin.Context) {
	alert, err := h.alerts.GetAlert(c.Request.Context(), c.Param("alert_id"))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, alert)
}
