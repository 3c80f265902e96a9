package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/application/service"
	"github.com/turtacn/jalak-hijau/pkg/errors"
)

// AnalysisHandler serves the overlap analysis endpoints.
type AnalysisHandler struct {
	analysis *service.AnalysisAppService
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(analysis *service.AnalysisAppService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// GetOverlaps runs the overlap analysis. The threshold comes from the
// min_overlap_percent query parameter, defaulting to the configured value.
func (h *AnalysisHandler) GetOverlaps(c *gin.Context) {
	var req dto.AnalysisRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		sendError(c, errors.Wrap(err, errors.CodeInvalidArgument, "invalid query parameters"))
		return
	}

	resp, err := h.analysis.RunOverlapAnalysis(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, resp)
}

// GetStats serves the dashboard header statistics.
func (h *AnalysisHandler) GetStats(c *gin.Context) {
	stats, err := h.analysis.GetStats(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, stats)
}

// GetConcessions lists concessions with derived risk state.
func (h *AnalysisHandler) GetConcessions(c *gin.Context) {
	resp, err := h.analysis.GetConcessions(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, resp)
}

// GetProtectedAreas lists the protected forest polygons.
func (h *AnalysisHandler) GetProtectedAreas(c *gin.Context) {
	areas, err := h.analysis.GetProtectedAreas(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"protected_areas": areas})
}

// GetTransactions lists analyzed transactions with laundering tags.
func (h *AnalysisHandler) GetTransactions(c *gin.Context) {
	txns, companies, err := h.analysis.GetAnalyzedTransactions(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{
		"transactions": txns,
		"companies":    companies,
	})
}
