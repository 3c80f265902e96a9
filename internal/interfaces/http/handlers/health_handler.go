package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/jalak-hijau/internal/domain/repository"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	geoRepo       repository.GeoDataRepository
	financialRepo repository.FinancialDataRepository
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(geoRepo repository.GeoDataRepository, financialRepo repository.FinancialDataRepository) *HealthHandler {
	return &HealthHandler{
		geoRepo:       geoRepo,
		financialRepo: financialRepo,
	}
}

// LivenessCheck reports that the process is up.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// ReadinessCheck reports whether the datasets can be served. The synthetic
// fallback means this only fails on genuinely broken input files.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx := c.Request.Context()

	geo, err := h.geoRepo.Load(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": err.Error()})
		return
	}
	fin, err := h.financialRepo.Load(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "ready",
		"geo_synthetic":       geo.Synthetic,
		"financial_synthetic": fin.Synthetic,
		"protected_areas":     len(geo.ProtectedAreas),
		"concessions":         len(geo.Concessions),
		"transactions":        len(fin.Transactions),
	})
}
