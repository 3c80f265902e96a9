package dto

import (
	"github.com/turtacn/jalak-hijau/internal/domain/models"
)

// AnalysisRequest selects the overlap threshold for one analysis run. A zero
// threshold means "use the configured default".
type AnalysisRequest struct {
	MinOverlapPercent float64 `form:"min_overlap_percent" json:"min_overlap_percent"`
}

// AnalysisResponse is the result of one overlap analysis run.
type AnalysisResponse struct {
	Overlaps       []models.OverlapRecord `json:"overlaps"`
	PairErrors     []models.PairError     `json:"pair_errors"`
	DatasetVersion string                 `json:"dataset_version"`
	Synthetic      bool                   `json:"synthetic"`
	FromCache      bool                   `json:"from_cache"`
}

// AnalysisStatsResponse summarises the current derived state for the
// dashboard header.
type AnalysisStatsResponse struct {
	TotalConcessions  int     `json:"total_concessions"`
	TotalForests      int     `json:"total_forests"`
	OverlapCount      int     `json:"overlap_count"`
	CriticalCount     int     `json:"critical_count"`
	HighCount         int     `json:"high_count"`
	MediumCount       int     `json:"medium_count"`
	TotalOverlapHa    int64   `json:"total_overlap_ha"`
	HighRiskCompanies int     `json:"high_risk_companies"`
	FlaggedTxns       int     `json:"flagged_txns"`
	TotalTxnVolume    float64 `json:"total_txn_volume_idr"`
}

// ConcessionsResponse lists concessions with their derived risk state.
type ConcessionsResponse struct {
	Concessions []models.Concession `json:"concessions"`
	Synthetic   bool                `json:"synthetic"`
}
