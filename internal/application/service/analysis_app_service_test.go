package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/pkg/constants"
)

func TestAnalysisAppService_RunOverlapAnalysis(t *testing.T) {
	svc := newTestAnalysisService()

	resp, err := svc.RunOverlapAnalysis(context.Background(), dto.AnalysisRequest{})
	require.NoError(t, err)

	assert.False(t, resp.FromCache)
	assert.Equal(t, "test-v1", resp.DatasetVersion)
	require.Len(t, resp.Overlaps, 1)

	rec := resp.Overlaps[0]
	assert.Equal(t, "PT Sawit Makmur Abadi", rec.Company)
	assert.InDelta(t, 35.0, rec.OverlapPercentage, 1e-9)
	assert.Equal(t, constants.SeverityCritical, rec.Severity)
}

func TestAnalysisAppService_SecondRunHitsCache(t *testing.T) {
	svc := newTestAnalysisService()
	ctx := context.Background()

	first, err := svc.RunOverlapAnalysis(ctx, dto.AnalysisRequest{})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := svc.RunOverlapAnalysis(ctx, dto.AnalysisRequest{})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Overlaps, second.Overlaps)
}

func TestAnalysisAppService_ThresholdAboveOverlapFiltersIt(t *testing.T) {
	svc := newTestAnalysisService()

	resp, err := svc.RunOverlapAnalysis(context.Background(), dto.AnalysisRequest{MinOverlapPercent: 50})
	require.NoError(t, err)
	assert.Empty(t, resp.Overlaps)
}

func TestAnalysisAppService_GetConcessionsAssignsRisk(t *testing.T) {
	svc := newTestAnalysisService()

	resp, err := svc.GetConcessions(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Concessions, 2)

	overlapping := resp.Concessions[0]
	assert.True(t, overlapping.IsOverlapping)
	assert.GreaterOrEqual(t, overlapping.RiskScore, 85)
	assert.Less(t, overlapping.RiskScore, 100)

	clean := resp.Concessions[1]
	assert.False(t, clean.IsOverlapping)
	assert.GreaterOrEqual(t, clean.RiskScore, 20)
	assert.Less(t, clean.RiskScore, 40)
}

func TestAnalysisAppService_GetStats(t *testing.T) {
	svc := newTestAnalysisService()

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalConcessions)
	assert.Equal(t, 1, stats.TotalForests)
	assert.Equal(t, 1, stats.OverlapCount)
	assert.Equal(t, 1, stats.CriticalCount)
	assert.Equal(t, 0, stats.HighCount)
	assert.Equal(t, 1, stats.HighRiskCompanies)
	// The structuring cluster flags three transactions.
	assert.Equal(t, 3, stats.FlaggedTxns)
	assert.Greater(t, stats.TotalTxnVolume, 0.0)
}
