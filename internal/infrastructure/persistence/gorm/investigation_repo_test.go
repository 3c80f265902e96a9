package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

func newTestRepo(t *testing.T) repository.InvestigationRepository {
	t.Helper()
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}
	db, err := Open(context.Background(), cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	return NewInvestigationRepository(db, logger.NewNoopLogger())
}

func sampleInvestigation(id string) *models.Investigation {
	return &models.Investigation{
		ID:        id,
		AlertID:   "alert-1",
		Status:    constants.InvestigationStatusActive,
		Priority:  constants.InvestigationPriorityHigh,
		Company:   "PT Sawit Makmur Abadi",
		Location:  "Riau",
		AlertType: constants.AlertTypeOverlap,
		RiskLevel: constants.SeverityCritical,
		Summary:   "Concession overlaps Taman Nasional Tesso Nilo by 45%",
		Evidence:  []string{"satellite imagery 2026-01-15"},
		NextActions: []models.InvestigationAction{
			{Description: "Request permit documents"},
		},
		Timeline: []models.TimelineEntry{
			{At: time.Now().UTC(), Event: "case opened"},
		},
		StartedAt: time.Now().UTC(),
	}
}

func TestInvestigationRepo_SaveAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inv := sampleInvestigation("inv-001")
	require.NoError(t, repo.Save(ctx, inv))

	got, err := repo.FindByID(ctx, "inv-001")
	require.NoError(t, err)
	assert.Equal(t, inv.Company, got.Company)
	assert.Equal(t, constants.InvestigationStatusActive, got.Status)
	require.Len(t, got.Evidence, 1)
	require.Len(t, got.NextActions, 1)
	assert.False(t, got.NextActions[0].Completed)
}

func TestInvestigationRepo_FindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestInvestigationRepo_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inv := sampleInvestigation("inv-002")
	require.NoError(t, repo.Save(ctx, inv))

	closed := time.Now().UTC()
	inv.Status = constants.InvestigationStatusClosed
	inv.ClosedAt = &closed
	inv.Evidence = append(inv.Evidence, "transaction export")
	require.NoError(t, repo.Update(ctx, inv))

	got, err := repo.FindByID(ctx, "inv-002")
	require.NoError(t, err)
	assert.Equal(t, constants.InvestigationStatusClosed, got.Status)
	require.NotNil(t, got.ClosedAt)
	assert.Len(t, got.Evidence, 2)
}

func TestInvestigationRepo_UpdateMissingIsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Update(context.Background(), sampleInvestigation("ghost"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestInvestigationRepo_FindAllPaging(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"inv-a", "inv-b", "inv-c"} {
		require.NoError(t, repo.Save(ctx, sampleInvestigation(id)))
	}

	page, total, err := repo.FindAll(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	rest, total, err := repo.FindAll(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rest, 1)
}
