package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

func newTestAlertService() (*AlertAppService, *capturePublisher) {
	pub := &capturePublisher{}
	return NewAlertAppService(newTestAnalysisService(), pub, logger.NewNoopLogger()), pub
}

func TestAlertAppService_ListAlerts(t *testing.T) {
	svc, _ := newTestAlertService()

	alerts, err := svc.ListAlerts(context.Background())
	require.NoError(t, err)

	// One overlap alert plus one structuring pattern alert.
	require.Len(t, alerts, 2)

	overlap := alerts[0]
	assert.Equal(t, "ALT-OVL-001", overlap.ID)
	assert.Equal(t, constants.AlertTypeOverlap, overlap.Type)
	assert.Equal(t, constants.SeverityCritical, overlap.RiskLevel)
	assert.Equal(t, "PT Sawit Makmur Abadi", overlap.Company)
	assert.Contains(t, overlap.Details, "35.0%")

	fin := alerts[1]
	assert.Equal(t, "ALT-FIN-001", fin.ID)
	assert.Equal(t, constants.AlertTypeFinancial, fin.Type)
	assert.Equal(t, "PT Sawit Makmur Abadi", fin.Company)
	assert.Contains(t, fin.Details, "structuring")
}

func TestAlertAppService_AlertIDsAreStableAcrossCalls(t *testing.T) {
	svc, _ := newTestAlertService()
	ctx := context.Background()

	first, err := svc.ListAlerts(ctx)
	require.NoError(t, err)
	second, err := svc.ListAlerts(ctx)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestAlertAppService_PublishesEachAlertOnce(t *testing.T) {
	svc, pub := newTestAlertService()
	ctx := context.Background()

	_, err := svc.ListAlerts(ctx)
	require.NoError(t, err)
	_, err = svc.ListAlerts(ctx)
	require.NoError(t, err)

	assert.Len(t, pub.alerts, 2)
}

func TestAlertAppService_GetAlert(t *testing.T) {
	svc, _ := newTestAlertService()
	ctx := context.Background()

	alert, err := svc.GetAlert(ctx, "ALT-OVL-001")
	require.NoError(t, err)
	assert.Equal(t, constants.AlertTypeOverlap, alert.Type)

	_, err = svc.GetAlert(ctx, "ALT-XXX-999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
