package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	domainservice "github.com/turtacn/jalak-hijau/internal/domain/service"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

func newTestInvestigationService() *InvestigationAppService {
	log := logger.NewNoopLogger()
	analysis := newTestAnalysisService()
	alerts := NewAlertAppService(analysis, &capturePublisher{}, log)
	return NewInvestigationAppService(
		newFakeInvestigationRepo(),
		alerts,
		analysis,
		domainservice.NewGraphBuilder(log),
		log,
	)
}

func TestInvestigationAppService_OpenFromOverlapAlert(t *testing.T) {
	svc := newTestInvestigationService()

	inv, err := svc.Open(context.Background(), dto.OpenInvestigationRequest{
		AlertID:    "ALT-OVL-001",
		AssignedTo: "analyst-1",
	})
	require.NoError(t, err)

	assert.Equal(t, constants.InvestigationStatusActive, inv.Status)
	assert.Equal(t, constants.InvestigationPriorityHigh, inv.Priority)
	assert.Equal(t, "PT Sawit Makmur Abadi", inv.Company)
	assert.Equal(t, constants.AlertTypeOverlap, inv.AlertType)
	assert.NotEmpty(t, inv.NextActions)
	require.Len(t, inv.Timeline, 1)
}

func TestInvestigationAppService_OpenUnknownAlertFails(t *testing.T) {
	svc := newTestInvestigationService()

	_, err := svc.Open(context.Background(), dto.OpenInvestigationRequest{AlertID: "nope"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestInvestigationAppService_EvidenceAndActions(t *testing.T) {
	svc := newTestInvestigationService()
	ctx := context.Background()

	inv, err := svc.Open(ctx, dto.OpenInvestigationRequest{AlertID: "ALT-OVL-001"})
	require.NoError(t, err)

	inv, err = svc.AddEvidence(ctx, inv.ID, dto.AddEvidenceRequest{Evidence: "permit copy"})
	require.NoError(t, err)
	assert.Contains(t, inv.Evidence, "permit copy")

	inv, err = svc.CompleteAction(ctx, inv.ID, dto.CompleteActionRequest{ActionIndex: 0})
	require.NoError(t, err)
	assert.True(t, inv.NextActions[0].Completed)

	_, err = svc.CompleteAction(ctx, inv.ID, dto.CompleteActionRequest{ActionIndex: 99})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestInvestigationAppService_CloseLifecycle(t *testing.T) {
	svc := newTestInvestigationService()
	ctx := context.Background()

	inv, err := svc.Open(ctx, dto.OpenInvestigationRequest{AlertID: "ALT-OVL-001"})
	require.NoError(t, err)

	closed, err := svc.Close(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.InvestigationStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	// Closing again is a conflict; adding evidence after close too.
	_, err = svc.Close(ctx, inv.ID)
	assert.Error(t, err)
	_, err = svc.AddEvidence(ctx, inv.ID, dto.AddEvidenceRequest{Evidence: "late"})
	assert.Error(t, err)
}

func TestInvestigationAppService_GraphAroundCaseCompany(t *testing.T) {
	svc := newTestInvestigationService()
	ctx := context.Background()

	inv, err := svc.Open(ctx, dto.OpenInvestigationRequest{AlertID: "ALT-FIN-001"})
	require.NoError(t, err)

	graph, err := svc.Graph(ctx, inv.ID)
	require.NoError(t, err)

	// PT-001 transacts with SH-001 and SH-002.
	assert.Len(t, graph.Nodes, 3)
	assert.NotEmpty(t, graph.Edges)
	for _, e := range graph.Edges {
		assert.Equal(t, "PT-001", e.From)
	}
}

func TestInvestigationAppService_List(t *testing.T) {
	svc := newTestInvestigationService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Open(ctx, dto.OpenInvestigationRequest{AlertID: "ALT-OVL-001"})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Investigations, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
}
