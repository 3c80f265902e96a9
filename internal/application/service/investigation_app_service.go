package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	domainservice "github.com/turtacn/jalak-hijau/internal/domain/service"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// InvestigationAppService manages investigation case lifecycle: opening a
// case from an alert, collecting evidence, ticking off next actions and
// closing.
type InvestigationAppService struct {
	repo     repository.InvestigationRepository
	alerts   *AlertAppService
	analysis *AnalysisAppService
	graphs   domainservice.GraphBuilder
	logger   logger.Logger
}

// NewInvestigationAppService creates an InvestigationAppService.
func NewInvestigationAppService(
	repo repository.InvestigationRepository,
	alerts *AlertAppService,
	analysis *AnalysisAppService,
	graphs domainservice.GraphBuilder,
	log logger.Logger,
) *InvestigationAppService {
	return &InvestigationAppService{
		repo:     repo,
		alerts:   alerts,
		analysis: analysis,
		graphs:   graphs,
		logger:   log.WithComponent("investigation-service"),
	}
}

// Open creates a new active case from an alert.
func (s *InvestigationAppService) Open(ctx context.Context, req dto.OpenInvestigationRequest) (*models.Investigation, error) {
	alert, err := s.alerts.GetAlert(ctx, req.AlertID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	priority := constants.InvestigationPriorityMedium
	if alert.RiskLevel == constants.SeverityCritical {
		priority = constants.InvestigationPriorityHigh
	}

	inv := &models.Investigation{
		ID:          "INV-" + uuid.NewString()[:8],
		AlertID:     alert.ID,
		Status:      constants.InvestigationStatusActive,
		Priority:    priority,
		AssignedTo:  req.AssignedTo,
		Company:     alert.Company,
		Location:    alert.Location,
		AlertType:   alert.Type,
		RiskLevel:   alert.RiskLevel,
		Summary:     alert.Details,
		NextActions: defaultNextActions(alert.Type),
		Timeline: []models.TimelineEntry{
			{At: now, Event: "case opened from alert " + alert.ID},
		},
		StartedAt: now,
	}

	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "investigation opened", logger.Fields{
		"investigation_id": inv.ID,
		"alert_id":         alert.ID,
		"company":          alert.Company,
	})
	return inv, nil
}

// Get returns one case.
func (s *InvestigationAppService) Get(ctx context.Context, id string) (*models.Investigation, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of cases, newest first.
func (s *InvestigationAppService) List(ctx context.Context, limit, offset int) (*dto.InvestigationListResponse, error) {
	invs, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.InvestigationListResponse{
		Investigations: invs,
		Pagination: dto.PaginationResponse{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

// AddEvidence appends one evidence item to an active case.
func (s *InvestigationAppService) AddEvidence(ctx context.Context, id string, req dto.AddEvidenceRequest) (*models.Investigation, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != constants.InvestigationStatusActive {
		return nil, errors.New(errors.CodeConflict, "investigation is closed: "+id)
	}

	inv.Evidence = append(inv.Evidence, req.Evidence)
	inv.Timeline = append(inv.Timeline, models.TimelineEntry{
		At:    time.Now().UTC(),
		Event: "evidence added: " + req.Evidence,
	})
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// CompleteAction marks the indexed next action as completed.
func (s *InvestigationAppService) CompleteAction(ctx context.Context, id string, req dto.CompleteActionRequest) (*models.Investigation, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ActionIndex < 0 || req.ActionIndex >= len(inv.NextActions) {
		return nil, errors.New(errors.CodeInvalidArgument,
			fmt.Sprintf("action index %d out of range", req.ActionIndex))
	}
	if inv.NextActions[req.ActionIndex].Completed {
		return inv, nil
	}

	inv.NextActions[req.ActionIndex].Completed = true
	inv.Timeline = append(inv.Timeline, models.TimelineEntry{
		At:    time.Now().UTC(),
		Event: "action completed: " + inv.NextActions[req.ActionIndex].Description,
	})
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Close marks a case closed. Closing an already closed case is a conflict.
func (s *InvestigationAppService) Close(ctx context.Context, id string) (*models.Investigation, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == constants.InvestigationStatusClosed {
		return nil, errors.New(errors.CodeConflict, "investigation already closed: "+id)
	}

	now := time.Now().UTC()
	inv.Status = constants.InvestigationStatusClosed
	inv.ClosedAt = &now
	inv.Timeline = append(inv.Timeline, models.TimelineEntry{At: now, Event: "case closed"})
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "investigation closed", logger.Fields{"investigation_id": id})
	return inv, nil
}

// Graph builds the financial flow graph around the case's company.
func (s *InvestigationAppService) Graph(ctx context.Context, id string) (*models.FlowGraph, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txns, companies, err := s.analysis.GetAnalyzedTransactions(ctx)
	if err != nil {
		return nil, err
	}

	companyID := inv.Company
	for _, c := range companies {
		if c.Name == inv.Company {
			companyID = c.ID
			break
		}
	}

	graph := s.graphs.Build(ctx, companyID, companies, txns)
	return &graph, nil
}

// defaultNextActions is the checklist seeded into a new case.
func defaultNextActions(alertType constants.AlertType) []models.InvestigationAction {
	switch alertType {
	case constants.AlertTypeOverlap:
		return []models.InvestigationAction{
			{Description: "Verify overlap against latest satellite imagery"},
			{Description: "Request concession permit documents"},
			{Description: "Cross-check company transactions for suspicious patterns"},
			{Description: "Coordinate field verification with local forestry office"},
		}
	default:
		return []models.InvestigationAction{
			{Description: "Trace fund flows across counterparties"},
			{Description: "Request account records from reporting bank"},
			{Description: "Check beneficial ownership registry"},
			{Description: "Prepare suspicious transaction report"},
		}
	}
}
