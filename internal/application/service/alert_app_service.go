package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// AlertAppService derives dashboard alerts from the overlap analysis and the
// flagged transaction patterns, and publishes newly seen alerts to the event
// sink. Alert ids are deterministic over the dataset so clients can hold on
// to them across requests.
type AlertAppService struct {
	analysis  *AnalysisAppService
	publisher repository.AlertPublisher
	logger    logger.Logger

	mu        sync.Mutex
	published map[string]bool
}

// NewAlertAppService creates an AlertAppService.
func NewAlertAppService(analysis *AnalysisAppService, publisher repository.AlertPublisher, log logger.Logger) *AlertAppService {
	return &AlertAppService{
		analysis:  analysis,
		publisher: publisher,
		logger:    log.WithComponent("alert-service"),
		published: make(map[string]bool),
	}
}

// ListAlerts returns the current alerts, overlap findings first in severity
// order, then suspicious transaction patterns grouped by company.
func (s *AlertAppService) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	analysis, err := s.analysis.RunOverlapAnalysis(ctx, dto.AnalysisRequest{})
	if err != nil {
		return nil, err
	}

	alerts := make([]models.Alert, 0, len(analysis.Overlaps))
	for i, rec := range analysis.Overlaps {
		alerts = append(alerts, models.Alert{
			ID:        fmt.Sprintf("ALT-OVL-%03d", i+1),
			Time:      time.Now().UTC(),
			Location:  rec.ForestName,
			Type:      constants.AlertTypeOverlap,
			RiskLevel: rec.Severity,
			Company:   rec.Company,
			Details: fmt.Sprintf("Concession overlaps %s by %.1f%% (%d ha)",
				rec.ForestName, rec.OverlapPercentage, rec.OverlapAreaHa),
			CenterLat: rec.CenterLat,
			CenterLon: rec.CenterLon,
		})
	}

	txns, companies, err := s.analysis.GetAnalyzedTransactions(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(companies))
	for _, c := range companies {
		names[c.ID] = c.Name
	}

	// One alert per (sender, pattern), not per transaction.
	type patternKey struct {
		sender  string
		pattern constants.TransactionType
	}
	seen := make(map[patternKey]bool)
	patternIdx := 0
	for _, txn := range txns {
		if !txn.Flagged {
			continue
		}
		key := patternKey{sender: txn.SenderID, pattern: txn.TypeTag}
		if seen[key] {
			continue
		}
		seen[key] = true
		patternIdx++

		company := names[txn.SenderID]
		if company == "" {
			company = txn.SenderID
		}
		alerts = append(alerts, models.Alert{
			ID:        fmt.Sprintf("ALT-FIN-%03d", patternIdx),
			Time:      time.Now().UTC(),
			Location:  "Financial network",
			Type:      constants.AlertTypeFinancial,
			RiskLevel: constants.SeverityHigh,
			Company:   company,
			Details:   fmt.Sprintf("%s pattern detected for %s", txn.TypeTag, company),
		})
	}

	s.publishNew(ctx, alerts)
	return alerts, nil
}

// GetAlert returns one alert by id.
func (s *AlertAppService) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	alerts, err := s.ListAlerts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range alerts {
		if alerts[i].ID == id {
			return &alerts[i], nil
		}
	}
	return nil, errors.New(errors.CodeNotFound, "alert not found: "+id)
}

// publishNew publishes alerts not yet sent this process lifetime. Publish
// failures are logged and do not fail the request.
func (s *AlertAppService) publishNew(ctx context.Context, alerts []models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, alert := range alerts {
		if s.published[alert.ID] {
			continue
		}
		if err := s.publisher.Publish(ctx, alert); err != nil {
			s.logger.Warn(ctx, "alert publish failed", logger.Fields{
				"alert_id": alert.ID,
				"error":    err.Error(),
			})
			continue
		}
		s.published[alert.ID] = true
	}
}
