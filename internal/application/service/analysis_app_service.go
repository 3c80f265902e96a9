// Package service implements the application services that orchestrate the
// domain analyzers, datasets, stores and external collaborators behind the
// HTTP API.
package service

import (
	"context"
	"time"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	domainservice "github.com/turtacn/jalak-hijau/internal/domain/service"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/cache"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/monitoring"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// AnalysisAppService runs overlap analysis and risk scoring over the current
// datasets and serves the derived dashboard views.
type AnalysisAppService struct {
	geoRepo       repository.GeoDataRepository
	financialRepo repository.FinancialDataRepository
	analyzer      domainservice.OverlapAnalyzer
	scorer        domainservice.RiskScorer
	txnAnalyzer   domainservice.TransactionAnalyzer
	cache         *cache.AnalysisCache
	metrics       *monitoring.Metrics
	logger        logger.Logger

	defaultThreshold float64
}

// NewAnalysisAppService creates an AnalysisAppService.
func NewAnalysisAppService(
	geoRepo repository.GeoDataRepository,
	financialRepo repository.FinancialDataRepository,
	analyzer domainservice.OverlapAnalyzer,
	scorer domainservice.RiskScorer,
	txnAnalyzer domainservice.TransactionAnalyzer,
	analysisCache *cache.AnalysisCache,
	metrics *monitoring.Metrics,
	log logger.Logger,
	defaultThreshold float64,
) *AnalysisAppService {
	if defaultThreshold <= 0 {
		defaultThreshold = constants.DefaultMinOverlapPercent
	}
	return &AnalysisAppService{
		geoRepo:          geoRepo,
		financialRepo:    financialRepo,
		analyzer:         analyzer,
		scorer:           scorer,
		txnAnalyzer:      txnAnalyzer,
		cache:            analysisCache,
		metrics:          metrics,
		logger:           log.WithComponent("analysis-service"),
		defaultThreshold: defaultThreshold,
	}
}

// RunOverlapAnalysis analyzes the current geospatial dataset at the requested
// threshold. Results are cached per dataset version and threshold.
func (s *AnalysisAppService) RunOverlapAnalysis(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResponse, error) {
	threshold := req.MinOverlapPercent
	if threshold == 0 {
		threshold = s.defaultThreshold
	}

	ds, err := s.geoRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	key := cache.Key(ds.Version, threshold)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return &dto.AnalysisResponse{
				Overlaps:       cached.Records,
				PairErrors:     cached.PairErrors,
				DatasetVersion: ds.Version,
				Synthetic:      ds.Synthetic,
				FromCache:      true,
			}, nil
		}
	}

	start := time.Now()
	records, pairErrors, err := s.analyzer.Analyze(ctx, ds.Concessions, ds.ProtectedAreas, threshold)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordAnalysisRun("error", "miss", 0, 0, time.Since(start))
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordAnalysisRun("ok", "miss", len(records), len(pairErrors), time.Since(start))
	}

	if s.cache != nil {
		s.cache.Put(key, &cache.AnalysisResult{Records: records, PairErrors: pairErrors})
	}

	return &dto.AnalysisResponse{
		Overlaps:       records,
		PairErrors:     pairErrors,
		DatasetVersion: ds.Version,
		Synthetic:      ds.Synthetic,
	}, nil
}

// GetConcessions returns the concessions with risk scores derived from the
// current analysis.
func (s *AnalysisAppService) GetConcessions(ctx context.Context) (*dto.ConcessionsResponse, error) {
	ds, err := s.geoRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	analysis, err := s.RunOverlapAnalysis(ctx, dto.AnalysisRequest{})
	if err != nil {
		return nil, err
	}

	concessions := make([]models.Concession, len(ds.Concessions))
	copy(concessions, ds.Concessions)
	s.scorer.Score(ctx, concessions, analysis.Overlaps)

	return &dto.ConcessionsResponse{
		Concessions: concessions,
		Synthetic:   ds.Synthetic,
	}, nil
}

// GetProtectedAreas returns the protected forest areas of the current dataset.
func (s *AnalysisAppService) GetProtectedAreas(ctx context.Context) ([]models.ProtectedArea, error) {
	ds, err := s.geoRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.ProtectedAreas, nil
}

// GetAnalyzedTransactions returns the transactions with laundering tags
// assigned.
func (s *AnalysisAppService) GetAnalyzedTransactions(ctx context.Context) ([]models.Transaction, []models.Company, error) {
	ds, err := s.financialRepo.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s.txnAnalyzer.Analyze(ctx, ds.Transactions), ds.Companies, nil
}

// GetStats aggregates the dashboard header statistics across both analyses.
func (s *AnalysisAppService) GetStats(ctx context.Context) (*dto.AnalysisStatsResponse, error) {
	geo, err := s.geoRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	analysis, err := s.RunOverlapAnalysis(ctx, dto.AnalysisRequest{})
	if err != nil {
		return nil, err
	}
	txns, _, err := s.GetAnalyzedTransactions(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.AnalysisStatsResponse{
		TotalConcessions: len(geo.Concessions),
		TotalForests:     len(geo.ProtectedAreas),
		OverlapCount:     len(analysis.Overlaps),
	}

	highRisk := make(map[string]bool)
	for _, rec := range analysis.Overlaps {
		switch rec.Severity {
		case constants.SeverityCritical:
			stats.CriticalCount++
		case constants.SeverityHigh:
			stats.HighCount++
		default:
			stats.MediumCount++
		}
		stats.TotalOverlapHa += rec.OverlapAreaHa
		if s.scorer.ScoreFor(rec.OverlapPercentage) >= constants.HighRiskThreshold {
			highRisk[rec.Company] = true
		}
	}
	stats.HighRiskCompanies = len(highRisk)

	for _, txn := range txns {
		if txn.Flagged {
			stats.FlaggedTxns++
		}
		stats.TotalTxnVolume += txn.AmountIDR
	}
	return stats, nil
}
