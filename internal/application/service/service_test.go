package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	domainservice "github.com/turtacn/jalak-hijau/internal/domain/service"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/cache"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// Shared test fixtures and in-memory fakes for the application services.

type fakeGeoRepo struct {
	ds  *repository.GeoDataset
	err error
}

func (f *fakeGeoRepo) Load(ctx context.Context) (*repository.GeoDataset, error) {
	return f.ds, f.err
}

type fakeFinancialRepo struct {
	ds  *repository.FinancialDataset
	err error
}

func (f *fakeFinancialRepo) Load(ctx context.Context) (*repository.FinancialDataset, error) {
	return f.ds, f.err
}

type fakeInvestigationRepo struct {
	mu    sync.Mutex
	cases map[string]*models.Investigation
	order []string
}

func newFakeInvestigationRepo() *fakeInvestigationRepo {
	return &fakeInvestigationRepo{cases: make(map[string]*models.Investigation)}
}

func (f *fakeInvestigationRepo) Save(ctx context.Context, inv *models.Investigation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *inv
	f.cases[inv.ID] = &cp
	f.order = append(f.order, inv.ID)
	return nil
}

func (f *fakeInvestigationRepo) Update(ctx context.Context, inv *models.Investigation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cases[inv.ID]; !ok {
		return errors.New(errors.CodeNotFound, "investigation not found: "+inv.ID)
	}
	cp := *inv
	f.cases[inv.ID] = &cp
	return nil
}

func (f *fakeInvestigationRepo) FindByID(ctx context.Context, id string) (*models.Investigation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.cases[id]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "investigation not found: "+id)
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvestigationRepo) FindAll(ctx context.Context, limit, offset int) ([]*models.Investigation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Investigation
	for i := offset; i < len(f.order) && len(out) < limit; i++ {
		cp := *f.cases[f.order[i]]
		out = append(out, &cp)
	}
	return out, int64(len(f.order)), nil
}

type capturePublisher struct {
	mu     sync.Mutex
	alerts []models.Alert
	err    error
}

func (p *capturePublisher) Publish(ctx context.Context, alert models.Alert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.alerts = append(p.alerts, alert)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type fakeAssistant struct {
	reply string
	err   error

	mu          sync.Mutex
	lastSystem  string
	lastHistory []models.ChatMessage
}

func (f *fakeAssistant) Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string) (string, error) {
	f.mu.Lock()
	f.lastSystem = systemPrompt
	f.lastHistory = history
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.SessionState
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]models.SessionState)}
}

func (s *memorySessionStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "session not found: "+sessionID)
	}
	return &state, nil
}

func (s *memorySessionStore) Put(ctx context.Context, state *models.SessionState) error {
	if state.SessionID == "" {
		return errors.New(errors.CodeInvalidArgument, "session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.SessionID] = *state
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func mustGeometry(wkt string) models.Geometry {
	g, err := models.GeometryFromWKT(wkt)
	if err != nil {
		panic(err)
	}
	return g
}

// fixtureGeoDataset has one concession overlapping a forest by 35% and one
// clean concession.
func fixtureGeoDataset() *repository.GeoDataset {
	return &repository.GeoDataset{
		ProtectedAreas: []models.ProtectedArea{
			{
				ID:       "forest-001",
				Name:     "Taman Nasional Tesso Nilo",
				Region:   "Riau",
				Geometry: mustGeometry("POLYGON((0 0,0.35 0,0.35 1,0 1,0 0))"),
			},
		},
		Concessions: []models.Concession{
			{
				Company:  "PT Sawit Makmur Abadi",
				Region:   "Riau",
				Geometry: mustGeometry("POLYGON((0 0,1 0,1 1,0 1,0 0))"),
			},
			{
				Company:  "PT Kelapa Hijau Lestari",
				Region:   "Riau",
				Geometry: mustGeometry("POLYGON((5 5,6 5,6 6,5 6,5 5))"),
			},
		},
		Version: "test-v1",
	}
}

var fixtureEpoch = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

// fixtureFinancialDataset contains a structuring cluster from PT-001.
func fixtureFinancialDataset() *repository.FinancialDataset {
	txns := []models.Transaction{
		{ID: "t1", Timestamp: fixtureEpoch, SenderID: "PT-001", ReceiverID: "SH-001", AmountIDR: 460_000_000},
		{ID: "t2", Timestamp: fixtureEpoch.Add(12 * time.Hour), SenderID: "PT-001", ReceiverID: "SH-002", AmountIDR: 470_000_000},
		{ID: "t3", Timestamp: fixtureEpoch.Add(24 * time.Hour), SenderID: "PT-001", ReceiverID: "SH-001", AmountIDR: 480_000_000},
		{ID: "t4", Timestamp: fixtureEpoch.Add(36 * time.Hour), SenderID: "SH-001", ReceiverID: "BK-001", AmountIDR: 50_000_000},
	}
	companies := []models.Company{
		{ID: "PT-001", Name: "PT Sawit Makmur Abadi", Type: constants.CompanyTypePlantation},
		{ID: "SH-001", Name: "CV Berkah Jaya", Type: constants.CompanyTypeShell},
		{ID: "SH-002", Name: "CV Mitra Sentosa", Type: constants.CompanyTypeShell},
		{ID: "BK-001", Name: "Bank Khatulistiwa", Type: constants.CompanyTypeBank},
	}
	return &repository.FinancialDataset{
		Transactions: txns,
		Companies:    companies,
		Version:      "fin-v1",
	}
}

func newTestAnalysisService() *AnalysisAppService {
	log := logger.NewNoopLogger()
	return NewAnalysisAppService(
		&fakeGeoRepo{ds: fixtureGeoDataset()},
		&fakeFinancialRepo{ds: fixtureFinancialDataset()},
		domainservice.NewOverlapAnalyzer(log),
		domainservice.NewRiskScorer(log, rand.New(rand.NewSource(1))),
		domainservice.NewTransactionAnalyzer(log),
		cache.NewAnalysisCache(),
		nil,
		log,
		constants.DefaultMinOverlapPercent,
	)
}
