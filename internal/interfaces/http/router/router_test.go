package http

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jalak-hijau/internal/application/service"
	"github.com/turtacn/jalak-hijau/internal/config"
	domainservice "github.com/turtacn/jalak-hijau/internal/domain/service"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/cache"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/events"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/persistence/file"
	gormstore "github.com/turtacn/jalak-hijau/internal/infrastructure/persistence/gorm"
	redisstore "github.com/turtacn/jalak-hijau/internal/infrastructure/persistence/redis"
	"github.com/turtacn/jalak-hijau/internal/interfaces/http/handlers"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// newTestRouter assembles the full API over synthetic datasets, an in-memory
// database and no external collaborators.
func newTestRouter(t *testing.T) *Router {
	t.Helper()
	log := logger.NewNoopLogger()

	dataCfg := &config.DataConfig{
		Dir:            t.TempDir(),
		ForestFile:     "forest.geojson",
		ConcessionFile: "concessions.geojson",
		TxnFile:        "transactions.csv",
		CompanyFile:    "companies.csv",
		SyntheticSeed:  7,
	}
	geoRepo := file.NewGeoLoader(dataCfg, log, nil)
	finRepo := file.NewFinancialLoader(dataCfg, log, nil)

	analysis := service.NewAnalysisAppService(
		geoRepo, finRepo,
		domainservice.NewOverlapAnalyzer(log),
		domainservice.NewRiskScorer(log, rand.New(rand.NewSource(1))),
		domainservice.NewTransactionAnalyzer(log),
		cache.NewAnalysisCache(),
		nil, log, constants.DefaultMinOverlapPercent,
	)
	alerts := service.NewAlertAppService(analysis, events.NewNoopAlertPublisher(), log)

	db, err := gormstore.Open(context.Background(), &config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, log)
	require.NoError(t, err)
	investigations := service.NewInvestigationAppService(
		gormstore.NewInvestigationRepository(db, log),
		alerts, analysis, domainservice.NewGraphBuilder(log), log,
	)

	sessions := service.NewSessionAppService(redisstore.NewMemorySessionStore(), log)
	chat := service.NewChatAppService(nil, sessions, alerts, nil, log)

	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8080

	r := NewRouter(
		cfg, log, nil,
		handlers.NewHealthHandler(geoRepo, finRepo),
		handlers.NewAnalysisHandler(analysis),
		handlers.NewAlertHandler(alerts),
		handlers.NewInvestigationHandler(investigations, sessions),
		handlers.NewChatHandler(chat),
		handlers.NewSessionHandler(sessions),
	)
	r.SetupRoutes()
	return r
}

func doRequest(t *testing.T, r *Router, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	live := doRequest(t, r, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, live.Code)

	ready := doRequest(t, r, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), `"geo_synthetic":true`)
}

func TestGetOverlaps(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/v1/analysis/overlaps", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	require.True(t, env.Success)

	var data struct {
		Overlaps []struct {
			Company           string  `json:"company"`
			OverlapPercentage float64 `json:"overlap_percentage"`
			Severity          string  `json:"severity"`
		} `json:"overlaps"`
		Synthetic bool `json:"synthetic"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Synthetic)
	// The synthetic dataset plants overlaps at 45%, 35%, 20% and 12%.
	require.Len(t, data.Overlaps, 4)
	assert.Equal(t, "CRITICAL", data.Overlaps[0].Severity)
	assert.InDelta(t, 45.0, data.Overlaps[0].OverlapPercentage, 0.5)
}

func TestGetOverlapsHonorsThreshold(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/v1/analysis/overlaps?min_overlap_percent=30", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	var data struct {
		Overlaps []json.RawMessage `json:"overlaps"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Overlaps, 2)
}

func TestGetStats(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/v1/analysis/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	var stats struct {
		TotalConcessions int `json:"total_concessions"`
		OverlapCount     int `json:"overlap_count"`
		FlaggedTxns      int `json:"flagged_txns"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 12, stats.TotalConcessions)
	assert.Equal(t, 4, stats.OverlapCount)
	assert.Greater(t, stats.FlaggedTxns, 0)
}

func TestInvestigationLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	// Find an alert to investigate.
	alertsResp := doRequest(t, r, http.MethodGet, "/api/v1/alerts", nil, nil)
	require.Equal(t, http.StatusOK, alertsResp.Code)
	env := decodeEnvelope(t, alertsResp)
	var alertData struct {
		Alerts []struct {
			ID string `json:"id"`
		} `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &alertData))
	require.NotEmpty(t, alertData.Alerts)
	alertID := alertData.Alerts[0].ID

	// Open a case.
	opened := doRequest(t, r, http.MethodPost, "/api/v1/investigations",
		map[string]string{"alert_id": alertID}, nil)
	require.Equal(t, http.StatusCreated, opened.Code)
	env = decodeEnvelope(t, opened)
	var inv struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	assert.Equal(t, "ACTIVE", inv.Status)

	// Add evidence, complete an action, inspect the graph, close.
	ev := doRequest(t, r, http.MethodPost, "/api/v1/investigations/"+inv.ID+"/evidence",
		map[string]string{"evidence": "permit copy"}, nil)
	assert.Equal(t, http.StatusOK, ev.Code)

	act := doRequest(t, r, http.MethodPost, "/api/v1/investigations/"+inv.ID+"/actions",
		map[string]int{"action_index": 0}, nil)
	assert.Equal(t, http.StatusOK, act.Code)

	graph := doRequest(t, r, http.MethodGet, "/api/v1/investigations/"+inv.ID+"/graph", nil, nil)
	assert.Equal(t, http.StatusOK, graph.Code)

	closed := doRequest(t, r, http.MethodPost, "/api/v1/investigations/"+inv.ID+"/close", nil, nil)
	assert.Equal(t, http.StatusOK, closed.Code)

	again := doRequest(t, r, http.MethodPost, "/api/v1/investigations/"+inv.ID+"/close", nil, nil)
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestOpenInvestigationUnknownAlert(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/investigations",
		map[string]string{"alert_id": "ALT-XXX-404"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestChatFailsClosedWhenAssistantDisabled(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/chat",
		map[string]string{"message": "jelaskan alert ini"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	require.True(t, env.Success)
	var chat struct {
		Reply    string `json:"reply"`
		Degraded bool   `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chat))
	assert.True(t, chat.Degraded)
	assert.Equal(t, constants.ChatUnavailableMessage, chat.Reply)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderSessionID))
}

func TestSessionRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	first := doRequest(t, r, http.MethodGet, "/api/v1/session", nil, nil)
	require.Equal(t, http.StatusOK, first.Code)
	sid := first.Header().Get(constants.HeaderSessionID)
	require.NotEmpty(t, sid)

	sel := doRequest(t, r, http.MethodPost, "/api/v1/session/select-alert",
		map[string]string{"alert_id": "ALT-OVL-001"},
		map[string]string{constants.HeaderSessionID: sid})
	require.Equal(t, http.StatusOK, sel.Code)

	got := doRequest(t, r, http.MethodGet, "/api/v1/session", nil,
		map[string]string{constants.HeaderSessionID: sid})
	require.Equal(t, http.StatusOK, got.Code)
	assert.Contains(t, got.Body.String(), `"selected_alert_id":"ALT-OVL-001"`)
}

func TestValidationErrorsReturn400(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/chat", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
