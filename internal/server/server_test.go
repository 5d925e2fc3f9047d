package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/smallbiznis/pulse/internal/config"
	metricsdomain "github.com/smallbiznis/pulse/internal/metrics/domain"
	"github.com/smallbiznis/pulse/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMetricsService struct {
	lastOrgID   snowflake.ID
	overviewErr error
}

func (s *stubMetricsService) capture(ctx context.Context) {
	if orgID, ok := orgcontext.OrgIDFromContext(ctx); ok {
		s.lastOrgID = orgID
	}
}

func (s *stubMetricsService) GetOverview(ctx context.Context, _ metricsdomain.OverviewRequest) (metricsdomain.Bundle, error) {
	s.capture(ctx)
	if s.overviewErr != nil {
		return metricsdomain.Bundle{}, s.overviewErr
	}
	return metricsdomain.Bundle{MRRCents: 10000}, nil
}

func (s *stubMetricsService) GetMRR(ctx context.Context, _ metricsdomain.MRRRequest) (metricsdomain.MRRSnapshot, error) {
	s.capture(ctx)
	return metricsdomain.MRRSnapshot{MRRCents: 10000, ARRCents: 120000}, nil
}

func (s *stubMetricsService) GetMRRHistory(ctx context.Context, _ metricsdomain.HistoryRequest) ([]metricsdomain.MRRPoint, error) {
	s.capture(ctx)
	return []metricsdomain.MRRPoint{}, nil
}

func (s *stubMetricsService) GetChurnHistory(ctx context.Context, _ metricsdomain.HistoryRequest) ([]metricsdomain.ChurnPoint, error) {
	s.capture(ctx)
	return []metricsdomain.ChurnPoint{}, nil
}

func (s *stubMetricsService) GetRevenueHistory(ctx context.Context, _ metricsdomain.HistoryRequest) ([]metricsdomain.RevenuePoint, error) {
	s.capture(ctx)
	return []metricsdomain.RevenuePoint{}, nil
}

func (s *stubMetricsService) RankClientsByLTV(ctx context.Context, _ metricsdomain.RankRequest) ([]metricsdomain.RankedClient, error) {
	s.capture(ctx)
	return []metricsdomain.RankedClient{}, nil
}

func newTestServer(t *testing.T, defaultOrg int64) (*Server, *stubMetricsService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	stub := &stubMetricsService{}
	s := &Server{
		engine:     engine,
		cfg:        config.Config{DefaultOrgID: defaultOrg},
		metricsSvc: stub,
	}
	s.registerAdminRoutes()

	return s, stub
}

func TestOrgContext_HeaderWins(t *testing.T) {
	s, stub := newTestServer(t, 42)

	req := httptest.NewRequest(http.MethodGet, "/admin/metrics/mrr", nil)
	req.Header.Set(HeaderOrg, "1234567890123456789")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snowflake.ID(1234567890123456789), stub.lastOrgID)
}

func TestOrgContext_FallsBackToDefault(t *testing.T) {
	s, stub := newTestServer(t, 42)

	req := httptest.NewRequest(http.MethodGet, "/admin/metrics/mrr", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snowflake.ID(42), stub.lastOrgID)
}

func TestOrgContext_RejectsMissingOrg(t *testing.T) {
	s, _ := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/admin/metrics/mrr", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrgContext_RejectsMalformedHeader(t *testing.T) {
	s, _ := newTestServer(t, 42)

	req := httptest.NewRequest(http.MethodGet, "/admin/metrics/mrr", nil)
	req.Header.Set(HeaderOrg, "not-a-snowflake")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMetricsOverview_ResponseShape(t *testing.T) {
	s, _ := newTestServer(t, 42)

	req := httptest.NewRequest(http.MethodGet, "/admin/metrics/overview?start=2024-01-01&end=2024-03-31", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data metricsdomain.Bundle `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(10000), body.Data.MRRCents)
}

func TestGetMetricsOverview_InvalidDate(t *testing.T) {
	s, _ := newTestServer(t, 42)

	req := httptest.NewRequest(http.MethodGet, "/admin/metrics/overview?start=garbage", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Type)
	require.Len(t, body.Error.Errors, 1)
	assert.Equal(t, "invalid_start", body.Error.Errors[0].Code)
}

func TestGetMetricsOverview_DomainErrorMapsToBadRequest(t *testing.T) {
	s, stub := newTestServer(t, 42)
	stub.overviewErr = metricsdomain.ErrInvalidRange

	req := httptest.NewRequest(http.MethodGet, "/admin/metrics/overview", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", clientdomain.ErrInvalidName, http.StatusBadRequest},
		{"not found", clientdomain.ErrNotFound, http.StatusNotFound},
		{"addon not found", clientdomain.ErrAddonNotFound, http.StatusNotFound},
		{"conflict", clientdomain.ErrAlreadyChurned, http.StatusConflict},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := mapError(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}
