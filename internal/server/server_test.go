package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/api"
	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/service"
	"github.com/pageza/mealmatch/backend/internal/testhelpers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)

	recipes := service.NewRecipeService(db)
	profiles := service.NewProfileService(db)
	engine := matching.NewEngine(recipes, profiles, matching.WithLogger(zap.NewNop()))

	cfg := &config.Config{
		ServerHost:  "localhost",
		ServerPort:  "8080",
		CORSOrigins: []string{"http://localhost:5173"},
	}
	return New(cfg, api.Dependencies{
		Engine:          engine,
		Recipes:         recipes,
		Profiles:        profiles,
		Recommendations: service.NewRecommendationService(engine, nil, 0, zap.NewNop()),
		Tokens:          service.NewTokenService("test-secret"),
	}, zap.NewNop())
}

func TestNew(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, "localhost:8080", srv.http.Addr)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/model/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "mealmatch_http_requests_total"))
}

func TestUntrainedSearchIsUnavailable(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/search", strings.NewReader(`{"ingredients":["rice"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "model_not_trained")
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := newTestServer(t)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
