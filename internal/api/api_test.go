package api

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealmatch/backend/internal/database"
	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/middleware"
	"github.com/pageza/mealmatch/backend/internal/service"
	"github.com/pageza/mealmatch/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	engine  *matching.Engine
	tokens  *service.TokenService
	recipes *service.RecipeService
}

type envOption func(*Dependencies)

func setupTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)

	recipes := service.NewRecipeService(db)
	profiles := service.NewProfileService(db)
	engine := matching.NewEngine(recipes, profiles, matching.WithLogger(zap.NewNop()))
	tokens := service.NewTokenService("test-secret")

	deps := Dependencies{
		Engine:          engine,
		Recipes:         recipes,
		Profiles:        profiles,
		Recommendations: service.NewRecommendationService(engine, nil, time.Minute, zap.NewNop()),
		Tokens:          tokens,
		DBPing:          func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	SetupAPI(router, deps)

	return &testEnv{router: router, db: db, engine: engine, tokens: tokens, recipes: recipes}
}

// token issues a bearer token for a fresh user
func (e *testEnv) token(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	tok, err := e.tokens.GenerateToken(id, "tester")
	require.NoError(t, err)
	return id, tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
