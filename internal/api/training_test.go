package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/middleware"
	"github.com/pageza/mealmatch/backend/internal/testhelpers"
)

func TestTrainEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.token(t)
	testhelpers.CreateTestRecipe(t, env.db, "Only one", []string{"rice"})

	w := env.do(t, http.MethodPost, "/api/v1/model/train", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, middleware.CodeInsufficientData, decode[middleware.ErrorResponse](t, w).Error)
	assert.False(t, decode[matching.ModelStatus](t, env.do(t, http.MethodGet, "/api/v1/model/status", "", nil)).IsTrained)

	testhelpers.CreateTestRecipe(t, env.db, "Another", []string{"rice", "beans"})
	w = env.do(t, http.MethodPost, "/api/v1/model/train", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[matching.TrainResult](t, w)
	assert.True(t, result.Trained)
	assert.Equal(t, 2, result.CorpusSize)
	assert.Equal(t, 2, result.VocabularySize)

	w = env.do(t, http.MethodPost, "/api/v1/model/train", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTrainEndpointRateLimited(t *testing.T) {
	env := setupTestEnv(t, func(d *Dependencies) {
		d.TrainLimiter = middleware.NewModelTrainingRateLimiter(nil, time.Hour, 1)
	})
	_, token := env.token(t)

	first := env.do(t, http.MethodPost, "/api/v1/model/train", token, nil)
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := env.do(t, http.MethodPost, "/api/v1/model/train", token, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["model_trained"])
}
