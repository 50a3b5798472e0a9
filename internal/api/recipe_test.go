package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealmatch/backend/internal/middleware"
	"github.com/pageza/mealmatch/backend/internal/model"
	"github.com/pageza/mealmatch/backend/internal/testhelpers"
	"github.com/pageza/mealmatch/backend/internal/types"
)

type createRecipeResponse struct {
	Recipe         model.Recipe `json:"recipe"`
	ModelRetrained bool         `json:"model_retrained"`
}

func TestCreateRecipeRetrainsModel(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.token(t)

	first := env.do(t, http.MethodPost, "/api/v1/recipes", token, types.CreateRecipeRequest{
		Name:        "Chicken rice",
		Category:    "dinner",
		Ingredients: []string{"chicken", "rice"},
		Calories:    600,
		Protein:     40,
	})
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	created := decode[createRecipeResponse](t, first)
	assert.Equal(t, "Chicken rice", created.Recipe.Name)
	// One recipe is not enough to train on
	assert.False(t, created.ModelRetrained)
	assert.False(t, env.engine.Status().IsTrained)

	second := env.do(t, http.MethodPost, "/api/v1/recipes", token, types.CreateRecipeRequest{
		Name:        "Bean bowl",
		Ingredients: []string{"rice", "beans"},
	})
	require.Equal(t, http.StatusCreated, second.Code)
	assert.True(t, decode[createRecipeResponse](t, second).ModelRetrained)

	status := env.do(t, http.MethodGet, "/api/v1/model/status", "", nil)
	require.Equal(t, http.StatusOK, status.Code)
	body := decode[map[string]interface{}](t, status)
	assert.Equal(t, true, body["is_trained"])
	assert.EqualValues(t, 2, body["recipes_count"])
	assert.EqualValues(t, 3, body["vocabulary_size"])

	got := env.do(t, http.MethodGet, "/api/v1/recipes/"+created.Recipe.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, got.Code)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/recipes", "", types.CreateRecipeRequest{Name: "x", Ingredients: []string{"a"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/recipes", "not-a-token", types.CreateRecipeRequest{Name: "x", Ingredients: []string{"a"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeValidation(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.token(t)

	w := env.do(t, http.MethodPost, "/api/v1/recipes", token, gin.H{"name": "Nothing", "ingredients": []string{" "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[middleware.ErrorResponse](t, w)
	assert.Equal(t, middleware.CodeValidation, resp.Error)
	assert.Equal(t, "ingredients", resp.Field)
}

func TestRateRecipe(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.token(t)
	soup := testhelpers.CreateTestRecipe(t, env.db, "Soup", []string{"lentils", "onion"}, testhelpers.WithRating(4, 1))
	testhelpers.CreateTestRecipe(t, env.db, "Stew", []string{"beef", "onion"})
	path := "/api/v1/recipes/" + soup.ID.String() + "/ratings"

	bad := env.do(t, http.MethodPost, path, token, gin.H{"rating": 6.0})
	require.Equal(t, http.StatusBadRequest, bad.Code)
	resp := decode[middleware.ErrorResponse](t, bad)
	assert.Equal(t, middleware.CodeValidation, resp.Error)
	assert.Contains(t, resp.Message, "[1,5]")

	stored, err := env.recipes.GetRecipe(context.Background(), soup.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stored.RatingAverage)
	assert.Equal(t, 1, stored.RatingCount)

	missing := env.do(t, http.MethodPost, path, token, gin.H{"comment": "no score"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)

	ok := env.do(t, http.MethodPost, path, token, gin.H{"rating": 2, "comment": "bland"})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	rated := decode[types.RatingResponse](t, ok)
	assert.Equal(t, 2, rated.RatingCount)
	assert.InDelta(t, 3.0, rated.RatingAverage, 1e-9)
	assert.True(t, rated.ModelRetrained)

	doc, found := env.engine.Artifact().Document(soup.ID.String())
	require.True(t, found)
	assert.Equal(t, 2, doc.Rating.Count)

	mine := env.do(t, http.MethodGet, path+"/me", token, nil)
	assert.Equal(t, http.StatusOK, mine.Code)

	list := env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.EqualValues(t, 1, decode[map[string]interface{}](t, list)["count"])
}

func TestRateUnknownRecipe(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.token(t)

	w := env.do(t, http.MethodPost, "/api/v1/recipes/00000000-0000-0000-0000-000000000042/ratings", token, gin.H{"rating": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
