package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/types"
)

// Search defaults when the request leaves them out
const (
	DefaultSearchLimit    = 10
	DefaultSearchMinMatch = 1
)

// Searcher is the engine capability used by SearchHandler
type Searcher interface {
	SearchByIngredients(ctx context.Context, ingredients []string, limit, minMatch int) ([]matching.SearchResult, error)
}

// SearchHandler serves ingredient search
type SearchHandler struct {
	engine Searcher
}

func NewSearchHandler(engine Searcher) *SearchHandler {
	return &SearchHandler{engine: engine}
}

func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/search", h.Search)
}

// Search ranks recipes against the ingredients a user has on hand
func (h *SearchHandler) Search(c *gin.Context) {
	var req types.SearchRequest
	if !bindJSON(c, &req) {
		return
	}

	limit, minMatch := DefaultSearchLimit, DefaultSearchMinMatch
	if req.Limit != nil {
		limit = *req.Limit
	}
	if req.MinMatch != nil {
		minMatch = *req.MinMatch
	}

	results, err := h.engine.SearchByIngredients(c.Request.Context(), req.Ingredients, limit, minMatch)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.SearchResponse{Results: results, Count: len(results)})
}
