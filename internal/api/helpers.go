package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/mealmatch/backend/internal/matching"
	"github.com/pageza/mealmatch/backend/internal/middleware"
)

// bindJSON decodes the body and records a validation error on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(&matching.ValidationError{Field: "body", Message: err.Error()})
		return false
	}
	return true
}

// recipeIDParam parses :id; an unparsable id names no recipe
func recipeIDParam(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = c.Error(&matching.NotFoundError{Resource: "recipe", ID: raw})
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user id set by the auth middleware
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "unauthorized", Message: "user not authenticated"})
	}
	return id, ok
}
