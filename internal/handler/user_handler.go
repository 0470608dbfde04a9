package handler

import (
	"net/http"

	"biosphere_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes account endpoints for the authenticated caller
type UserHandler struct{}

// NewUserHandler creates a new UserHandler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the account resolved by the auth middleware
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not resolved"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	userGroup := rg.Group("/users")
	userGroup.Use(authMW)
	{
		userGroup.GET("/me", h.Me)
	}
}
