package handler

import (
	"errors"
	"net/http"

	"biosphere_api/internal/model"
	"biosphere_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles registration and the two login lanes
type AuthHandler struct {
	service service.AuthService
	logger  *zap.SugaredLogger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{service: s, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.respondRegisterError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		h.respondRegisterError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) respondRegisterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAdminSentinel):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		h.logger.Errorw("registration failed: storage unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		h.logger.Errorw("registration failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
	}
}

// Token is the non-admin login lane. The body is form-encoded with
// username/password fields, where username carries the email.
func (h *AuthHandler) Token(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// AdminToken is the admin login lane
func (h *AuthHandler) AdminToken(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	token, err := h.service.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAdminLaneRequired), errors.Is(err, service.ErrAdminOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		h.logger.Errorw("login failed: storage unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		h.logger.Errorw("login failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
	}
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/admin/register", h.RegisterAdmin)
		authGroup.POST("/token", h.Token)
		authGroup.POST("/admin/token", h.AdminToken)
	}
}
