package middleware

import (
	"net/http"
	"strings"

	"biosphere_api/internal/model"
	"biosphere_api/internal/repository"
	"biosphere_api/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const AuthUserKey = "authUser"

// genericAuthError is the single body every authentication failure gets.
// Malformed, expired, tampered and unknown-subject tokens are all answered
// identically so callers learn nothing about which check failed; the
// distinction lives in the logs.
const genericAuthError = "could not validate credentials"

// AuthMiddleware verifies the bearer token and resolves its subject to an
// account through the user repository. The resolved *model.User lands in the
// gin context under AuthUserKey.
func AuthMiddleware(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveBearer(c, jwtUtil, userRepo, logger)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": genericAuthError})
			return
		}
		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller's account when a bearer token
// is present but lets anonymous requests through. Used on guest-writable
// routes (reviews, questions). A token that is present but bad is still
// rejected rather than silently demoted to guest.
func OptionalAuthMiddleware(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		user, ok := resolveBearer(c, jwtUtil, userRepo, logger)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": genericAuthError})
			return
		}
		c.Set(AuthUserKey, user)
		c.Next()
	}
}

func resolveBearer(c *gin.Context, jwtUtil *utils.JWTUtil, userRepo repository.UserRepository, logger *zap.SugaredLogger) (*model.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		logger.Debugw("auth rejected: missing authorization header", "path", c.FullPath())
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		logger.Debugw("auth rejected: malformed authorization header", "path", c.FullPath())
		return nil, false
	}

	userID, err := jwtUtil.ValidateToken(parts[1])
	if err != nil {
		// err carries the classified cause (malformed / expired / bad
		// signature); it must never reach the response body.
		logger.Debugw("auth rejected: token verification failed", "path", c.FullPath(), "cause", err)
		return nil, false
	}

	user, err := userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		logger.Errorw("auth rejected: user lookup failed", "user_id", userID, "err", err)
		return nil, false
	}
	if user == nil {
		logger.Debugw("auth rejected: token subject no longer resolves", "user_id", userID)
		return nil, false
	}
	return user, true
}

// CurrentUser returns the account the auth middleware resolved, if any
func CurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}
