package handler

import (
	"errors"
	"net/http"
	"time"

	"biosphere_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// cleanupAge is how old an unreplied review/question must be before
// /admin/cleanup removes it
const cleanupAge = 365 * 24 * time.Hour

// AdminHandler exposes the admin dashboard endpoints
type AdminHandler struct {
	service service.AdminService
	logger  *zap.SugaredLogger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.AdminService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{service: s, logger: logger}
}

func (h *AdminHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Export(c *gin.Context) {
	export, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to export data")
		return
	}
	c.JSON(http.StatusOK, export)
}

func (h *AdminHandler) Cleanup(c *gin.Context) {
	result, err := h.service.Cleanup(c.Request.Context(), cleanupAge)
	if err != nil {
		h.respondError(c, err, "Failed to clean up old data")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"deleted_reviews":   result.DeletedReviews,
		"deleted_questions": result.DeletedQuestions,
	})
}

func (h *AdminHandler) Logs(c *gin.Context) {
	logs, err := h.service.ActivityLogs(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to retrieve logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent_logs": logs})
}

func (h *AdminHandler) ClearAll(c *gin.Context) {
	if err := h.service.ClearAll(c.Request.Context()); err != nil {
		h.respondError(c, err, "Failed to clear data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrStorageUnavailable) {
		h.logger.Errorw("admin operation failed: storage unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
		return
	}
	h.logger.Errorw("admin operation failed", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// RegisterAdminRoutes registers the admin dashboard routes. Everything here
// sits behind the auth and admin gates, including clear_all.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminGroup := rg.Group("/admin")
	adminGroup.Use(authMW, adminMW)
	{
		adminGroup.GET("/statistics", h.Statistics)
		adminGroup.GET("/export", h.Export)
		adminGroup.POST("/cleanup", h.Cleanup)
		adminGroup.GET("/logs", h.Logs)
		adminGroup.POST("/clear_all", h.ClearAll)
	}
}
