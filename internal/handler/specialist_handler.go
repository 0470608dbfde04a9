package handler

import (
	"errors"
	"net/http"
	"strconv"

	"biosphere_api/internal/model"
	"biosphere_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SpecialistHandler handles specialist profile requests
type SpecialistHandler struct {
	service service.SpecialistService
	logger  *zap.SugaredLogger
}

// NewSpecialistHandler creates a new SpecialistHandler
func NewSpecialistHandler(s service.SpecialistService, logger *zap.SugaredLogger) *SpecialistHandler {
	return &SpecialistHandler{service: s, logger: logger}
}

func (h *SpecialistHandler) ListSpecialists(c *gin.Context) {
	specialists, err := h.service.ListSpecialists(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to retrieve specialists")
		return
	}
	if specialists == nil {
		specialists = []model.Specialist{}
	}
	c.JSON(http.StatusOK, specialists)
}

func (h *SpecialistHandler) GetSpecialist(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specialist ID"})
		return
	}

	sp, err := h.service.GetSpecialist(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve specialist")
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (h *SpecialistHandler) CreateSpecialist(c *gin.Context) {
	var req model.CreateSpecialistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sp, err := h.service.CreateSpecialist(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to create specialist")
		return
	}
	c.JSON(http.StatusCreated, sp)
}

func (h *SpecialistHandler) UpdateSpecialist(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specialist ID"})
		return
	}

	var req model.UpdateSpecialistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sp, err := h.service.UpdateSpecialist(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err, "Failed to update specialist")
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (h *SpecialistHandler) DeleteSpecialist(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specialist ID"})
		return
	}

	if err := h.service.DeleteSpecialist(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete specialist")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Specialist deleted"})
}

func (h *SpecialistHandler) UploadPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specialist ID"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required: " + err.Error()})
		return
	}

	sp, err := h.service.UploadPhoto(c.Request.Context(), id, fileHeader)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPhotoFormat) || errors.Is(err, service.ErrPhotoSizeExceeded) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err, "Failed to upload photo")
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (h *SpecialistHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		h.logger.Errorw("specialist operation failed: storage unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		h.logger.Errorw("specialist operation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterSpecialistRoutes registers specialist routes
func (h *SpecialistHandler) RegisterSpecialistRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	specialistGroup := rg.Group("/specialists")
	{
		specialistGroup.GET("", h.ListSpecialists)
		specialistGroup.GET("/:id", h.GetSpecialist)

		adminOnly := specialistGroup.Group("")
		adminOnly.Use(authMW, adminMW)
		{
			adminOnly.POST("", h.CreateSpecialist)
			adminOnly.PUT("/:id", h.UpdateSpecialist)
			adminOnly.DELETE("/:id", h.DeleteSpecialist)
			adminOnly.POST("/:id/photo", h.UploadPhoto)
		}
	}
}
