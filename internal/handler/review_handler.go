package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"biosphere_api/internal/middleware"
	"biosphere_api/internal/model"
	"biosphere_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewHandler handles review requests
type ReviewHandler struct {
	service service.ReviewService
	logger  *zap.SugaredLogger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(s service.ReviewService, logger *zap.SugaredLogger) *ReviewHandler {
	return &ReviewHandler{service: s, logger: logger}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Authenticated submission gets attributed to the account,
	// anonymous submission uses the guest fields.
	var userID *int
	if user, ok := middleware.CurrentUser(c); ok {
		userID = &user.ID
	}

	review, err := h.service.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var filters model.ReviewFilters
	if ratingParam := c.Query("rating"); ratingParam != "" {
		rating, err := strconv.Atoi(ratingParam)
		if err != nil || rating < 1 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating, use 1-5"})
			return
		}
		filters.Rating = &rating
	}
	if unrepliedParam := c.Query("unreplied"); unrepliedParam != "" {
		unreplied := unrepliedParam == "true"
		filters.Unreplied = &unreplied
	}
	if sinceParam := c.Query("since"); sinceParam != "" {
		since, err := time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since, use RFC3339 format"})
			return
		}
		filters.Since = &since
	}

	reviews, err := h.service.ListReviews(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve reviews")
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) ReplyToReview(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req model.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	review, err := h.service.ReplyToReview(c.Request.Context(), reviewID, req.Reply)
	if err != nil {
		h.respondError(c, err, "Failed to reply to review")
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), reviewID); err != nil {
		h.respondError(c, err, "Failed to delete review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

func (h *ReviewHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		h.logger.Errorw("review operation failed: storage unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		h.logger.Errorw("review operation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterReviewRoutes registers review routes
func (h *ReviewHandler) RegisterReviewRoutes(rg *gin.RouterGroup, optionalAuthMW, authMW, adminMW gin.HandlerFunc) {
	reviewGroup := rg.Group("/reviews")
	{
		reviewGroup.GET("", h.ListReviews)
		reviewGroup.POST("", optionalAuthMW, h.CreateReview)
		reviewGroup.PUT("/:id/reply", authMW, adminMW, h.ReplyToReview)
		reviewGroup.DELETE("/:id", authMW, adminMW, h.DeleteReview)
	}
}
