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

// QuestionHandler handles Q&A requests
type QuestionHandler struct {
	service service.QuestionService
	logger  *zap.SugaredLogger
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(s service.QuestionService, logger *zap.SugaredLogger) *QuestionHandler {
	return &QuestionHandler{service: s, logger: logger}
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req model.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var userID *int
	if user, ok := middleware.CurrentUser(c); ok {
		userID = &user.ID
	}

	question, err := h.service.CreateQuestion(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err, "Failed to create question")
		return
	}
	c.JSON(http.StatusCreated, question)
}

// ListQuestions is admin-only: submissions carry contact details
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var filters model.QuestionFilters
	if unreadParam := c.Query("unread"); unreadParam != "" {
		unread := unreadParam == "true"
		filters.Unread = &unread
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

	questions, err := h.service.ListQuestions(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve questions")
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) ReplyToQuestion(c *gin.Context) {
	questionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	var req model.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	question, err := h.service.ReplyToQuestion(c.Request.Context(), questionID, req.Reply)
	if err != nil {
		h.respondError(c, err, "Failed to reply to question")
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) MarkQuestionRead(c *gin.Context) {
	questionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	if err := h.service.MarkQuestionRead(c.Request.Context(), questionID); err != nil {
		h.respondError(c, err, "Failed to mark question read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question marked as read"})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	if err := h.service.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		h.respondError(c, err, "Failed to delete question")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

func (h *QuestionHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		h.logger.Errorw("question operation failed: storage unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		h.logger.Errorw("question operation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterQuestionRoutes registers question routes
func (h *QuestionHandler) RegisterQuestionRoutes(rg *gin.RouterGroup, optionalAuthMW, authMW, adminMW gin.HandlerFunc) {
	questionGroup := rg.Group("/questions")
	{
		questionGroup.POST("", optionalAuthMW, h.CreateQuestion)
		questionGroup.GET("", authMW, adminMW, h.ListQuestions)
		questionGroup.PUT("/:id/reply", authMW, adminMW, h.ReplyToQuestion)
		questionGroup.PUT("/:id/read", authMW, adminMW, h.MarkQuestionRead)
		questionGroup.DELETE("/:id", authMW, adminMW, h.DeleteQuestion)
	}
}
