package service

import (
	"context"
	"errors"
	"time"

	"biosphere_api/internal/model"
	"biosphere_api/internal/repository"

	"github.com/jackc/pgx/v5"
)

// QuestionService defines operations for Q&A submissions
type QuestionService interface {
	CreateQuestion(ctx context.Context, userID *int, req model.CreateQuestionRequest) (*model.Question, error)
	ListQuestions(ctx context.Context, filters model.QuestionFilters) ([]model.Question, error)
	ReplyToQuestion(ctx context.Context, questionID int64, reply string) (*model.Question, error)
	MarkQuestionRead(ctx context.Context, questionID int64) error
	DeleteQuestion(ctx context.Context, questionID int64) error
}

type questionService struct {
	repo repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

// CreateQuestion stores a question from a registered user (userID set) or a
// guest (userID nil, guest fields used instead)
func (s *questionService) CreateQuestion(ctx context.Context, userID *int, req model.CreateQuestionRequest) (*model.Question, error) {
	question := &model.Question{
		UserID:    userID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if userID == nil {
		question.GuestName = req.GuestName
		question.GuestPhone = req.GuestPhone
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return nil, storageErr(err)
	}
	return question, nil
}

func (s *questionService) ListQuestions(ctx context.Context, filters model.QuestionFilters) ([]model.Question, error) {
	questions, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, storageErr(err)
	}
	return questions, nil
}

// ReplyToQuestion sets the admin reply (which also marks the question read)
// and returns the updated question
func (s *questionService) ReplyToQuestion(ctx context.Context, questionID int64, reply string) (*model.Question, error) {
	if err := s.repo.SetReply(ctx, questionID, reply); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return nil, storageErr(err)
	}
	if question == nil {
		return nil, ErrNotFound
	}
	return question, nil
}

func (s *questionService) MarkQuestionRead(ctx context.Context, questionID int64) error {
	if err := s.repo.MarkRead(ctx, questionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storageErr(err)
	}
	return nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, questionID int64) error {
	if err := s.repo.Delete(ctx, questionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storageErr(err)
	}
	return nil
}
