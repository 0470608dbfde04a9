package service

import (
	"context"
	"errors"
	"time"

	"biosphere_api/internal/model"
	"biosphere_api/internal/repository"

	"github.com/jackc/pgx/v5"
)

// ReviewService defines operations for reviews
type ReviewService interface {
	CreateReview(ctx context.Context, userID *int, req model.CreateReviewRequest) (*model.Review, error)
	ListReviews(ctx context.Context, filters model.ReviewFilters) ([]model.Review, error)
	ReplyToReview(ctx context.Context, reviewID int64, reply string) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}

type reviewService struct {
	repo repository.ReviewRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(repo repository.ReviewRepository) ReviewService {
	return &reviewService{repo: repo}
}

// CreateReview stores a review from a registered user (userID set) or a
// guest (userID nil, guest fields used instead)
func (s *reviewService) CreateReview(ctx context.Context, userID *int, req model.CreateReviewRequest) (*model.Review, error) {
	review := &model.Review{
		UserID:    userID,
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if userID == nil {
		review.GuestName = req.GuestName
		review.GuestPhone = req.GuestPhone
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, storageErr(err)
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, filters model.ReviewFilters) ([]model.Review, error) {
	reviews, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, storageErr(err)
	}
	return reviews, nil
}

// ReplyToReview sets the admin reply and returns the updated review
func (s *reviewService) ReplyToReview(ctx context.Context, reviewID int64, reply string) (*model.Review, error) {
	if err := s.repo.SetReply(ctx, reviewID, reply); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, storageErr(err)
	}
	if review == nil {
		return nil, ErrNotFound
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID int64) error {
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storageErr(err)
	}
	return nil
}
