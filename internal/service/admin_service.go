package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"biosphere_api/internal/model"
	"biosphere_api/internal/repository"

	"go.uber.org/zap"
)

const activityFeedLimit = 10

// AdminService aggregates cross-entity admin operations: statistics, full
// export, stale-data cleanup, activity feed and bulk wipe
type AdminService interface {
	Statistics(ctx context.Context) (*model.SystemStatistics, error)
	Export(ctx context.Context) (*model.DataExport, error)
	Cleanup(ctx context.Context, olderThan time.Duration) (*model.CleanupResult, error)
	ActivityLogs(ctx context.Context) ([]model.ActivityLogEntry, error)
	ClearAll(ctx context.Context) error
}

type adminService struct {
	userRepo       repository.UserRepository
	reviewRepo     repository.ReviewRepository
	questionRepo   repository.QuestionRepository
	specialistRepo repository.SpecialistRepository
	logger         *zap.SugaredLogger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	questionRepo repository.QuestionRepository,
	specialistRepo repository.SpecialistRepository,
	logger *zap.SugaredLogger,
) AdminService {
	return &adminService{
		userRepo:       userRepo,
		reviewRepo:     reviewRepo,
		questionRepo:   questionRepo,
		specialistRepo: specialistRepo,
		logger:         logger,
	}
}

func (s *adminService) overview(ctx context.Context) (*model.Overview, error) {
	specialists, err := s.specialistRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	avgRating, err := s.reviewRepo.AverageRating(ctx)
	if err != nil {
		return nil, err
	}
	answered, err := s.questionRepo.CountAnswered(ctx)
	if err != nil {
		return nil, err
	}

	responseRate := 0.0
	if questions > 0 {
		responseRate = float64(answered) / float64(questions) * 100
	}

	return &model.Overview{
		TotalSpecialists: specialists,
		TotalReviews:     reviews,
		TotalQuestions:   questions,
		TotalUsers:       users,
		AverageRating:    math.Round(avgRating*10) / 10,
		ResponseRate:     math.Round(responseRate*10) / 10,
	}, nil
}

// Statistics builds the admin dashboard payload
func (s *adminService) Statistics(ctx context.Context) (*model.SystemStatistics, error) {
	ov, err := s.overview(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	reviewsWeek, err := s.reviewRepo.CountSince(ctx, weekAgo)
	if err != nil {
		return nil, storageErr(err)
	}
	questionsWeek, err := s.questionRepo.CountSince(ctx, weekAgo)
	if err != nil {
		return nil, storageErr(err)
	}
	reviewsMonth, err := s.reviewRepo.CountSince(ctx, monthAgo)
	if err != nil {
		return nil, storageErr(err)
	}
	questionsMonth, err := s.questionRepo.CountSince(ctx, monthAgo)
	if err != nil {
		return nil, storageErr(err)
	}

	ratingDist, err := s.reviewRepo.RatingDistribution(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	byPosition, err := s.specialistRepo.CountByPosition(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	byWorkplace, err := s.specialistRepo.CountByWorkplace(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	return &model.SystemStatistics{
		Overview: *ov,
		RecentActivity: model.RecentActivity{
			ReviewsLastWeek:    reviewsWeek,
			QuestionsLastWeek:  questionsWeek,
			ReviewsLastMonth:   reviewsMonth,
			QuestionsLastMonth: questionsMonth,
		},
		RatingDistribution:     ratingDist,
		SpecialistsByPosition:  byPosition,
		SpecialistsByWorkplace: byWorkplace,
		GeneratedAt:            now,
	}, nil
}

// Export dumps all entities with a summary block. The User JSON encoding
// already hides password hashes.
func (s *adminService) Export(ctx context.Context) (*model.DataExport, error) {
	ov, err := s.overview(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	specialists, err := s.specialistRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	reviews, err := s.reviewRepo.FindAll(ctx, model.ReviewFilters{})
	if err != nil {
		return nil, storageErr(err)
	}
	questions, err := s.questionRepo.FindAll(ctx, model.QuestionFilters{})
	if err != nil {
		return nil, storageErr(err)
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	return &model.DataExport{
		ExportDate:  time.Now(),
		Statistics:  *ov,
		Specialists: specialists,
		Reviews:     reviews,
		Questions:   questions,
		Users:       users,
	}, nil
}

// Cleanup deletes reviews and questions older than the cutoff that never
// received an admin reply
func (s *adminService) Cleanup(ctx context.Context, olderThan time.Duration) (*model.CleanupResult, error) {
	cutoff := time.Now().Add(-olderThan)

	deletedReviews, err := s.reviewRepo.DeleteStaleUnreplied(ctx, cutoff)
	if err != nil {
		return nil, storageErr(err)
	}
	deletedQuestions, err := s.questionRepo.DeleteStaleUnreplied(ctx, cutoff)
	if err != nil {
		return nil, storageErr(err)
	}

	s.logger.Infow("cleanup completed", "cutoff", cutoff, "deleted_reviews", deletedReviews, "deleted_questions", deletedQuestions)
	return &model.CleanupResult{
		DeletedReviews:   deletedReviews,
		DeletedQuestions: deletedQuestions,
	}, nil
}

// ActivityLogs builds a feed of recent review and question submissions,
// newest first
func (s *adminService) ActivityLogs(ctx context.Context) ([]model.ActivityLogEntry, error) {
	reviews, err := s.reviewRepo.FindRecent(ctx, activityFeedLimit)
	if err != nil {
		return nil, storageErr(err)
	}
	questions, err := s.questionRepo.FindRecent(ctx, activityFeedLimit)
	if err != nil {
		return nil, storageErr(err)
	}

	logs := make([]model.ActivityLogEntry, 0, len(reviews)+len(questions))
	for _, rv := range reviews {
		logs = append(logs, model.ActivityLogEntry{
			Timestamp: rv.CreatedAt,
			Type:      "review",
			Action:    "created",
			User:      submitterName(rv.UserName, rv.GuestName),
			Details:   fmt.Sprintf("review with %d star rating", rv.Rating),
			ID:        rv.ID,
		})
	}
	for _, q := range questions {
		details := "question (awaiting reply)"
		if q.AdminReply != nil {
			details = "question (answered)"
		}
		logs = append(logs, model.ActivityLogEntry{
			Timestamp: q.CreatedAt,
			Type:      "question",
			Action:    "created",
			User:      submitterName(q.UserName, q.GuestName),
			Details:   details,
			ID:        q.ID,
		})
	}

	// Merge the two feeds by time, newest first
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}

func submitterName(userName, guestName *string) string {
	switch {
	case userName != nil:
		return *userName
	case guestName != nil:
		return *guestName
	default:
		return "guest"
	}
}

// ClearAll wipes every entity table. Content first, users last, so review
// and question author references never dangle mid-wipe.
func (s *adminService) ClearAll(ctx context.Context) error {
	if err := s.reviewRepo.DeleteAll(ctx); err != nil {
		return storageErr(err)
	}
	if err := s.questionRepo.DeleteAll(ctx); err != nil {
		return storageErr(err)
	}
	if err := s.specialistRepo.DeleteAll(ctx); err != nil {
		return storageErr(err)
	}
	if err := s.userRepo.DeleteAll(ctx); err != nil {
		return storageErr(err)
	}
	s.logger.Warnw("all data cleared by admin request")
	return nil
}
