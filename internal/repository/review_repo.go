package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"biosphere_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// ReviewRepository defines operations for review data
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id int64) (*model.Review, error)
	FindAll(ctx context.Context, filters model.ReviewFilters) ([]model.Review, error)
	FindRecent(ctx context.Context, limit int) ([]model.Review, error)
	SetReply(ctx context.Context, id int64, reply string) error
	Delete(ctx context.Context, id int64) error
	DeleteStaleUnreplied(ctx context.Context, before time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
	RatingDistribution(ctx context.Context) (map[int]int64, error)
	DeleteAll(ctx context.Context) error
}

type reviewRepository struct {
	db PgxPool
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db PgxPool) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewSelect = `SELECT r.id, r.user_id, r.guest_name, r.guest_phone, r.rating, r.text, r.created_at, r.admin_reply, u.name
                      FROM reviews r LEFT JOIN users u ON u.id = r.user_id`

func scanReview(row pgx.Row) (*model.Review, error) {
	rv := &model.Review{}
	err := row.Scan(&rv.ID, &rv.UserID, &rv.GuestName, &rv.GuestPhone, &rv.Rating, &rv.Text, &rv.CreatedAt, &rv.AdminReply, &rv.UserName)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// Create inserts a new review into the database
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	sql := `INSERT INTO reviews (user_id, guest_name, guest_phone, rating, text, created_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, review.UserID, review.GuestName, review.GuestPhone, review.Rating, review.Text, review.CreatedAt).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// FindByID retrieves a review by its ID
func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*model.Review, error) {
	review, err := scanReview(r.db.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}
	return review, nil
}

// FindAll retrieves reviews with optional filters, newest first
func (r *reviewRepository) FindAll(ctx context.Context, filters model.ReviewFilters) ([]model.Review, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(reviewSelect)

	var conds []string
	var args []interface{}
	argCount := 1

	if filters.Rating != nil {
		conds = append(conds, fmt.Sprintf("r.rating = $%d", argCount))
		args = append(args, *filters.Rating)
		argCount++
	}
	if filters.Unreplied != nil {
		if *filters.Unreplied {
			conds = append(conds, "r.admin_reply IS NULL")
		} else {
			conds = append(conds, "r.admin_reply IS NOT NULL")
		}
	}
	if filters.Since != nil {
		conds = append(conds, fmt.Sprintf("r.created_at >= $%d", argCount))
		args = append(args, *filters.Since)
		argCount++
	}
	if len(conds) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY r.created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()
	return collectReviews(rows)
}

// FindRecent retrieves the newest reviews up to limit
func (r *reviewRepository) FindRecent(ctx context.Context, limit int) ([]model.Review, error) {
	rows, err := r.db.Query(ctx, reviewSelect+` ORDER BY r.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reviews: %w", err)
	}
	defer rows.Close()
	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]model.Review, error) {
	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.GuestName, &rv.GuestPhone, &rv.Rating, &rv.Text, &rv.CreatedAt, &rv.AdminReply, &rv.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// SetReply stores the admin reply on a review
func (r *reviewRepository) SetReply(ctx context.Context, id int64, reply string) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET admin_reply = $1 WHERE id = $2`, reply, id)
	if err != nil {
		return fmt.Errorf("failed to set review reply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a review
func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteStaleUnreplied removes reviews older than the cutoff that never got
// an admin reply and returns how many rows went away
func (r *reviewRepository) DeleteStaleUnreplied(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE created_at < $1 AND admin_reply IS NULL`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale reviews: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of reviews
func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return n, nil
}

// CountSince returns the number of reviews created at or after since
func (r *reviewRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recent reviews: %w", err)
	}
	return n, nil
}

// AverageRating returns the mean rating over all reviews, 0 when empty
func (r *reviewRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0) FROM reviews`).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	return avg, nil
}

// RatingDistribution returns review counts per star value 1..5
func (r *reviewRepository) RatingDistribution(ctx context.Context) (map[int]int64, error) {
	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	rows, err := r.db.Query(ctx, `SELECT rating, COUNT(*) FROM reviews GROUP BY rating`)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating distribution: %w", err)
		}
		dist[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating distribution: %w", err)
	}
	return dist, nil
}

// DeleteAll removes every review row
func (r *reviewRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM reviews`); err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}
	return nil
}
