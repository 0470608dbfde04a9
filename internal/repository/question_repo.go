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

// QuestionRepository defines operations for question data
type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id int64) (*model.Question, error)
	FindAll(ctx context.Context, filters model.QuestionFilters) ([]model.Question, error)
	FindRecent(ctx context.Context, limit int) ([]model.Question, error)
	SetReply(ctx context.Context, id int64, reply string) error
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteStaleUnreplied(ctx context.Context, before time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountAnswered(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type questionRepository struct {
	db PgxPool
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db PgxPool) QuestionRepository {
	return &questionRepository{db: db}
}

const questionSelect = `SELECT q.id, q.user_id, q.guest_name, q.guest_phone, q.text, q.created_at, q.admin_reply, q.is_read, u.name
                        FROM questions q LEFT JOIN users u ON u.id = q.user_id`

// Create inserts a new question into the database
func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	sql := `INSERT INTO questions (user_id, guest_name, guest_phone, text, created_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, question.UserID, question.GuestName, question.GuestPhone, question.Text, question.CreatedAt).
		Scan(&question.ID, &question.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// FindByID retrieves a question by its ID
func (r *questionRepository) FindByID(ctx context.Context, id int64) (*model.Question, error) {
	q := &model.Question{}
	err := r.db.QueryRow(ctx, questionSelect+` WHERE q.id = $1`, id).
		Scan(&q.ID, &q.UserID, &q.GuestName, &q.GuestPhone, &q.Text, &q.CreatedAt, &q.AdminReply, &q.IsRead, &q.UserName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find question by ID: %w", err)
	}
	return q, nil
}

// FindAll retrieves questions with optional filters, newest first
func (r *questionRepository) FindAll(ctx context.Context, filters model.QuestionFilters) ([]model.Question, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(questionSelect)

	var conds []string
	var args []interface{}
	argCount := 1

	if filters.Unread != nil {
		if *filters.Unread {
			conds = append(conds, "q.is_read = FALSE")
		} else {
			conds = append(conds, "q.is_read = TRUE")
		}
	}
	if filters.Unreplied != nil {
		if *filters.Unreplied {
			conds = append(conds, "q.admin_reply IS NULL")
		} else {
			conds = append(conds, "q.admin_reply IS NOT NULL")
		}
	}
	if filters.Since != nil {
		conds = append(conds, fmt.Sprintf("q.created_at >= $%d", argCount))
		args = append(args, *filters.Since)
		argCount++
	}
	if len(conds) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY q.created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// FindRecent retrieves the newest questions up to limit
func (r *questionRepository) FindRecent(ctx context.Context, limit int) ([]model.Question, error) {
	rows, err := r.db.Query(ctx, questionSelect+` ORDER BY q.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent questions: %w", err)
	}
	defer rows.Close()
	return collectQuestions(rows)
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.UserID, &q.GuestName, &q.GuestPhone, &q.Text, &q.CreatedAt, &q.AdminReply, &q.IsRead, &q.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

// SetReply stores the admin reply and marks the question read
func (r *questionRepository) SetReply(ctx context.Context, id int64, reply string) error {
	tag, err := r.db.Exec(ctx, `UPDATE questions SET admin_reply = $1, is_read = TRUE WHERE id = $2`, reply, id)
	if err != nil {
		return fmt.Errorf("failed to set question reply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkRead flags a question as read without replying
func (r *questionRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE questions SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark question read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a question
func (r *questionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteStaleUnreplied removes questions older than the cutoff that never
// got an admin reply and returns how many rows went away
func (r *questionRepository) DeleteStaleUnreplied(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE created_at < $1 AND admin_reply IS NULL`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale questions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of questions
func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

// CountSince returns the number of questions created at or after since
func (r *questionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recent questions: %w", err)
	}
	return n, nil
}

// CountAnswered returns the number of questions with an admin reply
func (r *questionRepository) CountAnswered(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE admin_reply IS NOT NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count answered questions: %w", err)
	}
	return n, nil
}

// DeleteAll removes every question row
func (r *questionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	return nil
}
