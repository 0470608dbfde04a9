package repository

import (
	"context"
	"errors"
	"fmt"

	"biosphere_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// SpecialistRepository defines operations for specialist profiles
type SpecialistRepository interface {
	Create(ctx context.Context, sp *model.Specialist) error
	FindByID(ctx context.Context, id int64) (*model.Specialist, error)
	FindAll(ctx context.Context) ([]model.Specialist, error)
	Update(ctx context.Context, sp *model.Specialist) error
	UpdatePhoto(ctx context.Context, id int64, photoPath string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByPosition(ctx context.Context) (map[string]int64, error)
	CountByWorkplace(ctx context.Context) (map[string]int64, error)
	DeleteAll(ctx context.Context) error
}

type specialistRepository struct {
	db PgxPool
}

// NewSpecialistRepository creates a new SpecialistRepository
func NewSpecialistRepository(db PgxPool) SpecialistRepository {
	return &specialistRepository{db: db}
}

const specialistColumns = `id, name, position, specialization, workplace, education, extra_qual, photo, created_at, updated_at`

// Create inserts a new specialist profile
func (r *specialistRepository) Create(ctx context.Context, sp *model.Specialist) error {
	sql := `INSERT INTO specialists (name, position, specialization, workplace, education, extra_qual, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, sp.Name, sp.Position, sp.Specialization, sp.Workplace, sp.Education, sp.ExtraQual, sp.CreatedAt, sp.UpdatedAt).
		Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create specialist: %w", err)
	}
	return nil
}

// FindByID retrieves a specialist by ID
func (r *specialistRepository) FindByID(ctx context.Context, id int64) (*model.Specialist, error) {
	sp := &model.Specialist{}
	sql := `SELECT ` + specialistColumns + ` FROM specialists WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&sp.ID, &sp.Name, &sp.Position, &sp.Specialization, &sp.Workplace,
		&sp.Education, &sp.ExtraQual, &sp.Photo, &sp.CreatedAt, &sp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find specialist by ID: %w", err)
	}
	return sp, nil
}

// FindAll retrieves every specialist, oldest first
func (r *specialistRepository) FindAll(ctx context.Context) ([]model.Specialist, error) {
	sql := `SELECT ` + specialistColumns + ` FROM specialists ORDER BY id`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list specialists: %w", err)
	}
	defer rows.Close()

	var specialists []model.Specialist
	for rows.Next() {
		var sp model.Specialist
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Position, &sp.Specialization, &sp.Workplace,
			&sp.Education, &sp.ExtraQual, &sp.Photo, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan specialist: %w", err)
		}
		specialists = append(specialists, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating specialists: %w", err)
	}
	return specialists, nil
}

// Update persists the mutable profile fields
func (r *specialistRepository) Update(ctx context.Context, sp *model.Specialist) error {
	sql := `UPDATE specialists SET name = $1, position = $2, specialization = $3, workplace = $4,
            education = $5, extra_qual = $6 WHERE id = $7`
	tag, err := r.db.Exec(ctx, sql, sp.Name, sp.Position, sp.Specialization, sp.Workplace, sp.Education, sp.ExtraQual, sp.ID)
	if err != nil {
		return fmt.Errorf("failed to update specialist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdatePhoto stores the relative photo path for a specialist
func (r *specialistRepository) UpdatePhoto(ctx context.Context, id int64, photoPath string) error {
	tag, err := r.db.Exec(ctx, `UPDATE specialists SET photo = $1 WHERE id = $2`, photoPath, id)
	if err != nil {
		return fmt.Errorf("failed to update specialist photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a specialist profile
func (r *specialistRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM specialists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete specialist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Count returns the total number of specialists
func (r *specialistRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM specialists`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count specialists: %w", err)
	}
	return n, nil
}

// CountByPosition groups specialists by position. NULL/empty positions are
// not possible (column is NOT NULL), so no COALESCE is needed here.
func (r *specialistRepository) CountByPosition(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, `SELECT position, COUNT(*) FROM specialists GROUP BY position`)
}

// CountByWorkplace groups specialists by workplace, folding NULL into a
// placeholder bucket
func (r *specialistRepository) CountByWorkplace(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, `SELECT COALESCE(workplace, 'unspecified'), COUNT(*) FROM specialists GROUP BY COALESCE(workplace, 'unspecified')`)
}

func (r *specialistRepository) groupCount(ctx context.Context, sql string) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to group specialists: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan specialist grouping: %w", err)
		}
		result[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating specialist grouping: %w", err)
	}
	return result, nil
}

// DeleteAll removes every specialist row
func (r *specialistRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM specialists`); err != nil {
		return fmt.Errorf("failed to delete specialists: %w", err)
	}
	return nil
}
