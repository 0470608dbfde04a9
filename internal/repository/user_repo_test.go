package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"biosphere_api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRows(users ...*model.User) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "is_admin", "created_at"})
	for _, u := range users {
		rows.AddRow(u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.IsAdmin, u.CreatedAt)
	}
	return rows
}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := &model.User{
		Name:         "Alice",
		Email:        "a@x.com",
		Phone:        "123",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.Name, user.Email, user.Phone, user.PasswordHash, user.IsAdmin, user.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(7))

	err = repo.Create(context.Background(), user)
	assert.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := &model.User{Name: "Alice", Email: "a@x.com", Phone: "123", PasswordHash: "hash", CreatedAt: time.Now()}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.Name, user.Email, user.Phone, user.PasswordHash, user.IsAdmin, user.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err = repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	want := &model.User{ID: 3, Name: "Bob", Email: "b@x.com", Phone: "456", PasswordHash: "hash", IsAdmin: true, CreatedAt: time.Now()}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs(want.Email).
		WillReturnRows(newUserRows(want))

	got, err := repo.FindByEmail(context.Background(), want.Email)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, got.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("nobody@x.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(99).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.FindByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_admin = $1 WHERE id = $2`)).
		WithArgs(false, 5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetAdmin(context.Background(), 5, false)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))

	n, err := repo.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
