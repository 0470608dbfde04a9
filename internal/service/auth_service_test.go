package service

import (
	"context"
	"testing"
	"time"

	"biosphere_api/internal/model"
	"biosphere_api/internal/repository"
	"biosphere_api/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSentinel = "admin@biosfera.ru"

// fakeUserRepo is an in-memory repository.UserRepository
type fakeUserRepo struct {
	users  map[int]*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) FindFirstAdmin(_ context.Context) (*model.User, error) {
	for _, u := range f.users {
		if u.IsAdmin {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) SetAdmin(_ context.Context, id int, isAdmin bool) error {
	if u, ok := f.users[id]; ok {
		u.IsAdmin = isAdmin
	}
	return nil
}

func (f *fakeUserRepo) UpdateCredentials(_ context.Context, id int, name, phone, passwordHash string) error {
	if u, ok := f.users[id]; ok {
		u.Name = name
		u.Phone = phone
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) DeleteAll(_ context.Context) error {
	f.users = make(map[int]*model.User)
	return nil
}

func newTestAuthService(repo repository.UserRepository) (AuthService, *utils.JWTUtil) {
	jwtUtil := utils.NewJWTUtil("test-secret", time.Hour)
	return NewAuthService(repo, jwtUtil, testSentinel, zap.NewNop().Sugar()), jwtUtil
}

func registerReq(email string) model.RegisterRequest {
	return model.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Phone:    "123456",
		Password: "pw123456",
	}
}

func TestAuthService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), registerReq("a@x.com"))

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "pw123456", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("pw123456", user.PasswordHash))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	// Same email, different other fields: still rejected
	dup := registerReq("a@x.com")
	dup.Name = "Someone Else"
	dup.Password = "otherpass"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestAuthService_Register_SentinelEmailStaysRegular(t *testing.T) {
	// Even the sentinel address gets a non-admin account through the
	// generic path; only /auth/admin/register grants the flag
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), registerReq(testSentinel))
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
}

func TestAuthService_RegisterAdmin_Sentinel(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := svc.RegisterAdmin(context.Background(), registerReq(testSentinel))

	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestAuthService_RegisterAdmin_NonSentinelForbidden(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	_, err := svc.RegisterAdmin(context.Background(), registerReq("mallory@x.com"))
	assert.ErrorIs(t, err, ErrNotAdminSentinel)

	// Nothing was persisted
	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc, jwtUtil := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Token round-trips to the account that logged in
	subject, err := jwtUtil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	// Unknown email and wrong password are indistinguishable to the caller
	_, err := svc.Login(context.Background(), "nobody@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_AdminBlockedOnRegularLane(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	_, err := svc.RegisterAdmin(context.Background(), registerReq(testSentinel))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), testSentinel, "pw123456")
	assert.ErrorIs(t, err, ErrAdminLaneRequired)
}

func TestAuthService_AdminLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc, jwtUtil := newTestAuthService(repo)

	admin, err := svc.RegisterAdmin(context.Background(), registerReq(testSentinel))
	require.NoError(t, err)

	token, err := svc.AdminLogin(context.Background(), testSentinel, "pw123456")
	require.NoError(t, err)

	subject, err := jwtUtil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, subject)
}

func TestAuthService_AdminLogin_RegularBlocked(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	_, err = svc.AdminLogin(context.Background(), "a@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrAdminOnly)
}

func TestAuthService_AdminLogin_BadPasswordBeforeLaneCheck(t *testing.T) {
	// A wrong password on the admin lane reports bad credentials,
	// not the lane mismatch
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	_, err = svc.AdminLogin(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
