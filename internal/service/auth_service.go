package service

import (
	"context"
	"errors"
	"time"

	"biosphere_api/internal/model"
	"biosphere_api/internal/repository"
	"biosphere_api/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email is already registered")
	// ErrInvalidCredentials deliberately covers both "no such account" and
	// "wrong password" so the response does not reveal which part failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminLaneRequired  = errors.New("administrators must use the admin login")
	ErrAdminOnly          = errors.New("access restricted to administrators")
	ErrNotAdminSentinel   = errors.New("admin registration is not permitted for this email")
)

// AuthService provides registration and the two login lanes
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	RegisterAdmin(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtUtil       *utils.JWTUtil
	sentinelEmail string
	logger        *zap.SugaredLogger
}

// NewAuthService creates a new AuthService. sentinelEmail is the only
// address allowed through the admin registration path.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, sentinelEmail string, logger *zap.SugaredLogger) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtUtil:       jwtUtil,
		sentinelEmail: sentinelEmail,
		logger:        logger,
	}
}

// Register creates a regular account. The admin flag is hard-set to false
// here no matter what the transport layer was sent.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return s.createUser(ctx, req, false)
}

// RegisterAdmin creates an admin account, but only for the configured
// sentinel email. Everything else is rejected before touching storage.
func (s *authService) RegisterAdmin(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if req.Email != s.sentinelEmail {
		s.logger.Warnw("admin registration rejected", "email", req.Email)
		return nil, ErrNotAdminSentinel
	}
	return s.createUser(ctx, req, true)
}

func (s *authService) createUser(ctx context.Context, req model.RegisterRequest, isAdmin bool) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageErr(err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The pre-check races with concurrent registrations; the unique
		// constraint is the authority.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, storageErr(err)
	}

	s.logger.Infow("user registered", "user_id", user.ID, "is_admin", isAdmin)
	return user, nil
}

// Login authenticates through the non-admin lane and returns a bearer token.
// Admin accounts are turned away with ErrAdminLaneRequired.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}
	if user.IsAdmin {
		s.logger.Infow("admin account attempted regular login", "user_id", user.ID)
		return "", ErrAdminLaneRequired
	}
	return s.issueToken(user)
}

// AdminLogin authenticates through the admin lane. Non-admin accounts are
// turned away with ErrAdminOnly.
func (s *authService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}
	if !user.IsAdmin {
		s.logger.Infow("non-admin account attempted admin login", "user_id", user.ID)
		return "", ErrAdminOnly
	}
	return s.issueToken(user)
}

// checkCredentials runs the lookup-then-verify steps shared by both lanes.
// Failure is terminal per attempt; no retries happen here.
func (s *authService) checkCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil {
		s.logger.Debugw("login failed: unknown email", "email", email)
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.logger.Debugw("login failed: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	token, err := s.jwtUtil.GenerateToken(user.ID)
	if err != nil {
		s.logger.Errorw("failed to generate token", "user_id", user.ID, "err", err)
		return "", err
	}
	return token, nil
}
