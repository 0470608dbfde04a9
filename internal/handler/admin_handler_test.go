package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"biosphere_api/internal/middleware"
	"biosphere_api/internal/model"
	"biosphere_api/internal/service"
	"biosphere_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReviewRepo implements repository.ReviewRepository in memory
type fakeReviewRepo struct {
	reviews map[int64]*model.Review
	nextID  int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[int64]*model.Review), nextID: 1}
}

func (f *fakeReviewRepo) Create(_ context.Context, r *model.Review) error {
	r.ID = f.nextID
	f.nextID++
	cp := *r
	f.reviews[r.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id int64) (*model.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) FindAll(_ context.Context, _ model.ReviewFilters) ([]model.Review, error) {
	var out []model.Review
	for _, r := range f.reviews {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReviewRepo) FindRecent(_ context.Context, limit int) ([]model.Review, error) {
	return nil, nil
}

func (f *fakeReviewRepo) SetReply(_ context.Context, id int64, reply string) error {
	r, ok := f.reviews[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.AdminReply = &reply
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.reviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) DeleteStaleUnreplied(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for id, r := range f.reviews {
		if r.AdminReply == nil && r.CreatedAt.Before(before) {
			delete(f.reviews, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeReviewRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.reviews)), nil
}

func (f *fakeReviewRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, r := range f.reviews {
		if !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeReviewRepo) AverageRating(_ context.Context) (float64, error) {
	if len(f.reviews) == 0 {
		return 0, nil
	}
	var sum int
	for _, r := range f.reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(f.reviews)), nil
}

func (f *fakeReviewRepo) RatingDistribution(_ context.Context) (map[int]int64, error) {
	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range f.reviews {
		dist[r.Rating]++
	}
	return dist, nil
}

func (f *fakeReviewRepo) DeleteAll(_ context.Context) error {
	f.reviews = make(map[int64]*model.Review)
	return nil
}

// fakeSpecialistStore implements repository.SpecialistRepository in memory
type fakeSpecialistStore struct {
	specialists map[int64]*model.Specialist
	nextID      int64
}

func newFakeSpecialistStore() *fakeSpecialistStore {
	return &fakeSpecialistStore{specialists: make(map[int64]*model.Specialist), nextID: 1}
}

func (f *fakeSpecialistStore) Create(_ context.Context, sp *model.Specialist) error {
	sp.ID = f.nextID
	f.nextID++
	cp := *sp
	f.specialists[sp.ID] = &cp
	return nil
}

func (f *fakeSpecialistStore) FindByID(_ context.Context, id int64) (*model.Specialist, error) {
	sp, ok := f.specialists[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

func (f *fakeSpecialistStore) FindAll(_ context.Context) ([]model.Specialist, error) {
	var out []model.Specialist
	for _, sp := range f.specialists {
		out = append(out, *sp)
	}
	return out, nil
}

func (f *fakeSpecialistStore) Update(_ context.Context, sp *model.Specialist) error {
	if _, ok := f.specialists[sp.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *sp
	f.specialists[sp.ID] = &cp
	return nil
}

func (f *fakeSpecialistStore) UpdatePhoto(_ context.Context, id int64, photoPath string) error {
	sp, ok := f.specialists[id]
	if !ok {
		return pgx.ErrNoRows
	}
	sp.Photo = &photoPath
	return nil
}

func (f *fakeSpecialistStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.specialists[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.specialists, id)
	return nil
}

func (f *fakeSpecialistStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.specialists)), nil
}

func (f *fakeSpecialistStore) CountByPosition(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, sp := range f.specialists {
		out[sp.Position]++
	}
	return out, nil
}

func (f *fakeSpecialistStore) CountByWorkplace(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, sp := range f.specialists {
		key := "unspecified"
		if sp.Workplace != nil {
			key = *sp.Workplace
		}
		out[key]++
	}
	return out, nil
}

func (f *fakeSpecialistStore) DeleteAll(_ context.Context) error {
	f.specialists = make(map[int64]*model.Specialist)
	return nil
}

type adminFixture struct {
	router         *gin.Engine
	userRepo       *fakeUserRepo
	reviewRepo     *fakeReviewRepo
	questionRepo   *fakeQuestionRepo
	specialistRepo *fakeSpecialistStore
}

func setupAdminRouter(t *testing.T) *adminFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop().Sugar()

	fx := &adminFixture{
		userRepo:       newFakeUserRepo(),
		reviewRepo:     newFakeReviewRepo(),
		questionRepo:   newFakeQuestionRepo(),
		specialistRepo: newFakeSpecialistStore(),
	}

	jwtUtil := utils.NewJWTUtil("test-secret", time.Hour)
	authService := service.NewAuthService(fx.userRepo, jwtUtil, testSentinel, logger)
	adminService := service.NewAdminService(fx.userRepo, fx.reviewRepo, fx.questionRepo, fx.specialistRepo, logger)
	authHandler := NewAuthHandler(authService, logger)
	adminHandler := NewAdminHandler(adminService, logger)

	authMW := middleware.AuthMiddleware(jwtUtil, fx.userRepo, logger)
	adminMW := middleware.AdminMiddleware()

	fx.router = gin.New()
	root := fx.router.Group("")
	authHandler.RegisterAuthRoutes(root)
	adminHandler.RegisterAdminRoutes(root, authMW, adminMW)

	return fx
}

func (fx *adminFixture) seedData(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, fx.reviewRepo.Create(ctx, &model.Review{Rating: 5, Text: "great", CreatedAt: time.Now()}))
	require.NoError(t, fx.questionRepo.Create(ctx, &model.Question{Text: "hours?", CreatedAt: time.Now()}))
	require.NoError(t, fx.specialistRepo.Create(ctx, &model.Specialist{Name: "Dr. Ivanova", Position: "Physician"}))
}

func adminRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClearAll_RequiresAuth(t *testing.T) {
	fx := setupAdminRouter(t)
	fx.seedData(t)

	w := adminRequest(fx.router, http.MethodPost, "/admin/clear_all", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	count, _ := fx.reviewRepo.Count(context.Background())
	assert.Equal(t, int64(1), count)
}

func TestClearAll_ForbiddenForRegularUser(t *testing.T) {
	fx := setupAdminRouter(t)
	fx.seedData(t)
	token := obtainToken(t, fx.router, "a@x.com", "pw123456", false)

	w := adminRequest(fx.router, http.MethodPost, "/admin/clear_all", token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	count, _ := fx.questionRepo.Count(context.Background())
	assert.Equal(t, int64(1), count)
}

func TestClearAll_Admin(t *testing.T) {
	fx := setupAdminRouter(t)
	fx.seedData(t)
	token := obtainToken(t, fx.router, testSentinel, "pw123456", true)

	w := adminRequest(fx.router, http.MethodPost, "/admin/clear_all", token)
	require.Equal(t, http.StatusOK, w.Code)

	ctx := context.Background()
	for name, count := range map[string]func(context.Context) (int64, error){
		"reviews":     fx.reviewRepo.Count,
		"questions":   fx.questionRepo.Count,
		"specialists": fx.specialistRepo.Count,
		"users":       fx.userRepo.Count,
	} {
		n, err := count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "%s should be wiped", name)
	}
}

func TestStatistics_Admin(t *testing.T) {
	fx := setupAdminRouter(t)
	fx.seedData(t)
	token := obtainToken(t, fx.router, testSentinel, "pw123456", true)

	w := adminRequest(fx.router, http.MethodGet, "/admin/statistics", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rating_distribution")
}
