package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"biosphere_api/internal/model"
	"biosphere_api/internal/repository"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidPhotoFormat = errors.New("invalid photo format. only .jpg, .jpeg, .png are allowed")
	ErrPhotoSizeExceeded  = errors.New("photo size exceeds limit")
)

const MaxPhotoSize = 5 * 1024 * 1024 // 5MB

// SpecialistService defines operations for specialist profiles
type SpecialistService interface {
	CreateSpecialist(ctx context.Context, req model.CreateSpecialistRequest) (*model.Specialist, error)
	GetSpecialist(ctx context.Context, id int64) (*model.Specialist, error)
	ListSpecialists(ctx context.Context) ([]model.Specialist, error)
	UpdateSpecialist(ctx context.Context, id int64, req model.UpdateSpecialistRequest) (*model.Specialist, error)
	DeleteSpecialist(ctx context.Context, id int64) error
	UploadPhoto(ctx context.Context, id int64, file *multipart.FileHeader) (*model.Specialist, error)
}

type specialistService struct {
	repo       repository.SpecialistRepository
	uploadsDir string
}

// NewSpecialistService creates a new SpecialistService
func NewSpecialistService(repo repository.SpecialistRepository, uploadsDir string) SpecialistService {
	return &specialistService{repo: repo, uploadsDir: uploadsDir}
}

func (s *specialistService) CreateSpecialist(ctx context.Context, req model.CreateSpecialistRequest) (*model.Specialist, error) {
	now := time.Now()
	sp := &model.Specialist{
		Name:           req.Name,
		Position:       req.Position,
		Specialization: req.Specialization,
		Workplace:      req.Workplace,
		Education:      req.Education,
		ExtraQual:      req.ExtraQual,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, storageErr(err)
	}
	return sp, nil
}

func (s *specialistService) GetSpecialist(ctx context.Context, id int64) (*model.Specialist, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if sp == nil {
		return nil, ErrNotFound
	}
	return sp, nil
}

func (s *specialistService) ListSpecialists(ctx context.Context) ([]model.Specialist, error) {
	specialists, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return specialists, nil
}

// UpdateSpecialist applies a partial update and returns the refreshed profile
func (s *specialistService) UpdateSpecialist(ctx context.Context, id int64, req model.UpdateSpecialistRequest) (*model.Specialist, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if sp == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		sp.Name = *req.Name
	}
	if req.Position != nil {
		sp.Position = *req.Position
	}
	if req.Specialization != nil {
		sp.Specialization = req.Specialization
	}
	if req.Workplace != nil {
		sp.Workplace = req.Workplace
	}
	if req.Education != nil {
		sp.Education = req.Education
	}
	if req.ExtraQual != nil {
		sp.ExtraQual = req.ExtraQual
	}
	sp.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, sp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	return sp, nil
}

func (s *specialistService) DeleteSpecialist(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return storageErr(err)
	}
	return nil
}

// UploadPhoto validates and stores a profile photo under the uploads dir and
// records its relative path on the specialist row
func (s *specialistService) UploadPhoto(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (*model.Specialist, error) {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if sp == nil {
		return nil, ErrNotFound
	}

	if fileHeader.Size > MaxPhotoSize {
		return nil, ErrPhotoSizeExceeded
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowedExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	if !allowedExts[ext] {
		return nil, ErrInvalidPhotoFormat
	}

	photoDir := filepath.Join(s.uploadsDir, "specialists", strconv.FormatInt(id, 10))
	if err := os.MkdirAll(photoDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := filepath.Base(fileHeader.Filename) // Basic sanitization
	filePath := filepath.Join(photoDir, fileName)
	relativeFilePath := filepath.ToSlash(filepath.Join("specialists", strconv.FormatInt(id, 10), fileName))

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	if err := s.repo.UpdatePhoto(ctx, id, relativeFilePath); err != nil {
		os.Remove(filePath) // Attempt to clean up
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}

	sp.Photo = &relativeFilePath
	return sp, nil
}
