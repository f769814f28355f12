package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/storage"
)

type FileService interface {
	// UploadCV stores a payee's CV and records the path on their profile
	UploadCV(ctx context.Context, userID string, file io.Reader, filename string) (string, error)

	// DownloadCV streams back a previously uploaded CV
	DownloadCV(ctx context.Context, userID string) (io.ReadCloser, string, error)
}

type fileServiceImpl struct {
	storage  storage.FileStorage
	userRepo user.UserRepository
}

func NewFileService(storage storage.FileStorage, userRepo user.UserRepository) FileService {
	return &fileServiceImpl{
		storage:  storage,
		userRepo: userRepo,
	}
}

var allowedCVExts = []string{".pdf", ".doc", ".docx"}

func (s *fileServiceImpl) UploadCV(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	isValid := false
	for _, allowed := range allowedCVExts {
		if ext == allowed {
			isValid = true
			break
		}
	}
	if !isValid {
		return "", user.ErrUnsupportedCVExtension
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return "", err
	}

	uniqueID := uuid.New().String()
	newFilename := fmt.Sprintf("%s-%s%s", userID, uniqueID, ext)
	path := filepath.Join("cv", userID, newFilename)

	storedPath, err := s.storage.Upload(ctx, file, path)
	if err != nil {
		return "", fmt.Errorf("failed to store cv: %w", err)
	}

	if err := s.userRepo.UpdateCVPath(ctx, userID, storedPath); err != nil {
		// Don't leave an orphan behind when the profile update fails
		_ = s.storage.Delete(ctx, storedPath)
		return "", err
	}

	return storedPath, nil
}

func (s *fileServiceImpl) DownloadCV(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if u.CVPath == nil {
		return nil, "", user.ErrCVNotFound
	}

	reader, err := s.storage.Download(ctx, *u.CVPath)
	if err != nil {
		return nil, "", user.ErrCVNotFound
	}

	return reader, filepath.Base(*u.CVPath), nil
}
