package service

import (
	"context"
	"fmt"
	"io"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"github.com/hostbuddy/api/internal/domain"
)

const (
	MaxUploadFiles    = 5
	MaxUploadFileSize = 10 << 20

	uploadFolder = "events"
)

// Only the extension is checked; object keys keep nothing else of the name.
var uploadNamePattern = regexp2.MustCompile(`.\.(jpe?g|png|gif|webp)$`, regexp2.IgnoreCase)

type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type UploadedFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type BlobStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error)
	Owns(url string) bool
	Delete(ctx context.Context, url string) error
}

type UploadService struct {
	blobs BlobStore
}

func NewUploadService(blobs BlobStore) *UploadService {
	return &UploadService{
		blobs: blobs,
	}
}

// CheckUploads applies the request policy to every file before anything is
// stored.
func CheckUploads(files []UploadFile) error {
	if len(files) == 0 {
		return validationError("no files provided")
	}
	if len(files) > MaxUploadFiles {
		return validationError("maximum %d files allowed per upload", MaxUploadFiles)
	}

	for _, f := range files {
		ok, err := uploadNamePattern.MatchString(f.Filename)
		if err != nil || !ok {
			return validationError("file %q is not allowed, allowed types: .jpg, .jpeg, .png, .gif, .webp", f.Filename)
		}
		if f.Size > MaxUploadFileSize {
			return validationError("file %s is too large, maximum size: 10MB", f.Filename)
		}
	}

	return nil
}

// Upload stores every file or none: if one fails, the ones already stored are
// deleted again.
func (s *UploadService) Upload(ctx context.Context, user domain.User, files []UploadFile) ([]UploadedFile, error) {
	if err := CheckUploads(files); err != nil {
		return nil, err
	}

	uploaded := make([]UploadedFile, 0, len(files))
	for _, f := range files {
		url, err := s.store(ctx, f)
		if err != nil {
			s.rollback(ctx, uploaded)
			return nil, fmt.Errorf("s.store %s -> %w", f.Filename, err)
		}

		uploaded = append(uploaded, UploadedFile{Filename: f.Filename, URL: url})
	}

	zap.L().Info("images uploaded", zap.Uint("user_id", user.ID), zap.Int("count", len(uploaded)))

	return uploaded, nil
}

func (s *UploadService) store(ctx context.Context, f UploadFile) (string, error) {
	body, err := f.Open()
	if err != nil {
		return "", err
	}
	defer body.Close()

	return s.blobs.Upload(ctx, uploadFolder, f.Filename, f.ContentType, io.LimitReader(body, MaxUploadFileSize+1), f.Size)
}

func (s *UploadService) rollback(ctx context.Context, uploaded []UploadedFile) {
	for _, u := range uploaded {
		if err := s.blobs.Delete(ctx, u.URL); err != nil {
			zap.L().Warn("could not remove partial upload", zap.String("url", u.URL), zap.Error(err))
		}
	}
}

// Delete removes a previously uploaded image. URLs outside the bucket are
// rejected as bad input; storage failures are internal errors.
func (s *UploadService) Delete(ctx context.Context, user domain.User, url string) error {
	if url == "" {
		return validationError("file_url is required")
	}
	if !s.blobs.Owns(url) {
		return validationError("file_url does not point to an uploaded image")
	}

	if err := s.blobs.Delete(ctx, url); err != nil {
		return fmt.Errorf("s.blobs.Delete -> %w", err)
	}

	zap.L().Info("image deleted", zap.Uint("user_id", user.ID), zap.String("url", url))

	return nil
}
