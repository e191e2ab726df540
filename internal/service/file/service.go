package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/storage"
	"github.com/google/uuid"
)

var ErrFileTooLarge = errors.New("file exceeds the size limit")

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// ContentTypeOf guesses the MIME type from the file extension.
func ContentTypeOf(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

type FileService interface {
	// UploadPaymentProof stores a transfer receipt for one payroll detail and
	// returns its storage key.
	UploadPaymentProof(ctx context.Context, periodKey, detailID string, file io.Reader, filename string, maxSize int64) (string, error)

	OpenFile(ctx context.Context, key string) (io.ReadCloser, string, error)
	DeleteFile(ctx context.Context, key string) error
	FileURL(key string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadPaymentProof implements FileService. Keys look like
// payment-proofs/{period}/{detail}-{uuid}{ext}.
func (s *fileServiceImpl) UploadPaymentProof(ctx context.Context, periodKey, detailID string, file io.Reader, filename string, maxSize int64) (string, error) {
	ext := strings.ToLower(path.Ext(filename))

	// Multipart headers may lie about size; read at most one byte past the limit.
	buf, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read payment proof: %w", err)
	}
	if int64(len(buf)) > maxSize {
		return "", ErrFileTooLarge
	}

	key := path.Join("payment-proofs", periodKey, fmt.Sprintf("%s-%s%s", detailID, uuid.NewString(), ext))
	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(buf), key, ContentTypeOf(filename))
	if err != nil {
		return "", fmt.Errorf("failed to upload payment proof: %w", err)
	}
	return uploaded, nil
}

// OpenFile returns the stored file and its content type.
func (s *fileServiceImpl) OpenFile(ctx context.Context, key string) (io.ReadCloser, string, error) {
	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return rc, ContentTypeOf(key), nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) FileURL(key string) string {
	return s.storage.URL(key)
}
