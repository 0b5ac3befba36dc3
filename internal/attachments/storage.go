// Package attachments stages booking files (vouchers, tax invoices, vendor
// documents) in S3-compatible storage. The wizard validates file fields for
// presence only; the bytes live here until the separate gateway upload
// relays them to the booking backend.
package attachments

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"booking_portal_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL is the expiration time for presigned URLs.
const PresignedURLTTL = 15 * time.Minute

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// PresignedURL contains a presigned operation and its metadata.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Storage is the object storage interface used by the attachments handler.
type Storage interface {
	PresignUpload(ctx context.Context, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)
	PresignDownload(ctx context.Context, fileKey string) (*PresignedURL, error)
	Upload(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	Open(ctx context.Context, fileKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileKey string) error
	EnsureBucket(ctx context.Context) error
}

// MinIOStorage implements Storage with MinIO.
type MinIOStorage struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

// NewMinIOStorage creates the MinIO-backed attachment store.
func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	return &MinIOStorage{
		client:      client,
		bucket:      cfg.GetMinioBucketBookingAttachments(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucket creates the attachment bucket if it doesn't exist.
func (s *MinIOStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// PresignUpload creates a presigned PUT URL for a new attachment. The file
// key gets a short random suffix so re-uploads never overwrite.
func (s *MinIOStorage) PresignUpload(ctx context.Context, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if err := s.validate(contentType, sizeBytes); err != nil {
		return nil, err
	}

	fileKey := uniqueKey(folder, fileName)
	expiresAt := time.Now().Add(PresignedURLTTL)
	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, fileKey, PresignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &PresignedURL{URL: presigned.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

// PresignDownload creates a presigned GET URL for an existing attachment.
func (s *MinIOStorage) PresignDownload(ctx context.Context, fileKey string) (*PresignedURL, error) {
	expiresAt := time.Now().Add(PresignedURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, PresignedURLTTL, nil)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return &PresignedURL{URL: presigned.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

// Upload stores an attachment directly and returns its file key.
func (s *MinIOStorage) Upload(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if err := s.validate(contentType, size); err != nil {
		return "", err
	}

	fileKey := uniqueKey(folder, fileName)
	_, err := s.client.PutObject(ctx, s.bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}
	return fileKey, nil
}

// Open streams an attachment. The caller closes the reader.
func (s *MinIOStorage) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	return obj, nil
}

// Delete removes an attachment.
func (s *MinIOStorage) Delete(ctx context.Context, fileKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}

func (s *MinIOStorage) validate(contentType string, sizeBytes int64) error {
	if !allowedContentTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("content type %s not allowed", contentType)
	}
	if sizeBytes <= 0 || sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d outside allowed range (max %d)", sizeBytes, s.maxFileSize)
	}
	return nil
}

func uniqueKey(folder, fileName string) string {
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	return path.Join(folder, fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext))
}

// Compile-time check that MinIOStorage implements Storage.
var _ Storage = (*MinIOStorage)(nil)
