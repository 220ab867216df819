// Package storage holds the MinIO-backed object storage adapter. Quote PDFs
// are rendered out of band and dropped into a bucket under the quote number;
// this adapter only hands out short-lived download links.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"jobguinee_backend/platform/config"
)

// presignedURLTTL is the expiration time for presigned download URLs.
const presignedURLTTL = 15 * time.Minute

// MinIOService serves presigned URLs for quote PDF documents.
type MinIOService struct {
	client      *minio.Client
	quotePDFBkt string
}

// NewMinIOService creates the adapter from storage config. It fails when
// MinIO is not configured; callers treat a nil service as "no PDF storage".
func NewMinIOService(cfg config.StorageConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOService{
		client:      client,
		quotePDFBkt: cfg.GetMinioBucketQuotePDFs(),
	}, nil
}

// EnsureBucketExists creates the quote PDF bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.quotePDFBkt)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.quotePDFBkt, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.quotePDFBkt, err)
		}
	}
	return nil
}

// PresignedQuotePDFURL returns a short-lived download URL for the PDF stored
// under <quoteNumber>.pdf.
func (s *MinIOService) PresignedQuotePDFURL(ctx context.Context, quoteNumber string) (string, error) {
	objectName := quoteNumber + ".pdf"

	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, objectName))

	presigned, err := s.client.PresignedGetObject(ctx, s.quotePDFBkt, objectName, presignedURLTTL, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presigned.String(), nil
}
