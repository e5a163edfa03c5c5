package minio

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/amJayem/used-books-resale-server/internal/app/config"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PhotoStorage uploads listing photos to object storage and hands back a
// public URL to store on the listing document.
type PhotoStorage struct {
	client *minio.Client
	cfg    config.MinIOConfig
	log    logger.Logger
}

func NewPhotoStorage(ctx context.Context, cfg config.MinIOConfig, log logger.Logger) (*PhotoStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		log.Infof("Created bucket %s", cfg.Bucket)
	}

	return &PhotoStorage{client: client, cfg: cfg, log: log}, nil
}

func (s *PhotoStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	objectName := uuid.NewString() + filepath.Ext(fileName)

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo %s: %w", objectName, err)
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, objectName)
	s.log.Infof("Uploaded listing photo %s", url)
	return url, nil
}
