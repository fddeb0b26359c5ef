package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/naijj/ml-shelf/config"
)

// Store wraps an S3-compatible bucket holding the uploaded model files.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStoreFromConfig builds the store from AppConfig and makes sure the bucket
// exists.
func NewStoreFromConfig(ctx context.Context) (*Store, error) {
	if config.AppConfig == nil {
		return nil, errors.New("app config is not initialized")
	}

	cfg := config.AppConfig.Storage
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("storage endpoint is empty")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage bucket is empty")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed (endpoint=%s): %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket failed (bucket=%s): %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket failed (bucket=%s): %w", cfg.Bucket, err)
		}
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Save writes size bytes from r under objectName.
func (s *Store) Save(ctx context.Context, objectName string, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size,
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("put object failed (object=%s): %w", objectName, err)
	}
	return nil
}

// SignedURL returns a time-limited GET URL for a stored object. downloadName
// becomes the browser's suggested file name.
func (s *Store) SignedURL(ctx context.Context, objectName, downloadName string, expiry time.Duration) (string, error) {
	params := make(url.Values)
	if strings.TrimSpace(downloadName) != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign object failed (object=%s): %w", objectName, err)
	}
	return u.String(), nil
}

// Remove deletes a stored object.
func (s *Store) Remove(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object failed (object=%s): %w", objectName, err)
	}
	return nil
}
