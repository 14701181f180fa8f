package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"photo-gallery/internal/config"
	file_repo "photo-gallery/internal/repository/file"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

type FileRepository struct {
	client  *minio.Client
	bucket  string
	baseURL string
	retries retry.Strategy
	logger  *zlog.Zerolog
}

func NewFileRepository(ctx context.Context, cfg *config.Config, retries retry.Strategy, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Minio.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Minio.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info().Str("bucket", cfg.Minio.Bucket).Msg("Created bucket")
	}

	return &FileRepository{
		client:  client,
		bucket:  cfg.Minio.Bucket,
		baseURL: strings.TrimRight(cfg.Minio.PublicBaseURL, "/"),
		retries: retries,
		logger:  logger,
	}, nil
}

func (r *FileRepository) SaveObject(ctx context.Context, path string, data io.Reader, size int64, contentType string) error {
	err := retry.Do(func() error {
		_, err := r.client.PutObject(ctx, r.bucket, path, data, size, minio.PutObjectOptions{
			ContentType: contentType,
		})
		return err
	}, r.retries)
	if err != nil {
		return fmt.Errorf("failed to save object %s: %w", path, err)
	}
	return nil
}

func (r *FileRepository) GetObject(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}

	// GetObject is lazy; Stat surfaces missing keys before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, file_repo.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", path, err)
	}
	return obj, nil
}

func (r *FileRepository) ObjectExists(ctx context.Context, path string) (bool, error) {
	_, err := r.client.StatObject(ctx, r.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", path, err)
	}
	return true, nil
}

// ListFolder returns the object paths directly under a folder prefix,
// including any ".keep" marker. Callers filter placeholders themselves.
func (r *FileRepository) ListFolder(ctx context.Context, prefix string) ([]string, error) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var paths []string
	for obj := range r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		paths = append(paths, obj.Key)
	}
	return paths, nil
}

func (r *FileRepository) RemoveObject(ctx context.Context, path string) error {
	if err := r.client.RemoveObject(ctx, r.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", path, err)
	}
	return nil
}

func (r *FileRepository) RemoveObjectsWithPrefix(ctx context.Context, prefix string) error {
	var errs []error
	for obj := range r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			errs = append(errs, obj.Err)
			continue
		}
		if err := r.client.RemoveObject(ctx, r.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", obj.Key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to remove objects under %s: %w", prefix, errors.Join(errs...))
	}
	return nil
}

// CreateFolderMarker writes the ".keep" placeholder that makes an empty
// folder visible to listing clients. Overwriting an existing marker is fine.
func (r *FileRepository) CreateFolderMarker(ctx context.Context, folder string) error {
	marker := strings.TrimRight(folder, "/") + "/.keep"
	return r.SaveObject(ctx, marker, bytes.NewReader(nil), 0, "application/octet-stream")
}

// ObjectURL derives the externally reachable URL for an object path.
func (r *FileRepository) ObjectURL(path string) string {
	return r.baseURL + "/" + r.bucket + "/" + path
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == 404
}
