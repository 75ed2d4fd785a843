package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/photoapp/photoapp/internal/config"
	"github.com/photoapp/photoapp/pkg/logger"
)

// ObjectStore is a BlobStore backed by any S3-compatible endpoint.
type ObjectStore struct {
	client *minio.Client
	bucket string
	// backend prefixes log actions, e.g. "minio_upload_success".
	backend string
}

func NewMinIOClient(cfg config.MinIOConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket, backend: "minio"}, nil
}

func (s *ObjectStore) Bucket() string {
	return s.bucket
}

func (s *ObjectStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	details := map[string]interface{}{
		"object_name":  objectName,
		"size":         size,
		"content_type": contentType,
		"bucket":       s.bucket,
	}
	if err != nil {
		logger.Error(s.backend+"_upload_failed", err, details)
		return err
	}
	logger.Info(s.backend+"_upload_success", details)
	return nil
}

func (s *ObjectStore) Download(ctx context.Context, objectName string) ([]byte, error) {
	details := map[string]interface{}{
		"object_name": objectName,
		"bucket":      s.bucket,
	}

	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		logger.Error(s.backend+"_download_failed", err, details)
		return nil, translateError(err)
	}
	defer obj.Close()

	if _, err := obj.Stat(); err != nil {
		logger.Error(s.backend+"_download_stat_failed", err, details)
		return nil, translateError(err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		logger.Error(s.backend+"_download_read_failed", err, details)
		return nil, translateError(err)
	}

	details["size"] = len(data)
	logger.Info(s.backend+"_download_success", details)
	return data, nil
}

func (s *ObjectStore) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	details := map[string]interface{}{
		"object_name": objectName,
		"bucket":      s.bucket,
	}
	if err != nil {
		logger.Error(s.backend+"_delete_failed", err, details)
		return translateError(err)
	}
	logger.Info(s.backend+"_delete_success", details)
	return nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", s.bucket, err)
	}
	return nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
	}
	return err
}
