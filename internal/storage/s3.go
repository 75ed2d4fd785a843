package storage

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/photoapp/photoapp/internal/config"
)

// NewS3Client talks to AWS S3. Without an access key it falls back to IAM instance credentials.
func NewS3Client(cfg config.S3Config) (*ObjectStore, error) {
	var creds *credentials.Credentials

	if cfg.AccessKey == "" {
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket, backend: "s3"}, nil
}

// New picks the backend named by cfg.Storage.Backend.
func New(cfg *config.Config) (*ObjectStore, error) {
	if cfg.Storage.Backend == "s3" {
		return NewS3Client(cfg.S3)
	}
	return NewMinIOClient(cfg.MinIO)
}
