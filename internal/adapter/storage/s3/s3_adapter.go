package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// PhotoStorage stores listing photos in a MinIO (S3-compatible) bucket.
type PhotoStorage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewPhotoStorage connects to MinIO and ensures the bucket exists.
func NewPhotoStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*PhotoStorage, error) {
	log.Info("Initializing MinIO photo storage",
		zap.String("endpoint", endpoint), zap.String("bucket", bucketName), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists == nil && exists {
			log.Info("Bucket already exists", zap.String("bucket", bucketName))
		} else {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
	}

	return &PhotoStorage{
		client: client,
		bucket: bucketName,
		logger: log.Named("PhotoStorage"),
	}, nil
}

// Upload stores the photo under a fresh object key, keeping the original
// extension, and returns the public URL plus the key for later replacement.
func (s *PhotoStorage) Upload(ctx context.Context, originalFileName string, data []byte) (string, string, error) {
	ext := filepath.Ext(originalFileName)
	objectKey := fmt.Sprintf("photos/%s%s", uuid.New().String(), ext)

	s.logger.Info("Uploading photo",
		zap.String("bucket", s.bucket),
		zap.String("object_key", objectKey),
		zap.String("original_filename", originalFileName),
		zap.Int("size_bytes", len(data)))

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("key", objectKey), zap.Error(err))
		return "", "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	return fileURL, objectKey, nil
}
