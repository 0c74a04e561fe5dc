package dal

import (
	"context"
	"fmt"
	"io"

	"b2bconnect-backend/models"
	"b2bconnect-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3BlobStore stores uploaded media in an S3 bucket. Objects are addressed
// by opaque keys; the returned URL is what gets persisted on the entity.
type S3BlobStore struct {
	client *s3.Client
	config *models.Config
	logger logger.Logger
}

// NewS3BlobStore creates a blob store backed by the configured media bucket
func NewS3BlobStore(cfg *models.Config, log logger.Logger) (*S3BlobStore, error) {
	awsCfg, err := loadAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// MinIO and localstack require path-style addressing
			o.UsePathStyle = true
		}
	})

	log.Info("✅ S3 blob store initialized successfully")
	return &S3BlobStore{
		client: client,
		config: cfg,
		logger: log,
	}, nil
}

// Upload writes the object and returns its public URL
func (s *S3BlobStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.MediaBucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Errorf("Failed to upload %s: %v", key, err)
		return "", err
	}

	if s.config.S3Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.config.S3Endpoint, s.config.MediaBucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.MediaBucket, s.config.AWSRegion, key), nil
}
