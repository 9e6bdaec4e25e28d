// Package storage provides the S3-backed training data store.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	exportapp "github.com/commerce-ml/data-exporter/internal/application/export"
	"github.com/commerce-ml/data-exporter/internal/domain/export"
	infraconfig "github.com/commerce-ml/data-exporter/internal/infrastructure/config"
)

// Ensure S3TrainingDataStore implements TrainingDataStore
var _ exportapp.TrainingDataStore = (*S3TrainingDataStore)(nil)

// objectKeyTimeLayout produces ISO-8601 timestamps with millisecond
// precision for object keys, e.g. apriori/2026-04-01T02:00:00.000Z.json
const objectKeyTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// now is the package clock, swapped out in tests
var now = time.Now

// objectPutter is the subset of the S3 client used by the store
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3TrainingDataStore uploads export payloads to an S3-compatible bucket.
// It is compatible with any S3-compatible storage (AWS S3, MinIO, etc.)
type S3TrainingDataStore struct {
	client objectPutter
	bucket string
	logger *zap.Logger
}

// S3TrainingDataStoreOption is a functional option for configuring S3TrainingDataStore
type S3TrainingDataStoreOption func(*S3TrainingDataStore)

// WithLogger sets a custom logger for S3TrainingDataStore
func WithLogger(logger *zap.Logger) S3TrainingDataStoreOption {
	return func(s *S3TrainingDataStore) {
		s.logger = logger
	}
}

// NewS3TrainingDataStore creates a new S3TrainingDataStore from configuration.
// It supports any S3-compatible storage backend (AWS S3, MinIO, etc.)
func NewS3TrainingDataStore(cfg *infraconfig.StorageConfig, opts ...S3TrainingDataStoreOption) (*S3TrainingDataStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"", // session token (not used for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				if cfg.UseSSL {
					endpoint = "https://" + endpoint
				} else {
					endpoint = "http://" + endpoint
				}
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}
	})

	store := &S3TrainingDataStore{
		client: client,
		bucket: cfg.Bucket,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// UploadJSON marshals the payload and uploads it under a timestamped key
// inside the given folder. The boolean reports whether the object was stored.
func (s *S3TrainingDataStore) UploadJSON(ctx context.Context, folder string, payload any) (bool, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return false, export.NewUploadError(err)
	}

	key := buildObjectKey(folder, "json")
	if err := s.putObject(ctx, key, data, "application/json"); err != nil {
		return false, export.NewUploadError(err)
	}

	s.logger.Info("Uploaded JSON export",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return true, nil
}

// UploadCSV encodes the rows and uploads them under a timestamped key
// inside the given folder. The boolean reports whether the object was stored.
func (s *S3TrainingDataStore) UploadCSV(ctx context.Context, folder string, rows [][]string) (bool, error) {
	data := []byte(encodeCSV(rows))

	key := buildObjectKey(folder, "csv")
	if err := s.putObject(ctx, key, data, "text/csv"); err != nil {
		return false, export.NewUploadError(err)
	}

	s.logger.Info("Uploaded CSV export",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("rows", len(rows)),
	)
	return true, nil
}

// putObject uploads data to the bucket under the given key
func (s *S3TrainingDataStore) putObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(string(data)),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// buildObjectKey produces <folder>/<ISO-8601 timestamp>.<ext>
func buildObjectKey(folder, ext string) string {
	timestamp := now().UTC().Format(objectKeyTimeLayout)
	return fmt.Sprintf("%s/%s.%s", folder, timestamp, ext)
}

// encodeCSV joins each row with commas and rows with newlines.
// The result carries no trailing newline.
func encodeCSV(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

// GetBucket returns the bucket name
func (s *S3TrainingDataStore) GetBucket() string {
	return s.bucket
}
