// Package storage uploads bulk export files to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/domain/bulk"
	"github.com/erp/stockdesk/internal/infrastructure/config"
)

// DefaultLinkExpiration is how long a presigned download link stays valid.
const DefaultLinkExpiration = 15 * time.Minute

// S3ExportStore puts export files into a bucket and returns a presigned
// download URL. Works with AWS S3, MinIO and other S3-compatible services.
type S3ExportStore struct {
	client         *s3.Client
	presign        *s3.PresignClient
	bucket         string
	prefix         string
	linkExpiration time.Duration
	logger         *zap.Logger
}

// Option configures an S3ExportStore
type Option func(*S3ExportStore)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3ExportStore) { s.logger = logger }
}

// WithLinkExpiration overrides DefaultLinkExpiration
func WithLinkExpiration(d time.Duration) Option {
	return func(s *S3ExportStore) { s.linkExpiration = d }
}

// NewS3ExportStore builds a client from the [storage] config section. Keys
// are written under prefix.
func NewS3ExportStore(ctx context.Context, cfg config.StorageConfig, prefix string, opts ...Option) (*S3ExportStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	store := &S3ExportStore{
		client:         client,
		presign:        s3.NewPresignClient(client),
		bucket:         cfg.Bucket,
		prefix:         strings.Trim(prefix, "/"),
		linkExpiration: DefaultLinkExpiration,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Store uploads the file and returns a presigned GET URL for it.
func (s *S3ExportStore) Store(ctx context.Context, file *bulk.ExportFile) (string, error) {
	if file == nil || file.FileName == "" {
		return "", errors.New("export file name is required")
	}
	key := s.Key(file.FileName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Content),
		ContentType: aws.String(file.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.linkExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign export link: %w", err)
	}

	s.logger.Info("Export uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("rows", file.Rows),
	)
	return req.URL, nil
}

// Key returns the object key for a file name.
func (s *S3ExportStore) Key(fileName string) string {
	if s.prefix == "" {
		return fileName
	}
	return path.Join(s.prefix, fileName)
}
