// Package storage implements the poster object store on S3-compatible
// backends (AWS S3, MinIO, or any service exposing the S3 API).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config captures the object-store settings.
type Config struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	ArchiveBucket string
	PublicBaseURL string
}

// Store wraps an S3 client for poster uploads. Archive writes go to a
// second bucket when one is configured.
type Store struct {
	client *s3.Client
	cfg    Config
}

// New builds the S3 client. Static credentials are used when provided,
// otherwise the default provider chain applies.
func New(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, cfg: cfg}, nil
}

// Put stores the object with upsert semantics (a later PutObject under the
// same key replaces the earlier one) and returns its public URL.
func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put: %w", err)
	}
	return s.publicURL(key), nil
}

// HasArchive reports whether archive copies are configured.
func (s *Store) HasArchive() bool {
	return s.cfg.ArchiveBucket != ""
}

// Archive writes a copy to the archive bucket under a dated, unique key so
// re-uploads never overwrite an archived original.
func (s *Store) Archive(ctx context.Context, key, contentType string, body []byte) error {
	if s.cfg.ArchiveBucket == "" {
		return nil
	}

	archiveKey := archiveKey(time.Now(), key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.ArchiveBucket),
		Key:           aws.String(archiveKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("s3 archive put: %w", err)
	}
	return nil
}

func (s *Store) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func archiveKey(now time.Time, key string) string {
	return fmt.Sprintf("posters/%d/%02d/%s_%s", now.Year(), now.Month(), uuid.New(), key)
}
