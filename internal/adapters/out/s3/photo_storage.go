// Package s3 keeps trip photos in an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"dispatch/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config describes the bucket. Endpoint is set for S3-compatible stores such
// as MinIO; PublicDomain, when set, replaces the bucket host in returned URLs.
type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicDomain    string
}

// putObjectAPI is the slice of the S3 client the storage needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PhotoStorage implements ports.PhotoStorage.
type PhotoStorage struct {
	client       putObjectAPI
	bucket       string
	region       string
	publicDomain string
}

func NewPhotoStorage(ctx context.Context, cfg Config) (*PhotoStorage, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewPhotoStorageWithClient(client, cfg.Bucket, cfg.Region, cfg.PublicDomain)
}

// NewPhotoStorageWithClient wraps an existing client.
func NewPhotoStorageWithClient(client putObjectAPI, bucket, region, publicDomain string) (*PhotoStorage, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("s3 client")
	}
	if bucket == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}
	return &PhotoStorage{
		client:       client,
		bucket:       bucket,
		region:       region,
		publicDomain: strings.TrimSuffix(publicDomain, "/"),
	}, nil
}

// Upload stores the object under key and returns its public URL.
func (s *PhotoStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if key == "" {
		return "", errs.NewValueIsRequiredError("key")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return s.url(key), nil
}

func (s *PhotoStorage) url(key string) string {
	if s.publicDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.publicDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
