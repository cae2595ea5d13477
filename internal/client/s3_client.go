package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	appConfig "project-planner-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const snapshotContentType = "application/vnd.sqlite3"

// SnapshotUploader uploads snapshot backups to object storage
type SnapshotUploader interface {
	SnapshotKey(at time.Time) string
	UploadSnapshot(ctx context.Context, key string, body io.ReadSeeker) (string, error)
	GetFileURL(key string) string
}

// S3Client wraps AWS S3 client and implements SnapshotUploader
type S3Client struct {
	client   *s3.Client
	bucket   string
	region   string
	prefix   string
	endpoint string // S3 호환 스토리지 사용 시 엔드포인트
}

// NewS3Client creates a new S3 client
func NewS3Client(ctx context.Context, cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, errors.New("S3 region is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}

	// An explicit endpoint targets S3-compatible storage, which needs static credentials
	if cfg.Endpoint != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, errors.New("access key and secret key are required for a custom endpoint")
		}
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	// Falls back to the default credential chain (IAM role, ~/.aws/credentials)
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:   s3Client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		endpoint: cfg.Endpoint,
	}, nil
}

// SnapshotKey builds the object key for a backup taken at the given time
// Format: {prefix}/{year}/{month}/{timestamp}.db
func (c *S3Client) SnapshotKey(at time.Time) string {
	return snapshotKey(c.prefix, at)
}

func snapshotKey(prefix string, at time.Time) string {
	at = at.UTC()
	name := at.Format("20060102T150405.000Z") + ".db"
	return path.Join(prefix, at.Format("2006"), at.Format("01"), name)
}

// UploadSnapshot puts one snapshot file under key and returns its URL
func (c *S3Client) UploadSnapshot(ctx context.Context, key string, body io.ReadSeeker) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(snapshotContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot to S3: %w", err)
	}
	return c.GetFileURL(key), nil
}

// GetFileURL returns the URL of an uploaded object
func (c *S3Client) GetFileURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

var _ SnapshotUploader = (*S3Client)(nil)
