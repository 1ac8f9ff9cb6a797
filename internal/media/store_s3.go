package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const s3PartSize = 5 * 1024 * 1024

// S3Store is an [ObjectStore] backed by an S3-compatible bucket.
type S3Store struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store loads the default AWS credential chain and configures an
// uploader for cfg.S3.Bucket. A non-empty cfg.S3.Endpoint targets an
// S3-compatible service (MinIO, R2) using path-style addressing.
func NewS3Store(ctx context.Context, cfg config.Media) (*S3Store, error) {
	if strings.TrimSpace(cfg.S3.Bucket) == "" {
		return nil, ErrBucketMissing
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint := strings.TrimSpace(cfg.S3.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = s3PartSize
		u.LeavePartsOnError = false
	})

	return &S3Store{
		uploader: uploader,
		bucket:   cfg.S3.Bucket,
		baseURL:  publicBaseURL(cfg),
	}, nil
}

// Put uploads body with a public-read ACL.
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrEmptyKey
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}

// publicBaseURL falls back to the bucket URL when no CDN or public base URL
// is configured.
func publicBaseURL(cfg config.Media) string {
	if base := strings.TrimSuffix(cfg.PublicBaseURL, "/"); base != "" {
		return base
	}
	if endpoint := strings.TrimSuffix(cfg.S3.Endpoint, "/"); endpoint != "" {
		return endpoint + "/" + cfg.S3.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3.Bucket, cfg.S3.Region)
}
