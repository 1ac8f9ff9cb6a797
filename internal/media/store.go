package media

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/logger"
)

// Folder is the object key prefix of every profile image.
const Folder = "vidtube"

// NewObjectStore returns the S3 store when a bucket is configured and the
// local directory store otherwise.
func NewObjectStore(ctx context.Context, cfg config.Media, log *logger.Logger) (ObjectStore, error) {
	if strings.TrimSpace(cfg.S3.Bucket) != "" {
		s3Store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Str("endpoint", cfg.S3.Endpoint).Msg("media stored in s3 bucket")
		return s3Store, nil
	}

	localStore, err := NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dir", localStore.Dir()).Str("base_url", cfg.PublicBaseURL).Msg("media stored in local directory")
	return localStore, nil
}
