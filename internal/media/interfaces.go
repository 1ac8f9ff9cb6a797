package media

//go:generate mockgen -source=interfaces.go -destination=../mock/media_mock.go -package=mock

import (
	"context"
	"io"
)

// UploadResult describes a stored object. The zero value means nothing was
// uploaded.
type UploadResult struct {
	URL string
	Key string
}

// Uploader pushes a local temp file to public storage.
//
// Upload always removes localPath before returning. An empty localPath is
// not an error and yields a zero [UploadResult].
type Uploader interface {
	Upload(ctx context.Context, localPath string) (UploadResult, error)
}

// ObjectStore stores a body under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
