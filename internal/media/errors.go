package media

import "errors"

var (
	ErrUploadFailed  = errors.New("media upload failed")
	ErrEmptyKey      = errors.New("empty object key")
	ErrBucketMissing = errors.New("s3 bucket is required")
	ErrNoFile        = errors.New("no file in form part")
)
