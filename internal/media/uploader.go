package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/utils"
)

const defaultContentType = "application/octet-stream"

type uploader struct {
	store  ObjectStore
	folder string
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewUploader returns an [Uploader] that stores objects under folder in store.
func NewUploader(store ObjectStore, folder string, log *logger.Logger) Uploader {
	return &uploader{
		store:  store,
		folder: strings.Trim(folder, "/"),
		ids:    utils.NewUUIDGenerator(),
		logger: log,
	}
}

func (u *uploader) Upload(ctx context.Context, localPath string) (UploadResult, error) {
	if localPath == "" {
		return UploadResult{}, nil
	}
	defer u.removeTemp(localPath)

	file, err := os.Open(localPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: open %s: %w", ErrUploadFailed, localPath, err)
	}
	defer file.Close()

	key := ObjectKey(u.folder, u.ids.Generate(), localPath)
	url, err := u.store.Put(ctx, key, file, ContentType(localPath))
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	u.logger.Debug().Str("key", key).Str("url", url).Msg("media uploaded")
	return UploadResult{URL: url, Key: key}, nil
}

func (u *uploader) removeTemp(localPath string) {
	if err := os.Remove(localPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		u.logger.Warn().Err(err).Str("path", localPath).Msg("failed to remove temp upload")
	}
}

// ObjectKey builds "<folder>/<id><ext>" keeping the lowercased extension of
// the original file name.
func ObjectKey(folder, id, fileName string) string {
	name := id + strings.ToLower(filepath.Ext(fileName))
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// ContentType guesses the MIME type from the file extension.
func ContentType(fileName string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); ct != "" {
		return ct
	}
	return defaultContentType
}
