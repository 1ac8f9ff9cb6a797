package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/utils"
)

// TempFiles writes multipart uploads into the temp upload directory.
type TempFiles struct {
	dir string
	ids *utils.UUIDGenerator
}

func NewTempFiles(dir string) (*TempFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &TempFiles{dir: dir, ids: utils.NewUUIDGenerator()}, nil
}

// Dir returns the temp upload directory.
func (t *TempFiles) Dir() string {
	return t.dir
}

// SaveFormFile stores the first file of the named form field and returns its
// path. A missing field yields ("", nil).
func (t *TempFiles) SaveFormFile(form *multipart.Form, field string) (string, error) {
	if form == nil || len(form.File[field]) == 0 {
		return "", nil
	}
	return t.Save(form.File[field][0])
}

// Save copies the uploaded part into a uniquely named temp file.
func (t *TempFiles) Save(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", ErrNoFile
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open form file: %w", err)
	}
	defer src.Close()

	name := t.ids.Generate() + strings.ToLower(filepath.Ext(header.Filename))
	target := filepath.Join(t.dir, name)

	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = dst.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return target, nil
}

// Remove deletes the given temp files, ignoring empty and missing paths.
func (t *TempFiles) Remove(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// Sweep removes regular files in the temp dir last modified more than maxAge
// ago and returns how many were removed.
func (t *TempFiles) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(t.dir, entry.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}
