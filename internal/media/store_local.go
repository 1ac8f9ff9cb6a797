package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore is an [ObjectStore] that writes objects below a directory which
// the HTTP server exposes under /static.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the root directory of the store.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, _ string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(target, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("object key %q escapes media dir", key)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	if _, err = io.Copy(out, body); err != nil {
		out.Close()
		os.Remove(target)
		return "", fmt.Errorf("write object: %w", err)
	}
	if err = out.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}

	return s.baseURL + "/" + key, nil
}
