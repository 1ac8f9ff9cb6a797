package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to os.TempDir until the files are copied into the temp upload dir.
const multipartMemory = 1 << 20

// isJSON reports whether the request declares a JSON body.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeBody fills dst from a JSON body, or calls fromForm with the parsed
// url-encoded or multipart form values. An empty body is not an error.
func decodeBody(r *http.Request, dst any, fromForm func(url.Values)) error {
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMultipartForm, err)
	}
	fromForm(r.Form)
	return nil
}

// parseMultipart limits the body to the upload cap and parses it.
// A request that is not multipart yields http.ErrNotMultipart unchanged.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.server.MaxUploadBytes)

	err := r.ParseMultipartForm(multipartMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, http.ErrNotMultipart):
		return err
	case errors.As(err, &tooLarge):
		return fmt.Errorf("%w: %w", ErrUploadTooLarge, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidMultipartForm, err)
	}
}

// saveFormFiles copies the named file fields into the temp upload dir and
// returns their paths in order; a missing field yields "". On failure every
// file saved so far is removed.
func (h *Handler) saveFormFiles(r *http.Request, fields ...string) ([]string, error) {
	paths := make([]string, len(fields))
	for i, field := range fields {
		path, err := h.tempFiles.SaveFormFile(r.MultipartForm, field)
		if err != nil {
			h.tempFiles.Remove(paths...)
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMultipartForm, field, err)
		}
		paths[i] = path
	}
	return paths, nil
}
