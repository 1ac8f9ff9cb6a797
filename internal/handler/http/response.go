package http

import (
	"net/http"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/utils"
	"github.com/MKhiriev/go-vidtube/models"
)

// handlerFunc is a route handler that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle is the error boundary of every route: a returned error is rendered
// as an [models.APIError] envelope with the status resolved by
// responseFromError.
func (h *Handler) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.writeError(w, r, err)
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message, details := responseFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Str("uri", r.RequestURI).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Str("uri", r.RequestURI).Msg("request rejected")
	}

	if _, writeErr := utils.WriteJSON(w, models.NewAPIError(status, message, details...), status); writeErr != nil {
		log.Err(writeErr).Msg("error response was not written")
	}
}

// writeResponse writes the success envelope.
func writeResponse(w http.ResponseWriter, status int, data any, message string) error {
	_, err := utils.WriteJSON(w, models.NewAPIResponse(status, data, message), status)
	return err
}

// emptyData renders as {} in success envelopes that carry no payload.
var emptyData = struct{}{}
