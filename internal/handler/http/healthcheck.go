package http

import (
	"net/http"

	"github.com/MKhiriev/go-vidtube/internal/app"
)

// healthcheck reports the build info. A store that does not answer turns
// the response into a 503 envelope.
func (h *Handler) healthcheck(w http.ResponseWriter, r *http.Request) error {
	status, err := h.services.HealthService.Check(r.Context())
	if err != nil {
		return err
	}

	return writeResponse(w, http.StatusOK, status, app.MsgHealthy)
}
