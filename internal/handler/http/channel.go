package http

import (
	"net/http"

	"github.com/MKhiriev/go-vidtube/internal/app"
	"github.com/MKhiriev/go-vidtube/internal/service"
	"github.com/MKhiriev/go-vidtube/internal/utils"
	"github.com/go-chi/chi/v5"
)

// channelProfile is public; isSubscribed is only computed for a caller
// identified by optionalAuth.
func (h *Handler) channelProfile(w http.ResponseWriter, r *http.Request) error {
	viewerID, _ := utils.GetUserIDFromContext(r.Context())

	profile, err := h.services.ChannelService.GetUserChannelProfile(r.Context(), chi.URLParam(r, "username"), viewerID)
	if err != nil {
		return err
	}

	return writeResponse(w, http.StatusOK, profile, app.MsgChannelFetched)
}

func (h *Handler) watchHistory(w http.ResponseWriter, r *http.Request) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return service.ErrUnauthorized
	}

	history, err := h.services.ChannelService.GetWatchHistory(r.Context(), userID)
	if err != nil {
		return err
	}

	return writeResponse(w, http.StatusOK, history, app.MsgWatchHistoryFetched)
}
