package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-vidtube/internal/app"
	"github.com/MKhiriev/go-vidtube/internal/service"
	"github.com/MKhiriev/go-vidtube/internal/store"
)

type errorResponse struct {
	status  int
	message string
}

var errorStatusMap = map[error]errorResponse{
	ErrEmptyAuthorizationHeader:   {http.StatusUnauthorized, app.MsgUnauthorizedRequest},
	ErrInvalidAuthorizationHeader: {http.StatusUnauthorized, app.MsgUnauthorizedRequest},
	ErrInvalidJSON:                {http.StatusBadRequest, app.MsgInvalidJSON},
	ErrInvalidMultipartForm:       {http.StatusBadRequest, app.MsgInvalidMultipartForm},
	ErrInvalidGzipBody:            {http.StatusBadRequest, app.MsgInvalidGzipBody},
	ErrUploadTooLarge:             {http.StatusRequestEntityTooLarge, app.MsgUploadTooLarge},
	ErrTooManyRequests:            {http.StatusTooManyRequests, app.MsgTooManyRequests},
	ErrRouteNotFound:              {http.StatusNotFound, app.MsgRouteNotFound},

	// raised when middleware.Timeout cancels the request context
	context.DeadlineExceeded: {http.StatusGatewayTimeout, app.MsgRequestTimeout},

	store.ErrUserAlreadyExists: {http.StatusConflict, app.MsgUserAlreadyExists},
	store.ErrUserNotFound:      {http.StatusNotFound, app.MsgUserDoesNotExist},
	store.ErrChannelNotFound:   {http.StatusNotFound, app.MsgChannelDoesNotExist},

	store.ErrBuildingSQLQuery:   {http.StatusInternalServerError, app.MsgInternalServerError},
	store.ErrExecutingQuery:     {http.StatusInternalServerError, app.MsgInternalServerError},
	store.ErrExecutingStatement: {http.StatusInternalServerError, app.MsgInternalServerError},
	store.ErrScanningRow:        {http.StatusInternalServerError, app.MsgInternalServerError},
	store.ErrScanningRows:       {http.StatusInternalServerError, app.MsgInternalServerError},
}

// responseFromError resolves the status, message and details of err.
// Service errors carry their own; transport and store sentinels are looked
// up in errorStatusMap; anything else is a 500.
func responseFromError(err error) (int, string, []string) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return svcErr.Status, svcErr.Message, svcErr.Details
	}

	for target, resp := range errorStatusMap {
		if errors.Is(err, target) {
			return resp.status, resp.message, nil
		}
	}

	return http.StatusInternalServerError, app.MsgInternalServerError, nil
}
