package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-vidtube/internal/app"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/service"
	"github.com/MKhiriev/go-vidtube/internal/utils"
	"github.com/MKhiriev/go-vidtube/models"
)

const (
	avatarField     = "avatar"
	coverImageField = "coverImage"
)

// register accepts a multipart form with the text fields plus the avatar
// and optional coverImage files. A body that is not multipart is read as
// JSON or url-encoded and carries no files. Temp files are removed when the
// request ends, whatever the outcome.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) error {
	req := models.RegisterRequest{}

	err := h.parseMultipart(w, r)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		if err = decodeBody(r, &req, func(form url.Values) { registerFromForm(&req, form) }); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		defer r.MultipartForm.RemoveAll()

		paths, err := h.saveFormFiles(r, avatarField, coverImageField)
		if err != nil {
			return err
		}
		defer h.tempFiles.Remove(paths...)

		registerFromForm(&req, r.MultipartForm.Value)
		req.AvatarPath, req.CoverImagePath = paths[0], paths[1]
	}

	user, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		return err
	}

	logger.FromRequest(r).Info().Str("user_id", user.ID).Msg("user registered")
	return writeResponse(w, http.StatusCreated, user, app.MsgUserRegistered)
}

func registerFromForm(req *models.RegisterRequest, form url.Values) {
	req.FullName = form.Get("fullName")
	req.Email = form.Get("email")
	req.Username = form.Get("username")
	req.Password = form.Get("password")
}

// login accepts JSON or form credentials, sets both token cookies and
// returns the session in the body as well.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var req models.LoginRequest
	err := decodeBody(r, &req, func(form url.Values) {
		req.Email = form.Get("email")
		req.Username = form.Get("username")
		req.Password = form.Get("password")
	})
	if err != nil {
		return err
	}

	session, err := h.services.AuthService.Login(r.Context(), req)
	if err != nil {
		return err
	}

	h.setTokenCookies(w, session.TokenPair)
	return writeResponse(w, http.StatusOK, session, app.MsgUserLoggedIn)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return service.ErrUnauthorized
	}

	if err := h.services.AuthService.Logout(r.Context(), userID); err != nil {
		return err
	}

	h.clearTokenCookies(w)
	return writeResponse(w, http.StatusOK, emptyData, app.MsgUserLoggedOut)
}

// refreshToken takes the refresh token from its cookie, or from the body
// when the cookie is absent.
func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) error {
	token := cookieValue(r, refreshTokenCookie)
	if token == "" {
		var req models.RefreshRequest
		err := decodeBody(r, &req, func(form url.Values) {
			req.RefreshToken = form.Get("refreshToken")
		})
		if err != nil {
			return err
		}
		token = req.RefreshToken
	}

	pair, err := h.services.AuthService.Refresh(r.Context(), token)
	if err != nil {
		return err
	}

	h.setTokenCookies(w, pair)
	return writeResponse(w, http.StatusOK, pair, app.MsgAccessTokenRefreshed)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return service.ErrUnauthorized
	}

	var req models.ChangePasswordRequest
	err := decodeBody(r, &req, func(form url.Values) {
		req.OldPassword = form.Get("oldPassword")
		req.NewPassword = form.Get("newPassword")
	})
	if err != nil {
		return err
	}

	if err = h.services.AuthService.ChangePassword(r.Context(), userID, req); err != nil {
		return err
	}

	return writeResponse(w, http.StatusOK, emptyData, app.MsgPasswordChanged)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) error {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		return service.ErrUnauthorized
	}
	return writeResponse(w, http.StatusOK, user, app.MsgCurrentUserFetched)
}

func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return service.ErrUnauthorized
	}

	var details models.AccountDetails
	err := decodeBody(r, &details, func(form url.Values) {
		details.FullName = form.Get("fullName")
		details.Email = form.Get("email")
	})
	if err != nil {
		return err
	}

	user, err := h.services.UserService.UpdateAccountDetails(r.Context(), userID, details)
	if err != nil {
		return err
	}

	return writeResponse(w, http.StatusOK, user, app.MsgAccountDetailsUpdated)
}

func (h *Handler) updateAvatar(w http.ResponseWriter, r *http.Request) error {
	return h.updateImage(w, r, avatarField, h.services.UserService.UpdateAvatar, app.MsgAvatarUpdated)
}

func (h *Handler) updateCoverImage(w http.ResponseWriter, r *http.Request) error {
	return h.updateImage(w, r, coverImageField, h.services.UserService.UpdateCoverImage, app.MsgCoverImageUpdated)
}

type imageUpdater func(ctx context.Context, userID, localPath string) (models.User, error)

// updateImage stores the single file of field and hands its temp path to
// update. A request without the file passes "" so the service reports the
// missing file.
func (h *Handler) updateImage(w http.ResponseWriter, r *http.Request, field string, update imageUpdater, message string) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return service.ErrUnauthorized
	}

	var localPath string
	err := h.parseMultipart(w, r)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return err
	default:
		defer r.MultipartForm.RemoveAll()

		paths, err := h.saveFormFiles(r, field)
		if err != nil {
			return err
		}
		defer h.tempFiles.Remove(paths...)
		localPath = paths[0]
	}

	user, err := update(r.Context(), userID, localPath)
	if err != nil {
		return err
	}

	return writeResponse(w, http.StatusOK, user, message)
}
