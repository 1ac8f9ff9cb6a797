// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// vidtube server handlers, services and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// the "message" field of response envelopes. Keeping them in one place keeps
// the wording of the API consistent.
package app

// Failure messages.
const (
	MsgAllFieldsRequired          = "All fields are required"
	MsgUserAlreadyExists          = "User with email or username already exists"
	MsgAvatarRequired             = "Avatar file is required"
	MsgAvatarUploadFailed         = "Error while uploading avatar"
	MsgCoverImageRequired         = "Cover image file is missing"
	MsgCoverImageUploadFailed     = "Error while uploading cover image"
	MsgRegisterFailed             = "Something went wrong while registering the user"
	MsgCredentialsRequired        = "Email or username is required"
	MsgPasswordRequired           = "Password is required"
	MsgPasswordTooLong            = "Password must not exceed 72 bytes"
	MsgUserDoesNotExist           = "User does not exist"
	MsgInvalidPassword            = "Invalid password"
	MsgTokenGenerationFailed      = "Something went wrong while generating refresh and access tokens"
	MsgRefreshTokenRequired       = "Refresh token is required"
	MsgInvalidRefreshToken        = "Invalid refresh token"
	MsgRefreshTokenExpiredOrUsed  = "Refresh token is expired or used"
	MsgUnauthorizedRequest        = "Unauthorized request"
	MsgInvalidAccessToken         = "Invalid access token"
	MsgInvalidOldPassword         = "Invalid old password"
	MsgUsernameMissing            = "Username is missing"
	MsgChannelDoesNotExist        = "Channel does not exist"
	MsgInvalidJSON                = "Invalid JSON was passed"
	MsgInvalidMultipartForm       = "Invalid multipart form"
	MsgInvalidGzipBody            = "Invalid gzip data"
	MsgTooManyRequests            = "Too many requests, please try again later"
	MsgRouteNotFound              = "Route not found"
	MsgInternalServerError        = "Internal server error"
	MsgUploadTooLarge             = "Uploaded file is too large"
	MsgSomethingWentWrongInUpdate = "Something went wrong while updating the user"
	MsgServiceUnavailable         = "Service unavailable"
	MsgRequestTimeout             = "Request timed out"
)

// Success messages.
const (
	MsgUserRegistered        = "User registered successfully"
	MsgUserLoggedIn          = "User logged in successfully"
	MsgUserLoggedOut         = "User logged Out"
	MsgAccessTokenRefreshed  = "Access token refreshed successfully"
	MsgPasswordChanged       = "Password changed successfully"
	MsgCurrentUserFetched    = "Current user fetched successfully"
	MsgAccountDetailsUpdated = "Account details updated successfully"
	MsgAvatarUpdated         = "Avatar image updated successfully"
	MsgCoverImageUpdated     = "Cover image updated successfully"
	MsgChannelFetched        = "User channel fetched successfully"
	MsgWatchHistoryFetched   = "Watch history fetched successfully"
	MsgHealthy               = "OK"
)
