// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
)

// checkHTTPMethod is registered as the router's MethodNotAllowed handler.
//
// Chi answers 405 when a path is known but the method is not. This handler
// answers with the same 404 envelope as an unknown path instead, so callers
// using an unsupported method learn nothing about which routes exist.
func (h *Handler) checkHTTPMethod(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, ErrRouteNotFound)
}

// notFound renders unknown paths as the failure envelope.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, ErrRouteNotFound)
}
