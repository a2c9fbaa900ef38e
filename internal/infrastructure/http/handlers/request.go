package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/middleware"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON body into dst. An empty body leaves dst at its
// zero value. On failure it writes the 400 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body")
	return false
}

// identity returns the verified caller; routes that use it sit behind
// RequireUser, so a missing identity is answered with 401.
func identity(w http.ResponseWriter, r *http.Request) (ports.Identity, bool) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, response.StatusUnauthorized, "Authentication required")
		return ports.Identity{}, false
	}
	return caller, true
}
