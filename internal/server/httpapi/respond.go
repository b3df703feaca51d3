package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codequest-dev/codequest/internal/common"
)

// detailBody mirrors the {"detail": "..."} error shape clients already parse.
type detailBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailBody{Detail: detail})
}

// writeServiceError translates an error kind into an HTTP response.
// Credential and token failures emit fixed bodies so the causes stay
// indistinguishable; other failures (agent calls, persistence) are
// server-class and carry the wrapped error text, which is coarse by
// construction and names no secrets.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusBadRequest, "Email Already Exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeDetail(w, http.StatusBadRequest, "Invalid email or password")
	case isAuthError(err):
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Problem not found or expired")
	default:
		writeDetail(w, http.StatusInternalServerError, err.Error())
	}
}

// isAuthError groups every authentication failure cause. The causes stay
// distinct for logging; clients always see the same 401.
func isAuthError(err error) bool {
	return errors.Is(err, common.ErrorUnauthorized) ||
		errors.Is(err, common.ErrMalformedAuthHeader) ||
		errors.Is(err, common.ErrTokenMalformed) ||
		errors.Is(err, common.ErrTokenSignatureInvalid) ||
		errors.Is(err, common.ErrTokenExpired)
}
