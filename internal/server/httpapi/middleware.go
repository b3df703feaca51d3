package httpapi

import (
	"context"
	"net/http"

	"github.com/codequest-dev/codequest/internal/common"
	"github.com/codequest-dev/codequest/internal/server/models"
)

type contextKey int

const userContextKey contextKey = iota

// requireUser authenticates the request from its Authorization header and
// stores the resolved user in the request context. The root cause of a
// failure is logged; the response body is identical for every cause.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.users.ResolveUser(r.Context(), r.Header.Get(common.AuthorizationHeaderName))
		if err != nil {
			s.logger.Debug(r.Context(), "request not authenticated", "path", r.URL.Path, "cause", err.Error())
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// currentUser returns the user stored by requireUser. It panics if called
// outside a protected route, which is a routing bug.
func currentUser(r *http.Request) *models.User {
	return r.Context().Value(userContextKey).(*models.User)
}
