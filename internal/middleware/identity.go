package middleware

import (
	"net/http"
	"strings"

	"arquivo/internal/httputil"
	"arquivo/internal/session"
)

// IdentityHeader names the header carrying the acting identity. Who
// authenticated that identity is outside this service; upstream (gateway,
// reverse proxy, the mocked login of the web client) owns that.
const IdentityHeader = "X-User-ID"

// Identity puts the caller's identity on the request context. API routes
// without one get a 401: no identity means no data.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			userID := strings.TrimSpace(r.Header.Get(IdentityHeader))
			if userID == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing identity")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithUserID(r.Context(), userID)))
		})
	}
}
