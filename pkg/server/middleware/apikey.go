package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/bi-tools/kpi-pulse/pkg/handlers/respond"
	"github.com/bi-tools/kpi-pulse/pkg/models/api"
)

// APIKey rejects requests whose X-API-Key header does not match the
// configured key. An empty configured key disables the check entirely.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			provided := req.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				respond.JSON(req.Context(), w, http.StatusUnauthorized,
					api.NewError("UNAUTHORIZED", "missing or invalid API key"))
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
