package middleware

import (
	"net/http"

	"model_gateway/internal/auth"
	"model_gateway/internal/providers"
	"model_gateway/internal/utils"
)

// InternalAuth admits only callers presenting the internal secret through
// one of the given header schemes. Anything else gets a 401 before the
// request can reach a vendor.
func InternalAuth(schemes ...providers.HeaderAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := ""
			for _, scheme := range schemes {
				if presented = scheme.Extract(r.Header); presented != "" {
					break
				}
			}

			if presented == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing API key")
				return
			}
			if !auth.SecretMatches(presented) {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
