package middleware

import (
	"fmt"
	"net/http"

	"model_gateway/internal/logging"
	"model_gateway/internal/models"
	"model_gateway/internal/utils"
)

// Recover turns handler panics into a 500 and reports them as exceptions.
func Recover(sink logging.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := models.NewUnknownError("handler panic", fmt.Errorf("%v", rec))
				logging.Logger().Error().
					Err(err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("recovered from panic")
				logging.CaptureException(r.Context(), sink, err, logging.Event{
					RequestID: GetRequestID(r.Context()),
					Method:    r.Method,
					Path:      r.URL.Path,
				})
				utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
