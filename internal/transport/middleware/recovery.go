package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/hiring-gateway/internal"
)

// RecoveryMiddleware is the last-resort error boundary: a panic anywhere below
// it becomes a 500 envelope carrying the panic message as details.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
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

				logger.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(internal.Envelope{
					Success: false,
					Error:   "服务器内部错误",
					Code:    internal.ErrCodeInternal,
					Details: fmt.Sprint(rec),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
