package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// panicBody mirrors the server's JSON error shape so clients decode one format.
type panicBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery turns a handler panic into a logged 500 with a JSON error body.
// Responses that already started are left as they are.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrap(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				panicRecoveries.Inc()

				// the id header is set by RequestID before the handler runs
				id := rw.Header().Get(RequestIDHeader)
				logger.Error("handler panicked",
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", id,
					"stack", string(debug.Stack()),
				)

				if rw.wroteHeader {
					return
				}
				rw.Header().Set("Content-Type", "application/json")
				rw.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(rw).Encode(panicBody{
					Error:     "internal server error",
					Code:      "INTERNAL",
					RequestID: id,
				})
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
