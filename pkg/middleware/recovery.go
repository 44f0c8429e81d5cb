package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	apperrors "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/errors"
)

// Recovery turns a handler panic into a logged 500. http.ErrAbortHandler is
// re-panicked so net/http can abort the connection.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
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
				appErr := apperrors.Internal(fmt.Errorf("panic: %v", rec))
				l.ErrorContext(r.Context(), "panic recovered",
					slog.String("error", appErr.Error()),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				writeError(w, appErr.Status, appErr.Code, appErr.Message)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
