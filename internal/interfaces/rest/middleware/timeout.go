package middleware

import (
	"context"
	"net/http"
	"time"
)

func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			timeoutHandler := http.TimeoutHandler(
				next,
				timeout,
				`{"success":false,"error":{"code":"TIMEOUT_ERROR","message":"The request timed out. Please try again.","severity":"warning","is_retryable":true,"requires_auth":false}}`,
			)

			timeoutHandler.ServeHTTP(w, r)
		})
	}
}
