package middleware

import (
	"context"
	"net/http"

	"github.com/ledgerpos/credit-terminal/internal/application"
	"github.com/ledgerpos/credit-terminal/internal/interfaces/rest"

	"log/slog"
)

type staffContextKey struct{}

// StaffContext requires X-Staff-ID and X-Staff-Role on every request and
// stashes them in the request context. The terminal trusts the PoS shell to
// have authenticated the operator; this layer only carries identity through.
func StaffContext(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			staffID := r.Header.Get("X-Staff-ID")
			role := r.Header.Get("X-Staff-Role")

			if staffID == "" || role == "" {
				err := application.NewLocalRecord(application.KindSessionExpired, "STAFF_IDENTITY_MISSING", nil)
				rest.WriteError(w, err, logger)
				return
			}
			if role != application.RoleClerk && role != application.RoleManager {
				err := application.NewLocalRecord(application.KindUnauthorizedAccess, "UNKNOWN_STAFF_ROLE", nil)
				rest.WriteError(w, err, logger)
				return
			}

			staff := application.StaffContext{StaffID: staffID, Role: role}
			ctx := context.WithValue(r.Context(), staffContextKey{}, staff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffFromContext returns the operator identity stored by StaffContext.
func StaffFromContext(ctx context.Context) (application.StaffContext, bool) {
	staff, ok := ctx.Value(staffContextKey{}).(application.StaffContext)
	return staff, ok
}
