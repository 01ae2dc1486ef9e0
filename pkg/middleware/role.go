package middleware

import (
	"net/http"
	"slices"

	"github.com/vfg2006/adlibrary-tracker/pkg/apiErrors"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// RoleMiddleware restricts a route to the given roles. It must run after
// Authenticate.
func RoleMiddleware(allowedRoles []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				log.ForContext(r.Context()).Warn("Access attempt without authentication")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "not authenticated", nil)
				return
			}

			if !slices.Contains(allowedRoles, claims.Role) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"subject": claims.Subject,
					"role":    claims.Role,
				}).Warn("Access denied")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "you are not allowed to access this resource", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly authenticates the request and requires the admin role
func AdminOnly(secret string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		Authenticate(secret),
		RoleMiddleware([]string{RoleAdmin}),
	}
}

// AnyRole authenticates the request and accepts admins and viewers
func AnyRole(secret string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		Authenticate(secret),
		RoleMiddleware([]string{RoleAdmin, RoleViewer}),
	}
}
