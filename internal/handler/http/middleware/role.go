package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/auth"
	"github.com/smarttrack/smarttrack-backend-go/internal/domain/user"
	"github.com/smarttrack/smarttrack-backend-go/internal/handler/http/response"
)

// RequireRole admits callers whose token role is one of roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.HandleError(w, user.ErrHRAccessRequired)
				return
			}

			role := user.Role(roleStr)
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.HandleError(w, user.ErrHRAccessRequired)
		})
	}
}

// RequireRosterAccess limits a route to hr and admin users.
func RequireRosterAccess(next http.Handler) http.Handler {
	return RequireRole(user.RoleHR, user.RoleAdmin)(next)
}
