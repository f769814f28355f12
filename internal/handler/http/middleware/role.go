package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/handler/http/response"
)

// RequireManager restricts a route to MANAGER accounts
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		if user.Role(roleStr) != user.RoleManager {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
