package rbac

import (
	"callcenter-platform/internal/apperr"
	"callcenter-platform/internal/auth"
	"callcenter-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// RequireAnyRole allows access if the caller has any of the provided roles.
// admin bypasses all checks. Must run after auth.RequireUser.
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		id, ok := auth.CurrentIdentity(c)
		if !ok || id.Role == "" {
			httpapi.RespondError(c, apperr.Unauthorized("No autenticado"))
			return
		}
		if IsAdmin(id.Role) {
			c.Next()
			return
		}
		if _, ok := allowedSet[id.Role]; !ok {
			httpapi.RespondError(c, apperr.Forbidden("No tiene permisos para realizar esta acción"))
			return
		}
		c.Next()
	}
}
