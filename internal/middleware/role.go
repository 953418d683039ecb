package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/pkg/response"
)

// RequireRole lets the request through when the authenticated admin holds
// one of roles. Must run after JWTAuth.
func RequireRole(roles ...domain.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := AdminClaims(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}
		if !claims.HasRole(roles...) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		c.Next()
	}
}

// EditorOnly admits ADMIN and MANAGER.
func EditorOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleManager)
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
