package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"retreatbooking/internal/pkg/jwt"
	"retreatbooking/internal/pkg/response"
)

// AdminTokenCookie carries the admin JWT for browser sessions.
const AdminTokenCookie = "admin_token"

const claimsKey = "admin_claims"

// JWTAuth accepts the admin token from an "Authorization: Bearer" header or
// the admin_token cookie and stores its claims on the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return authenticate(jwtService, false)
}

// JWTAuthQuery also accepts ?token=, for websocket upgrades where browsers
// cannot set headers.
func JWTAuthQuery(jwtService *jwt.Service) gin.HandlerFunc {
	return authenticate(jwtService, true)
}

func authenticate(jwtService *jwt.Service, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, message := extractToken(c, allowQuery)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, code, message)
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Set("admin_id", claims.AdminID)
		c.Set("admin_email", claims.Email)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// AdminClaims returns the verified token claims set by JWTAuth.
func AdminClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

func extractToken(c *gin.Context, allowQuery bool) (token, code, message string) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'"
		}
		return strings.TrimSpace(parts[1]), "", ""
	}
	if cookie, err := c.Cookie(AdminTokenCookie); err == nil && cookie != "" {
		return cookie, "", ""
	}
	if allowQuery {
		if q := c.Query("token"); q != "" {
			return q, "", ""
		}
	}
	return "", "AUTH_HEADER_MISSING", "Authorization header is required"
}
