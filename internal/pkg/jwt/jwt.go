// Package jwt issues and verifies console admin tokens.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"retreatbooking/internal/domain"
)

const (
	Issuer   = "retreatbooking"
	Audience = "admin-console"
)

var ErrInvalidToken = fmt.Errorf("invalid admin token: %w", domain.ErrUnauthorized)

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Claims identify a console admin. Subject mirrors AdminID.
type Claims struct {
	AdminID int64            `json:"adminId"`
	Email   string           `json:"email"`
	Role    domain.AdminRole `json:"role"`
	jwtlib.RegisteredClaims
}

// HasRole reports whether the admin holds one of roles.
func (c *Claims) HasRole(roles ...domain.AdminRole) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) GenerateToken(adminID int64, email, role string) (string, error) {
	if adminID <= 0 {
		return "", errors.New("jwt: admin id is required")
	}
	r := domain.AdminRole(role)
	if !validRole(r) {
		return "", fmt.Errorf("jwt: unknown role %q", role)
	}

	now := s.now()
	claims := Claims{
		AdminID: adminID,
		Email:   email,
		Role:    r,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(adminID, 10),
			Audience:  jwtlib.ClaimStrings{Audience},
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken checks signature, expiry, issuer and audience, and that the
// subject and role describe a real console admin.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithAudience(Audience),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.AdminID == 0 || claims.Subject != strconv.FormatInt(claims.AdminID, 10) {
		return nil, ErrInvalidToken
	}
	if !validRole(claims.Role) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func validRole(r domain.AdminRole) bool {
	switch r {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleViewer:
		return true
	}
	return false
}
