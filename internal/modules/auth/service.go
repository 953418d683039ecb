package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/pkg/validator"
)

const minPasswordLength = 8

// Service authenticates console administrators.
type Service struct {
	users  AdminUserRepository
	jwt    jwtService
	now    func() time.Time
	logger *zap.Logger
}

func NewService(users AdminUserRepository, jwt jwtService, logger *zap.Logger) *Service {
	return &Service{users: users, jwt: jwt, now: time.Now, logger: logger}
}

// Login checks the password and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := domain.NormalizeEmail(req.Email)
	if validator.Var(email, "required,email") != nil {
		return nil, domain.NewValidationError("invalid credentials format", map[string]string{"Email": "email"})
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("admin login rejected", zap.Int64("admin_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	s.logger.Info("admin logged in", zap.Int64("admin_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{User: user, Token: token}, nil
}

// CreateAdmin hashes the password and stores an active console user.
func (s *Service) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*domain.AdminUser, error) {
	fields := map[string]string{}
	email := domain.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		fields["Email"] = "email"
	}
	if len(req.Password) < minPasswordLength {
		fields["Password"] = "min"
	}
	role := req.Role
	if role == "" {
		role = domain.RoleViewer
	}
	switch role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleViewer:
	default:
		fields["Role"] = "oneof"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError("invalid admin user", fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.AdminUser{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// TokenTTL is how long issued tokens and their cookie live.
func (s *Service) TokenTTL() time.Duration {
	return s.jwt.TTL()
}
