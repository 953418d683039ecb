package auth

import "retreatbooking/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	User  *domain.AdminUser `json:"user"`
	Token string            `json:"token"`
}

type CreateAdminRequest struct {
	Email    string
	Name     string
	Password string
	Role     domain.AdminRole
}
