package domain

import "time"

type AdminRole string

const (
	RoleAdmin   AdminRole = "ADMIN"
	RoleManager AdminRole = "MANAGER"
	RoleViewer  AdminRole = "VIEWER"
)

type AdminUser struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"type:varchar(255)"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         AdminRole  `json:"role" gorm:"type:varchar(20);not null"`
	IsActive     bool       `json:"isActive" gorm:"not null"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
