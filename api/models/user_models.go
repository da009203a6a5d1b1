// api/models/user_models.go
package models

import (
	"time"

	"github.com/healthtrack/healthtrack-backend/internal/domain"
)

// --- User Request Structs ---

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserPayload carries user fields supplied by a client. The password is
// write-only; responses use UserResponse instead.
type UserPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Sex      string `json:"sex"`
	IsAdmin  bool   `json:"isAdmin"`
}

// AdminRegisterRequest embeds admin credentials alongside the user to create.
type AdminRegisterRequest struct {
	AdminID       string      `json:"adminId" binding:"required"`
	AdminPassword string      `json:"adminPassword" binding:"required"`
	User          UserPayload `json:"user" binding:"required"`
}

// AdminUpdateUserRequest embeds admin credentials alongside the partial user
// update. Empty fields leave the stored value unchanged.
type AdminUpdateUserRequest struct {
	AdminID       string      `json:"adminId" binding:"required"`
	AdminPassword string      `json:"adminPassword" binding:"required"`
	User          UserPayload `json:"user" binding:"required"`
}

// AdminCredentials is the envelope for admin-only operations with no other
// payload (user delete).
type AdminCredentials struct {
	AdminID       string `json:"adminId" binding:"required"`
	AdminPassword string `json:"adminPassword" binding:"required"`
}

// ResetPasswordRequest defines the admin password-reset request body.
type ResetPasswordRequest struct {
	AdminID       string `json:"adminId" binding:"required"`
	AdminPassword string `json:"adminPassword" binding:"required"`
	UserID        string `json:"userId" binding:"required"`
	NewPassword   string `json:"newPassword" binding:"required"`
}

// --- User Response Structs ---

// UserResponse is the public projection of a user; it never carries the
// stored secret.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Sex       string    `json:"sex"`
	CreatedAt time.Time `json:"createdAt"`
	IsAdmin   bool      `json:"isAdmin"`
}

// NewUserResponse maps a domain user onto its public projection.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Sex:       u.Sex,
		CreatedAt: u.CreatedAt,
		IsAdmin:   u.IsAdmin,
	}
}

// LoginResponse extends the user projection with the resolved role and the
// convenience session token.
type LoginResponse struct {
	UserResponse
	Role  string `json:"role"`
	Token string `json:"token"`
}
