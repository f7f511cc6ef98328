package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// CreateUserRequest payload for signup.
type CreateUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	RoleID   domain.Role `json:"roleId"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse mirrors a user account without credentials.
type UserResponse struct {
	UserID   int64       `json:"userId"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	RoleID   domain.Role `json:"roleId"`
	RoleName string      `json:"roleName"`
}

// LoginResponse carries the signed token alongside account details.
type LoginResponse struct {
	UserID   int64       `json:"userId"`
	UserName string      `json:"userName"`
	Email    string      `json:"email"`
	RoleID   domain.Role `json:"roleId"`
	RoleName string      `json:"roleName"`
	Token    string      `json:"token"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		RoleID:   user.RoleID,
		RoleName: user.RoleID.String(),
	}
}
