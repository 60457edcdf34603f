package dto

import (
	"github.com/souzacred/crm-backend/internal/models"
)

type CreateUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

type CreateUserResponse struct {
	UID string `json:"uid"`
}

type UpdateUserRequest struct {
	Name   *string      `json:"name,omitempty"`
	Role   *models.Role `json:"role,omitempty"`
	Active *bool        `json:"active,omitempty"`
}

// Profile is the caller's own user record plus whether it is the configured
// master identity.
type Profile struct {
	models.User
	IsMaster bool `json:"isMaster"`
}
