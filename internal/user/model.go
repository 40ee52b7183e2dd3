package user

import (
	"time"

	"github.com/wardwatch/platform/internal/shared/auth"
)

// User is an account in the user collection, keyed by the identity
// provider's user id. The platform never stores credentials; sign-in is
// delegated entirely to the identity provider.
type User struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserRequest is the request to register a user
type CreateUserRequest struct {
	UID   string `json:"uid" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"`
}

// UpdateUserRequest is the request to update a user
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// ListUsersFilter defines filters for listing users
type ListUsersFilter struct {
	Role   *auth.Role `json:"role,omitempty"`
	Search string     `json:"search,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}
