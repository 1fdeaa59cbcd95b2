package identity

import (
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/internal/authz"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

// LoginInput carries credentials for the password login flow.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries the expired access token plus its refresh token.
type RefreshInput struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenPair is an access/refresh token bundle.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the login response: tokens plus the authenticated profile.
type LoginResult struct {
	TokenPair
	User UserResponse `json:"user"`
}

// CreateAgentInput is the payload for registering a field agent. When the
// password is omitted a temporary one is generated and returned once.
type CreateAgentInput struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	FullName string  `json:"fullName" validate:"required,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Password string  `json:"password" validate:"omitempty,min=8"`
}

// UpdateAgentInput carries partial agent changes. A non-nil Password resets
// the credential.
type UpdateAgentInput struct {
	FullName *string `json:"fullName" validate:"omitempty,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// CreateSecondaryAdminInput registers a secondary admin with an explicit
// permission grant set. Unknown permission names are rejected.
type CreateSecondaryAdminInput struct {
	Username    string          `json:"username" validate:"required,min=3,max=64"`
	FullName    string          `json:"fullName" validate:"required,max=200"`
	Phone       *string         `json:"phone" validate:"omitempty,max=32"`
	Password    string          `json:"password" validate:"omitempty,min=8"`
	Permissions map[string]bool `json:"permissions"`
}

// UpdateSecondaryAdminInput carries partial secondary admin changes,
// including permission toggles.
type UpdateSecondaryAdminInput struct {
	FullName    *string          `json:"fullName" validate:"omitempty,max=200"`
	Phone       *string          `json:"phone" validate:"omitempty,max=32"`
	IsActive    *bool            `json:"isActive"`
	Password    *string          `json:"password" validate:"omitempty,min=8"`
	Permissions *map[string]bool `json:"permissions"`
}

// UserResponse is the wire shape of an account. The stored grant map is
// echoed for secondary admins; effectivePermissions is what the client
// should gate UI on.
type UserResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Username             string          `json:"username"`
	FullName             string          `json:"fullName"`
	Phone                *string         `json:"phone,omitempty"`
	Role                 enums.Role      `json:"role"`
	Permissions          map[string]bool `json:"permissions,omitempty"`
	EffectivePermissions []string        `json:"effectivePermissions"`
	IsActive             bool            `json:"isActive"`
	LastLoginAt          *time.Time      `json:"lastLoginAt,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// CreatedUserResult pairs a new account with its one-time temporary password
// when the caller did not supply one.
type CreatedUserResult struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"tempPassword,omitempty"`
}

// NewUserResponse maps a stored user to its wire shape. The password hash
// never leaves this package.
func NewUserResponse(user models.User) UserResponse {
	resp := UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		Phone:       user.Phone,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}

	if user.Role == enums.RoleSecondaryAdmin {
		grants := make(map[string]bool, len(user.Permissions))
		for perm, granted := range user.Permissions {
			grants[string(perm)] = granted
		}
		resp.Permissions = grants
	}

	effective := authz.EffectivePermissions(authz.ActorFromUser(&user))
	names := make([]string, 0, len(effective))
	for _, perm := range effective {
		names = append(names, string(perm))
	}
	resp.EffectivePermissions = names

	return resp
}

// NewUserResponses maps a list of stored users.
func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}
