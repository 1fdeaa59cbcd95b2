package authz

import (
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

// Actor is the authenticated identity every authorization decision is
// evaluated against. A nil Actor means unauthenticated.
type Actor struct {
	ID          uuid.UUID
	Role        enums.Role
	Permissions dbtypes.PermissionGrants
	IsActive    bool
}

// ActorFromUser projects a stored user row into the engine's view of it.
func ActorFromUser(user *models.User) *Actor {
	if user == nil {
		return nil
	}
	return &Actor{
		ID:          user.ID,
		Role:        user.Role,
		Permissions: user.Permissions,
		IsActive:    user.IsActive,
	}
}
