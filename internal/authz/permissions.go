package authz

import "github.com/fieldbook-dev/fieldbook-backend/pkg/enums"

// EffectivePermissions resolves the permission set an actor holds. Admins
// hold the full set regardless of their stored grants; secondary admins hold
// exactly the grants explicitly set true; agents hold none (their
// capabilities are role-based, not permission-based). Pure function of the
// actor's state.
func EffectivePermissions(actor *Actor) []enums.Permission {
	if actor == nil {
		return nil
	}

	switch actor.Role {
	case enums.RoleAdmin:
		return enums.AllPermissions()
	case enums.RoleSecondaryAdmin:
		granted := make([]enums.Permission, 0, len(actor.Permissions))
		for _, perm := range enums.AllPermissions() {
			if actor.Permissions.Granted(perm) {
				granted = append(granted, perm)
			}
		}
		return granted
	default:
		return nil
	}
}

// HasPermission reports whether the actor holds a single permission. Missing
// grants are denied, never an error.
func HasPermission(actor *Actor, perm enums.Permission) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case enums.RoleAdmin:
		return true
	case enums.RoleSecondaryAdmin:
		return actor.Permissions.Granted(perm)
	default:
		return false
	}
}
