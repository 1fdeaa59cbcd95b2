package authz

import (
	"fmt"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	pkgerrors "github.com/fieldbook-dev/fieldbook-backend/pkg/errors"
)

// Authorize decides whether the actor may perform the action. Deny is a
// terminal result, not an exception: callers map the returned coded error to
// an access-denied outcome and stop. The decision is pure and synchronous.
//
// Agent-role shortcuts resolve before permission lookups: agents may list,
// create, and update records by role alone. Record update is intentionally
// not ownership-scoped for agents. Secondary-admin management is hard-coded
// to the admin role, so a secondary admin can never grant itself a path to
// managing other secondary admins.
func Authorize(actor *Actor, action Action) error {
	if actor == nil || !actor.IsActive {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if allowed(actor, action) {
		return nil
	}
	return pkgerrors.
		New(pkgerrors.CodeForbidden, fmt.Sprintf("not permitted: %s", action)).
		WithDetails(map[string]any{"action": string(action)})
}

// allowed is the action decision table. Unmatched (role, action)
// combinations fall through to deny.
func allowed(actor *Actor, action Action) bool {
	switch action {
	case ActionListRecords:
		return actor.Role == enums.RoleAdmin ||
			actor.Role == enums.RoleAgent ||
			HasPermission(actor, enums.PermViewRecords)

	case ActionCreateRecord:
		// Agents may only self-attribute; collectedBy stamping is enforced
		// by the record write path.
		return actor.Role == enums.RoleAgent ||
			HasPermission(actor, enums.PermAddRecords)

	case ActionUpdateRecord:
		return actor.Role == enums.RoleAgent ||
			HasPermission(actor, enums.PermEditRecords)

	case ActionDeleteRecord:
		return HasPermission(actor, enums.PermDeleteRecords)

	case ActionExportRecords:
		return HasPermission(actor, enums.PermExportRecords)

	case ActionListCustomColumns:
		// Any authenticated actor; record forms need the active columns.
		return true

	case ActionCreateCustomColumn, ActionUpdateCustomColumn, ActionDeleteCustomColumn:
		return HasPermission(actor, enums.PermManageCustomColumns)

	case ActionListAgents:
		return actor.Role == enums.RoleAdmin ||
			HasPermission(actor, enums.PermViewAgents)

	case ActionCreateAgent:
		return HasPermission(actor, enums.PermCreateAgents)

	case ActionUpdateAgent:
		return HasPermission(actor, enums.PermEditAgents)

	case ActionListSecondaryAdmins, ActionCreateSecondaryAdmin, ActionUpdateSecondaryAdmin:
		return actor.Role == enums.RoleAdmin

	case ActionViewStats:
		return HasPermission(actor, enums.PermViewStats)
	}

	return false
}
