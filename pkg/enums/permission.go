package enums

import "fmt"

// Permission is a named capability a secondary admin may be granted. The
// string values are stored verbatim as map keys in user rows and must never
// be renamed without a data migration.
type Permission string

const (
	PermViewRecords         Permission = "viewRecords"
	PermEditRecords         Permission = "editRecords"
	PermDeleteRecords       Permission = "deleteRecords"
	PermAddRecords          Permission = "addRecords"
	PermExportRecords       Permission = "exportRecords"
	PermViewAgents          Permission = "viewAgents"
	PermCreateAgents        Permission = "createAgents"
	PermEditAgents          Permission = "editAgents"
	PermManageCustomColumns Permission = "manageCustomColumns"
	PermViewStats           Permission = "viewStats"
)

var allPermissions = []Permission{
	PermViewRecords,
	PermEditRecords,
	PermDeleteRecords,
	PermAddRecords,
	PermExportRecords,
	PermViewAgents,
	PermCreateAgents,
	PermEditAgents,
	PermManageCustomColumns,
	PermViewStats,
}

// AllPermissions returns the full closed permission set, in declaration order.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Permission.
func (p Permission) IsValid() bool {
	for _, candidate := range allPermissions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermission converts raw input into a Permission.
func ParsePermission(value string) (Permission, error) {
	for _, candidate := range allPermissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission %q", value)
}
