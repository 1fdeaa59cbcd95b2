package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
)

// PermissionGrants is the per-user permission map persisted as JSONB. Keys are
// the verbatim permission names; a missing key means denied. Only
// secondary-admin rows carry a non-empty map.
type PermissionGrants map[enums.Permission]bool

// Granted reports whether the permission is explicitly set true.
func (g PermissionGrants) Granted(perm enums.Permission) bool {
	return g[perm]
}

// Value marshals the map into JSON for Postgres.
func (g PermissionGrants) Value() (driver.Value, error) {
	if g == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (g *PermissionGrants) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("permission grants: unsupported scan type %T", value)
	}

	result := make(PermissionGrants)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*g = result
	return nil
}
