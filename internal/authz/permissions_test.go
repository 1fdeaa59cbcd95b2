package authz

import (
	"testing"

	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestEffectivePermissionsAdminIgnoresStoredGrants(t *testing.T) {
	actor := &Actor{
		ID:   uuid.New(),
		Role: enums.RoleAdmin,
		// Stored grants say almost nothing; admin still holds everything.
		Permissions: dbtypes.PermissionGrants{enums.PermViewRecords: false},
		IsActive:    true,
	}

	got := EffectivePermissions(actor)
	want := enums.AllPermissions()
	if len(got) != len(want) {
		t.Fatalf("effective permissions: got %d, want %d", len(got), len(want))
	}
	for i, perm := range want {
		if got[i] != perm {
			t.Errorf("position %d: got %s, want %s", i, got[i], perm)
		}
	}
}

func TestEffectivePermissionsSecondaryAdminTrueKeysOnly(t *testing.T) {
	actor := &Actor{
		ID:   uuid.New(),
		Role: enums.RoleSecondaryAdmin,
		Permissions: dbtypes.PermissionGrants{
			enums.PermViewRecords: true,
			enums.PermViewStats:   true,
			enums.PermEditRecords: false,
		},
		IsActive: true,
	}

	got := EffectivePermissions(actor)
	if len(got) != 2 {
		t.Fatalf("got %v, want exactly viewRecords and viewStats", got)
	}
	if got[0] != enums.PermViewRecords || got[1] != enums.PermViewStats {
		t.Errorf("got %v, want [viewRecords viewStats] in declaration order", got)
	}
}

func TestEffectivePermissionsAgentEmpty(t *testing.T) {
	actor := &Actor{
		ID:   uuid.New(),
		Role: enums.RoleAgent,
		// Even if grants are somehow present, agents hold none.
		Permissions: dbtypes.PermissionGrants{enums.PermDeleteRecords: true},
		IsActive:    true,
	}
	if got := EffectivePermissions(actor); len(got) != 0 {
		t.Errorf("agent effective permissions: got %v, want empty", got)
	}
}

func TestEffectivePermissionsNilActor(t *testing.T) {
	if got := EffectivePermissions(nil); got != nil {
		t.Errorf("nil actor: got %v, want nil", got)
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name  string
		actor *Actor
		perm  enums.Permission
		want  bool
	}{
		{
			name:  "nil actor",
			actor: nil,
			perm:  enums.PermViewRecords,
			want:  false,
		},
		{
			name:  "admin holds anything",
			actor: &Actor{Role: enums.RoleAdmin, IsActive: true},
			perm:  enums.PermManageCustomColumns,
			want:  true,
		},
		{
			name: "secondary admin with grant",
			actor: &Actor{
				Role:        enums.RoleSecondaryAdmin,
				Permissions: dbtypes.PermissionGrants{enums.PermViewStats: true},
				IsActive:    true,
			},
			perm: enums.PermViewStats,
			want: true,
		},
		{
			name: "secondary admin without grant",
			actor: &Actor{
				Role:        enums.RoleSecondaryAdmin,
				Permissions: dbtypes.PermissionGrants{enums.PermViewStats: false},
				IsActive:    true,
			},
			perm: enums.PermViewStats,
			want: false,
		},
		{
			name: "secondary admin missing key",
			actor: &Actor{
				Role:        enums.RoleSecondaryAdmin,
				Permissions: dbtypes.PermissionGrants{},
				IsActive:    true,
			},
			perm: enums.PermExportRecords,
			want: false,
		},
		{
			name: "agent never holds permissions",
			actor: &Actor{
				Role:        enums.RoleAgent,
				Permissions: dbtypes.PermissionGrants{enums.PermDeleteRecords: true},
				IsActive:    true,
			},
			perm: enums.PermDeleteRecords,
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasPermission(tc.actor, tc.perm); got != tc.want {
				t.Errorf("HasPermission(%s) = %v, want %v", tc.perm, got, tc.want)
			}
		})
	}
}
