package core_test

import (
	"testing"

	"invoice-admin/internal/core"
)

func TestRole_Parent(t *testing.T) {
	tests := []struct {
		role   core.Role
		parent core.Role
		ok     bool
	}{
		{core.RoleAdmin, core.RoleSuperAdmin, true},
		{core.RoleUnitManager, core.RoleAdmin, true},
		{core.RoleUser, core.RoleUnitManager, true},
		{core.RoleSuperAdmin, "", false},
		{core.Role("GHOST"), "", false},
	}
	for _, tc := range tests {
		parent, ok := tc.role.Parent()
		if parent != tc.parent || ok != tc.ok {
			t.Errorf("Parent(%s) = (%q, %v), want (%q, %v)", tc.role, parent, ok, tc.parent, tc.ok)
		}
	}
}

func TestRole_SequencePrefix(t *testing.T) {
	tests := []struct {
		role core.Role
		want string
	}{
		{core.RoleSuperAdmin, "SA"},
		{core.RoleAdmin, "A"},
		{core.RoleUnitManager, "UM"},
		{core.RoleUser, "U"},
		{core.Role("GHOST"), "X"},
	}
	for _, tc := range tests {
		if got := tc.role.SequencePrefix(); got != tc.want {
			t.Errorf("SequencePrefix(%s) = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if _, err := core.ParseRole("ADMIN"); err != nil {
		t.Errorf("ParseRole(ADMIN) failed: %v", err)
	}
	_, err := core.ParseRole("admin")
	if err == nil {
		t.Fatal("ParseRole(admin) should fail, roles are case-sensitive")
	}
	if core.KindOf(err) != core.KindValidation {
		t.Errorf("expected validation error, got kind %q", core.KindOf(err))
	}
}
