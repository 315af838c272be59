package models

import "testing"

func TestCanAssignRole(t *testing.T) {
	master := &User{Role: RoleMaster}
	for _, role := range []string{RoleMaster, RoleCoordGeral, RoleCoordDistrital, RoleCoordBase, RoleMember} {
		if !master.CanAssignRole(role) {
			t.Errorf("master should assign %q", role)
		}
	}

	baseCoord := &User{Role: RoleCoordBase}
	if !baseCoord.CanAssignRole(RoleMember) || !baseCoord.CanAssignRole(RoleCoordBase) {
		t.Error("base coordinator should assign roles at or below their tier")
	}
	for _, role := range []string{RoleCoordDistrital, RoleCoordRegiao, RoleSecretaria, RoleMaster} {
		if baseCoord.CanAssignRole(role) {
			t.Errorf("base coordinator must not assign %q", role)
		}
	}

	member := &User{Role: RoleMember}
	if !member.CanAssignRole(RoleMember) {
		t.Error("member rank assigns only its own tier")
	}
	if member.CanAssignRole(RoleCoordBase) {
		t.Error("member must not assign coordinator roles")
	}

	if master.CanAssignRole("superuser") {
		t.Error("unknown roles are never assignable")
	}
	if (&User{Role: "ghost"}).CanAssignRole(RoleMember) {
		t.Error("unknown caller role grants nothing")
	}
}
