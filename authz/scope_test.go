package authz

import (
	"testing"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

func uintPtr(v uint) *uint { return &v }

func TestGlobalRoles(t *testing.T) {
	for _, role := range []string{models.RoleMaster, models.RoleCoordGeral, models.RoleSecretaria} {
		s := Scope{Role: role}
		if !s.Global() {
			t.Fatalf("role %s should be global", role)
		}
		if !s.CanReviewUser(&models.User{ID: 1}) {
			t.Fatalf("global role %s should review anyone", role)
		}
	}
}

func TestDistrictScopeReviewsOwnDistrictOnly(t *testing.T) {
	s := Scope{Role: models.RoleCoordDistrital, DistrictID: uintPtr(4)}

	inside := &models.User{ID: 1, DistrictID: uintPtr(4)}
	outside := &models.User{ID: 2, DistrictID: uintPtr(9)}
	unplaced := &models.User{ID: 3}

	if !s.CanReviewUser(inside) {
		t.Fatal("district coordinator must review members of their district")
	}
	if s.CanReviewUser(outside) {
		t.Fatal("district coordinator must not review other districts")
	}
	if s.CanReviewUser(unplaced) {
		t.Fatal("members without a district are out of scope")
	}
}

func TestBaseScopeReviewsBase(t *testing.T) {
	s := Scope{Role: models.RoleCoordBase, BaseID: uintPtr(12)}

	if !s.CanReviewBase(&models.Base{ID: 12}) {
		t.Fatal("base coordinator must review their own base")
	}
	if s.CanReviewBase(&models.Base{ID: 13}) {
		t.Fatal("base coordinator must not review another base")
	}
}

func TestIncompleteScopeDeniesAll(t *testing.T) {
	// coord_distrital without a district assignment reads nothing.
	s := Scope{Role: models.RoleCoordDistrital}
	if s.CanReviewUser(&models.User{ID: 1, DistrictID: uintPtr(4)}) {
		t.Fatal("scope without org ref must deny review")
	}
	if s.Global() {
		t.Fatal("incomplete scope is not global")
	}
}

func TestCond(t *testing.T) {
	q, args := Scope{Role: models.RoleMaster}.Cond()
	if q != "1 = 1" || args != nil {
		t.Fatalf("global scope: got %q %v", q, args)
	}

	q, args = Scope{Role: models.RoleCoordDistrital}.Cond()
	if q != "1 = 0" || args != nil {
		t.Fatalf("incomplete scope: got %q %v", q, args)
	}

	q, args = Scope{Role: models.RoleCoordBase, BaseID: uintPtr(7)}.Cond()
	if q != "base_id = ?" || len(args) != 1 || args[0] != uint(7) {
		t.Fatalf("base scope: got %q %v", q, args)
	}
}

func TestMemberRoleHasNoAuthority(t *testing.T) {
	s := Scope{Role: models.RoleMember, BaseID: uintPtr(3)}
	if s.CanReviewUser(&models.User{ID: 1, BaseID: uintPtr(3)}) {
		t.Fatal("plain members must not review submissions")
	}
}
