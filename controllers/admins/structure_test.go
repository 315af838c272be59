package admins

import (
	"testing"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

func uintPtr(v uint) *uint { return &v }

func TestPinBaseTier(t *testing.T) {
	region := &models.User{Role: models.RoleCoordRegiao, RegionID: uintPtr(5)}
	b := models.Base{Name: "Base Alfa", DistrictID: 9, RegionID: uintPtr(99)}
	pinBaseTier(region, &b)
	if b.RegionID == nil || *b.RegionID != 5 {
		t.Fatalf("region coordinator must pin their own region, got %v", b.RegionID)
	}

	district := &models.User{Role: models.RoleCoordDistrital, DistrictID: uintPtr(7)}
	b = models.Base{Name: "Base Beta", DistrictID: 2}
	pinBaseTier(district, &b)
	if b.DistrictID != 7 {
		t.Fatalf("district coordinator must pin their own district, got %d", b.DistrictID)
	}

	// Global roles place bases anywhere; the payload stands.
	master := &models.User{Role: models.RoleMaster}
	b = models.Base{Name: "Base Gama", DistrictID: 3, UnionID: uintPtr(1)}
	pinBaseTier(master, &b)
	if b.DistrictID != 3 || b.UnionID == nil || *b.UnionID != 1 {
		t.Fatalf("global role must not rewrite the payload: %+v", b)
	}
}
