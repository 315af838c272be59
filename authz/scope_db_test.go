package authz

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

func newBaseTable(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Base{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, b := range []*models.Base{
		{Name: "Base Alfa", DistrictID: 1},
		{Name: "Base Beta", DistrictID: 2},
	} {
		if err := db.Create(b).Error; err != nil {
			t.Fatalf("seed base: %v", err)
		}
	}
	return db
}

// The bases table has no base_id column; a base coordinator's fence there is
// the primary key.
func TestFilterBases_BaseCoordinatorSeesOwnRow(t *testing.T) {
	db := newBaseTable(t)
	s := Scope{Role: models.RoleCoordBase, BaseID: uintPtr(1)}

	var got []models.Base
	if err := db.Scopes(s.FilterBases()).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("base coordinator should see exactly their base, got %+v", got)
	}
}

func TestFilterBases_DistrictCoordinatorFencesByDistrict(t *testing.T) {
	db := newBaseTable(t)
	s := Scope{Role: models.RoleCoordDistrital, DistrictID: uintPtr(2)}

	var got []models.Base
	if err := db.Scopes(s.FilterBases()).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Base Beta" {
		t.Fatalf("district coordinator should see district 2 only, got %+v", got)
	}
}

func TestFilterBases_GlobalAndIncompleteScopes(t *testing.T) {
	db := newBaseTable(t)

	var all []models.Base
	if err := db.Scopes(Scope{Role: models.RoleMaster}.FilterBases()).Find(&all).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("global role should see every base, got %d", len(all))
	}

	var none []models.Base
	if err := db.Scopes(Scope{Role: models.RoleCoordBase}.FilterBases()).Find(&none).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("base coordinator without a base should see nothing, got %d", len(none))
	}
}
