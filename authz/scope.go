// Package authz centralizes org-tree scoping. Every list endpoint asks this
// package for its query predicate instead of re-deriving role rules inline.
package authz

import (
	"gorm.io/gorm"

	"github.com/SunshineAppV2/baseteen-sub001/models"
)

// Scope is a caller's position in the org tree, taken from their user row.
type Scope struct {
	Role          string
	UnionID       *uint
	AssociationID *uint
	RegionID      *uint
	DistrictID    *uint
	BaseID        *uint
}

// ScopeFor builds the scope for an authenticated user.
func ScopeFor(u *models.User) Scope {
	return Scope{
		Role:          u.Role,
		UnionID:       u.UnionID,
		AssociationID: u.AssociationID,
		RegionID:      u.RegionID,
		DistrictID:    u.DistrictID,
		BaseID:        u.BaseID,
	}
}

// Global reports whether the role sees the whole tree.
func (s Scope) Global() bool {
	switch s.Role {
	case models.RoleMaster, models.RoleCoordGeral, models.RoleSecretaria:
		return true
	}
	return false
}

// column returns the org column and ID the role is fenced to. ok is false
// for global roles (no fence) and for roles missing their org ref, in which
// case the caller gets the deny-all predicate.
func (s Scope) column() (col string, id uint, ok bool) {
	switch s.Role {
	case models.RoleCoordUniao:
		if s.UnionID != nil {
			return "union_id", *s.UnionID, true
		}
	case models.RoleCoordAssociacao:
		if s.AssociationID != nil {
			return "association_id", *s.AssociationID, true
		}
	case models.RoleCoordRegiao:
		if s.RegionID != nil {
			return "region_id", *s.RegionID, true
		}
	case models.RoleCoordDistrital:
		if s.DistrictID != nil {
			return "district_id", *s.DistrictID, true
		}
	case models.RoleCoordBase:
		if s.BaseID != nil {
			return "base_id", *s.BaseID, true
		}
	}
	return "", 0, false
}

// Filter returns a GORM scope restricting rows to the caller's subtree.
// Tables carrying the denormalized hierarchy columns (users, tasks,
// submissions, base_submissions, notices, events) all share it. Queries over
// the bases table use FilterBases instead: a base has no base_id column.
func (s Scope) Filter() func(*gorm.DB) *gorm.DB {
	if s.Global() {
		return func(db *gorm.DB) *gorm.DB { return db }
	}
	col, id, ok := s.column()
	if !ok {
		// Unknown or incomplete scope reads nothing rather than everything.
		return func(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where(col+" = ?", id) }
}

// FilterBases is Filter for queries over the bases table itself, where a
// base coordinator's fence is the primary key.
func (s Scope) FilterBases() func(*gorm.DB) *gorm.DB {
	if s.Role == models.RoleCoordBase {
		if s.BaseID == nil {
			return func(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }
		}
		id := *s.BaseID
		return func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) }
	}
	return s.Filter()
}

// Cond returns the raw predicate form of the filter, for embedding inside a
// larger WHERE (e.g. "scope = 'global' OR <cond>").
func (s Scope) Cond() (query string, args []interface{}) {
	if s.Global() {
		return "1 = 1", nil
	}
	col, id, ok := s.column()
	if !ok {
		return "1 = 0", nil
	}
	return col + " = ?", []interface{}{id}
}

// CanReviewUser reports whether the caller has authority over the member.
func (s Scope) CanReviewUser(u *models.User) bool {
	if s.Global() {
		return true
	}
	col, id, ok := s.column()
	if !ok {
		return false
	}
	var ref *uint
	switch col {
	case "union_id":
		ref = u.UnionID
	case "association_id":
		ref = u.AssociationID
	case "region_id":
		ref = u.RegionID
	case "district_id":
		ref = u.DistrictID
	case "base_id":
		ref = u.BaseID
	}
	return ref != nil && *ref == id
}

// CanReviewBase reports whether the caller has authority over the base.
func (s Scope) CanReviewBase(b *models.Base) bool {
	if s.Global() {
		return true
	}
	col, id, ok := s.column()
	if !ok {
		return false
	}
	switch col {
	case "union_id":
		return b.UnionID != nil && *b.UnionID == id
	case "association_id":
		return b.AssociationID != nil && *b.AssociationID == id
	case "region_id":
		return b.RegionID != nil && *b.RegionID == id
	case "district_id":
		return b.DistrictID == id
	case "base_id":
		return b.ID == id
	}
	return false
}
