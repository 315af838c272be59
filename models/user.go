package models

import "time"

// Coordinator roles, ordered from widest to narrowest authority.
const (
	RoleMaster          = "master"
	RoleCoordGeral      = "coord_geral"
	RoleSecretaria      = "secretaria"
	RoleCoordUniao      = "coord_uniao"
	RoleCoordAssociacao = "coord_associacao"
	RoleCoordRegiao     = "coord_regiao"
	RoleCoordDistrital  = "coord_distrital"
	RoleCoordBase       = "coord_base"
	RoleMember          = "member"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	Role           string    `gorm:"type:varchar(30);not null;default:'member';index" json:"role"`
	UnionID        *uint     `gorm:"index" json:"union_id,omitempty"`
	AssociationID  *uint     `gorm:"index" json:"association_id,omitempty"`
	RegionID       *uint     `gorm:"index" json:"region_id,omitempty"`
	DistrictID     *uint     `gorm:"index" json:"district_id,omitempty"`
	BaseID         *uint     `gorm:"index" json:"base_id,omitempty"`
	CurrentXP      int64     `gorm:"column:current_xp;not null;default:0" json:"current_xp"`
	CompletedTasks int64     `gorm:"not null;default:0" json:"completed_tasks"`
	Level          int       `gorm:"not null;default:1" json:"level"`
	Status         string    `gorm:"type:enum('Active','Inactive');default:'Active'" json:"status"`
	FCMToken       *string   `gorm:"type:varchar(255)" json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// roleRank orders roles from widest (0) to narrowest authority.
var roleRank = map[string]int{
	RoleMaster:          0,
	RoleCoordGeral:      1,
	RoleSecretaria:      2,
	RoleCoordUniao:      3,
	RoleCoordAssociacao: 4,
	RoleCoordRegiao:     5,
	RoleCoordDistrital:  6,
	RoleCoordBase:       7,
	RoleMember:          8,
}

// CanAssignRole reports whether the caller may grant role to someone else:
// the role must be known and carry no wider authority than the caller's own.
func (u *User) CanAssignRole(role string) bool {
	granted, ok := roleRank[role]
	if !ok {
		return false
	}
	own, ok := roleRank[u.Role]
	if !ok {
		return false
	}
	return granted >= own
}

// IsCoordinator reports whether the role carries review authority at any tier.
func (u *User) IsCoordinator() bool {
	switch u.Role {
	case RoleMaster, RoleCoordGeral, RoleSecretaria, RoleCoordUniao,
		RoleCoordAssociacao, RoleCoordRegiao, RoleCoordDistrital, RoleCoordBase:
		return true
	}
	return false
}

// LevelForXP mirrors the mobile app's level curve: one level per 1000 XP.
func LevelForXP(xp int64) int {
	if xp < 0 {
		return 1
	}
	return int(xp/1000) + 1
}
