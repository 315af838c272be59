package models

import "time"

// Base is the smallest organizational unit (a local youth group).
// TotalXP and CompletedTasks are denormalized running totals; the ledger
// package is the only writer of those columns.
type Base struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Type           string    `gorm:"type:varchar(30);default:'mista'" json:"type"`
	DistrictID     uint      `gorm:"not null;index" json:"district_id"`
	RegionID       *uint     `gorm:"index" json:"region_id,omitempty"`
	AssociationID  *uint     `gorm:"index" json:"association_id,omitempty"`
	UnionID        *uint     `gorm:"index" json:"union_id,omitempty"`
	TotalXP        int64     `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	CompletedTasks int64     `gorm:"not null;default:0" json:"completed_tasks"`
	MemberLimit    int       `gorm:"not null;default:0" json:"member_limit"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (Base) TableName() string {
	return "bases"
}
