package models

import "time"

// Task kinds decide which proof the submitter must attach.
const (
	TaskKindUpload = "upload"
	TaskKindText   = "text"
	TaskKindCheck  = "check"
	TaskKindLink   = "link"
)

// Task visibility scopes, owned by the coordination tier that created them.
const (
	ScopeGlobal      = "global"
	ScopeUnion       = "union"
	ScopeAssociation = "association"
	ScopeRegion      = "region"
	ScopeDistrict    = "district"
	ScopeBase        = "base"
)

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:150;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Kind        string     `gorm:"type:enum('upload','text','check','link');not null;default:'check'" json:"kind"`
	Points      int64      `gorm:"not null" json:"points"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	Scope       string     `gorm:"type:enum('global','union','association','region','district','base');not null;default:'global';index" json:"scope"`
	// Hierarchy refs are filled down to the owning tier and null below it,
	// so a single indexed column lookup answers "visible to this caller".
	UnionID       *uint     `gorm:"index" json:"union_id,omitempty"`
	AssociationID *uint     `gorm:"index" json:"association_id,omitempty"`
	RegionID      *uint     `gorm:"index" json:"region_id,omitempty"`
	DistrictID    *uint     `gorm:"index" json:"district_id,omitempty"`
	BaseID        *uint     `gorm:"index" json:"base_id,omitempty"`
	Tag           string    `gorm:"type:varchar(50)" json:"tag"`
	Collective    bool      `gorm:"not null;default:false" json:"collective"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedBy     uint      `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// AvailableAt reports whether the task can be submitted at the given instant.
func (t *Task) AvailableAt(now time.Time) bool {
	if !t.Active {
		return false
	}
	if t.StartAt != nil && now.Before(*t.StartAt) {
		return false
	}
	return true
}
