package models

import "time"

// Notice is a coordinator-authored announcement shown on the console feed.
type Notice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:150;not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Scope      string    `gorm:"type:enum('global','union','association','region','district','base');not null;default:'global'" json:"scope"`
	DistrictID *uint     `gorm:"index" json:"district_id,omitempty"`
	BaseID     *uint     `gorm:"index" json:"base_id,omitempty"`
	CreatedBy  uint      `gorm:"not null" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

func (Notice) TableName() string { return "notices" }
