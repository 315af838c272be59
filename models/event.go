package models

import "time"

type Event struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:150;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"size:150" json:"location"`
	StartsAt    time.Time  `gorm:"not null" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Scope       string     `gorm:"type:enum('global','union','association','region','district','base');not null;default:'global'" json:"scope"`
	DistrictID  *uint      `gorm:"index" json:"district_id,omitempty"`
	BaseID      *uint      `gorm:"index" json:"base_id,omitempty"`
	XPReward    int64      `gorm:"not null;default:0" json:"xp_reward"`
	CreatedBy   uint       `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
}

func (Event) TableName() string { return "events" }

type EventRegistration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index:idx_event_user,unique" json:"event_id"`
	UserID    uint      `gorm:"not null;index:idx_event_user,unique" json:"user_id"`
	CheckedIn bool      `gorm:"not null;default:false" json:"checked_in"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (EventRegistration) TableName() string { return "event_registrations" }
