package models

import "time"

// Ledger entry categories.
const (
	CategoryTask       = "task"
	CategoryRevocation = "revocation"
	CategoryAttendance = "attendance"
	CategoryQuiz       = "quiz"
	CategoryManual     = "manual"
	CategoryEvent      = "event"
)

// XPHistory is one immutable point-balance change for a member. Rows are
// append-only: a revocation is a new negative entry, never an update or
// delete of the original.
type XPHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	TotalXP     int64     `gorm:"column:total_xp;not null" json:"total_xp"`
	Reason      string    `gorm:"size:255;not null" json:"reason"`
	Category    string    `gorm:"type:varchar(30);not null;index" json:"category"`
	PerformedBy *uint     `json:"performed_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (XPHistory) TableName() string {
	return "xp_history"
}

// BaseXPHistory mirrors XPHistory for base-level balances.
type BaseXPHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BaseID      uint      `gorm:"not null;index" json:"base_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	TotalXP     int64     `gorm:"column:total_xp;not null" json:"total_xp"`
	Reason      string    `gorm:"size:255;not null" json:"reason"`
	Category    string    `gorm:"type:varchar(30);not null;index" json:"category"`
	PerformedBy *uint     `json:"performed_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (BaseXPHistory) TableName() string {
	return "base_xp_history"
}
