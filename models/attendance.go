package models

import (
	"fmt"
	"time"
)

// Quarter defines the fixed list of meeting dates for an attendance period.
type Quarter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Year      int       `gorm:"not null;index" json:"year"`
	Number    int       `gorm:"not null" json:"number"`
	Dates     []string  `gorm:"serializer:json;type:text" json:"dates"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Quarter) TableName() string { return "quarters" }

// AttendanceCriterion is one scored column of the attendance sheet.
type AttendanceCriterion struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Points   int64  `json:"points"`
}

// AttendanceConfig holds a base's criteria weights. Bases without a row fall
// back to DefaultCriteria.
type AttendanceConfig struct {
	BaseID    uint                  `gorm:"primaryKey" json:"base_id"`
	Criteria  []AttendanceCriterion `gorm:"serializer:json;type:text" json:"criteria"`
	UpdatedAt time.Time             `json:"-"`
}

func (AttendanceConfig) TableName() string { return "attendance_configs" }

// DefaultCriteria is the hardcoded fallback weight set.
func DefaultCriteria() []AttendanceCriterion {
	return []AttendanceCriterion{
		{ID: "presence", Label: "Presença", Category: "Presença", Points: 50},
		{ID: "punctuality", Label: "Pontualidade", Category: "Presença", Points: 10},
		{ID: "lesson", Label: "Lição", Category: "Comunhão", Points: 10},
		{ID: "bible", Label: "Bíblia", Category: "Comunhão", Points: 10},
		{ID: "small_group", Label: "PG", Category: "Relacionamento", Points: 20},
		{ID: "mission_project", Label: "Missão", Category: "Missão", Points: 30},
		{ID: "bible_study", Label: "Estudo Bíblico", Category: "Missão", Points: 50},
	}
}

// MemberMarks is one member's row on a saved sheet.
type MemberMarks struct {
	UserID   uint            `json:"user_id"`
	Present  bool            `json:"present"`
	Criteria map[string]bool `json:"criteria,omitempty"`
}

// AttendanceDay is the canonical per-base, per-date attendance record, keyed
// by `${baseID}_${date}`. Locked days reject further saves.
type AttendanceDay struct {
	ID        string        `gorm:"type:varchar(64);primaryKey" json:"id"`
	BaseID    uint          `gorm:"not null;index" json:"base_id"`
	Date      string        `gorm:"type:varchar(10);not null;index" json:"date"`
	QuarterID *uint         `gorm:"index" json:"quarter_id,omitempty"`
	Marks     []MemberMarks `gorm:"serializer:json;type:mediumtext" json:"marks"`
	Locked    bool          `gorm:"not null;default:false" json:"locked"`
	SavedBy   uint          `gorm:"not null" json:"saved_by"`
	CreatedAt time.Time     `json:"-"`
	UpdatedAt time.Time     `json:"-"`
}

func (AttendanceDay) TableName() string { return "attendance_days" }

// AttendanceDayID builds the canonical record key for a (base, date) pair.
func AttendanceDayID(baseID uint, date string) string {
	return fmt.Sprintf("%d_%s", baseID, date)
}
