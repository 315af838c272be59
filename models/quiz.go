package models

import "time"

// QuizQuestion is one multiple-choice question. The correct index and the
// per-question points stay server-side; grading happens at submit time, the
// client never reports its own score.
type QuizQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Points        int64    `json:"points"`
	TimeLimit     int      `json:"time_limit,omitempty"`
}

// Quiz is a timed multiple-choice challenge. XPReward is the sum of the
// question points, denormalized for listings.
type Quiz struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:150;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Questions     []QuizQuestion `gorm:"serializer:json;type:mediumtext" json:"questions"`
	XPReward      int64          `gorm:"column:xp_reward;not null;default:0" json:"xp_reward"`
	StartAt       *time.Time     `json:"start_at,omitempty"`
	EndAt         *time.Time     `json:"end_at,omitempty"`
	Scope         string         `gorm:"type:enum('global','union','association','region','district','base');not null;default:'global';index" json:"scope"`
	UnionID       *uint          `gorm:"index" json:"union_id,omitempty"`
	AssociationID *uint          `gorm:"index" json:"association_id,omitempty"`
	RegionID      *uint          `gorm:"index" json:"region_id,omitempty"`
	DistrictID    *uint          `gorm:"index" json:"district_id,omitempty"`
	BaseID        *uint          `gorm:"index" json:"base_id,omitempty"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedBy     uint           `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Quiz) TableName() string { return "quizzes" }

// AvailableAt reports whether the quiz accepts attempts at the given instant.
// Unlike tasks, a closed quiz cannot be answered late.
func (q *Quiz) AvailableAt(now time.Time) bool {
	if !q.Active {
		return false
	}
	if q.StartAt != nil && now.Before(*q.StartAt) {
		return false
	}
	if q.EndAt != nil && now.After(*q.EndAt) {
		return false
	}
	return true
}

// QuizAttempt is one member's single graded attempt, keyed by the same
// deterministic `${quizID}_${userID}` composite used for submissions.
// Answers holds the picked option index per question; -1 marks a question
// that timed out unanswered.
type QuizAttempt struct {
	ID             string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	QuizID         uint      `gorm:"not null;index" json:"quiz_id"`
	QuizTitle      string    `gorm:"size:150;not null" json:"quiz_title"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	BaseID         *uint     `gorm:"index" json:"base_id,omitempty"`
	Answers        []int     `gorm:"serializer:json;type:text" json:"answers"`
	Score          int64     `gorm:"not null" json:"score"`
	CorrectCount   int       `gorm:"not null" json:"correct_count"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	SubmittedAt    time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt      time.Time `json:"-"`
}

func (QuizAttempt) TableName() string { return "quiz_attempts" }
