package models

import (
	"errors"
	"fmt"
	"time"
)

// Submission statuses. There is no terminal state: approved submissions can
// be revoked back to pending, rejected ones overwritten by a resubmission.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Proof kinds (tagged union over the heterogeneous proof payload).
const (
	ProofText  = "text"
	ProofLink  = "link"
	ProofCheck = "check"
	ProofFile  = "file"
)

// Proof is the tagged payload attached to a submission. Exactly one of the
// value fields is meaningful, selected by Kind.
type Proof struct {
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	URL    string `json:"url,omitempty"`
	FileID string `json:"file_id,omitempty"`
}

var ErrInvalidProof = errors.New("invalid proof payload")

// Validate checks that the proof carries the value its kind requires and
// nothing else is load-bearing.
func (p Proof) Validate() error {
	switch p.Kind {
	case ProofText:
		if p.Text == "" {
			return fmt.Errorf("%w: text proof requires text", ErrInvalidProof)
		}
	case ProofLink:
		if p.URL == "" {
			return fmt.Errorf("%w: link proof requires url", ErrInvalidProof)
		}
	case ProofFile:
		if p.FileID == "" {
			return fmt.Errorf("%w: file proof requires file_id", ErrInvalidProof)
		}
	case ProofCheck:
		// checkmark proofs carry no payload
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidProof, p.Kind)
	}
	return nil
}

// ProofKindForTask maps a task kind to the proof kind it expects.
func ProofKindForTask(taskKind string) string {
	switch taskKind {
	case TaskKindUpload:
		return ProofFile
	case TaskKindText:
		return ProofText
	case TaskKindLink:
		return ProofLink
	default:
		return ProofCheck
	}
}

// TimelineEvent is one entry in a submission's ordered review log.
type TimelineEvent struct {
	Action    string    `json:"action"`
	ActorID   uint      `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Submission is one member's attempt at one task. The primary key is the
// deterministic composite `${taskID}_${userID}`, so a resubmission always
// overwrites instead of duplicating.
type Submission struct {
	ID          string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	TaskID      uint            `gorm:"not null;index" json:"task_id"`
	TaskTitle   string          `gorm:"size:150;not null" json:"task_title"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	BaseID      *uint           `gorm:"index" json:"base_id,omitempty"`
	DistrictID  *uint           `gorm:"index" json:"district_id,omitempty"`
	Proof       Proof           `gorm:"serializer:json;type:text" json:"proof"`
	XPReward    int64           `gorm:"column:xp_reward;not null" json:"xp_reward"`
	SubmittedAt time.Time       `gorm:"not null" json:"submitted_at"`
	Status      string          `gorm:"type:enum('pending','approved','rejected');not null;default:'pending';index" json:"status"`
	AwardedXP   *int64          `json:"awarded_xp,omitempty"`
	Feedback    *string         `gorm:"type:text" json:"feedback,omitempty"`
	Timeline    []TimelineEvent `gorm:"serializer:json;type:text" json:"timeline,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	ReviewedBy  *uint           `json:"reviewed_by,omitempty"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}

// BaseSubmission is a collective task attempt, owned by a whole base.
// Same composite-key idempotency, keyed by `${taskID}_${baseID}`.
type BaseSubmission struct {
	ID          string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	TaskID      uint            `gorm:"not null;index" json:"task_id"`
	TaskTitle   string          `gorm:"size:150;not null" json:"task_title"`
	BaseID      uint            `gorm:"not null;index" json:"base_id"`
	DistrictID  *uint           `gorm:"index" json:"district_id,omitempty"`
	Proof       Proof           `gorm:"serializer:json;type:text" json:"proof"`
	XPReward    int64           `gorm:"column:xp_reward;not null" json:"xp_reward"`
	SubmittedAt time.Time       `gorm:"not null" json:"submitted_at"`
	Status      string          `gorm:"type:enum('pending','approved','rejected');not null;default:'pending';index" json:"status"`
	AwardedXP   *int64          `json:"awarded_xp,omitempty"`
	Feedback    *string         `gorm:"type:text" json:"feedback,omitempty"`
	Timeline    []TimelineEvent `gorm:"serializer:json;type:text" json:"timeline,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	ReviewedBy  *uint           `json:"reviewed_by,omitempty"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

func (BaseSubmission) TableName() string {
	return "base_submissions"
}

// SubmissionID builds the composite record key for a (task, actor) pair.
// This is the system's idempotency mechanism: the same pair always maps to
// the same row.
func SubmissionID(taskID, actorID uint) string {
	return fmt.Sprintf("%d_%d", taskID, actorID)
}
