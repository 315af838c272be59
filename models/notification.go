package models

import "time"

// Push delivery states for the notification outbox. Rows are written in the
// same transaction as the change that triggered them; the notify dispatcher
// owns the pending → sent/failed transition.
const (
	PushPending = "pending"
	PushSent    = "sent"
	PushFailed  = "failed"
	PushSkipped = "skipped"
)

type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  *uint  `gorm:"index" json:"user_id,omitempty"`
	BaseID  *uint  `gorm:"index" json:"base_id,omitempty"`
	Title   string `gorm:"size:150;not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`
	Type    string `gorm:"type:varchar(20);not null;default:'info'" json:"type"`
	Read    bool   `gorm:"not null;default:false" json:"read"`

	// Outbox state. Delivery is best-effort and never rolls back the write
	// that enqueued the row.
	PushStatus    string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"push_status"`
	PushAttempts  int        `gorm:"not null;default:0" json:"-"`
	NextAttemptAt *time.Time `gorm:"index" json:"-"`
	LastError     *string    `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
