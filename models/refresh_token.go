package models

import (
	"time"

	"github.com/google/uuid"
)

type RefreshToken struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// RevokedToken is the database fallback for access-token blacklisting when
// Redis is not configured. Keyed by JTI.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	RevokedAt time.Time `json:"revoked_at"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }

func NewRefreshToken(userID uint, ttlDays int) *RefreshToken {
	return &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(ttlDays) * 24 * time.Hour),
		CreatedAt: time.Now(),
	}
}
