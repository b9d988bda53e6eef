package model

import (
	"time"

	"gorm.io/gorm"
)

// Session represents an active login session backed by a session token.
type Session struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	SessionToken string    `json:"session_token" gorm:"type:varchar(512);index;not null"`
	ExpiresAt    time.Time `json:"expires_at"`
	ClientIP     string    `json:"client_ip" gorm:"type:varchar(45)"`
	Browser      string    `json:"browser" gorm:"type:varchar(512)"`
}
