package model

import "gorm.io/gorm"

// User represents an application account
// @Description User account information
type User struct {
	gorm.Model
	Name         string `json:"name" gorm:"type:varchar(191);not null" example:"John Doe"`
	Email        string `json:"email" gorm:"type:varchar(191);uniqueIndex;not null" example:"john@example.com"`
	Password     string `json:"-" gorm:"type:varchar(512);not null"`
	PasswordSalt string `json:"-" gorm:"type:varchar(128)"`
	RoleID       uint32 `json:"role_id" example:"2"`
	// FailedAttempts counts consecutive failed logins; reset on success.
	FailedAttempts int `json:"-"`
	// LockedUntil is a Unix timestamp; nil when the account is not locked.
	LockedUntil *int64 `json:"-"`
}
