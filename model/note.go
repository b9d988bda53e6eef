package model

import "gorm.io/gorm"

// Note represents a personal note owned by a single user
// @Description Personal note information
type Note struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"index;not null"`
	Title   string `json:"title" gorm:"type:varchar(120);not null" example:"Groceries"`
	Content string `json:"content" gorm:"type:text" example:"Milk, eggs, bread"`
	IsDone  bool   `json:"is_done" example:"false"`

	User User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
