package model

import (
	"fmt"

	"gorm.io/gorm"
)

type Role struct {
	gorm.Model
	ID   uint32 `gorm:"primary_key;auto_increment" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

// Role names seeded at startup.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// SeedRoles inserts the built-in roles, skipping ones already present so it
// is safe to run on every startup.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{RoleAdmin, RoleUser} {
		var existing Role
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&Role{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}
	return nil
}
