package models

import "time"

// User represents an authenticated user in the system.
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Email     string `gorm:"uniqueIndex;size:255;not null"`
	Name      string `gorm:"size:255"`
	Password  string `gorm:"size:255;not null"` // bcrypt hash, never rendered
}
