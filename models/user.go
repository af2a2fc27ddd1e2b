package models

import (
	"time"
)

// AdminUserID is the primary key of the sole administrator. There is no role
// column; the first registered account owns the blog by convention.
const AdminUserID uint = 1

// User represents a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:1000;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether this user may author, edit, and delete posts.
func (u *User) IsAdmin() bool {
	return u != nil && u.ID == AdminUserID
}
