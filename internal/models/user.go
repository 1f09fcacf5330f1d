package models

import "time"

// User roles stored on accounts.
const (
	UserRoleStudent  = "student"
	UserRoleLecturer = "lecturer"
	UserRoleAdmin    = "admin"
)

// User represents a campus account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;index;not null" json:"role"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
