package models

import "time"

// Announcement is a broadcast message sent by a campus user.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	SenderID  *uint     `gorm:"index" json:"sender_id"`
	Sender    *User     `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"sender,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SenderName returns the sender's name, or an empty string when the sender is unknown.
func (a Announcement) SenderName() string {
	if a.Sender == nil {
		return ""
	}
	return a.Sender.Name
}
