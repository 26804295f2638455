package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionRecord stores serialized conversation state for WhatsApp sessions
type SessionRecord struct {
	gorm.Model
	PhoneNumber string `json:"phone_number" gorm:"uniqueIndex"`
	State       string `json:"state"` // JSON-encoded ConversationState
}

// ConversationLog records one completed turn for reporting
type ConversationLog struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Phone     string    `json:"phone" gorm:"index"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"timestamp"`
}
