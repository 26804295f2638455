package models

import "time"

// Booking represents a confirmed table reservation
type Booking struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	Reference string `json:"reference" gorm:"uniqueIndex"` // e.g. "BV007"
	Phone     string `json:"phone" gorm:"index"`
	Name      string `json:"name"`
	PartySize int    `json:"party_size"`
	Date      string `json:"date"`
	Time      string `json:"time"`

	Status string `json:"status"` // "confirmed"

	CreatedAt time.Time `json:"created_at"`
}

// BookingStatus constants
const (
	BookingStatusConfirmed = "confirmed"
)

// BookingRequest carries the validated draft handed to the store when a
// booking cycle completes.
type BookingRequest struct {
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	PartySize int    `json:"party_size"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}
