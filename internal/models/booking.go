// internal/models/booking.go
package models

import "time"

// Booking is a confirmed repair request. Resolution output is embedded at
// creation time for the confirmation message; it is not re-resolved later.
type Booking struct {
	ID            string    `json:"id"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	DeviceType    string    `json:"deviceType"`
	Issue         string    `json:"issue,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Booking statuses.
const (
	BookingStatusConfirmed = "confirmed"
)
