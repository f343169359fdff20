package models

import "time"

// Payment is created together with its booking and owned by it.
type Payment struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"bookingId"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	PhoneNumber   string    `json:"phoneNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}
