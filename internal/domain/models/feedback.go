package models

// Feedback is a free-form message left by a passenger.
type Feedback struct {
	ID        int64  `json:"id"`
	BookingID *int64 `json:"bookingId,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	Rating    *int   `json:"rating,omitempty"`
}
