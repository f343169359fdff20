package models

import "time"

// Booking is a single passenger's reservation on one bus.
type Booking struct {
	ID             int64     `json:"id"`
	BusID          int64     `json:"busId"`
	BookingRef     string    `json:"bookingRef"`
	PassengerName  string    `json:"passengerName"`
	PassengerPhone string    `json:"passengerPhone"`
	PassengerEmail string    `json:"passengerEmail,omitempty"`
	SeatNumber     string    `json:"seatNumber"`
	TravelDate     string    `json:"travelDate"`
	Status         string    `json:"status"`
	TotalAmount    float64   `json:"totalAmount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BookingRequest is the input of the booking transaction.
type BookingRequest struct {
	BusID          int64   `json:"busId"`
	PassengerName  string  `json:"passengerName"`
	PassengerPhone string  `json:"passengerPhone"`
	PassengerEmail string  `json:"passengerEmail"`
	SeatNumber     string  `json:"seatNumber"`
	TravelDate     string  `json:"travelDate"`
	PaymentMethod  string  `json:"paymentMethod"`
	TotalAmount    float64 `json:"totalAmount"`
}

// BookingReceipt is what a successful booking transaction returns.
type BookingReceipt struct {
	BookingID     int64    `json:"bookingId"`
	BookingRef    string   `json:"bookingRef"`
	BookingStatus string   `json:"bookingStatus"`
	PaymentID     int64    `json:"paymentId"`
	PaymentStatus string   `json:"paymentStatus"`
	PaymentMethod string   `json:"paymentMethod"`
	Instructions  []string `json:"instructions"`
}

// BookingDetail is a booking joined with its trip and payments.
type BookingDetail struct {
	Booking
	Bus      BusListing `json:"bus"`
	Payments []Payment  `json:"payments"`
}

// BookingHistoryItem is one row of a passenger's booking history.
type BookingHistoryItem struct {
	Booking
	Operator      string `json:"operator"`
	OperatorColor string `json:"operatorColor"`
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	BusType       string `json:"busType"`
}

// BookingSummary aggregates a passenger's history.
type BookingSummary struct {
	TotalBookings     int `json:"totalBookings"`
	ConfirmedBookings int `json:"confirmedBookings"`
	UpcomingBookings  int `json:"upcomingBookings"`
	CompletedBookings int `json:"completedBookings"`
}

// RecentBooking is an anonymised entry for the live bookings feed.
type RecentBooking struct {
	ID            int64     `json:"id"`
	BookingRef    string    `json:"bookingRef"`
	PassengerName string    `json:"passengerName"`
	SeatNumber    string    `json:"seatNumber"`
	Operator      string    `json:"operator"`
	Route         string    `json:"route"`
	DepartureTime string    `json:"departureTime"`
	TravelDate    string    `json:"travelDate"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UserBookings is a passenger's history with its summary.
type UserBookings struct {
	Bookings []BookingHistoryItem `json:"bookings"`
	Summary  BookingSummary       `json:"summary"`
}
