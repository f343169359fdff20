package domain

// Status represents the outcome of a layer that may fall back.
type Status string

const (
	StatusOK          Status = "ok"
	StatusDegraded    Status = "degraded"
	StatusUnavailable Status = "unavailable"
)

// Result carries data together with how it was produced. A degraded result
// still holds usable data; Reason says which fallback was taken.
type Result[T any] struct {
	Data   T
	Status Status
	Reason string
}

func OK[T any](data T) Result[T] {
	return Result[T]{Data: data, Status: StatusOK}
}

func Degraded[T any](data T, reason string) Result[T] {
	return Result[T]{Data: data, Status: StatusDegraded, Reason: reason}
}

func Unavailable[T any](reason string) Result[T] {
	return Result[T]{Status: StatusUnavailable, Reason: reason}
}

// IsDegraded is true for anything other than a clean result.
func (r Result[T]) IsDegraded() bool {
	return r.Status != StatusOK
}

// Booking lifecycle states.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Payment providers and states.
const (
	PaymentAirtelMoney = "airtel_money"
	PaymentMTNMomo     = "mtn_momo"
	PaymentPending     = "pending"
)

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Match types carried on every suggestion.
const (
	MatchExact    = "exact"
	MatchSemantic = "semantic"
)
