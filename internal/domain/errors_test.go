package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	base := errors.New("driver: bad connection")

	if !IsNotFound(fmt.Errorf("load: %w", NotFoundError{Resource: "booking"})) {
		t.Fatalf("wrapped not found not detected")
	}
	if !IsValidation(ValidationError{Field: "phone", Msg: "required"}) {
		t.Fatalf("validation not detected")
	}
	if !IsConflict(ConflictError{Resource: "booking"}) {
		t.Fatalf("conflict not detected")
	}
	if !IsCapacity(CapacityError{BusID: 1}) || !IsCapacity(RaceLossError{BusID: 1}) {
		t.Fatalf("capacity should cover both seat errors")
	}
	if IsRaceLoss(CapacityError{BusID: 1}) {
		t.Fatalf("capacity error is not a race loss")
	}
	unavailable := UnavailableError{Dependency: "database", Err: base}
	if !IsUnavailable(unavailable) || !errors.Is(unavailable, base) {
		t.Fatalf("unavailable should classify and unwrap")
	}
	if IsNotFound(InternalError{Err: base}) {
		t.Fatalf("internal error misclassified")
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NotFoundError{}, "not found"},
		{NotFoundError{Resource: "bus"}, "bus not found"},
		{ValidationError{Field: "phone", Msg: "required"}, "phone: required"},
		{ValidationError{Field: "seat"}, "invalid seat"},
		{ValidationError{}, "validation error"},
		{ConflictError{Resource: "booking", Msg: "duplicate"}, "booking conflict: duplicate"},
		{ConflictError{}, "conflict"},
		{CapacityError{BusID: 7}, "no available seats on bus 7"},
		{UnavailableError{Dependency: "database"}, "database unavailable"},
		{InternalError{}, "internal error"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Fatalf("Error() = %q, want %q", got, c.want)
		}
	}
}

func TestResult(t *testing.T) {
	ok := OK([]string{"Ndola"})
	if ok.IsDegraded() || ok.Status != StatusOK {
		t.Fatalf("OK result reported degraded")
	}
	d := Degraded([]string{"Ndola"}, "embedding_unavailable")
	if !d.IsDegraded() || d.Reason != "embedding_unavailable" || len(d.Data) != 1 {
		t.Fatalf("unexpected degraded result %+v", d)
	}
	u := Unavailable[[]string]("database_unavailable")
	if u.Status != StatusUnavailable || u.Data != nil {
		t.Fatalf("unexpected unavailable result %+v", u)
	}
	if !ValidBookingStatus(BookingConfirmed) || ValidBookingStatus("refunded") {
		t.Fatalf("ValidBookingStatus mismatch")
	}
}
