package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"intercity/internal/domain"
	"intercity/internal/domain/models"
	"intercity/internal/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

var busCols = []string{
	"id", "operator_id", "route_id", "departure_time", "arrival_time", "price", "type",
	"total_seats", "available_seats", "is_active",
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingCreated
	err    error
}

func (p *recordingPublisher) PublishBookingCreated(_ context.Context, ev events.BookingCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func janeRequest() models.BookingRequest {
	return models.BookingRequest{
		BusID:          1,
		PassengerName:  "Jane Mwale",
		PassengerPhone: "+260971234567",
		SeatNumber:     "A12",
		TravelDate:     "2024-06-01",
		PaymentMethod:  "airtel",
		TotalAmount:    350,
	}
}

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, *recordingPublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	pub := &recordingPublisher{}
	return BookingService{DB: db, Events: pub, RequestID: "test"}, mock, pub
}

func expectLockedBus(mock sqlmock.Sqlmock, id int64, available int) {
	mock.ExpectQuery(`FROM buses\s+WHERE id = \?\s+FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(busCols).
			AddRow(id, 1, 1, "06:00", "13:00", "350.00", "luxury", 45, available, true))
}

func TestCreateBookingEndToEnd(t *testing.T) {
	svc, mock, pub := newBookingService(t)

	mock.ExpectBegin()
	expectLockedBus(mock, 1, 45)
	mock.ExpectExec(`UPDATE buses\s+SET available_seats = available_seats - 1\s+WHERE id = \? AND available_seats > 0`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(int64(1), sqlmock.AnyArg(), "Jane Mwale", "+260971234567", nil, "A12", "2024-06-01", "pending", 350.0).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(int64(10), 350.0, "airtel_money", "pending", "+260971234567").
		WillReturnResult(sqlmock.NewResult(20, 1))
	mock.ExpectCommit()

	receipt, err := svc.Create(context.Background(), janeRequest())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if !regexp.MustCompile(`^ZM[A-Z0-9]+$`).MatchString(receipt.BookingRef) {
		t.Fatalf("unexpected booking ref %q", receipt.BookingRef)
	}
	if receipt.BookingID != 10 || receipt.PaymentID != 20 {
		t.Fatalf("unexpected ids: %+v", receipt)
	}
	if receipt.PaymentMethod != domain.PaymentAirtelMoney || receipt.PaymentStatus != domain.PaymentPending {
		t.Fatalf("unexpected payment: %+v", receipt)
	}
	if receipt.BookingStatus != domain.BookingPending {
		t.Fatalf("booking should start pending, got %s", receipt.BookingStatus)
	}
	if len(receipt.Instructions) != 5 || receipt.Instructions[0] != "Dial *778#" || receipt.Instructions[3] != "Enter Amount: K350.00" {
		t.Fatalf("unexpected instructions: %v", receipt.Instructions)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].BookingRef != receipt.BookingRef {
		t.Fatalf("expected one booking.created event, got %+v", pub.events)
	}
}

func TestCreateBookingMissingPhoneTouchesNothing(t *testing.T) {
	svc, mock, pub := newBookingService(t)

	req := janeRequest()
	req.PassengerPhone = "   "
	_, err := svc.Create(context.Background(), req)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db activity: %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event should be published")
	}
}

func TestCreateBookingValidation(t *testing.T) {
	cases := map[string]func(*models.BookingRequest){
		"bus":     func(r *models.BookingRequest) { r.BusID = 0 },
		"name":    func(r *models.BookingRequest) { r.PassengerName = "" },
		"seat":    func(r *models.BookingRequest) { r.SeatNumber = "" },
		"date":    func(r *models.BookingRequest) { r.TravelDate = "01/06/2024" },
		"method":  func(r *models.BookingRequest) { r.PaymentMethod = "" },
		"amount":  func(r *models.BookingRequest) { r.TotalAmount = 0 },
		"email":   func(r *models.BookingRequest) { r.PassengerEmail = "jane.example.com" },
		"nodate":  func(r *models.BookingRequest) { r.TravelDate = "" },
		"neg amt": func(r *models.BookingRequest) { r.TotalAmount = -5 },
	}
	for name, mutate := range cases {
		req := janeRequest()
		mutate(&req)
		if _, err := validateBookingRequest(req); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestCreateBookingNoSeatsLeft(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	expectLockedBus(mock, 1, 0)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), janeRequest())
	if !domain.IsCapacity(err) || domain.IsRaceLoss(err) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// The bookings run one after the other; the second decrement is scripted to
// touch no rows, the outcome a real interleaving produces when both read one
// seat left. This checks the race-loss mapping and that only the winner
// commits and publishes; MySQL's row lock provides the serialisation itself.
func TestCreateBookingDecrementTouchingNoRowsIsRaceLoss(t *testing.T) {
	svc, mock, pub := newBookingService(t)

	mock.ExpectBegin()
	expectLockedBus(mock, 1, 1)
	mock.ExpectExec(`UPDATE buses`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(`INSERT INTO payments`).WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	expectLockedBus(mock, 1, 1)
	mock.ExpectExec(`UPDATE buses`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	first, err := svc.Create(context.Background(), janeRequest())
	if err != nil {
		t.Fatalf("first booking should win, got %v", err)
	}
	second := janeRequest()
	second.PassengerName = "John Banda"
	second.SeatNumber = "A13"
	_, err = svc.Create(context.Background(), second)
	if !domain.IsRaceLoss(err) || !domain.IsCapacity(err) {
		t.Fatalf("second booking should lose the race, got %v", err)
	}
	if first.BookingID != 11 {
		t.Fatalf("unexpected winner id %d", first.BookingID)
	}
	if len(pub.events) != 1 {
		t.Fatalf("only the winner publishes, got %d events", len(pub.events))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingBusNotFound(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), janeRequest())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateBookingInactiveBusNotFound(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(busCols).AddRow(1, 1, 1, "06:00", "13:00", "350.00", "luxury", 45, 45, false))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), janeRequest())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for inactive bus, got %v", err)
	}
}

func TestCreateBookingRetriesDuplicateRef(t *testing.T) {
	svc, mock, _ := newBookingService(t)
	refs := []string{"ZMDUP00001", "ZMFRESH0002"}
	svc.NewRef = func(time.Time) string {
		r := refs[0]
		refs = refs[1:]
		return r
	}
	svc.Events = nil

	mock.ExpectBegin()
	expectLockedBus(mock, 1, 10)
	mock.ExpectExec(`UPDATE buses`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(int64(1), "ZMDUP00001", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry for key 'uniq_booking_ref'"})
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(int64(1), "ZMFRESH0002", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(int64(12), 350.0, "airtel_money", "pending", "+260971234567").
		WillReturnResult(sqlmock.NewResult(22, 1))
	mock.ExpectCommit()

	receipt, err := svc.Create(context.Background(), janeRequest())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if receipt.BookingRef != "ZMFRESH0002" {
		t.Fatalf("expected regenerated ref, got %s", receipt.BookingRef)
	}
}

func TestCreateBookingGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, mock, _ := newBookingService(t)
	svc.NewRef = func(time.Time) string { return "ZMSAME" }

	mock.ExpectBegin()
	expectLockedBus(mock, 1, 10)
	mock.ExpectExec(`UPDATE buses`).WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 0; i < maxRefAttempts; i++ {
		mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(&mysql.MySQLError{Number: 1062})
	}
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), janeRequest())
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingPaymentFailureRollsBack(t *testing.T) {
	svc, mock, pub := newBookingService(t)

	mock.ExpectBegin()
	expectLockedBus(mock, 1, 10)
	mock.ExpectExec(`UPDATE buses`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectExec(`INSERT INTO payments`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), janeRequest())
	if !domain.IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("rolled back booking must not publish")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingBeginFailureIsUnavailable(t *testing.T) {
	svc, mock, _ := newBookingService(t)
	mock.ExpectBegin().WillReturnError(errors.New("dial tcp: refused"))

	_, err := svc.Create(context.Background(), janeRequest())
	if !domain.IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestCreateBookingPublishFailureDoesNotFailBooking(t *testing.T) {
	svc, mock, pub := newBookingService(t)
	pub.err = errors.New("redis down")

	mock.ExpectBegin()
	expectLockedBus(mock, 1, 10)
	mock.ExpectExec(`UPDATE buses`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(14, 1))
	mock.ExpectExec(`INSERT INTO payments`).WillReturnResult(sqlmock.NewResult(24, 1))
	mock.ExpectCommit()

	if _, err := svc.Create(context.Background(), janeRequest()); err != nil {
		t.Fatalf("publish failure should be ignored, got %v", err)
	}
}

func TestPaymentInstructionsMTN(t *testing.T) {
	req := janeRequest()
	req.PaymentMethod = "mtn"
	got := PaymentInstructions(paymentProvider(req.PaymentMethod), 1200, 7)
	want := []string{"Dial *303#", "Select Next > Pay Bill", "Enter Merchant ID: 202020", "Enter Amount: K1200.00", "Reference: Ticket-7"}
	if len(got) != len(want) {
		t.Fatalf("unexpected instructions %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestBookingDetail(t *testing.T) {
	svc, mock, _ := newBookingService(t)
	created := time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE bk\.booking_ref = \?`).WithArgs("ZMABC").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "bus_id", "booking_ref", "passenger_name", "passenger_phone", "passenger_email",
			"seat_number", "travel_date", "status", "total_amount", "created_at",
		}).AddRow(10, 1, "ZMABC", "Jane Mwale", "+260971234567", "", "A12", "2024-06-01", "pending", 350.0, created))
	mock.ExpectQuery(`WHERE b\.id = \?`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "color", "rating", "from_city", "to_city", "departure_time",
			"arrival_time", "price", "type", "total_seats", "available_seats", "features",
		}).AddRow(1, "Mazhandu Family", "bg-blue-600", 4.5, "Lusaka", "Livingstone", "06:00", "13:00", 350.0, "luxury", 45, 44, `["WiFi"]`))
	mock.ExpectQuery(`FROM payments`).WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "amount", "payment_method", "payment_status", "phone_number", "created_at"}).
			AddRow(20, 10, 350.0, "airtel_money", "pending", "+260971234567", created))

	d, err := svc.Detail(context.Background(), "zmabc")
	if err != nil {
		t.Fatalf("detail error: %v", err)
	}
	if d.Bus.To != "Livingstone" || len(d.Payments) != 1 || d.Payments[0].PaymentMethod != "airtel_money" {
		t.Fatalf("unexpected detail: %+v", d)
	}
}

func TestBookingDetailNotFound(t *testing.T) {
	svc, mock, _ := newBookingService(t)
	mock.ExpectQuery(`WHERE bk\.booking_ref = \?`).WithArgs("ZMNONE").WillReturnError(sql.ErrNoRows)

	if _, err := svc.Detail(context.Background(), "ZMNONE"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
