package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "intercity/internal/config"
	intdb "intercity/internal/db"
	"intercity/internal/domain"
	"intercity/internal/domain/models"
	"intercity/internal/events"
	"intercity/internal/repositories"
	"intercity/internal/utils"
)

const (
	maxRefAttempts = 3
	publishTimeout = 2 * time.Second
)

type BookingService struct {
	DB          *sql.DB
	BusRepo     repositories.BusRepository
	BookingRepo repositories.BookingRepository
	PaymentRepo repositories.PaymentRepository
	Events      events.Publisher
	RequestID   string

	Now    func() time.Time
	NewRef func(time.Time) string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) buses() repositories.BusRepository {
	if s.BusRepo.DB != nil {
		return s.BusRepo
	}
	return repositories.BusRepository{DB: s.db()}
}

func (s BookingService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s BookingService) payments() repositories.PaymentRepository {
	if s.PaymentRepo.DB != nil {
		return s.PaymentRepo
	}
	return repositories.PaymentRepository{DB: s.db()}
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) newRef(t time.Time) string {
	if s.NewRef != nil {
		return s.NewRef(t)
	}
	return utils.NewBookingRef(t)
}

// Create books one seat. The seat decrement, booking row and payment row are
// written in a single transaction with the bus row locked, so either all of
// them persist or none do.
func (s BookingService) Create(ctx context.Context, req models.BookingRequest) (models.BookingReceipt, error) {
	in, err := validateBookingRequest(req)
	if err != nil {
		return models.BookingReceipt{}, err
	}
	method := paymentProvider(in.PaymentMethod)

	db := s.db()
	if db == nil {
		return models.BookingReceipt{}, domain.UnavailableError{Dependency: "database"}
	}
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("bus_id=%d phone=%s", in.BusID, utils.MaskPhone(in.PassengerPhone)))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return models.BookingReceipt{}, dbFailure(err)
	}
	defer func() { _ = tx.Rollback() }()

	bus, err := s.buses().LockForBooking(ctx, tx, in.BusID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BookingReceipt{}, domain.NotFoundError{Resource: "bus", Err: err}
	}
	if err != nil {
		return models.BookingReceipt{}, dbFailure(err)
	}
	if !bus.IsActive {
		return models.BookingReceipt{}, domain.NotFoundError{Resource: "bus"}
	}
	if bus.AvailableSeats <= 0 {
		utils.LogEvent(s.RequestID, "booking", "capacity", fmt.Sprintf("bus_id=%d", in.BusID))
		return models.BookingReceipt{}, domain.CapacityError{BusID: in.BusID}
	}

	taken, err := s.buses().TakeSeat(ctx, tx, in.BusID)
	if err != nil {
		return models.BookingReceipt{}, dbFailure(err)
	}
	if !taken {
		utils.LogEvent(s.RequestID, "booking", "race_lost", fmt.Sprintf("bus_id=%d", in.BusID))
		return models.BookingReceipt{}, domain.RaceLossError{BusID: in.BusID}
	}

	booking := models.Booking{
		BusID:          in.BusID,
		PassengerName:  in.PassengerName,
		PassengerPhone: in.PassengerPhone,
		PassengerEmail: in.PassengerEmail,
		SeatNumber:     in.SeatNumber,
		TravelDate:     in.TravelDate,
		Status:         domain.BookingPending,
		TotalAmount:    in.TotalAmount,
	}
	booking.ID, booking.BookingRef, err = s.insertWithFreshRef(ctx, tx, booking)
	if err != nil {
		return models.BookingReceipt{}, err
	}

	payment := models.Payment{
		BookingID:     booking.ID,
		Amount:        in.TotalAmount,
		PaymentMethod: method,
		PaymentStatus: domain.PaymentPending,
		PhoneNumber:   in.PassengerPhone,
	}
	payment.ID, err = s.payments().Insert(ctx, tx, payment)
	if err != nil {
		return models.BookingReceipt{}, dbFailure(err)
	}

	if err := tx.Commit(); err != nil {
		return models.BookingReceipt{}, dbFailure(err)
	}
	utils.LogEvent(s.RequestID, "booking", "created", fmt.Sprintf("booking_id=%d ref=%s payment_id=%d", booking.ID, booking.BookingRef, payment.ID))

	s.publishCreated(ctx, booking, method)

	return models.BookingReceipt{
		BookingID:     booking.ID,
		BookingRef:    booking.BookingRef,
		BookingStatus: booking.Status,
		PaymentID:     payment.ID,
		PaymentStatus: payment.PaymentStatus,
		PaymentMethod: method,
		Instructions:  PaymentInstructions(method, in.TotalAmount, in.BusID),
	}, nil
}

// insertWithFreshRef inserts the booking, drawing a new reference whenever
// the unique key on booking_ref rejects one.
func (s BookingService) insertWithFreshRef(ctx context.Context, tx *sql.Tx, b models.Booking) (int64, string, error) {
	var lastErr error
	for attempt := 0; attempt < maxRefAttempts; attempt++ {
		b.BookingRef = s.newRef(s.now())
		id, err := s.bookings().Insert(ctx, tx, b)
		if err == nil {
			return id, b.BookingRef, nil
		}
		if !intdb.IsDuplicateKey(err) {
			return 0, "", dbFailure(err)
		}
		lastErr = err
		utils.LogEvent(s.RequestID, "booking", "ref_collision", "attempt="+fmt.Sprint(attempt+1))
	}
	return 0, "", domain.ConflictError{Resource: "booking", Msg: "could not allocate a unique reference", Err: lastErr}
}

func (s BookingService) publishCreated(ctx context.Context, b models.Booking, method string) {
	if s.Events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	err := s.Events.PublishBookingCreated(pctx, events.BookingCreated{
		BookingID:     b.ID,
		BookingRef:    b.BookingRef,
		BusID:         b.BusID,
		SeatNumber:    b.SeatNumber,
		TravelDate:    b.TravelDate,
		PaymentMethod: method,
		Amount:        b.TotalAmount,
		CreatedAt:     s.now(),
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "publish_error", err.Error())
	}
}

// Detail returns a booking with its bus and payments.
func (s BookingService) Detail(ctx context.Context, ref string) (models.BookingDetail, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.BookingDetail{}, domain.ValidationError{Field: "ref", Msg: "booking reference is required"}
	}
	b, err := s.bookings().GetByRef(ctx, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BookingDetail{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.BookingDetail{}, dbFailure(err)
	}
	bus, err := s.buses().GetListing(ctx, b.BusID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.BookingDetail{}, dbFailure(err)
	}
	pays, err := s.payments().ListByBooking(ctx, b.ID)
	if err != nil {
		return models.BookingDetail{}, dbFailure(err)
	}
	return models.BookingDetail{Booking: b, Bus: bus, Payments: pays}, nil
}

func validateBookingRequest(req models.BookingRequest) (models.BookingRequest, error) {
	req.PassengerName = utils.NormalizeSpace(req.PassengerName)
	req.PassengerPhone = utils.NormalizePhone(req.PassengerPhone)
	req.PassengerEmail = strings.TrimSpace(req.PassengerEmail)
	req.SeatNumber = strings.ToUpper(strings.TrimSpace(req.SeatNumber))
	req.TravelDate = strings.TrimSpace(req.TravelDate)
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))

	switch {
	case req.BusID <= 0:
		return req, domain.ValidationError{Field: "busId", Msg: "is required"}
	case req.PassengerName == "":
		return req, domain.ValidationError{Field: "passengerName", Msg: "is required"}
	case req.PassengerPhone == "":
		return req, domain.ValidationError{Field: "passengerPhone", Msg: "is required"}
	case req.SeatNumber == "":
		return req, domain.ValidationError{Field: "seatNumber", Msg: "is required"}
	case req.TravelDate == "":
		return req, domain.ValidationError{Field: "travelDate", Msg: "is required"}
	case req.PaymentMethod == "":
		return req, domain.ValidationError{Field: "paymentMethod", Msg: "is required"}
	case req.TotalAmount <= 0:
		return req, domain.ValidationError{Field: "totalAmount", Msg: "must be greater than zero"}
	}
	if _, err := utils.ParseDate(req.TravelDate); err != nil {
		return req, domain.ValidationError{Field: "travelDate", Msg: "must be YYYY-MM-DD", Err: err}
	}
	if req.PassengerEmail != "" && !strings.Contains(req.PassengerEmail, "@") {
		return req, domain.ValidationError{Field: "passengerEmail", Msg: "is not a valid email"}
	}
	return req, nil
}

// paymentProvider maps the short selector sent by clients onto a provider id.
func paymentProvider(selector string) string {
	switch selector {
	case "airtel", domain.PaymentAirtelMoney:
		return domain.PaymentAirtelMoney
	default:
		return domain.PaymentMTNMomo
	}
}

// PaymentInstructions returns the USSD steps shown after booking.
func PaymentInstructions(method string, amount float64, busID int64) []string {
	amt := "Enter Amount: K" + utils.FormatMoney(amount)
	if method == domain.PaymentAirtelMoney {
		return []string{
			"Dial *778#",
			"Select Make Payment > Pay Bill",
			"Enter Merchant Code: INTERCITY",
			amt,
			"Reference: [Your Phone Number]",
		}
	}
	return []string{
		"Dial *303#",
		"Select Next > Pay Bill",
		"Enter Merchant ID: 202020",
		amt,
		fmt.Sprintf("Reference: Ticket-%d", busID),
	}
}

// dbFailure classifies a database error: the server rejecting a statement is
// internal, anything else means the database could not be reached.
func dbFailure(err error) error {
	if err == nil {
		return nil
	}
	if intdb.IsServerError(err) {
		return domain.InternalError{Msg: "database error", Err: err}
	}
	return domain.UnavailableError{Dependency: "database", Err: err}
}
