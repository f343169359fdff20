package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intconfig "intercity/internal/config"
	intdb "intercity/internal/db"
	"intercity/internal/domain/models"
	"intercity/internal/utils"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Insert writes a booking through q and returns its id. A duplicate
// booking_ref surfaces as a MySQL 1062 error.
func (r BookingRepository) Insert(ctx context.Context, q intdb.DBTX, b models.Booking) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO bookings (
			bus_id, booking_ref, passenger_name, passenger_phone, passenger_email,
			seat_number, travel_date, status, total_amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BusID,
		b.BookingRef,
		b.PassengerName,
		b.PassengerPhone,
		intdb.NullIfEmpty(b.PassengerEmail),
		b.SeatNumber,
		b.TravelDate,
		b.Status,
		b.TotalAmount,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const bookingColumns = `
	bk.id, bk.bus_id, bk.booking_ref, bk.passenger_name, bk.passenger_phone,
	COALESCE(bk.passenger_email, ''), bk.seat_number, bk.travel_date, bk.status,
	bk.total_amount, bk.created_at`

func bookingDest(b *models.Booking) []any {
	return []any{
		&b.ID,
		&b.BusID,
		&b.BookingRef,
		&b.PassengerName,
		&b.PassengerPhone,
		&b.PassengerEmail,
		&b.SeatNumber,
		&b.TravelDate,
		&b.Status,
		&b.TotalAmount,
		&b.CreatedAt,
	}
}

// GetByRef loads a booking by its public reference. It returns
// sql.ErrNoRows when nothing matches.
func (r BookingRepository) GetByRef(ctx context.Context, ref string) (models.Booking, error) {
	var b models.Booking
	err := r.db().QueryRowContext(ctx, `SELECT `+bookingColumns+`
		FROM bookings bk
		WHERE bk.booking_ref = ?
		LIMIT 1`, strings.ToUpper(strings.TrimSpace(ref))).Scan(bookingDest(&b)...)
	if err != nil {
		return models.Booking{}, err
	}
	b.TravelDate = utils.DateOnly(b.TravelDate)
	return b, nil
}

// ListByPhone returns a passenger's bookings with trip details, newest first.
// An empty status means every status.
func (r BookingRepository) ListByPhone(ctx context.Context, phone, status string) ([]models.BookingHistoryItem, error) {
	query := `SELECT ` + bookingColumns + `,
		o.name, COALESCE(o.color, ''), rt.from_city, rt.to_city,
		b.departure_time, b.arrival_time, b.type
		FROM bookings bk
		JOIN buses b ON b.id = bk.bus_id
		JOIN operators o ON o.id = b.operator_id
		JOIN routes rt ON rt.id = b.route_id
		WHERE bk.passenger_phone = ?`
	args := []any{phone}
	if status != "" {
		query += ` AND bk.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY bk.created_at DESC, bk.id DESC`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingHistoryItem{}
	for rows.Next() {
		var it models.BookingHistoryItem
		dest := append(bookingDest(&it.Booking),
			&it.Operator,
			&it.OperatorColor,
			&it.From,
			&it.To,
			&it.DepartureTime,
			&it.ArrivalTime,
			&it.BusType,
		)
		if err := rows.Scan(dest...); err != nil {
			return out, err
		}
		it.TravelDate = utils.DateOnly(it.TravelDate)
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListRecentConfirmed returns confirmed bookings created at or after since.
// Names are returned as stored; callers anonymise them.
func (r BookingRepository) ListRecentConfirmed(ctx context.Context, since time.Time, limit int) ([]models.RecentBooking, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT bk.id, bk.booking_ref, bk.passenger_name, bk.seat_number,
		       o.name, rt.from_city, rt.to_city, b.departure_time,
		       bk.travel_date, bk.created_at
		FROM bookings bk
		JOIN buses b ON b.id = bk.bus_id
		JOIN operators o ON o.id = b.operator_id
		JOIN routes rt ON rt.id = b.route_id
		WHERE bk.status = 'confirmed' AND bk.created_at >= ?
		ORDER BY bk.created_at DESC
		LIMIT ?`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RecentBooking{}
	for rows.Next() {
		var (
			rb       models.RecentBooking
			from, to string
		)
		if err := rows.Scan(
			&rb.ID,
			&rb.BookingRef,
			&rb.PassengerName,
			&rb.SeatNumber,
			&rb.Operator,
			&from,
			&to,
			&rb.DepartureTime,
			&rb.TravelDate,
			&rb.CreatedAt,
		); err != nil {
			return out, err
		}
		rb.Route = from + " → " + to
		rb.TravelDate = utils.DateOnly(rb.TravelDate)
		out = append(out, rb)
	}
	return out, rows.Err()
}
