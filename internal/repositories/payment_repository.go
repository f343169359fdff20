package repositories

import (
	"context"
	"database/sql"

	intconfig "intercity/internal/config"
	intdb "intercity/internal/db"
	"intercity/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Insert writes a payment through q and returns its id.
func (r PaymentRepository) Insert(ctx context.Context, q intdb.DBTX, p models.Payment) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO payments (booking_id, amount, payment_method, payment_status, phone_number)
		VALUES (?, ?, ?, ?, ?)`,
		p.BookingID, p.Amount, p.PaymentMethod, p.PaymentStatus, p.PhoneNumber)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]models.Payment, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, booking_id, amount, payment_method, payment_status, phone_number, created_at
		FROM payments
		WHERE booking_id = ?
		ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.PaymentMethod, &p.PaymentStatus, &p.PhoneNumber, &p.CreatedAt); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
