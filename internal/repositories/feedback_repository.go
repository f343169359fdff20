package repositories

import (
	"context"
	"database/sql"

	intconfig "intercity/internal/config"
	intdb "intercity/internal/db"
	"intercity/internal/domain/models"
)

type FeedbackRepository struct {
	DB *sql.DB
}

func (r FeedbackRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r FeedbackRepository) Create(ctx context.Context, f models.Feedback) (int64, error) {
	var bookingID, rating any
	if f.BookingID != nil {
		bookingID = *f.BookingID
	}
	if f.Rating != nil {
		rating = *f.Rating
	}
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO feedback (booking_id, name, email, phone, message, rating)
		VALUES (?, ?, ?, ?, ?, ?)`,
		bookingID,
		intdb.NullIfEmpty(f.Name),
		intdb.NullIfEmpty(f.Email),
		intdb.NullIfEmpty(f.Phone),
		f.Message,
		rating,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
