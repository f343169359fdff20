package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	intconfig "intercity/internal/config"
	intdb "intercity/internal/db"
	"intercity/internal/domain/models"
)

type BusRepository struct {
	DB *sql.DB
}

func (r BusRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const busListingSelect = `
	SELECT b.id,
	       o.name,
	       COALESCE(o.color, ''),
	       COALESCE(o.rating, 0),
	       r.from_city,
	       r.to_city,
	       b.departure_time,
	       b.arrival_time,
	       b.price,
	       b.type,
	       b.total_seats,
	       b.available_seats,
	       b.features
	FROM buses b
	JOIN operators o ON o.id = b.operator_id
	JOIN routes r ON r.id = b.route_id`

// List returns active buses of active operators, optionally narrowed by
// destination substring and bus type.
func (r BusRepository) List(ctx context.Context, f models.BusFilter) ([]models.BusListing, error) {
	where := []string{"b.is_active = 1", "o.is_active = 1"}
	args := []any{}
	if dest := strings.TrimSpace(f.Destination); dest != "" {
		where = append(where, "r.to_city LIKE ?")
		args = append(args, "%"+dest+"%")
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		where = append(where, "b.type = ?")
		args = append(args, t)
	}

	query := busListingSelect + `
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY b.departure_time ASC, b.id ASC`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BusListing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetListing returns one bus with its operator and route.
func (r BusRepository) GetListing(ctx context.Context, id int64) (models.BusListing, error) {
	row := r.db().QueryRowContext(ctx, busListingSelect+` WHERE b.id = ? LIMIT 1`, id)
	return scanListing(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(s scanner) (models.BusListing, error) {
	var (
		l        models.BusListing
		features sql.NullString
	)
	if err := s.Scan(
		&l.ID,
		&l.Operator,
		&l.Color,
		&l.Rating,
		&l.From,
		&l.To,
		&l.DepartureTime,
		&l.ArrivalTime,
		&l.Price,
		&l.Type,
		&l.Seats,
		&l.AvailableSeats,
		&features,
	); err != nil {
		return models.BusListing{}, err
	}
	l.Features = parseFeatures(features)
	if l.Color == "" {
		l.Color = "bg-blue-600"
	}
	return l, nil
}

func parseFeatures(raw sql.NullString) []string {
	out := []string{}
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return []string{}
	}
	return out
}

// LockForBooking reads the bus row and holds a write lock on it until q's
// transaction ends.
func (r BusRepository) LockForBooking(ctx context.Context, q intdb.DBTX, id int64) (models.Bus, error) {
	var b models.Bus
	err := q.QueryRowContext(ctx, `
		SELECT id, operator_id, route_id, departure_time, arrival_time, price, type,
		       total_seats, available_seats, is_active
		FROM buses
		WHERE id = ?
		FOR UPDATE`, id).Scan(
		&b.ID,
		&b.OperatorID,
		&b.RouteID,
		&b.DepartureTime,
		&b.ArrivalTime,
		&b.Price,
		&b.Type,
		&b.TotalSeats,
		&b.AvailableSeats,
		&b.IsActive,
	)
	return b, err
}

// TakeSeat decrements available_seats only while it is positive. It reports
// false when no row changed, meaning the last seat is gone.
func (r BusRepository) TakeSeat(ctx context.Context, q intdb.DBTX, id int64) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE buses
		SET available_seats = available_seats - 1
		WHERE id = ? AND available_seats > 0`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
