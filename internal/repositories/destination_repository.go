package repositories

import (
	"context"
	"database/sql"
	"time"

	intconfig "intercity/internal/config"
	"intercity/internal/domain/models"
)

type DestinationRepository struct {
	DB *sql.DB
}

func (r DestinationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListCandidates aggregates every active route into a ranking candidate:
// all-time searches for its destination and the cheapest active fare.
func (r DestinationRepository) ListCandidates(ctx context.Context) ([]models.DestinationCandidate, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT rt.to_city,
		       rt.from_city,
		       COALESCE(s.cnt, 0) AS search_count,
		       MIN(b.price) AS cheapest_price
		FROM routes rt
		LEFT JOIN (
			SELECT destination, COUNT(*) AS cnt
			FROM search_logs
			GROUP BY destination
		) s ON s.destination = rt.to_city
		LEFT JOIN buses b ON b.route_id = rt.id AND b.is_active = 1
		WHERE rt.is_active = 1
		GROUP BY rt.id, rt.to_city, rt.from_city, s.cnt
		ORDER BY search_count DESC, rt.to_city ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DestinationCandidate{}
	for rows.Next() {
		var (
			c     models.DestinationCandidate
			price sql.NullFloat64
		)
		if err := rows.Scan(&c.Destination, &c.Origin, &c.SearchCount, &price); err != nil {
			return out, err
		}
		c.CheapestPrice = nullablePrice(price)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Trending ranks routes by searches made since the given time.
func (r DestinationRepository) Trending(ctx context.Context, since time.Time, limit int) ([]models.TrendingRoute, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT rt.from_city,
		       rt.to_city,
		       COALESCE(s.cnt, 0) AS search_count,
		       MIN(b.price) AS cheapest_price,
		       COUNT(DISTINCT b.operator_id) AS operator_count
		FROM routes rt
		LEFT JOIN (
			SELECT destination, COUNT(*) AS cnt
			FROM search_logs
			WHERE created_at >= ?
			GROUP BY destination
		) s ON s.destination = rt.to_city
		LEFT JOIN buses b ON b.route_id = rt.id AND b.is_active = 1
		WHERE rt.is_active = 1
		GROUP BY rt.id, rt.from_city, rt.to_city, s.cnt
		ORDER BY search_count DESC, rt.to_city ASC
		LIMIT ?`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TrendingRoute{}
	for rows.Next() {
		var (
			t     models.TrendingRoute
			price sql.NullFloat64
		)
		if err := rows.Scan(&t.From, &t.To, &t.SearchCount, &price, &t.OperatorCount); err != nil {
			return out, err
		}
		t.CheapestPrice = nullablePrice(price)
		t.Route = t.From + " → " + t.To
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullablePrice(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	p := v.Float64
	return &p
}
