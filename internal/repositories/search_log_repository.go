package repositories

import (
	"context"
	"database/sql"

	intconfig "intercity/internal/config"
	intdb "intercity/internal/db"
)

type SearchLogRepository struct {
	DB *sql.DB
}

func (r SearchLogRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Record stores one destination search. These rows drive popularity.
func (r SearchLogRepository) Record(ctx context.Context, destination, busType string) error {
	_, err := r.db().ExecContext(ctx,
		`INSERT INTO search_logs (destination, bus_type) VALUES (?, ?)`,
		destination, intdb.NullIfEmpty(busType))
	return err
}
