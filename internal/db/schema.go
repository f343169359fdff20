package db

import (
	"context"
	"fmt"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS operators (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	slug VARCHAR(255) NOT NULL,
	description TEXT NULL,
	color VARCHAR(50) NULL,
	rating DECIMAL(2,1) NOT NULL DEFAULT 0,
	phone VARCHAR(50) NULL,
	email VARCHAR(255) NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_operator_slug (slug)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS routes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	from_city VARCHAR(100) NOT NULL,
	to_city VARCHAR(100) NOT NULL,
	distance INT NULL,
	estimated_duration INT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_routes_to_city (to_city)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS buses (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	operator_id BIGINT NOT NULL,
	route_id BIGINT NOT NULL,
	departure_time VARCHAR(5) NOT NULL,
	arrival_time VARCHAR(5) NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	type VARCHAR(20) NOT NULL DEFAULT 'standard',
	total_seats INT NOT NULL,
	available_seats INT NOT NULL,
	features JSON NULL,
	operates_on JSON NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_buses_route (route_id),
	CONSTRAINT chk_buses_seats CHECK (available_seats >= 0 AND available_seats <= total_seats)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	bus_id BIGINT NOT NULL,
	booking_ref VARCHAR(32) NOT NULL,
	passenger_name VARCHAR(255) NOT NULL,
	passenger_phone VARCHAR(50) NOT NULL,
	passenger_email VARCHAR(255) NULL,
	seat_number VARCHAR(10) NOT NULL,
	travel_date DATE NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	total_amount DECIMAL(10,2) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking_ref (booking_ref),
	KEY idx_bookings_phone (passenger_phone),
	KEY idx_bookings_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	amount DECIMAL(10,2) NOT NULL,
	payment_method VARCHAR(20) NOT NULL,
	payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
	phone_number VARCHAR(50) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_payments_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS search_logs (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	destination VARCHAR(100) NOT NULL,
	bus_type VARCHAR(20) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_search_logs_destination (destination),
	KEY idx_search_logs_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS feedback (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NULL,
	name VARCHAR(255) NULL,
	email VARCHAR(255) NULL,
	phone VARCHAR(50) NULL,
	message TEXT NOT NULL,
	rating INT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

// EnsureSchema creates the tables used by the service when they are missing.
func EnsureSchema(ctx context.Context, db Execer) error {
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	log.Printf("[DB] action=ensure_schema tables=%d", len(schema))
	return nil
}
