package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
)

type seedOperator struct {
	Name, Slug, Description, Color, Phone, Email string
	Rating                                       float64
}

type seedRoute struct {
	From, To           string
	Distance, Duration int
}

type seedBus struct {
	Operator, Route    int
	Departure, Arrival string
	Price              float64
	Type               string
	Seats              int
	Features           []string
	OperatesOn         []int
}

var (
	daily = []int{1, 2, 3, 4, 5, 6, 0}

	seedOperators = []seedOperator{
		{"Mazhandu Family", "mazhandu-family", "Premium intercity bus service with excellent safety records", "bg-red-600", "+260211234567", "info@mazhandu.zm", 4.8},
		{"Power Tools", "power-tools", "Reliable and affordable bus transport across Zambia", "bg-blue-600", "+260211234568", "info@powertools.zm", 4.5},
		{"Juldan Motors", "juldan-motors", "Luxury coaches for long-distance travel", "bg-green-600", "+260211234569", "info@juldan.zm", 4.9},
		{"Shalom Bus", "shalom-bus", "Comfortable and punctual bus services", "bg-purple-600", "+260211234570", "info@shalom.zm", 4.2},
		{"Likili", "likili", "Connect to remote destinations across Zambia", "bg-orange-600", "+260211234571", "info@likili.zm", 4.0},
	}

	seedRoutes = []seedRoute{
		{"Lusaka", "Livingstone", 480, 360},
		{"Lusaka", "Kitwe", 320, 300},
		{"Lusaka", "Johannesburg", 1200, 900},
		{"Lusaka", "Chipata", 570, 420},
		{"Lusaka", "Mongu", 580, 480},
		{"Lusaka", "Ndola", 320, 300},
	}

	seedBuses = []seedBus{
		{0, 0, "06:00", "12:00", 350, "luxury", 45, []string{"AC", "USB", "Snacks", "Wi-Fi"}, daily},
		{1, 1, "07:30", "12:30", 280, "standard", 50, []string{"AC", "Leg Room"}, daily},
		{2, 2, "10:00", "01:00", 1200, "luxury", 30, []string{"Reclining Seats", "Meal", "Toilet", "AC", "Entertainment"}, []int{1, 3, 5}},
		{3, 3, "05:00", "12:00", 300, "standard", 40, []string{"Music", "Storage"}, daily},
		{4, 4, "06:30", "14:30", 400, "standard", 35, []string{"AC"}, daily},
		{0, 5, "14:00", "19:00", 310, "luxury", 45, []string{"AC", "TV", "USB"}, daily},
	}
)

// SeedDemoData inserts the demo operators, routes and buses when the buses table is empty.
func SeedDemoData(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM buses`).Scan(&count); err != nil {
		return fmt.Errorf("seed: count buses: %w", err)
	}
	if count > 0 {
		log.Printf("[DB] action=seed skipped=true buses=%d", count)
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	operatorIDs := make([]int64, 0, len(seedOperators))
	for _, o := range seedOperators {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO operators (name, slug, description, color, rating, phone, email)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, o.Name, o.Slug, o.Description, o.Color, o.Rating, o.Phone, o.Email)
		if err != nil {
			return fmt.Errorf("seed: operator %s: %w", o.Slug, err)
		}
		id, _ := res.LastInsertId()
		operatorIDs = append(operatorIDs, id)
	}

	routeIDs := make([]int64, 0, len(seedRoutes))
	for _, r := range seedRoutes {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO routes (from_city, to_city, distance, estimated_duration)
			VALUES (?, ?, ?, ?)
		`, r.From, r.To, r.Distance, r.Duration)
		if err != nil {
			return fmt.Errorf("seed: route %s-%s: %w", r.From, r.To, err)
		}
		id, _ := res.LastInsertId()
		routeIDs = append(routeIDs, id)
	}

	for _, b := range seedBuses {
		features, _ := json.Marshal(b.Features)
		operatesOn, _ := json.Marshal(b.OperatesOn)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO buses (operator_id, route_id, departure_time, arrival_time, price, type,
			                   total_seats, available_seats, features, operates_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, operatorIDs[b.Operator], routeIDs[b.Route], b.Departure, b.Arrival, b.Price, b.Type,
			b.Seats, b.Seats, string(features), string(operatesOn)); err != nil {
			return fmt.Errorf("seed: bus: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	log.Printf("[DB] action=seed operators=%d routes=%d buses=%d", len(operatorIDs), len(routeIDs), len(seedBuses))
	return nil
}
