package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChannelBookingCreated receives one message per committed booking.
const ChannelBookingCreated = "booking.created"

// BookingCreated is the payload published after a booking commits.
type BookingCreated struct {
	BookingID     int64     `json:"bookingId"`
	BookingRef    string    `json:"bookingRef"`
	BusID         int64     `json:"busId"`
	SeatNumber    string    `json:"seatNumber"`
	TravelDate    string    `json:"travelDate"`
	PaymentMethod string    `json:"paymentMethod"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Publisher interface {
	PublishBookingCreated(ctx context.Context, ev BookingCreated) error
	Close() error
}

// NopPublisher drops every event. It is used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishBookingCreated(context.Context, BookingCreated) error { return nil }
func (NopPublisher) Close() error                                                { return nil }

type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher returns a Redis publisher for url, or a NopPublisher when url is empty.
func NewPublisher(ctx context.Context, url string) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisPublisher{client: client}, nil
}

func (p *RedisPublisher) PublishBookingCreated(ctx context.Context, ev BookingCreated) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, ChannelBookingCreated, data).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
