package events

import (
	"context"
	"testing"
)

func TestNewPublisherWithoutURLIsNop(t *testing.T) {
	p, err := NewPublisher(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(NopPublisher); !ok {
		t.Fatalf("expected NopPublisher, got %T", p)
	}
	if err := p.PublishBookingCreated(context.Background(), BookingCreated{BookingID: 1}); err != nil {
		t.Fatalf("nop publish should not fail: %v", err)
	}
}

func TestNewPublisherRejectsBadURL(t *testing.T) {
	if _, err := NewPublisher(context.Background(), "not-a-redis-url"); err == nil {
		t.Fatalf("expected parse error for invalid url")
	}
}
