package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"intercity/internal/domain"
	"intercity/internal/domain/models"
)

func TestDocsServiceGenerate(t *testing.T) {
	loader := func(_ context.Context, ref string) (models.BookingDetail, error) {
		return models.BookingDetail{
			Booking: models.Booking{
				ID:             10,
				BookingRef:     ref,
				PassengerName:  "Jane Mwale",
				PassengerPhone: "+260971234567",
				SeatNumber:     "A12",
				TravelDate:     "2024-06-01",
				Status:         "pending",
				TotalAmount:    350,
			},
			Bus: models.BusListing{
				Operator:      "Mazhandu Family",
				From:          "Lusaka",
				To:            "Livingstone",
				DepartureTime: "06:00",
				ArrivalTime:   "13:00",
				Type:          "luxury",
			},
			Payments: []models.Payment{{PaymentMethod: "airtel_money", PaymentStatus: "pending"}},
		}, nil
	}

	svc := DocsService{Loader: loader, Now: func() time.Time { return time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC) }}

	pdf, filename, err := svc.GenerateETicket(context.Background(), "ZMABC123")
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("GenerateETicket did not return a PDF")
	}
	if filename != "ETICKET_ZMABC123_Jane_Mwale_A12.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}

	invoice, invName, err := svc.GenerateInvoice(context.Background(), "ZMABC123")
	if err != nil {
		t.Fatalf("GenerateInvoice returned error: %v", err)
	}
	if len(invoice) == 0 || invName != "INVOICE_ZMABC123.pdf" {
		t.Fatalf("GenerateInvoice returned unexpected data: %d bytes, %q", len(invoice), invName)
	}
}

func TestDocsServicePropagatesNotFound(t *testing.T) {
	svc := DocsService{Loader: func(context.Context, string) (models.BookingDetail, error) {
		return models.BookingDetail{}, domain.NotFoundError{Resource: "booking"}
	}}
	if _, _, err := svc.GenerateETicket(context.Background(), "ZMNONE"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := safeFilenamePart("  "); got != "NA" {
		t.Fatalf("expected NA, got %q", got)
	}
	if got := safeFilenamePart("a/b:c"); got != "a_b_c" {
		t.Fatalf("unexpected %q", got)
	}
	if got := safeFilenamePart(strings.Repeat("x", 60)); len(got) != 40 {
		t.Fatalf("expected truncation to 40, got %d", len(got))
	}
}
