package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"intercity/internal/domain/models"
	"intercity/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking PDFs: the e-ticket shown at boarding and the
// payment invoice.
type DocsService struct {
	Bookings  BookingService
	RequestID string
	Loader    func(ctx context.Context, ref string) (models.BookingDetail, error)
	Now       func() time.Time
}

func (s DocsService) GenerateETicket(ctx context.Context, ref string) ([]byte, string, error) {
	d, err := s.load(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "ref="+d.BookingRef)
	return buildETicketPDF(d)
}

func (s DocsService) GenerateInvoice(ctx context.Context, ref string) ([]byte, string, error) {
	d, err := s.load(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", "ref="+d.BookingRef)
	return buildInvoicePDF(d, s.now())
}

func (s DocsService) load(ctx context.Context, ref string) (models.BookingDetail, error) {
	if s.Loader != nil {
		return s.Loader(ctx, ref)
	}
	return s.Bookings.Detail(ctx, ref)
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func buildETicketPDF(d models.BookingDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+d.BookingRef, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Ref    : %s", safe(d.BookingRef, "-")),
		fmt.Sprintf("Passenger      : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Phone          : %s", safe(d.PassengerPhone, "-")),
		fmt.Sprintf("Seat           : %s", safe(d.SeatNumber, "-")),
		fmt.Sprintf("Operator       : %s", safe(d.Bus.Operator, "-")),
		fmt.Sprintf("Bus Type       : %s", safe(d.Bus.Type, "-")),
		fmt.Sprintf("Route          : %s -> %s", safe(d.Bus.From, "-"), safe(d.Bus.To, "-")),
		fmt.Sprintf("Travel Date    : %s", safe(utils.DateOnly(d.TravelDate), "-")),
		fmt.Sprintf("Departure      : %s", safe(timeHM(d.Bus.DepartureTime), "-")),
		fmt.Sprintf("Arrival        : %s", safe(timeHM(d.Bus.ArrivalTime), "-")),
		fmt.Sprintf("Status         : %s", strings.ToUpper(safe(d.Status, "-"))),
		fmt.Sprintf("Payment        : %s", paymentSummary(d.Payments)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Valid for one passenger and one seat. Present this ticket and a photo ID at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", safeFilenamePart(d.BookingRef), safeFilenamePart(d.PassengerName+"_"+d.SeatNumber))
	return buf.Bytes(), filename, nil
}

func buildInvoicePDF(d models.BookingDetail, now time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+d.BookingRef, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	invNo := "INV-" + safeFilenamePart(d.BookingRef)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+now.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name  : %s", safe(d.PassengerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Phone : %s", safe(d.PassengerPhone, "-")))
	pdf.Ln(10)

	desc := fmt.Sprintf("Bus ticket %s -> %s (%s %s) seat %s, %s",
		safe(d.Bus.From, "-"), safe(d.Bus.To, "-"),
		safe(utils.DateOnly(d.TravelDate), "-"), safe(timeHM(d.Bus.DepartureTime), "-"),
		safe(d.SeatNumber, "-"), safe(d.Bus.Operator, "-"),
	)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatKwacha(d.TotalAmount))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Payment: "+paymentSummary(d.Payments))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Pay with mobile money using your booking instructions. Tickets are confirmed once payment is received.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%s.pdf", safeFilenamePart(d.BookingRef))
	return buf.Bytes(), filename, nil
}

func paymentSummary(pays []models.Payment) string {
	if len(pays) == 0 {
		return "-"
	}
	p := pays[len(pays)-1]
	method := "MTN MoMo"
	if p.PaymentMethod == "airtel_money" {
		method = "Airtel Money"
	}
	return fmt.Sprintf("%s (%s)", method, p.PaymentStatus)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func timeHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
