package services

import (
	"context"
	"time"

	"intercity/internal/domain"
	"intercity/internal/domain/models"
	"intercity/internal/repositories"
	"intercity/internal/utils"
)

const (
	defaultRecentMinutes = 5
	maxRecentMinutes     = 24 * 60
	recentLimit          = 20
)

type HistoryService struct {
	BookingRepo repositories.BookingRepository
	RequestID   string
	Now         func() time.Time
}

func (s HistoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// UserBookings lists a passenger's bookings, optionally by status.
func (s HistoryService) UserBookings(ctx context.Context, phone, status string) (models.UserBookings, error) {
	phone = utils.NormalizePhone(phone)
	if phone == "" {
		return models.UserBookings{}, domain.ValidationError{Field: "phone", Msg: "is required"}
	}
	if status != "" && !domain.ValidBookingStatus(status) {
		return models.UserBookings{}, domain.ValidationError{Field: "status", Msg: "is not a known booking status"}
	}
	items, err := s.BookingRepo.ListByPhone(ctx, phone, status)
	if err != nil {
		return models.UserBookings{}, dbFailure(err)
	}
	return models.UserBookings{Bookings: items, Summary: summarize(items, s.now())}, nil
}

// summarize counts upcoming trips as confirmed bookings whose travel date is
// today or later.
func summarize(items []models.BookingHistoryItem, now time.Time) models.BookingSummary {
	today := utils.FormatDate(now)
	sum := models.BookingSummary{TotalBookings: len(items)}
	for _, it := range items {
		switch it.Status {
		case domain.BookingConfirmed:
			sum.ConfirmedBookings++
			if utils.DateOnly(it.TravelDate) >= today {
				sum.UpcomingBookings++
			}
		case domain.BookingCompleted:
			sum.CompletedBookings++
		}
	}
	return sum
}

// Recent returns confirmed bookings from the last minutes with passenger
// names reduced to first name and initial.
func (s HistoryService) Recent(ctx context.Context, minutes int) ([]models.RecentBooking, error) {
	if minutes <= 0 {
		minutes = defaultRecentMinutes
	}
	if minutes > maxRecentMinutes {
		minutes = maxRecentMinutes
	}
	since := s.now().Add(-time.Duration(minutes) * time.Minute)
	rows, err := s.BookingRepo.ListRecentConfirmed(ctx, since, recentLimit)
	if err != nil {
		return nil, dbFailure(err)
	}
	for i := range rows {
		rows[i].PassengerName = utils.AnonymizeName(rows[i].PassengerName)
	}
	return rows, nil
}
