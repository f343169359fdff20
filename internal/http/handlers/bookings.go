package handlers

import (
	"strconv"

	"intercity/internal/domain"
	"intercity/internal/domain/models"
	"intercity/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type bookingSummary struct {
	ID         int64  `json:"id"`
	BookingRef string `json:"bookingRef"`
	Status     string `json:"status"`
}

type paymentSummary struct {
	ID           int64    `json:"id"`
	Status       string   `json:"status"`
	Method       string   `json:"method"`
	Instructions []string `json:"instructions"`
}

// CreateBooking serves POST /api/bookings.
func CreateBooking(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BookingRequest
		if !BindJSONOrError(c, &req) {
			return
		}
		receipt, err := d.bookingService(c).Create(c.Request.Context(), req)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, gin.H{
			"booking": bookingSummary{
				ID:         receipt.BookingID,
				BookingRef: receipt.BookingRef,
				Status:     receipt.BookingStatus,
			},
			"payment": paymentSummary{
				ID:           receipt.PaymentID,
				Status:       receipt.PaymentStatus,
				Method:       receipt.PaymentMethod,
				Instructions: receipt.Instructions,
			},
		}, nil)
	}
}

// GetBooking serves GET /api/bookings?ref=.
func GetBooking(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := d.bookingService(c).Detail(c.Request.Context(), c.Query("ref"))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, detail, nil)
	}
}

// UserBookings serves GET /api/user-bookings?phone=&status=. The phone may
// come from the caller's session token instead of the query.
func UserBookings(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone := c.Query("phone")
		if phone == "" {
			phone = middleware.SessionPhone(c)
		}
		out, err := d.historyService(c).UserBookings(c.Request.Context(), phone, c.Query("status"))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, out.Bookings, gin.H{"summary": out.Summary})
	}
}

// RecentBookings serves GET /api/recent-bookings?minutes=.
func RecentBookings(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		minutes := 0
		if v := c.Query("minutes"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				RespondDomainError(c, domain.ValidationError{Field: "minutes", Msg: "must be a number", Err: err})
				return
			}
			minutes = n
		}
		rows, err := d.historyService(c).Recent(c.Request.Context(), minutes)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, rows, gin.H{"count": len(rows)})
	}
}
