package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BookingETicketPDF serves GET /api/bookings/:ref/e-ticket inline.
func BookingETicketPDF(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		pdfBytes, filename, err := d.docsService(c).GenerateETicket(c.Request.Context(), c.Param("ref"))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}

// BookingInvoicePDF serves GET /api/bookings/:ref/invoice inline.
func BookingInvoicePDF(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		pdfBytes, filename, err := d.docsService(c).GenerateInvoice(c.Request.Context(), c.Param("ref"))
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}
