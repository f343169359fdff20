package handlers

import (
	"intercity/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type sessionRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateSession serves POST /api/sessions.
func CreateSession(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionRequest
		if !BindJSONOrError(c, &req) {
			return
		}
		tok, err := d.sessionService(c).Start(req.Name, req.Phone)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, tok, nil)
	}
}

// CreateFeedback serves POST /api/feedback.
func CreateFeedback(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.Feedback
		if !BindJSONOrError(c, &req) {
			return
		}
		fb, err := d.feedbackService(c).Submit(c.Request.Context(), req)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		respondOK(c, gin.H{"id": fb.ID}, nil)
	}
}
