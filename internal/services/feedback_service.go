package services

import (
	"context"
	"strings"

	"intercity/internal/domain"
	"intercity/internal/domain/models"
	"intercity/internal/repositories"
	"intercity/internal/utils"
)

type FeedbackService struct {
	Repo      repositories.FeedbackRepository
	RequestID string
}

func (s FeedbackService) Submit(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	f.Message = strings.TrimSpace(f.Message)
	f.Name = utils.NormalizeSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = utils.NormalizePhone(f.Phone)

	if f.Message == "" {
		return f, domain.ValidationError{Field: "message", Msg: "is required"}
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		return f, domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	if f.Email != "" && !strings.Contains(f.Email, "@") {
		return f, domain.ValidationError{Field: "email", Msg: "is not a valid email"}
	}

	id, err := s.Repo.Create(ctx, f)
	if err != nil {
		return f, dbFailure(err)
	}
	f.ID = id
	utils.LogEvent(s.RequestID, "feedback", "created", "id="+itoa(id))
	return f, nil
}
