package services

import (
	"errors"
	"strconv"
	"time"

	"intercity/internal/domain"
	"intercity/internal/session"
	"intercity/internal/utils"
)

// SessionToken is returned when a passenger registers their phone number.
type SessionToken struct {
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionService struct {
	Signer    *session.Signer
	RequestID string
}

func (s SessionService) Start(name, phone string) (SessionToken, error) {
	name = utils.NormalizeSpace(name)
	phone = utils.NormalizePhone(phone)
	if name == "" {
		return SessionToken{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if phone == "" {
		return SessionToken{}, domain.ValidationError{Field: "phone", Msg: "is required"}
	}
	tok, exp, err := s.Signer.Issue(name, phone)
	if errors.Is(err, session.ErrDisabled) {
		return SessionToken{}, domain.UnavailableError{Dependency: "sessions", Err: err}
	}
	if err != nil {
		return SessionToken{}, domain.InternalError{Msg: "could not sign session", Err: err}
	}
	utils.LogEvent(s.RequestID, "session", "start", "phone="+utils.MaskPhone(phone))
	return SessionToken{Token: tok, Name: name, Phone: phone, ExpiresAt: exp}, nil
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
