package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// CapacityError means the bus had no seats left when the booking was checked.
type CapacityError struct {
	BusID int64
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("no available seats on bus %d", e.BusID)
}

// RaceLossError means the conditional seat decrement touched no rows: another
// booking took the last seat between the check and the write.
type RaceLossError struct {
	BusID int64
}

func (e RaceLossError) Error() string {
	return fmt.Sprintf("seat on bus %d was taken by a concurrent booking", e.BusID)
}

// UnavailableError wraps a failed upstream dependency (database, embedding provider).
type UnavailableError struct {
	Dependency string
	Err        error
}

func (e UnavailableError) Error() string {
	if e.Dependency == "" {
		return "upstream unavailable"
	}
	return fmt.Sprintf("%s unavailable", e.Dependency)
}

func (e UnavailableError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// IsCapacity reports both an up-front capacity failure and a lost seat race;
// callers treat them the same way.
func IsCapacity(err error) bool {
	var capErr CapacityError
	if errors.As(err, &capErr) {
		return true
	}
	var raceErr RaceLossError
	return errors.As(err, &raceErr)
}

func IsRaceLoss(err error) bool {
	var target RaceLossError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target UnavailableError
	return errors.As(err, &target)
}
