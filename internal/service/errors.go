package service

import (
	"errors"
	"fmt"
)

// ErrAppointmentNotFound is returned when an id does not match any
// stored appointment.
var ErrAppointmentNotFound = errors.New("appointment not found")

// ValidationError marks input the caller can correct and resubmit.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid input: " + e.Reason }

// ConflictError marks a booking attempt against an occupied slot.
type ConflictError struct {
	DoctorID string
	Date     string
	Time     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot already booked: doctor %s at %s %s", e.DoctorID, e.Date, e.Time)
}
