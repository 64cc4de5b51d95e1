// Package validate holds the pure input checks applied at the form
// boundary. None of them touch storage or the clock except
// AppointmentDateTime, which takes the reference instant as an argument.
package validate

import (
	"regexp"
	"time"
	"unicode"

	"medicare-api/internal/dates"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRe  = regexp.MustCompile(`^[A-Za-zÀ-úÇç\s]+$`)
)

// Email is a permissive shape check, not full RFC validation.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Password requires at least 6 characters with one letter and one digit.
func Password(s string) bool {
	if len(s) < 6 {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// Name requires at least 2 characters, letters/spaces/diacritics only.
func Name(s string) bool {
	return len([]rune(s)) >= 2 && nameRe.MatchString(s)
}

// Date checks DD/MM/YYYY with strict calendar validity (31/04 rejected).
func Date(s string) bool {
	_, err := dates.ParseDate(s)
	return err == nil
}

// Time checks HH:MM, hour 0-23, minute 0-59.
func Time(s string) bool {
	_, err := dates.ParseTime(s)
	return err == nil
}

// AppointmentDateTime reports whether date/time are well-formed and the
// combined instant is strictly after now.
func AppointmentDateTime(date, clock string, now time.Time) bool {
	at, err := dates.ParseDateTime(date, clock)
	if err != nil {
		return false
	}
	return at.After(now)
}
