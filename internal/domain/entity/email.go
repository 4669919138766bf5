package entity

import "regexp"

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// Email is a validated email address. The raw input is kept as given: no
// trimming and no case folding, so equality is exact string equality.
type Email struct {
	value string
}

// NewEmail validates value and wraps it. Construction is the only validation point.
func NewEmail(value string) (Email, error) {
	if value == "" {
		return Email{}, NewError(KindInvalidFormat, "Email cannot be empty")
	}
	if !emailPattern.MatchString(value) {
		return Email{}, NewError(KindInvalidFormat, "Invalid email format: %s", value)
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }
func (e Email) IsZero() bool   { return e.value == "" }

func (e Email) Equals(other Email) bool {
	return e.value == other.value
}
