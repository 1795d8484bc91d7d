package validation

import (
	"math"
	"regexp"
	"strings"

	"github.com/rkurane/collegebus/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Bus numbers: letters, digits and hyphens
	BusNumberPattern = `^[A-Za-z0-9-]+$`

	// Usernames: letters, digits and underscore
	UsernamePattern = `^[A-Za-z0-9_]+$`

	// Names: letters and spaces only
	NamePattern = `^[A-Za-z\s]+$`

	// Roll numbers: letters, digits and hyphens
	RollNoPattern = `^[A-Za-z0-9-]+$`

	// Password minimum length, enforced on creation only
	PasswordMinLength = 6
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	BusNumber *regexp.Regexp
	Username  *regexp.Regexp
	Name      *regexp.Regexp
	RollNo    *regexp.Regexp
}{
	BusNumber: regexp.MustCompile(BusNumberPattern),
	Username:  regexp.MustCompile(UsernamePattern),
	Name:      regexp.MustCompile(NamePattern),
	RollNo:    regexp.MustCompile(RollNoPattern),
}

// BusNumber trims and validates a bus number
func BusNumber(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperrors.NewValidationError("bus_number", "Bus number is required")
	}
	if !CompiledPatterns.BusNumber.MatchString(v) {
		return "", apperrors.NewValidationError("bus_number", "Bus number can only contain letters, numbers, and hyphens")
	}
	return v, nil
}

// Capacity validates a bus capacity value
func Capacity(v int) (int, error) {
	if v < 0 {
		return 0, apperrors.NewValidationError("capacity", "Capacity must be a non-negative number")
	}
	return v, nil
}

// Username trims and validates a student username
func Username(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperrors.NewValidationError("username", "Username is required")
	}
	if !CompiledPatterns.Username.MatchString(v) {
		return "", apperrors.NewValidationError("username", "Username can only contain letters, numbers, and underscore")
	}
	return v, nil
}

// Password checks the creation-time password policy. Passwords are never
// trimmed; leading or trailing spaces are meaningful.
func Password(v string) error {
	if v == "" {
		return apperrors.NewValidationError("password", "Password is required")
	}
	if len(v) < PasswordMinLength {
		return apperrors.NewValidationError("password", "Password must be at least 6 characters long")
	}
	return nil
}

// Name trims and validates a student name
func Name(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperrors.NewValidationError("name", "Name is required")
	}
	if !CompiledPatterns.Name.MatchString(v) {
		return "", apperrors.NewValidationError("name", "Name can only contain letters and spaces")
	}
	return v, nil
}

// RollNo trims and validates a roll number
func RollNo(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperrors.NewValidationError("roll_no", "Roll number is required")
	}
	if !CompiledPatterns.RollNo.MatchString(v) {
		return "", apperrors.NewValidationError("roll_no", "Roll number can only contain letters, numbers, and hyphens")
	}
	return v, nil
}

// Fee validates an optional fee amount and rounds it to exactly two decimal
// places. A nil value normalizes to zero.
func Fee(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if math.IsNaN(*v) || *v < 0 {
		return 0, apperrors.NewValidationError(field, fieldLabel(field)+" must be a non-negative number")
	}
	return math.Round(*v*100) / 100, nil
}

func fieldLabel(field string) string {
	switch field {
	case "fees_paid":
		return "Fees paid"
	case "remaining_fees":
		return "Remaining fees"
	default:
		return field
	}
}
