package utils

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ParseReportMonth parses a YYYY-MM month selector
func ParseReportMonth(s string) (time.Time, error) {
	month, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid report month: %s", s)
	}
	return month, nil
}

// ParseLineDate parses an expense date in YYYY-MM-DD form
func ParseLineDate(s string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expense date: %s", s)
	}
	return date, nil
}

// ParseAmount parses a monetary amount, rejecting negatives
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount must be numeric: %s", s)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("amount must not be negative: %s", s)
	}
	return amount, nil
}
