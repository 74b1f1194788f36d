package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxPrice caps unit prices.
var MaxPrice = decimal.New(1, 12)

// MaxAmount bounds every stored money amount (line totals, subtotal, total).
// Below 1e13 an amount has at most 15 significant digits with cents, which
// SQLite's REAL affinity keeps exactly and which fits decimal(18,2).
var MaxAmount = decimal.New(1, 13)

// ValidateAmount checks a derived money amount against MaxAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.GreaterThanOrEqual(MaxAmount) {
		return fmt.Errorf("amount %s exceeds the maximum of %s", amount, MaxAmount)
	}
	return nil
}

// ValidatePrice checks a money amount: positive, at most two decimal places
// and below MaxPrice.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s", price)
	}
	if price.GreaterThanOrEqual(MaxPrice) {
		return fmt.Errorf("price too large, got %s", price)
	}
	if !price.Equal(price.Round(2)) {
		return fmt.Errorf("price must have at most 2 decimal places, got %s", price)
	}
	return nil
}

// ValidateQuantity checks a line quantity.
func ValidateQuantity(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}
	if qty > 1_000_000 {
		return fmt.Errorf("quantity too large, got %d", qty)
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// DateLayout is the date-only wire format.
const DateLayout = "2006-01-02"

// ParseDate accepts RFC3339, a local timestamp without zone, or YYYY-MM-DD.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// IsDateOnly reports whether s is a bare YYYY-MM-DD value.
func IsDateOnly(s string) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(s))
	return err == nil
}

// ParseRangeEnd parses the upper bound of a date range as an exclusive
// instant: a bare date covers that whole day, a timestamp includes itself.
func ParseRangeEnd(s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return t, err
	}
	if IsDateOnly(s) {
		return t.AddDate(0, 0, 1), nil
	}
	return t.Add(time.Nanosecond), nil
}

// ParseMonth parses YYYY-MM into the first instant of that month in UTC.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t, nil
}
