package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"invoice-generator/internal/models"

	"gorm.io/gorm"
)

// maxNumberAttempts bounds the retries after a duplicate invoice number.
const maxNumberAttempts = 5

// InvoicePrefix returns the numbering prefix for the month of t, e.g. "INV/202505/".
func InvoicePrefix(t time.Time) string {
	return fmt.Sprintf("INV/%04d%02d/", t.Year(), int(t.Month()))
}

// FormatInvoiceNumber renders prefix plus a zero-padded sequence. Sequences
// above 9999 simply grow wider.
func FormatInvoiceNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// ParseSequence extracts the sequence from a number carrying prefix.
func ParseSequence(number, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(number, prefix)
	if !ok {
		return 0, fmt.Errorf("invoice number %q does not start with %q", number, prefix)
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("invoice number %q has a malformed sequence", number)
	}
	return seq, nil
}

// nextInvoiceNumber returns the number following the largest one already
// issued in the month of now. Longer numbers sort first so that 10000 beats
// 9999. It must run on the transaction that inserts the invoice.
func nextInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := InvoicePrefix(now)

	var last models.Invoice
	err := tx.Model(&models.Invoice{}).
		Select("number").
		Where("number LIKE ?", prefix+"%").
		Order("LENGTH(number) DESC").
		Order("number DESC").
		Limit(1).
		Take(&last).Error

	seq := 1
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return "", fmt.Errorf("query last invoice number: %w", err)
	default:
		n, err := ParseSequence(last.Number, prefix)
		if err != nil {
			return "", err
		}
		seq = n + 1
	}
	return FormatInvoiceNumber(prefix, seq), nil
}
