package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Account is a read-only copy of an account's state.
// Presentation layers and storage receive these, never the live account.
type Account struct {
	ID      string          `json:"account_id"`
	Owner   string          `json:"owner_name"`
	Balance decimal.Decimal `json:"balance"`
}

var ErrEmptyAmount = errors.New("amount is empty")

// ParseAmount turns user text into an exact decimal amount.
// Malformed input is an error, never a silent zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FormatAmount renders an amount with two fractional digits when that is
// exact, and with its full precision otherwise.
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
