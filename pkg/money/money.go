// Package money converts between decimal amount strings ("12.34") and
// int64 minor units (cents). All balances and amounts in the system are
// stored and computed in cents to avoid floating-point drift.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a decimal string with up to 2 fractional digits
// into cents. The amount must be strictly positive.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	neg := false
	if s[0] == '+' {
		s = s[1:]
	} else if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	frac := "00"
	if len(parts) == 2 {
		if len(parts[1]) == 0 || len(parts[1]) > 2 {
			return 0, fmt.Errorf("%w: at most 2 decimals", ErrInvalidAmount)
		}

		frac = parts[1] + strings.Repeat("0", 2-len(parts[1]))
	}

	ip, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	fp, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	// ip*100+fp must not wrap int64
	if ip > (math.MaxInt64-fp)/100 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}

	total := ip*100 + fp
	if neg {
		total = -total
	}

	if total <= 0 {
		return 0, fmt.Errorf("%w: must be > 0", ErrInvalidAmount)
	}

	return total, nil
}

// Format renders cents as a decimal string with exactly 2 fractional digits.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
