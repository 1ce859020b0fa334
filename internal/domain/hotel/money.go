package hotel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents.
type Money int64

// ErrAmountTooLarge is returned when an amount does not fit in Money.
var ErrAmountTooLarge = errors.New("amount too large")

const maxWhole = (math.MaxInt64 - 99) / 100

// ParseMoney accepts "150", "150.5" and "150.50". Negative amounts and more
// than two fractional digits are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if errors.Is(err, strconv.ErrRange) || (err == nil && w > maxWhole) {
		return 0, fmt.Errorf("amount %q: %w", s, ErrAmountTooLarge)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var cents uint64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q (at most two decimals)", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseUint(frac, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	return Money(w*100 + cents), nil
}

func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Times multiplies a non-negative amount by a non-negative count. ok is
// false when the product does not fit.
func (m Money) Times(n int) (product Money, ok bool) {
	if m < 0 || n < 0 {
		return 0, false
	}
	if n != 0 && int64(m) > math.MaxInt64/int64(n) {
		return 0, false
	}
	return m * Money(n), true
}

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, int64(m)/100, int64(m)%100)
}
