package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money pairs an integer minor-unit amount with its currency.
// Amounts are never represented as floating point anywhere in this package.
type Money struct {
	Cents    int64
	Currency string
}

func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("amount cannot be negative")
	}
	if currency == "" {
		return Money{}, errors.New("currency is required")
	}
	return Money{Cents: cents, Currency: currency}, nil
}

// ParseAmount converts a human-entered amount string into cents. Input is in
// whole currency units: "1234" means 1234 units, i.e. 123400 cents. Grouping
// separators (commas, spaces, underscores) are stripped. Fractional input is
// rejected outright, including ".00" — the terminal takes whole-unit amounts.
func ParseAmount(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, NewInvalidAmountInputError(input, "amount is required")
	}
	if strings.HasPrefix(s, "-") {
		return 0, NewInvalidAmountInputError(input, "amount cannot be negative")
	}
	if strings.Contains(s, ".") {
		return 0, NewInvalidAmountInputError(input, "fractional amounts are not accepted")
	}

	var cleaned strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			cleaned.WriteRune(r)
		case r == ',' || r == ' ' || r == '_':
			// grouping separator
		default:
			return 0, NewInvalidAmountInputError(input, fmt.Sprintf("unexpected character %q", r))
		}
	}
	if cleaned.Len() == 0 {
		return 0, NewInvalidAmountInputError(input, "no digits found")
	}

	var units int64
	for _, r := range cleaned.String() {
		digit := int64(r - '0')
		if units > (maxCents-digit)/10 {
			return 0, NewInvalidAmountInputError(input, "amount is too large")
		}
		units = units*10 + digit
	}
	if units > maxCents/100 {
		return 0, NewInvalidAmountInputError(input, "amount is too large")
	}
	return units * 100, nil
}

const maxCents = int64(1) << 52

// AddCents and SubtractCents are the only arithmetic the money model needs.
// Subtraction does not clamp: "amount owed" is legitimately negative in some
// callers, while a slip's remaining balance must be clamped by its owner.
func AddCents(a, b int64) int64 { return a + b }

func SubtractCents(a, b int64) int64 { return a - b }

func ClampNonNegative(cents int64) int64 {
	if cents < 0 {
		return 0
	}
	return cents
}

var displayPrinter = message.NewPrinter(language.English)

// FormatCents renders an amount for display: whole units grouped by
// thousands, with a ".NN" suffix only when the cent remainder is nonzero.
func FormatCents(cents int64, currency string, withSymbol bool) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	units := cents / 100
	rem := cents % 100

	out := displayPrinter.Sprintf("%d", units)
	if rem != 0 {
		out = fmt.Sprintf("%s.%02d", out, rem)
	}
	if negative {
		out = "-" + out
	}
	if withSymbol && currency != "" {
		out = currency + " " + out
	}
	return out
}
