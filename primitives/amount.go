package primitives

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/govalues/decimal"
)

// maxAmountInputLen is the longest amount string the parser looks at.
const maxAmountInputLen = 50

var (
	// ErrAmountOutOfRange is returned when an amount is negative or larger
	// than the total supply.
	ErrAmountOutOfRange = errors.New("amount out of range")

	// ErrAmountTooPrecise is returned when an amount has more decimal
	// places than its denomination allows.
	ErrAmountTooPrecise = errors.New("amount has a too high precision")

	// ErrAmountMissingDigits is returned when an amount string has no
	// digits at all.
	ErrAmountMissingDigits = errors.New("the input has too few digits")

	// ErrAmountInputTooLarge is returned when an amount string is longer
	// than any valid amount.
	ErrAmountInputTooLarge = errors.New("the input is too large")
)

// InvalidCharacterError is returned when an amount string contains a
// character that is neither a digit nor a single decimal point.
type InvalidCharacterError struct {
	Char rune
}

// Error returns a human readable description of the error.
func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character in input: %q", e.Char)
}

// ParseAmount parses a decimal amount denominated in unit and returns it in
// satoshis. The string is checked character by character first, so the
// decimal parse only ever sees well formed input.
func ParseAmount(s string, unit btcutil.AmountUnit) (btcutil.Amount, error) {
	decimals := 8 + int(unit)
	if decimals < 0 {
		return 0, fmt.Errorf("unsupported amount unit %v", unit)
	}

	if len(s) > maxAmountInputLen {
		return 0, ErrAmountInputTooLarge
	}

	negative := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return 0, ErrAmountMissingDigits
	}

	intPart, fracPart, _ := strings.Cut(digits, ".")
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, &InvalidCharacterError{Char: r}
		}
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, &InvalidCharacterError{Char: r}
		}
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrAmountMissingDigits
	}

	significantFrac := strings.TrimRight(fracPart, "0")
	if len(significantFrac) > decimals {
		return 0, ErrAmountTooPrecise
	}

	significantInt := strings.TrimLeft(intPart, "0")
	if len(significantInt)+decimals > 16 {
		return 0, ErrAmountOutOfRange
	}

	if significantInt == "" {
		significantInt = "0"
	}
	normalized := significantInt
	if significantFrac != "" {
		normalized += "." + significantFrac
	}
	if negative {
		normalized = "-" + normalized
	}

	d, err := decimal.Parse(normalized)
	if err != nil {
		return 0, err
	}
	d = d.Trim(0)

	sats := d.Coef()
	for i := d.Scale(); i < decimals; i++ {
		sats *= 10
	}

	switch {
	case negative && sats != 0:
		return 0, ErrAmountOutOfRange

	case sats > uint64(btcutil.MaxSatoshi):
		return 0, ErrAmountOutOfRange
	}

	log.Tracef("Parsed amount %q as %d sat", s, sats)

	return btcutil.Amount(sats), nil
}

// AmountFromBtc converts a floating point bitcoin value into satoshis,
// applying the same checks as ParseAmount to its shortest decimal form.
func AmountFromBtc(btc float64) (btcutil.Amount, error) {
	switch {
	case math.IsNaN(btc):
		return 0, &InvalidCharacterError{Char: 'N'}

	case math.IsInf(btc, 0):
		return 0, ErrAmountOutOfRange
	}

	return ParseAmount(
		strconv.FormatFloat(btc, 'f', -1, 64), btcutil.AmountBTC,
	)
}
