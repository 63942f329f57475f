package ffi

import (
	"github.com/btcffi/btcffi/ffierr"
	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil"
)

// Amount is an amount of bitcoin held as satoshis.
type Amount struct {
	sats btcutil.Amount
}

// AmountFromSat returns the amount of sat satoshis.
func AmountFromSat(sat uint64) Amount {
	return Amount{sats: btcutil.Amount(sat)}
}

// AmountFromBtc converts a floating point bitcoin value. The error is an
// ffierr.ParseAmountError.
func AmountFromBtc(btc float64) (Amount, error) {
	sats, err := primitives.AmountFromBtc(btc)
	if err != nil {
		return Amount{}, ffierr.NewParseAmountError(err)
	}

	return Amount{sats: sats}, nil
}

// ParseAmount parses a decimal amount denominated in unit. The error is an
// ffierr.ParseAmountError.
func ParseAmount(s string, unit btcutil.AmountUnit) (Amount, error) {
	sats, err := primitives.ParseAmount(s, unit)
	if err != nil {
		return Amount{}, ffierr.NewParseAmountError(err)
	}

	return Amount{sats: sats}, nil
}

// AmountFromCore wraps a btcutil amount. Negative amounts are clamped to
// zero.
func AmountFromCore(a btcutil.Amount) Amount {
	if a < 0 {
		a = 0
	}

	return Amount{sats: a}
}

// Core returns the btcutil amount.
func (a Amount) Core() btcutil.Amount {
	return a.sats
}

// ToSat returns the amount in satoshis.
func (a Amount) ToSat() uint64 {
	return uint64(a.sats)
}

// ToBtc returns the amount in bitcoin.
func (a Amount) ToBtc() float64 {
	return a.sats.ToBTC()
}

// String returns the amount formatted in bitcoin.
func (a Amount) String() string {
	return a.sats.String()
}
