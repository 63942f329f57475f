package ffi

import (
	"github.com/btcffi/btcffi/ffierr"
	"github.com/btcffi/btcffi/primitives"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// FeeRate is a fee rate held as satoshis per kilo weight unit.
type FeeRate struct {
	rate primitives.SatPerKWeight
}

// FeeRateFromSatPerVb converts a fee rate in sat/vB. The error is an
// ffierr.FeeRateError.
func FeeRateFromSatPerVb(satPerVb uint64) (FeeRate, error) {
	rate, feeErr := ffierr.FeeRateFromOption(
		primitives.FeeRateFromSatPerVByte(satPerVb),
	)
	if feeErr != nil {
		return FeeRate{}, feeErr
	}

	return FeeRate{rate: rate}, nil
}

// FeeRateFromSatPerKwu wraps a fee rate in sat/kwu.
func FeeRateFromSatPerKwu(satPerKwu uint64) FeeRate {
	return FeeRate{rate: primitives.FeeRateFromSatPerKWeight(satPerKwu)}
}

// ToSatPerVbCeil returns the fee rate in sat/vB rounded up.
func (f FeeRate) ToSatPerVbCeil() uint64 {
	return f.rate.CeilSatPerVByte()
}

// ToSatPerVbFloor returns the fee rate in sat/vB rounded down.
func (f FeeRate) ToSatPerVbFloor() uint64 {
	return f.rate.FloorSatPerVByte()
}

// ToSatPerKwu returns the fee rate in sat/kwu.
func (f FeeRate) ToSatPerKwu() uint64 {
	return uint64(f.rate)
}

// FeeWu returns the fee paid by weight units at this rate, or None when it
// overflows.
func (f FeeRate) FeeWu(weight uint64) fn.Option[Amount] {
	return fn.MapOption(AmountFromCore)(f.rate.FeeForWeight(weight))
}

// Core returns the primitive fee rate.
func (f FeeRate) Core() primitives.SatPerKWeight {
	return f.rate
}

// String returns the fee rate in sat/kw.
func (f FeeRate) String() string {
	return f.rate.String()
}
