package primitives

import (
	"fmt"
	"math/bits"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// kwPerKVByte is the number of weight units in one thousand virtual
	// bytes, divided by one thousand.
	kwPerKVByte = 1000 / blockchain.WitnessScaleFactor

	// DefaultMaxFeeRate is the fee rate above which extraction refuses a
	// transaction unless the caller raises the limit: 25,000 sat/vB.
	DefaultMaxFeeRate SatPerKWeight = 25_000 * kwPerKVByte
)

// SatPerKWeight represents a fee rate in sat/kw.
type SatPerKWeight uint64

// FeeRateFromSatPerVByte converts a fee rate in sat/vB into sat/kw. None is
// returned when the result does not fit into 64 bits.
func FeeRateFromSatPerVByte(satPerVByte uint64) fn.Option[SatPerKWeight] {
	hi, lo := bits.Mul64(satPerVByte, kwPerKVByte)
	if hi != 0 {
		return fn.None[SatPerKWeight]()
	}

	return fn.Some(SatPerKWeight(lo))
}

// FeeRateFromSatPerKWeight wraps a raw sat/kw value.
func FeeRateFromSatPerKWeight(satPerKWeight uint64) SatPerKWeight {
	return SatPerKWeight(satPerKWeight)
}

// FloorSatPerVByte returns the fee rate in sat/vB rounded down.
func (s SatPerKWeight) FloorSatPerVByte() uint64 {
	return uint64(s) / kwPerKVByte
}

// CeilSatPerVByte returns the fee rate in sat/vB rounded up.
func (s SatPerKWeight) CeilSatPerVByte() uint64 {
	floor := s.FloorSatPerVByte()
	if uint64(s)%kwPerKVByte != 0 {
		floor++
	}

	return floor
}

// FeeForWeight calculates the fee resulting from this fee rate and the given
// weight in weight units (wu). None is returned on overflow.
func (s SatPerKWeight) FeeForWeight(wu uint64) fn.Option[btcutil.Amount] {
	hi, lo := bits.Mul64(uint64(s), wu)
	if hi != 0 {
		return fn.None[btcutil.Amount]()
	}

	return fn.Some(btcutil.Amount(lo / 1000))
}

// String returns a human-readable string of the fee rate.
func (s SatPerKWeight) String() string {
	return fmt.Sprintf("%v sat/kw", uint64(s))
}
