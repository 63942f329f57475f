package ffierr

import (
	"github.com/lightningnetwork/lnd/fn/v2"
)

const feeRateErrorFamily = "FeeRateError"

var feeRateErrorNames = []string{
	"ArithmeticOverflow",
}

// FeeRateError is the failure of a fee rate computation. Its only source is
// an absent result, so the family has no catch-all.
type FeeRateError interface {
	StableError

	isFeeRateError()
}

type feeRateError struct {
	noPayload
}

// Family returns the name of the family.
func (feeRateError) Family() string { return feeRateErrorFamily }

func (feeRateError) variants() []string { return feeRateErrorNames }

func (feeRateError) isFeeRateError() {}

// FeeRateErrorArithmeticOverflow is returned when a fee rate conversion
// overflows.
type FeeRateErrorArithmeticOverflow struct{ feeRateError }

func (FeeRateErrorArithmeticOverflow) Code() uint32 { return 1 }

func (FeeRateErrorArithmeticOverflow) Error() string {
	return "arithmetic overflow on feerate"
}

// FeeRateErrorVariants returns one value of every variant in code order.
func FeeRateErrorVariants() []FeeRateError {
	return []FeeRateError{
		FeeRateErrorArithmeticOverflow{},
	}
}

// NewFeeRateError maps any failure of a fee rate computation onto the
// family. Every input, nil included, is an overflow.
func NewFeeRateError(err error) FeeRateError {
	if err != nil {
		log.Tracef("Fee rate failure mapped to overflow: %v", err)
	}

	return FeeRateErrorArithmeticOverflow{}
}

// FeeRateFromOption unwraps the result of a checked fee rate computation. An
// absent value is an overflow.
func FeeRateFromOption[A any](o fn.Option[A]) (A, FeeRateError) {
	var zero A
	if o.IsNone() {
		return zero, FeeRateErrorArithmeticOverflow{}
	}

	return o.UnwrapOr(zero), nil
}

func liftFeeRateError(code uint32, _ payload) (FeeRateError, error) {
	if code == 1 {
		return FeeRateErrorArithmeticOverflow{}, nil
	}

	return nil, ErrUnknownVariant
}
