package ffierr

import (
	"errors"

	"github.com/btcffi/btcffi/primitives"
)

const extractTxErrorFamily = "ExtractTxError"

var extractTxErrorNames = []string{
	"AbsurdFeeRate",
	"MissingInputValue",
	"SendingTooMuch",
	"OtherExtractTxErr",
}

// ExtractTxError is the closed set of failures of extracting the final
// transaction from a psbt.
type ExtractTxError interface {
	StableError

	isExtractTxError()
}

type extractTxError struct {
	noPayload
}

// Family returns the name of the family.
func (extractTxError) Family() string { return extractTxErrorFamily }

func (extractTxError) variants() []string { return extractTxErrorNames }

func (extractTxError) isExtractTxError() {}

// ExtractTxErrorAbsurdFeeRate carries the display of the fee rate the
// transaction would pay.
type ExtractTxErrorAbsurdFeeRate struct {
	extractTxError

	FeeRate string
}

func (ExtractTxErrorAbsurdFeeRate) Code() uint32 { return 1 }

func (e ExtractTxErrorAbsurdFeeRate) Error() string {
	return "an absurdly high fee rate of " + e.FeeRate
}

func (e ExtractTxErrorAbsurdFeeRate) payload() payload {
	return textPayload(e.FeeRate)
}

// ExtractTxErrorMissingInputValue is returned when an input has no utxo to
// take its value from.
type ExtractTxErrorMissingInputValue struct{ extractTxError }

func (ExtractTxErrorMissingInputValue) Code() uint32 { return 2 }

func (ExtractTxErrorMissingInputValue) Error() string {
	return "one of the inputs lacked value information (witness_utxo or " +
		"non_witness_utxo)"
}

// ExtractTxErrorSendingTooMuch is returned when the outputs spend more than
// the inputs.
type ExtractTxErrorSendingTooMuch struct{ extractTxError }

func (ExtractTxErrorSendingTooMuch) Code() uint32 { return 3 }

func (ExtractTxErrorSendingTooMuch) Error() string {
	return "transaction would be invalid due to output value being " +
		"greater than input value."
}

// ExtractTxErrorOther is the catch-all of the family.
type ExtractTxErrorOther struct{ extractTxError }

func (ExtractTxErrorOther) Code() uint32 { return 4 }

func (ExtractTxErrorOther) Error() string {
	return "other extract tx error"
}

// ExtractTxErrorVariants returns one value of every variant in code order.
func ExtractTxErrorVariants() []ExtractTxError {
	return []ExtractTxError{
		ExtractTxErrorAbsurdFeeRate{},
		ExtractTxErrorMissingInputValue{},
		ExtractTxErrorSendingTooMuch{},
		ExtractTxErrorOther{},
	}
}

// NewExtractTxError maps an error raised while extracting a transaction
// onto the family.
func NewExtractTxError(err error) ExtractTxError {
	var (
		absurd       *primitives.AbsurdFeeRateError
		missingValue *primitives.MissingInputValueError
		tooMuch      *primitives.SendingTooMuchError
	)

	switch {
	case err == nil:

	case errors.As(err, &absurd):
		return ExtractTxErrorAbsurdFeeRate{FeeRate: absurd.FeeRate.String()}

	case errors.As(err, &missingValue):
		return ExtractTxErrorMissingInputValue{}

	case errors.As(err, &tooMuch):
		return ExtractTxErrorSendingTooMuch{}
	}

	logCollapse(extractTxErrorFamily, err)

	return ExtractTxErrorOther{}
}

func liftExtractTxError(code uint32, p payload) (ExtractTxError, error) {
	switch code {
	case 1:
		return ExtractTxErrorAbsurdFeeRate{FeeRate: p.text1}, nil
	case 2:
		return ExtractTxErrorMissingInputValue{}, nil
	case 3:
		return ExtractTxErrorSendingTooMuch{}, nil
	}

	return ExtractTxErrorOther{}, nil
}
