package ffierr

import (
	"errors"
	"testing"

	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/stretchr/testify/require"
)

// TestNewExtractTxError checks the mapping of every extraction error.
func TestNewExtractTxError(t *testing.T) {
	t.Parallel()

	cases := []mapperCase{{
		name: "absurd fee rate",
		err: &primitives.AbsurdFeeRateError{
			FeeRate: 30_000_000,
			Max:     primitives.DefaultMaxFeeRate,
		},
		expected: ExtractTxErrorAbsurdFeeRate{
			FeeRate: "30000000 sat/kw",
		},
	}, {
		name:     "missing input value",
		err:      &primitives.MissingInputValueError{Index: 0},
		expected: ExtractTxErrorMissingInputValue{},
	}, {
		name: "sending too much",
		err: &primitives.SendingTooMuchError{
			Inputs: 1000, Outputs: 2000,
		},
		expected: ExtractTxErrorSendingTooMuch{},
	}, {
		name:     "incomplete",
		err:      psbt.ErrIncompletePSBT,
		expected: ExtractTxErrorOther{},
	}, {
		name:     "unknown",
		err:      errors.New("unknown"),
		expected: ExtractTxErrorOther{},
	}}

	runMapperCases(t, func(err error) StableError {
		return NewExtractTxError(err)
	}, cases)

	require.Equal(
		t, "an absurdly high fee rate of 30000000 sat/kw",
		NewExtractTxError(cases[0].err).Error(),
	)
}
