package ffierr

import (
	"encoding/base64"
	"errors"

	"github.com/btcffi/btcffi/primitives"
)

const psbtParseErrorFamily = "PsbtParseError"

var psbtParseErrorNames = []string{
	"PsbtEncoding",
	"Base64Encoding",
}

// PsbtParseError is the failure of parsing a base64 psbt string. It has no
// catch-all: any failure that is not a base64 failure is a psbt structure
// failure.
type PsbtParseError interface {
	StableError

	isPsbtParseError()
}

type psbtParseError struct {
	noPayload
}

// Family returns the name of the family.
func (psbtParseError) Family() string { return psbtParseErrorFamily }

func (psbtParseError) variants() []string { return psbtParseErrorNames }

func (psbtParseError) isPsbtParseError() {}

// PsbtParseErrorPsbtEncoding is returned when the decoded bytes are not a
// valid psbt.
type PsbtParseErrorPsbtEncoding struct {
	psbtParseError

	ErrorMessage string
}

func (PsbtParseErrorPsbtEncoding) Code() uint32 { return 1 }

func (e PsbtParseErrorPsbtEncoding) Error() string {
	return "error in internal psbt data structure: " + e.ErrorMessage
}

func (e PsbtParseErrorPsbtEncoding) payload() payload {
	return textPayload(e.ErrorMessage)
}

// PsbtParseErrorBase64Encoding is returned when the string is not valid
// base64.
type PsbtParseErrorBase64Encoding struct {
	psbtParseError

	ErrorMessage string
}

func (PsbtParseErrorBase64Encoding) Code() uint32 { return 2 }

func (e PsbtParseErrorBase64Encoding) Error() string {
	return "error in psbt base64 encoding: " + e.ErrorMessage
}

func (e PsbtParseErrorBase64Encoding) payload() payload {
	return textPayload(e.ErrorMessage)
}

// PsbtParseErrorVariants returns one value of every variant in code order.
func PsbtParseErrorVariants() []PsbtParseError {
	return []PsbtParseError{
		PsbtParseErrorPsbtEncoding{},
		PsbtParseErrorBase64Encoding{},
	}
}

// NewPsbtParseError maps an error raised while parsing a base64 psbt onto
// the family. A structure failure carries the display of its PsbtError
// variant.
func NewPsbtParseError(err error) PsbtParseError {
	var (
		stageBase64 *primitives.Base64Error
		corrupt     base64.CorruptInputError
	)

	switch {
	case errors.As(err, &stageBase64):
		return PsbtParseErrorBase64Encoding{
			ErrorMessage: errText(stageBase64.Err),
		}

	case errors.As(err, &corrupt):
		return PsbtParseErrorBase64Encoding{ErrorMessage: corrupt.Error()}
	}

	if err == nil {
		logCollapse(psbtParseErrorFamily, err)

		return PsbtParseErrorPsbtEncoding{}
	}

	return PsbtParseErrorPsbtEncoding{
		ErrorMessage: NewPsbtError(err).Error(),
	}
}

func liftPsbtParseError(code uint32, p payload) (PsbtParseError, error) {
	switch code {
	case 1:
		return PsbtParseErrorPsbtEncoding{ErrorMessage: p.text1}, nil
	case 2:
		return PsbtParseErrorBase64Encoding{ErrorMessage: p.text1}, nil
	}

	return nil, ErrUnknownVariant
}
