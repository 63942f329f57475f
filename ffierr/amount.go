package ffierr

import (
	"errors"

	"github.com/btcffi/btcffi/primitives"
)

const parseAmountErrorFamily = "ParseAmountError"

var parseAmountErrorNames = []string{
	"OutOfRange",
	"TooPrecise",
	"MissingDigits",
	"InputTooLarge",
	"InvalidCharacter",
	"OtherParseAmountErr",
}

// ParseAmountError is the closed set of failures of parsing a decimal
// amount.
type ParseAmountError interface {
	StableError

	isParseAmountError()
}

type parseAmountError struct {
	noPayload
}

// Family returns the name of the family.
func (parseAmountError) Family() string { return parseAmountErrorFamily }

func (parseAmountError) variants() []string { return parseAmountErrorNames }

func (parseAmountError) isParseAmountError() {}

// ParseAmountErrorOutOfRange is returned for an amount that is negative or
// larger than the supply cap.
type ParseAmountErrorOutOfRange struct{ parseAmountError }

func (ParseAmountErrorOutOfRange) Code() uint32 { return 1 }

func (ParseAmountErrorOutOfRange) Error() string {
	return "amount out of range"
}

// ParseAmountErrorTooPrecise is returned for an amount with digits below one
// satoshi.
type ParseAmountErrorTooPrecise struct{ parseAmountError }

func (ParseAmountErrorTooPrecise) Code() uint32 { return 2 }

func (ParseAmountErrorTooPrecise) Error() string {
	return "amount has a too high precision"
}

// ParseAmountErrorMissingDigits is returned when the amount has no digits.
type ParseAmountErrorMissingDigits struct{ parseAmountError }

func (ParseAmountErrorMissingDigits) Code() uint32 { return 3 }

func (ParseAmountErrorMissingDigits) Error() string {
	return "the input has too few digits"
}

// ParseAmountErrorInputTooLarge is returned when the amount text is too long
// to parse.
type ParseAmountErrorInputTooLarge struct{ parseAmountError }

func (ParseAmountErrorInputTooLarge) Code() uint32 { return 4 }

func (ParseAmountErrorInputTooLarge) Error() string {
	return "the input is too large"
}

// ParseAmountErrorInvalidCharacter carries the offending character.
type ParseAmountErrorInvalidCharacter struct {
	parseAmountError

	ErrorMessage string
}

func (ParseAmountErrorInvalidCharacter) Code() uint32 { return 5 }

func (e ParseAmountErrorInvalidCharacter) Error() string {
	return "invalid character: " + e.ErrorMessage
}

func (e ParseAmountErrorInvalidCharacter) payload() payload {
	return textPayload(e.ErrorMessage)
}

// ParseAmountErrorOther is the catch-all of the family.
type ParseAmountErrorOther struct{ parseAmountError }

func (ParseAmountErrorOther) Code() uint32 { return 6 }

func (ParseAmountErrorOther) Error() string {
	return "unknown parse amount error"
}

// ParseAmountErrorVariants returns one value of every variant in code order.
func ParseAmountErrorVariants() []ParseAmountError {
	return []ParseAmountError{
		ParseAmountErrorOutOfRange{},
		ParseAmountErrorTooPrecise{},
		ParseAmountErrorMissingDigits{},
		ParseAmountErrorInputTooLarge{},
		ParseAmountErrorInvalidCharacter{},
		ParseAmountErrorOther{},
	}
}

// NewParseAmountError maps an error raised while parsing an amount onto the
// family.
func NewParseAmountError(err error) ParseAmountError {
	var invalidChar *primitives.InvalidCharacterError

	switch {
	case err == nil:

	case errors.Is(err, primitives.ErrAmountOutOfRange):
		return ParseAmountErrorOutOfRange{}

	case errors.Is(err, primitives.ErrAmountTooPrecise):
		return ParseAmountErrorTooPrecise{}

	case errors.Is(err, primitives.ErrAmountMissingDigits):
		return ParseAmountErrorMissingDigits{}

	case errors.Is(err, primitives.ErrAmountInputTooLarge):
		return ParseAmountErrorInputTooLarge{}

	case errors.As(err, &invalidChar):
		return ParseAmountErrorInvalidCharacter{
			ErrorMessage: string(invalidChar.Char),
		}
	}

	logCollapse(parseAmountErrorFamily, err)

	return ParseAmountErrorOther{}
}

func liftParseAmountError(code uint32, p payload) (ParseAmountError, error) {
	switch code {
	case 1:
		return ParseAmountErrorOutOfRange{}, nil
	case 2:
		return ParseAmountErrorTooPrecise{}, nil
	case 3:
		return ParseAmountErrorMissingDigits{}, nil
	case 4:
		return ParseAmountErrorInputTooLarge{}, nil
	case 5:
		return ParseAmountErrorInvalidCharacter{ErrorMessage: p.text1}, nil
	}

	return ParseAmountErrorOther{}, nil
}
