package ffierr

import (
	"errors"

	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const addressParseErrorFamily = "AddressParseError"

var addressParseErrorNames = []string{
	"Base58",
	"Bech32",
	"WitnessVersion",
	"WitnessProgram",
	"UnknownHrp",
	"LegacyAddressTooLong",
	"InvalidBase58PayloadLength",
	"InvalidLegacyPrefix",
	"NetworkValidation",
	"OtherAddressParseErr",
}

// AddressParseError is the closed set of failures of parsing an address
// string.
type AddressParseError interface {
	StableError

	isAddressParseError()
}

type addressParseError struct {
	noPayload
}

// Family returns the name of the family.
func (addressParseError) Family() string { return addressParseErrorFamily }

func (addressParseError) variants() []string { return addressParseErrorNames }

func (addressParseError) isAddressParseError() {}

// AddressParseErrorBase58 is returned when the base58check encoding of a
// legacy address is invalid.
type AddressParseErrorBase58 struct{ addressParseError }

func (AddressParseErrorBase58) Code() uint32 { return 1 }

func (AddressParseErrorBase58) Error() string {
	return "base58 address encoding error"
}

// AddressParseErrorBech32 is returned when the bech32 encoding of a segwit
// address is invalid.
type AddressParseErrorBech32 struct{ addressParseError }

func (AddressParseErrorBech32) Code() uint32 { return 2 }

func (AddressParseErrorBech32) Error() string {
	return "bech32 address encoding error"
}

// AddressParseErrorWitnessVersion is returned when the witness version of a
// segwit address is missing or out of range.
type AddressParseErrorWitnessVersion struct {
	addressParseError

	ErrorMessage string
}

func (AddressParseErrorWitnessVersion) Code() uint32 { return 3 }

func (e AddressParseErrorWitnessVersion) Error() string {
	return "witness version conversion/parsing error: " + e.ErrorMessage
}

func (e AddressParseErrorWitnessVersion) payload() payload {
	return textPayload(e.ErrorMessage)
}

// AddressParseErrorWitnessProgram is returned when the witness program of a
// segwit address has an invalid length.
type AddressParseErrorWitnessProgram struct {
	addressParseError

	ErrorMessage string
}

func (AddressParseErrorWitnessProgram) Code() uint32 { return 4 }

func (e AddressParseErrorWitnessProgram) Error() string {
	return "witness program error: " + e.ErrorMessage
}

func (e AddressParseErrorWitnessProgram) payload() payload {
	return textPayload(e.ErrorMessage)
}

// AddressParseErrorUnknownHrp is returned for a bech32 string whose prefix
// belongs to no known network.
type AddressParseErrorUnknownHrp struct{ addressParseError }

func (AddressParseErrorUnknownHrp) Code() uint32 { return 5 }

func (AddressParseErrorUnknownHrp) Error() string {
	return "tried to parse an unknown hrp"
}

// AddressParseErrorLegacyAddressTooLong is returned for a base58 string
// longer than any legacy address.
type AddressParseErrorLegacyAddressTooLong struct{ addressParseError }

func (AddressParseErrorLegacyAddressTooLong) Code() uint32 { return 6 }

func (AddressParseErrorLegacyAddressTooLong) Error() string {
	return "legacy address base58 string"
}

// AddressParseErrorInvalidBase58PayloadLength is returned when a decoded
// legacy address has the wrong length.
type AddressParseErrorInvalidBase58PayloadLength struct{ addressParseError }

func (AddressParseErrorInvalidBase58PayloadLength) Code() uint32 { return 7 }

func (AddressParseErrorInvalidBase58PayloadLength) Error() string {
	return "legacy address base58 data"
}

// AddressParseErrorInvalidLegacyPrefix is returned when the version byte of
// a legacy address belongs to no known network.
type AddressParseErrorInvalidLegacyPrefix struct{ addressParseError }

func (AddressParseErrorInvalidLegacyPrefix) Code() uint32 { return 8 }

func (AddressParseErrorInvalidLegacyPrefix) Error() string {
	return "segwit address bech32 string"
}

// AddressParseErrorNetworkValidation is returned when a valid address is not
// valid for the requested network.
type AddressParseErrorNetworkValidation struct{ addressParseError }

func (AddressParseErrorNetworkValidation) Code() uint32 { return 9 }

func (AddressParseErrorNetworkValidation) Error() string {
	return "validation error"
}

// AddressParseErrorOther is the catch-all of the family.
type AddressParseErrorOther struct{ addressParseError }

func (AddressParseErrorOther) Code() uint32 { return 10 }

func (AddressParseErrorOther) Error() string {
	return "other address parse error"
}

// AddressParseErrorVariants returns one value of every variant in code
// order.
func AddressParseErrorVariants() []AddressParseError {
	return []AddressParseError{
		AddressParseErrorBase58{},
		AddressParseErrorBech32{},
		AddressParseErrorWitnessVersion{},
		AddressParseErrorWitnessProgram{},
		AddressParseErrorUnknownHrp{},
		AddressParseErrorLegacyAddressTooLong{},
		AddressParseErrorInvalidBase58PayloadLength{},
		AddressParseErrorInvalidLegacyPrefix{},
		AddressParseErrorNetworkValidation{},
		AddressParseErrorOther{},
	}
}

// isBech32Error reports whether err is one of the typed errors of the
// bech32 package.
func isBech32Error(err error) bool {
	var (
		mixedCase   bech32.ErrMixedCase
		checksum    bech32.ErrInvalidChecksum
		length      bech32.ErrInvalidLength
		character   bech32.ErrInvalidCharacter
		nonCharset  bech32.ErrNonCharsetChar
		stageBech32 *primitives.Bech32Error
	)

	return errors.As(err, &stageBech32) || errors.As(err, &mixedCase) ||
		errors.As(err, &checksum) || errors.As(err, &length) ||
		errors.As(err, &character) || errors.As(err, &nonCharset)
}

// isBase58Error reports whether err comes from base58check decoding.
func isBase58Error(err error) bool {
	var stageBase58 *primitives.Base58Error

	return errors.As(err, &stageBase58) ||
		errors.Is(err, base58.ErrChecksum) ||
		errors.Is(err, base58.ErrInvalidFormat) ||
		errors.Is(err, btcutil.ErrChecksumMismatch)
}

// NewAddressParseError maps an error raised while parsing an address onto
// the family.
func NewAddressParseError(err error) AddressParseError {
	var (
		witnessVer     *primitives.InvalidWitnessVersionError
		witnessProg    *primitives.InvalidWitnessProgramLengthError
		unsupportedVer btcutil.UnsupportedWitnessVerError
		unsupportedLen btcutil.UnsupportedWitnessProgLenError
		unknownHrp     *primitives.UnknownHrpError
		tooLong        *primitives.LegacyAddressTooLongError
		payloadLen     *primitives.InvalidBase58PayloadLengthError
		network        *primitives.NetworkValidationError
	)

	switch {
	case err == nil:

	case isBase58Error(err):
		return AddressParseErrorBase58{}

	case isBech32Error(err):
		return AddressParseErrorBech32{}

	case errors.As(err, &witnessVer):
		return AddressParseErrorWitnessVersion{
			ErrorMessage: witnessVer.Error(),
		}

	case errors.As(err, &unsupportedVer):
		return AddressParseErrorWitnessVersion{
			ErrorMessage: unsupportedVer.Error(),
		}

	case errors.As(err, &witnessProg):
		return AddressParseErrorWitnessProgram{
			ErrorMessage: witnessProg.Error(),
		}

	case errors.As(err, &unsupportedLen):
		return AddressParseErrorWitnessProgram{
			ErrorMessage: unsupportedLen.Error(),
		}

	case errors.As(err, &unknownHrp):
		return AddressParseErrorUnknownHrp{}

	case errors.As(err, &tooLong):
		return AddressParseErrorLegacyAddressTooLong{}

	case errors.As(err, &payloadLen):
		return AddressParseErrorInvalidBase58PayloadLength{}

	case errors.Is(err, btcutil.ErrUnknownAddressType):
		return AddressParseErrorInvalidLegacyPrefix{}

	case errors.As(err, &network):
		return AddressParseErrorNetworkValidation{}
	}

	logCollapse(addressParseErrorFamily, err)

	return AddressParseErrorOther{}
}

func liftAddressParseError(code uint32, p payload) (AddressParseError, error) {
	switch code {
	case 1:
		return AddressParseErrorBase58{}, nil
	case 2:
		return AddressParseErrorBech32{}, nil
	case 3:
		return AddressParseErrorWitnessVersion{ErrorMessage: p.text1}, nil
	case 4:
		return AddressParseErrorWitnessProgram{ErrorMessage: p.text1}, nil
	case 5:
		return AddressParseErrorUnknownHrp{}, nil
	case 6:
		return AddressParseErrorLegacyAddressTooLong{}, nil
	case 7:
		return AddressParseErrorInvalidBase58PayloadLength{}, nil
	case 8:
		return AddressParseErrorInvalidLegacyPrefix{}, nil
	case 9:
		return AddressParseErrorNetworkValidation{}, nil
	}

	return AddressParseErrorOther{}, nil
}
