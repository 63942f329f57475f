package ffierr

import (
	"errors"

	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil"
)

const fromScriptErrorFamily = "FromScriptError"

var fromScriptErrorNames = []string{
	"UnrecognizedScript",
	"WitnessProgram",
	"WitnessVersion",
	"OtherFromScriptErr",
}

// FromScriptError is the closed set of failures of deriving an address from
// an output script.
type FromScriptError interface {
	StableError

	isFromScriptError()
}

type fromScriptError struct {
	noPayload
}

// Family returns the name of the family.
func (fromScriptError) Family() string { return fromScriptErrorFamily }

func (fromScriptError) variants() []string { return fromScriptErrorNames }

func (fromScriptError) isFromScriptError() {}

// FromScriptErrorUnrecognizedScript is returned for a script that matches no
// address template.
type FromScriptErrorUnrecognizedScript struct{ fromScriptError }

func (FromScriptErrorUnrecognizedScript) Code() uint32 { return 1 }

func (FromScriptErrorUnrecognizedScript) Error() string {
	return "script is not a p2pkh, p2sh or witness program"
}

// FromScriptErrorWitnessProgram is returned for a witness program of a
// length its version does not allow.
type FromScriptErrorWitnessProgram struct {
	fromScriptError

	ErrorMessage string
}

func (FromScriptErrorWitnessProgram) Code() uint32 { return 2 }

func (e FromScriptErrorWitnessProgram) Error() string {
	return "witness program error: " + e.ErrorMessage
}

func (e FromScriptErrorWitnessProgram) payload() payload {
	return textPayload(e.ErrorMessage)
}

// FromScriptErrorWitnessVersion is returned for a witness program of a
// version no address encodes.
type FromScriptErrorWitnessVersion struct {
	fromScriptError

	ErrorMessage string
}

func (FromScriptErrorWitnessVersion) Code() uint32 { return 3 }

func (e FromScriptErrorWitnessVersion) Error() string {
	return "witness version construction error: " + e.ErrorMessage
}

func (e FromScriptErrorWitnessVersion) payload() payload {
	return textPayload(e.ErrorMessage)
}

// FromScriptErrorOther is the catch-all of the family.
type FromScriptErrorOther struct{ fromScriptError }

func (FromScriptErrorOther) Code() uint32 { return 4 }

func (FromScriptErrorOther) Error() string {
	return "other from script error"
}

// FromScriptErrorVariants returns one value of every variant in code order.
func FromScriptErrorVariants() []FromScriptError {
	return []FromScriptError{
		FromScriptErrorUnrecognizedScript{},
		FromScriptErrorWitnessProgram{},
		FromScriptErrorWitnessVersion{},
		FromScriptErrorOther{},
	}
}

// NewFromScriptError maps an error raised while deriving an address from a
// script onto the family.
func NewFromScriptError(err error) FromScriptError {
	var (
		progLen     btcutil.UnsupportedWitnessProgLenError
		version     btcutil.UnsupportedWitnessVerError
		stageLen    *primitives.InvalidWitnessProgramLengthError
		stageVerErr *primitives.InvalidWitnessVersionError
	)

	switch {
	case err == nil:

	case errors.Is(err, primitives.ErrUnrecognizedScript):
		return FromScriptErrorUnrecognizedScript{}

	case errors.As(err, &progLen):
		return FromScriptErrorWitnessProgram{ErrorMessage: progLen.Error()}

	case errors.As(err, &stageLen):
		return FromScriptErrorWitnessProgram{
			ErrorMessage: stageLen.Error(),
		}

	case errors.As(err, &version):
		return FromScriptErrorWitnessVersion{ErrorMessage: version.Error()}

	case errors.As(err, &stageVerErr):
		return FromScriptErrorWitnessVersion{
			ErrorMessage: stageVerErr.Error(),
		}
	}

	logCollapse(fromScriptErrorFamily, err)

	return FromScriptErrorOther{}
}

func liftFromScriptError(code uint32, p payload) (FromScriptError, error) {
	switch code {
	case 1:
		return FromScriptErrorUnrecognizedScript{}, nil
	case 2:
		return FromScriptErrorWitnessProgram{ErrorMessage: p.text1}, nil
	case 3:
		return FromScriptErrorWitnessVersion{ErrorMessage: p.text1}, nil
	}

	return FromScriptErrorOther{}, nil
}
