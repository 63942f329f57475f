package ffierr

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const encodeErrorFamily = "EncodeError"

var encodeErrorNames = []string{
	"Io",
	"OversizedVectorAllocation",
	"InvalidChecksum",
	"NonMinimalVarInt",
	"ParseFailed",
	"UnsupportedSegwitFlag",
	"OtherEncodeErr",
}

// EncodeError is the closed set of failures of consensus decoding.
type EncodeError interface {
	StableError

	isEncodeError()
}

type encodeError struct {
	noPayload
}

// Family returns the name of the family.
func (encodeError) Family() string { return encodeErrorFamily }

func (encodeError) variants() []string { return encodeErrorNames }

func (encodeError) isEncodeError() {}

// EncodeErrorIo is returned when the input ends early.
type EncodeErrorIo struct{ encodeError }

func (EncodeErrorIo) Code() uint32 { return 1 }

func (EncodeErrorIo) Error() string {
	return "io error"
}

// EncodeErrorOversizedVectorAllocation is returned when a length prefix
// exceeds what the decoder will allocate.
type EncodeErrorOversizedVectorAllocation struct{ encodeError }

func (EncodeErrorOversizedVectorAllocation) Code() uint32 { return 2 }

func (EncodeErrorOversizedVectorAllocation) Error() string {
	return "allocation of oversized vector"
}

// EncodeErrorInvalidChecksum carries the expected and actual checksums as
// lowercase hex.
type EncodeErrorInvalidChecksum struct {
	encodeError

	Expected string
	Actual   string
}

func (EncodeErrorInvalidChecksum) Code() uint32 { return 3 }

func (e EncodeErrorInvalidChecksum) Error() string {
	return fmt.Sprintf("invalid checksum: expected=%s actual=%s",
		e.Expected, e.Actual)
}

func (e EncodeErrorInvalidChecksum) payload() payload {
	return payload{text1: e.Expected, text2: e.Actual}
}

// EncodeErrorNonMinimalVarInt is returned for a varint that is not minimally
// encoded.
type EncodeErrorNonMinimalVarInt struct{ encodeError }

func (EncodeErrorNonMinimalVarInt) Code() uint32 { return 4 }

func (EncodeErrorNonMinimalVarInt) Error() string {
	return "non-minimal var int"
}

// EncodeErrorParseFailed is returned for structurally invalid input.
type EncodeErrorParseFailed struct {
	encodeError

	ErrorMessage string
}

func (EncodeErrorParseFailed) Code() uint32 { return 5 }

func (e EncodeErrorParseFailed) Error() string {
	return "parse failed: " + e.ErrorMessage
}

func (e EncodeErrorParseFailed) payload() payload {
	return textPayload(e.ErrorMessage)
}

// EncodeErrorUnsupportedSegwitFlag carries the flag byte of a segwit
// transaction that is not 0x01.
type EncodeErrorUnsupportedSegwitFlag struct {
	encodeError

	Flag uint8
}

func (EncodeErrorUnsupportedSegwitFlag) Code() uint32 { return 6 }

func (e EncodeErrorUnsupportedSegwitFlag) Error() string {
	return fmt.Sprintf("unsupported segwit version: %d", e.Flag)
}

func (e EncodeErrorUnsupportedSegwitFlag) payload() payload {
	return payload{num: fn.Some(uint64(e.Flag))}
}

// EncodeErrorOther is the catch-all of the family.
type EncodeErrorOther struct{ encodeError }

func (EncodeErrorOther) Code() uint32 { return 7 }

func (EncodeErrorOther) Error() string {
	return "other encoding error"
}

// EncodeErrorVariants returns one value of every variant in code order.
func EncodeErrorVariants() []EncodeError {
	return []EncodeError{
		EncodeErrorIo{},
		EncodeErrorOversizedVectorAllocation{},
		EncodeErrorInvalidChecksum{},
		EncodeErrorNonMinimalVarInt{},
		EncodeErrorParseFailed{},
		EncodeErrorUnsupportedSegwitFlag{},
		EncodeErrorOther{},
	}
}

const (
	// checksumDescFormat matches the description wire uses when the header
	// checksum does not commit to the payload.
	checksumDescFormat = "payload checksum failed - header indicates " +
		"[%d %d %d %d], but actual checksum is [%d %d %d %d]."

	// segwitFlagDescFormat matches the description wire uses for a segwit
	// marker followed by an unknown flag.
	segwitFlagDescFormat = "witness tx but flag byte is %x"
)

// oversizedMarkers are the fragments wire uses in descriptions of length
// prefixes that exceed an allocation guard.
var oversizedMarkers = []string{
	"[count ",
	"larger than the max",
	"too many",
	"too large",
	"exceeds max",
}

// parseChecksumDesc recovers the two checksums from a wire checksum
// description.
func parseChecksumDesc(desc string) (EncodeErrorInvalidChecksum, bool) {
	var expected, actual [4]byte
	_, err := fmt.Sscanf(
		desc, checksumDescFormat,
		&expected[0], &expected[1], &expected[2], &expected[3],
		&actual[0], &actual[1], &actual[2], &actual[3],
	)
	if err != nil {
		return EncodeErrorInvalidChecksum{}, false
	}

	return EncodeErrorInvalidChecksum{
		Expected: hex.EncodeToString(expected[:]),
		Actual:   hex.EncodeToString(actual[:]),
	}, true
}

// classifyMessageError maps a wire decoding failure by its description.
func classifyMessageError(msgErr *wire.MessageError) EncodeError {
	desc := msgErr.Description

	if strings.HasPrefix(desc, "payload checksum failed") {
		if checksum, ok := parseChecksumDesc(desc); ok {
			return checksum
		}
	}

	if strings.Contains(desc, "non-canonical varint") {
		return EncodeErrorNonMinimalVarInt{}
	}

	if strings.HasPrefix(desc, "witness tx but flag byte is") {
		var flag uint8
		_, err := fmt.Sscanf(desc, segwitFlagDescFormat, &flag)
		if err == nil {
			return EncodeErrorUnsupportedSegwitFlag{Flag: flag}
		}
	}

	for _, marker := range oversizedMarkers {
		if strings.Contains(desc, marker) {
			return EncodeErrorOversizedVectorAllocation{}
		}
	}

	return EncodeErrorParseFailed{ErrorMessage: desc}
}

// NewEncodeError maps an error raised while consensus decoding onto the
// family.
func NewEncodeError(err error) EncodeError {
	var (
		checksum  *primitives.ChecksumMismatchError
		oversized *primitives.OversizedAllocationError
		msgErr    *wire.MessageError
	)

	switch {
	case err == nil:

	case errors.As(err, &checksum):
		return EncodeErrorInvalidChecksum{
			Expected: hex.EncodeToString(checksum.Expected[:]),
			Actual:   hex.EncodeToString(checksum.Actual[:]),
		}

	case errors.As(err, &oversized):
		return EncodeErrorOversizedVectorAllocation{}

	case errors.Is(err, primitives.ErrDataNotConsumed):
		return EncodeErrorParseFailed{
			ErrorMessage: primitives.ErrDataNotConsumed.Error(),
		}

	case errors.As(err, &msgErr):
		return classifyMessageError(msgErr)

	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return EncodeErrorIo{}
	}

	logCollapse(encodeErrorFamily, err)

	return EncodeErrorOther{}
}

func liftEncodeError(code uint32, p payload) (EncodeError, error) {
	switch code {
	case 1:
		return EncodeErrorIo{}, nil
	case 2:
		return EncodeErrorOversizedVectorAllocation{}, nil
	case 3:
		return EncodeErrorInvalidChecksum{
			Expected: p.text1,
			Actual:   p.text2,
		}, nil
	case 4:
		return EncodeErrorNonMinimalVarInt{}, nil
	case 5:
		return EncodeErrorParseFailed{ErrorMessage: p.text1}, nil
	case 6:
		return EncodeErrorUnsupportedSegwitFlag{
			Flag: uint8(p.num.UnwrapOr(0)),
		}, nil
	}

	return EncodeErrorOther{}, nil
}
