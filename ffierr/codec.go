package ffierr

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/tlv"
)

const (
	// codeType is the record holding the variant code.
	codeType tlv.Type = 0

	// text1Type is the record holding the first text field.
	text1Type tlv.Type = 1

	// text2Type is the record holding the second text field.
	text2Type tlv.Type = 3

	// numType is the record holding the numeric field.
	numType tlv.Type = 5
)

var (
	// ErrMissingCode is returned when a lowered buffer has no variant code.
	ErrMissingCode = errors.New("lowered error is missing its variant code")

	// ErrNilError is returned when lowering a nil error.
	ErrNilError = errors.New("cannot lower a nil error")

	// ErrPayloadTooLarge is returned when a text field does not fit in a
	// single record.
	ErrPayloadTooLarge = fmt.Errorf("lowered error payload: %w",
		tlv.ErrRecordTooLarge)
)

// Lower serializes a variant of any family into a tlv stream.
func Lower(err StableError) ([]byte, error) {
	if err == nil {
		return nil, ErrNilError
	}

	var (
		code  = err.Code()
		p     = err.payload()
		text1 = []byte(p.text1)
		text2 = []byte(p.text2)
	)

	// Lift rejects records above MaxRecordSize, so refuse to write them.
	if len(text1) > tlv.MaxRecordSize || len(text2) > tlv.MaxRecordSize {
		return nil, ErrPayloadTooLarge
	}

	records := []tlv.Record{tlv.MakePrimitiveRecord(codeType, &code)}
	if len(text1) != 0 {
		records = append(
			records, tlv.MakePrimitiveRecord(text1Type, &text1),
		)
	}
	if len(text2) != 0 {
		records = append(
			records, tlv.MakePrimitiveRecord(text2Type, &text2),
		)
	}
	p.num.WhenSome(func(num uint64) {
		records = append(records, tlv.MakePrimitiveRecord(numType, &num))
	})

	stream, streamErr := tlv.NewStream(records...)
	if streamErr != nil {
		return nil, streamErr
	}

	var b bytes.Buffer
	if encErr := stream.Encode(&b); encErr != nil {
		return nil, encErr
	}

	return b.Bytes(), nil
}

// decodeLowered parses the records written by Lower. Unknown odd records
// are skipped. Records longer than tlv.MaxRecordSize are rejected before
// anything is allocated for them.
func decodeLowered(b []byte) (uint32, payload, error) {
	var (
		code         uint32
		text1, text2 []byte
		num          uint64
	)

	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(codeType, &code),
		tlv.MakePrimitiveRecord(text1Type, &text1),
		tlv.MakePrimitiveRecord(text2Type, &text2),
		tlv.MakePrimitiveRecord(numType, &num),
	)
	if err != nil {
		return 0, payload{}, err
	}

	parsed, err := stream.DecodeWithParsedTypesP2P(bytes.NewReader(b))
	if err != nil {
		return 0, payload{}, fmt.Errorf("unable to decode lowered "+
			"error: %w", err)
	}

	if _, ok := parsed[codeType]; !ok {
		return 0, payload{}, ErrMissingCode
	}

	p := payload{
		text1: string(text1),
		text2: string(text2),
	}
	if _, ok := parsed[numType]; ok {
		p.num = fn.Some(num)
	}

	return code, p, nil
}

// lift decodes b and builds the variant of a family with liftVariant.
func lift[F StableError](b []byte,
	liftVariant func(uint32, payload) (F, error)) (F, error) {

	var zero F

	code, p, err := decodeLowered(b)
	if err != nil {
		return zero, err
	}

	variant, err := liftVariant(code, p)
	if err != nil {
		return zero, fmt.Errorf("code %d: %w", code, err)
	}

	if variant.Code() != code {
		log.Debugf("Lifted unknown %s code %d as %s",
			variant.Family(), code, VariantName(variant))
	}

	return variant, nil
}

// LiftAddressParseError reverses Lower for an AddressParseError.
func LiftAddressParseError(b []byte) (AddressParseError, error) {
	return lift(b, liftAddressParseError)
}

// LiftParseAmountError reverses Lower for a ParseAmountError.
func LiftParseAmountError(b []byte) (ParseAmountError, error) {
	return lift(b, liftParseAmountError)
}

// LiftFromScriptError reverses Lower for a FromScriptError.
func LiftFromScriptError(b []byte) (FromScriptError, error) {
	return lift(b, liftFromScriptError)
}

// LiftFeeRateError reverses Lower for a FeeRateError. A code the family
// does not define returns ErrUnknownVariant.
func LiftFeeRateError(b []byte) (FeeRateError, error) {
	return lift(b, liftFeeRateError)
}

// LiftEncodeError reverses Lower for an EncodeError.
func LiftEncodeError(b []byte) (EncodeError, error) {
	return lift(b, liftEncodeError)
}

// LiftPsbtError reverses Lower for a PsbtError.
func LiftPsbtError(b []byte) (PsbtError, error) {
	return lift(b, liftPsbtError)
}

// LiftPsbtParseError reverses Lower for a PsbtParseError. A code the family
// does not define returns ErrUnknownVariant.
func LiftPsbtParseError(b []byte) (PsbtParseError, error) {
	return lift(b, liftPsbtParseError)
}

// LiftExtractTxError reverses Lower for an ExtractTxError.
func LiftExtractTxError(b []byte) (ExtractTxError, error) {
	return lift(b, liftExtractTxError)
}
