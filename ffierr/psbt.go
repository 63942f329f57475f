package ffierr

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const psbtErrorFamily = "PsbtError"

var psbtErrorNames = []string{
	"InvalidMagic",
	"MissingUtxo",
	"InvalidSeparator",
	"PsbtUtxoOutOfBounds",
	"InvalidKey",
	"InvalidProprietaryKey",
	"DuplicateKey",
	"UnsignedTxHasScriptSigs",
	"UnsignedTxHasScriptWitnesses",
	"MustHaveUnsignedTx",
	"NoMorePairs",
	"UnexpectedUnsignedTx",
	"NonStandardSighashType",
	"InvalidHash",
	"InvalidPreimageHashPair",
	"CombineInconsistentKeySources",
	"ConsensusEncoding",
	"NegativeFee",
	"FeeOverflow",
	"InvalidPublicKey",
	"InvalidSecp256k1PublicKey",
	"InvalidXOnlyPublicKey",
	"InvalidEcdsaSignature",
	"InvalidTaprootSignature",
	"InvalidControlBlock",
	"InvalidLeafVersion",
	"Taproot",
	"TapTree",
	"XPubKey",
	"Version",
	"PartialDataConsumption",
	"Io",
	"OtherPsbtErr",
}

// PsbtError is the closed set of failures of working with a partially
// signed transaction.
type PsbtError interface {
	StableError

	isPsbtError()
}

type psbtError struct {
	noPayload
}

// Family returns the name of the family.
func (psbtError) Family() string { return psbtErrorFamily }

func (psbtError) variants() []string { return psbtErrorNames }

func (psbtError) isPsbtError() {}

// PsbtErrorInvalidMagic is returned when the input does not start with the
// psbt magic bytes.
type PsbtErrorInvalidMagic struct{ psbtError }

func (PsbtErrorInvalidMagic) Code() uint32 { return 1 }

func (PsbtErrorInvalidMagic) Error() string {
	return "invalid magic"
}

// PsbtErrorMissingUtxo is returned when an input carries no utxo.
type PsbtErrorMissingUtxo struct{ psbtError }

func (PsbtErrorMissingUtxo) Code() uint32 { return 2 }

func (PsbtErrorMissingUtxo) Error() string {
	return "UTXO information is not present in PSBT"
}

// PsbtErrorInvalidSeparator is returned when the magic bytes are not
// followed by the separator.
type PsbtErrorInvalidSeparator struct{ psbtError }

func (PsbtErrorInvalidSeparator) Code() uint32 { return 3 }

func (PsbtErrorInvalidSeparator) Error() string {
	return "invalid separator"
}

// PsbtErrorPsbtUtxoOutOfBounds is returned when an input spends an output
// its non-witness utxo does not have.
type PsbtErrorPsbtUtxoOutOfBounds struct{ psbtError }

func (PsbtErrorPsbtUtxoOutOfBounds) Code() uint32 { return 4 }

func (PsbtErrorPsbtUtxoOutOfBounds) Error() string {
	return "output index is out of bounds of non witness script output " +
		"array"
}

// PsbtErrorInvalidKey carries the rendering of the rejected key.
type PsbtErrorInvalidKey struct {
	psbtError

	Key string
}

func (PsbtErrorInvalidKey) Code() uint32 { return 5 }

func (e PsbtErrorInvalidKey) Error() string {
	return "invalid key: " + e.Key
}

func (e PsbtErrorInvalidKey) payload() payload {
	return textPayload(e.Key)
}

// PsbtErrorInvalidProprietaryKey is returned for a proprietary key without
// the proprietary prefix.
type PsbtErrorInvalidProprietaryKey struct{ psbtError }

func (PsbtErrorInvalidProprietaryKey) Code() uint32 { return 6 }

func (PsbtErrorInvalidProprietaryKey) Error() string {
	return "non-proprietary key type found when proprietary key was " +
		"expected"
}

// PsbtErrorDuplicateKey carries the rendering of the repeated key.
type PsbtErrorDuplicateKey struct {
	psbtError

	Key string
}

func (PsbtErrorDuplicateKey) Code() uint32 { return 7 }

func (e PsbtErrorDuplicateKey) Error() string {
	return "duplicate key: " + e.Key
}

func (e PsbtErrorDuplicateKey) payload() payload {
	return textPayload(e.Key)
}

// PsbtErrorUnsignedTxHasScriptSigs is returned when the unsigned transaction
// carries script sigs.
type PsbtErrorUnsignedTxHasScriptSigs struct{ psbtError }

func (PsbtErrorUnsignedTxHasScriptSigs) Code() uint32 { return 8 }

func (PsbtErrorUnsignedTxHasScriptSigs) Error() string {
	return "the unsigned transaction has script sigs"
}

// PsbtErrorUnsignedTxHasScriptWitnesses is returned when the unsigned
// transaction carries witnesses.
type PsbtErrorUnsignedTxHasScriptWitnesses struct{ psbtError }

func (PsbtErrorUnsignedTxHasScriptWitnesses) Code() uint32 { return 9 }

func (PsbtErrorUnsignedTxHasScriptWitnesses) Error() string {
	return "the unsigned transaction has script witnesses"
}

// PsbtErrorMustHaveUnsignedTx is returned when the global map has no
// unsigned transaction.
type PsbtErrorMustHaveUnsignedTx struct{ psbtError }

func (PsbtErrorMustHaveUnsignedTx) Code() uint32 { return 10 }

func (PsbtErrorMustHaveUnsignedTx) Error() string {
	return "partially signed transactions must have an unsigned " +
		"transaction"
}

// PsbtErrorNoMorePairs is returned when a map ends before its separator.
type PsbtErrorNoMorePairs struct{ psbtError }

func (PsbtErrorNoMorePairs) Code() uint32 { return 11 }

func (PsbtErrorNoMorePairs) Error() string {
	return "no more key-value pairs for this psbt map"
}

// PsbtErrorUnexpectedUnsignedTx is returned when combining psbts of
// different transactions.
type PsbtErrorUnexpectedUnsignedTx struct{ psbtError }

func (PsbtErrorUnexpectedUnsignedTx) Code() uint32 { return 12 }

func (PsbtErrorUnexpectedUnsignedTx) Error() string {
	return "different unsigned transaction"
}

// PsbtErrorNonStandardSighashType carries the rejected sighash value.
type PsbtErrorNonStandardSighashType struct {
	psbtError

	Sighash uint32
}

func (PsbtErrorNonStandardSighashType) Code() uint32 { return 13 }

func (e PsbtErrorNonStandardSighashType) Error() string {
	return fmt.Sprintf("non-standard sighash type: %d", e.Sighash)
}

func (e PsbtErrorNonStandardSighashType) payload() payload {
	return payload{num: fn.Some(uint64(e.Sighash))}
}

// PsbtErrorInvalidHash carries the hash that did not match its data.
type PsbtErrorInvalidHash struct {
	psbtError

	Hash string
}

func (PsbtErrorInvalidHash) Code() uint32 { return 14 }

func (e PsbtErrorInvalidHash) Error() string {
	return "invalid hash when parsing slice: " + e.Hash
}

func (e PsbtErrorInvalidHash) payload() payload {
	return textPayload(e.Hash)
}

// PsbtErrorInvalidPreimageHashPair is returned when a preimage does not hash
// to its key.
type PsbtErrorInvalidPreimageHashPair struct{ psbtError }

func (PsbtErrorInvalidPreimageHashPair) Code() uint32 { return 15 }

func (PsbtErrorInvalidPreimageHashPair) Error() string {
	return "preimage does not match"
}

// PsbtErrorCombineInconsistentKeySources carries the hex of the public key
// whose origins disagree.
type PsbtErrorCombineInconsistentKeySources struct {
	psbtError

	Xpub string
}

func (PsbtErrorCombineInconsistentKeySources) Code() uint32 { return 16 }

func (e PsbtErrorCombineInconsistentKeySources) Error() string {
	return "combine conflict: " + e.Xpub
}

func (e PsbtErrorCombineInconsistentKeySources) payload() payload {
	return textPayload(e.Xpub)
}

// PsbtErrorConsensusEncoding carries the display of a transaction decoding
// failure inside the psbt.
type PsbtErrorConsensusEncoding struct {
	psbtError

	EncodingError string
}

func (PsbtErrorConsensusEncoding) Code() uint32 { return 17 }

func (e PsbtErrorConsensusEncoding) Error() string {
	return "bitcoin consensus encoding error: " + e.EncodingError
}

func (e PsbtErrorConsensusEncoding) payload() payload {
	return textPayload(e.EncodingError)
}

// PsbtErrorNegativeFee is returned when the outputs are worth more than the
// inputs.
type PsbtErrorNegativeFee struct{ psbtError }

func (PsbtErrorNegativeFee) Code() uint32 { return 18 }

func (PsbtErrorNegativeFee) Error() string {
	return "PSBT has a negative fee which is not allowed"
}

// PsbtErrorFeeOverflow is returned when summing input or output values
// overflows.
type PsbtErrorFeeOverflow struct{ psbtError }

func (PsbtErrorFeeOverflow) Code() uint32 { return 19 }

func (PsbtErrorFeeOverflow) Error() string {
	return "integer overflow in fee calculation"
}

// PsbtErrorInvalidPublicKey carries the reason a public key was rejected.
type PsbtErrorInvalidPublicKey struct {
	psbtError

	ErrorMessage string
}

func (PsbtErrorInvalidPublicKey) Code() uint32 { return 20 }

func (e PsbtErrorInvalidPublicKey) Error() string {
	return "invalid public key " + e.ErrorMessage
}

func (e PsbtErrorInvalidPublicKey) payload() payload {
	return textPayload(e.ErrorMessage)
}

// PsbtErrorInvalidSecp256k1PublicKey carries the curve error of a public
// key.
type PsbtErrorInvalidSecp256k1PublicKey struct {
	psbtError

	Secp256k1Error string
}

func (PsbtErrorInvalidSecp256k1PublicKey) Code() uint32 { return 21 }

func (e PsbtErrorInvalidSecp256k1PublicKey) Error() string {
	return "invalid secp256k1 public key: " + e.Secp256k1Error
}

func (e PsbtErrorInvalidSecp256k1PublicKey) payload() payload {
	return textPayload(e.Secp256k1Error)
}

// PsbtErrorInvalidXOnlyPublicKey is returned for an x-only key that is not
// on the curve.
type PsbtErrorInvalidXOnlyPublicKey struct{ psbtError }

func (PsbtErrorInvalidXOnlyPublicKey) Code() uint32 { return 22 }

func (PsbtErrorInvalidXOnlyPublicKey) Error() string {
	return "invalid xonly public key"
}

// PsbtErrorInvalidEcdsaSignature carries the reason an ECDSA signature was
// rejected.
type PsbtErrorInvalidEcdsaSignature struct {
	psbtError

	ErrorMessage string
}

func (PsbtErrorInvalidEcdsaSignature) Code() uint32 { return 23 }

func (e PsbtErrorInvalidEcdsaSignature) Error() string {
	return "invalid ECDSA signature: " + e.ErrorMessage
}

func (e PsbtErrorInvalidEcdsaSignature) payload() payload {
	return textPayload(e.ErrorMessage)
}

// PsbtErrorInvalidTaprootSignature carries the reason a schnorr signature
// was rejected.
type PsbtErrorInvalidTaprootSignature struct {
	psbtError

	ErrorMessage string
}

func (PsbtErrorInvalidTaprootSignature) Code() uint32 { return 24 }

func (e PsbtErrorInvalidTaprootSignature) Error() string {
	return "invalid taproot signature: " + e.ErrorMessage
}

func (e PsbtErrorInvalidTaprootSignature) payload() payload {
	return textPayload(e.ErrorMessage)
}

// PsbtErrorInvalidControlBlock is returned for a malformed taproot control
// block.
type PsbtErrorInvalidControlBlock struct{ psbtError }

func (PsbtErrorInvalidControlBlock) Code() uint32 { return 25 }

func (PsbtErrorInvalidControlBlock) Error() string {
	return "invalid control block"
}

// PsbtErrorInvalidLeafVersion is returned for a tap leaf with an invalid
// version.
type PsbtErrorInvalidLeafVersion struct{ psbtError }

func (PsbtErrorInvalidLeafVersion) Code() uint32 { return 26 }

func (PsbtErrorInvalidLeafVersion) Error() string {
	return "invalid leaf version"
}

// PsbtErrorTaproot is returned for other taproot failures.
type PsbtErrorTaproot struct{ psbtError }

func (PsbtErrorTaproot) Code() uint32 { return 27 }

func (PsbtErrorTaproot) Error() string {
	return "taproot error"
}

// PsbtErrorTapTree carries the reason a taproot tree was rejected.
type PsbtErrorTapTree struct {
	psbtError

	ErrorMessage string
}

func (PsbtErrorTapTree) Code() uint32 { return 28 }

func (e PsbtErrorTapTree) Error() string {
	return "taproot tree error: " + e.ErrorMessage
}

func (e PsbtErrorTapTree) payload() payload {
	return textPayload(e.ErrorMessage)
}

// PsbtErrorXPubKey is returned for a malformed global xpub.
type PsbtErrorXPubKey struct{ psbtError }

func (PsbtErrorXPubKey) Code() uint32 { return 29 }

func (PsbtErrorXPubKey) Error() string {
	return "xpub key error"
}

// PsbtErrorVersion carries the reason the psbt version was rejected.
type PsbtErrorVersion struct {
	psbtError

	ErrorMessage string
}

func (PsbtErrorVersion) Code() uint32 { return 30 }

func (e PsbtErrorVersion) Error() string {
	return "version error: " + e.ErrorMessage
}

func (e PsbtErrorVersion) payload() payload {
	return textPayload(e.ErrorMessage)
}

// PsbtErrorPartialDataConsumption is returned when bytes remain after the
// psbt.
type PsbtErrorPartialDataConsumption struct{ psbtError }

func (PsbtErrorPartialDataConsumption) Code() uint32 { return 31 }

func (PsbtErrorPartialDataConsumption) Error() string {
	return "data not consumed entirely when explicitly deserializing"
}

// PsbtErrorIo carries the message of a read failure.
type PsbtErrorIo struct {
	psbtError

	ErrorMessage string
}

func (PsbtErrorIo) Code() uint32 { return 32 }

func (e PsbtErrorIo) Error() string {
	return "I/O error: " + e.ErrorMessage
}

func (e PsbtErrorIo) payload() payload {
	return textPayload(e.ErrorMessage)
}

// PsbtErrorOther is the catch-all of the family.
type PsbtErrorOther struct{ psbtError }

func (PsbtErrorOther) Code() uint32 { return 33 }

func (PsbtErrorOther) Error() string {
	return "other PSBT error"
}

// PsbtErrorVariants returns one value of every variant in code order.
func PsbtErrorVariants() []PsbtError {
	return []PsbtError{
		PsbtErrorInvalidMagic{},
		PsbtErrorMissingUtxo{},
		PsbtErrorInvalidSeparator{},
		PsbtErrorPsbtUtxoOutOfBounds{},
		PsbtErrorInvalidKey{},
		PsbtErrorInvalidProprietaryKey{},
		PsbtErrorDuplicateKey{},
		PsbtErrorUnsignedTxHasScriptSigs{},
		PsbtErrorUnsignedTxHasScriptWitnesses{},
		PsbtErrorMustHaveUnsignedTx{},
		PsbtErrorNoMorePairs{},
		PsbtErrorUnexpectedUnsignedTx{},
		PsbtErrorNonStandardSighashType{},
		PsbtErrorInvalidHash{},
		PsbtErrorInvalidPreimageHashPair{},
		PsbtErrorCombineInconsistentKeySources{},
		PsbtErrorConsensusEncoding{},
		PsbtErrorNegativeFee{},
		PsbtErrorFeeOverflow{},
		PsbtErrorInvalidPublicKey{},
		PsbtErrorInvalidSecp256k1PublicKey{},
		PsbtErrorInvalidXOnlyPublicKey{},
		PsbtErrorInvalidEcdsaSignature{},
		PsbtErrorInvalidTaprootSignature{},
		PsbtErrorInvalidControlBlock{},
		PsbtErrorInvalidLeafVersion{},
		PsbtErrorTaproot{},
		PsbtErrorTapTree{},
		PsbtErrorXPubKey{},
		PsbtErrorVersion{},
		PsbtErrorPartialDataConsumption{},
		PsbtErrorIo{},
		PsbtErrorOther{},
	}
}

// mapPsbtStageError maps the typed errors of the primitives package. They
// are checked before the psbt sentinels they also match.
func mapPsbtStageError(err error) (PsbtError, bool) {
	var (
		missingUtxo  *primitives.MissingUtxoError
		outOfBounds  *primitives.UtxoOutOfBoundsError
		invalidKey   *primitives.InvalidKeyError
		duplicateKey *primitives.DuplicateKeyError
		signedTx     *primitives.SignedUnsignedTxError
		unexpectedTx *primitives.UnexpectedUnsignedTxError
		sighash      *primitives.NonStandardSighashError
		invalidHash  *primitives.InvalidHashError
		preimage     *primitives.InvalidPreimageHashPairError
		keySources   *primitives.InconsistentKeySourcesError
		publicKey    *primitives.InvalidPublicKeyError
		xOnlyKey     *primitives.InvalidXOnlyPublicKeyError
		ecdsaSig     *primitives.InvalidEcdsaSignatureError
		taprootSig   *primitives.InvalidTaprootSignatureError
		controlBlock *primitives.InvalidControlBlockError
		leafVersion  *primitives.InvalidLeafVersionError
		taproot      *primitives.TaprootError
		tapTree      *primitives.TapTreeError
		version      *primitives.VersionError
		partialData  *primitives.PartialDataConsumptionError
		secp256k1Err secp256k1.Error
	)

	switch {
	case errors.Is(err, primitives.ErrInvalidSeparator):
		return PsbtErrorInvalidSeparator{}, true

	case errors.As(err, &missingUtxo):
		return PsbtErrorMissingUtxo{}, true

	case errors.As(err, &outOfBounds):
		return PsbtErrorPsbtUtxoOutOfBounds{}, true

	case errors.As(err, &invalidKey):
		return PsbtErrorInvalidKey{Key: invalidKey.Key()}, true

	case errors.Is(err, primitives.ErrInvalidProprietaryKey):
		return PsbtErrorInvalidProprietaryKey{}, true

	case errors.As(err, &duplicateKey):
		return PsbtErrorDuplicateKey{Key: duplicateKey.Key()}, true

	case errors.As(err, &signedTx):
		if signedTx.HasScriptSigs || !signedTx.HasWitnesses {
			return PsbtErrorUnsignedTxHasScriptSigs{}, true
		}

		return PsbtErrorUnsignedTxHasScriptWitnesses{}, true

	case errors.Is(err, primitives.ErrMissingUnsignedTx):
		return PsbtErrorMustHaveUnsignedTx{}, true

	case errors.Is(err, primitives.ErrNoMorePairs):
		return PsbtErrorNoMorePairs{}, true

	case errors.As(err, &unexpectedTx):
		return PsbtErrorUnexpectedUnsignedTx{}, true

	case errors.As(err, &sighash):
		return PsbtErrorNonStandardSighashType{
			Sighash: sighash.SigHash,
		}, true

	case errors.As(err, &invalidHash):
		return PsbtErrorInvalidHash{Hash: invalidHash.Hash.String()}, true

	case errors.As(err, &preimage):
		return PsbtErrorInvalidPreimageHashPair{}, true

	case errors.As(err, &keySources):
		return PsbtErrorCombineInconsistentKeySources{
			Xpub: hex.EncodeToString(keySources.PubKey),
		}, true

	case errors.Is(err, primitives.ErrNegativeFee):
		return PsbtErrorNegativeFee{}, true

	case errors.Is(err, primitives.ErrFeeOverflow):
		return PsbtErrorFeeOverflow{}, true

	case errors.As(err, &publicKey):
		return PsbtErrorInvalidPublicKey{
			ErrorMessage: publicKey.Error(),
		}, true

	case errors.As(err, &xOnlyKey):
		return PsbtErrorInvalidXOnlyPublicKey{}, true

	case errors.As(err, &ecdsaSig):
		return PsbtErrorInvalidEcdsaSignature{
			ErrorMessage: ecdsaSig.Error(),
		}, true

	case errors.As(err, &taprootSig):
		return PsbtErrorInvalidTaprootSignature{
			ErrorMessage: taprootSig.Error(),
		}, true

	case errors.As(err, &controlBlock):
		return PsbtErrorInvalidControlBlock{}, true

	case errors.As(err, &leafVersion):
		return PsbtErrorInvalidLeafVersion{}, true

	case errors.As(err, &taproot):
		return PsbtErrorTaproot{}, true

	case errors.As(err, &tapTree):
		return PsbtErrorTapTree{ErrorMessage: tapTree.Error()}, true

	case errors.Is(err, primitives.ErrInvalidXPubKey):
		return PsbtErrorXPubKey{}, true

	case errors.As(err, &version):
		return PsbtErrorVersion{ErrorMessage: version.Error()}, true

	case errors.As(err, &partialData):
		return PsbtErrorPartialDataConsumption{}, true

	case errors.As(err, &secp256k1Err):
		return PsbtErrorInvalidSecp256k1PublicKey{
			Secp256k1Error: secp256k1Err.Error(),
		}, true
	}

	return nil, false
}

// mapPsbtSentinel maps the sentinels of the psbt package that reach the
// mapper without a typed attribution. A sentinel that lacks the data of its
// variant, such as a bare psbt.ErrInvalidSigHashFlags without the sighash
// value, is left to Other.
func mapPsbtSentinel(err error) (PsbtError, bool) {
	switch {
	case errors.Is(err, psbt.ErrInvalidMagicBytes):
		return PsbtErrorInvalidMagic{}, true

	case errors.Is(err, psbt.ErrDuplicateKey):
		return PsbtErrorDuplicateKey{Key: psbt.ErrDuplicateKey.Error()}, true

	case errors.Is(err, psbt.ErrInvalidKeyData):
		return PsbtErrorInvalidKey{Key: psbt.ErrInvalidKeyData.Error()}, true

	case errors.Is(err, psbt.ErrInvalidRawTxSigned):
		return PsbtErrorUnsignedTxHasScriptSigs{}, true

	case errors.Is(err, psbt.ErrInvalidSignatureForInput):
		return PsbtErrorInvalidEcdsaSignature{
			ErrorMessage: psbt.ErrInvalidSignatureForInput.Error(),
		}, true
	}

	return nil, false
}

// NewPsbtError maps an error raised while working with a psbt onto the
// family.
func NewPsbtError(err error) PsbtError {
	var msgErr *wire.MessageError

	if err == nil {
		logCollapse(psbtErrorFamily, err)

		return PsbtErrorOther{}
	}

	if mapped, ok := mapPsbtStageError(err); ok {
		return mapped
	}

	if mapped, ok := mapPsbtSentinel(err); ok {
		return mapped
	}

	switch {
	case errors.As(err, &msgErr),
		errors.Is(err, primitives.ErrDataNotConsumed):

		return PsbtErrorConsensusEncoding{
			EncodingError: NewEncodeError(err).Error(),
		}

	case errors.Is(err, io.ErrUnexpectedEOF):
		return PsbtErrorIo{ErrorMessage: io.ErrUnexpectedEOF.Error()}

	case errors.Is(err, io.EOF):
		return PsbtErrorIo{ErrorMessage: io.EOF.Error()}
	}

	logCollapse(psbtErrorFamily, err)

	return PsbtErrorOther{}
}

func liftPsbtError(code uint32, p payload) (PsbtError, error) {
	switch code {
	case 5:
		return PsbtErrorInvalidKey{Key: p.text1}, nil
	case 7:
		return PsbtErrorDuplicateKey{Key: p.text1}, nil
	case 13:
		return PsbtErrorNonStandardSighashType{
			Sighash: uint32(p.num.UnwrapOr(0)),
		}, nil
	case 14:
		return PsbtErrorInvalidHash{Hash: p.text1}, nil
	case 16:
		return PsbtErrorCombineInconsistentKeySources{Xpub: p.text1}, nil
	case 17:
		return PsbtErrorConsensusEncoding{EncodingError: p.text1}, nil
	case 20:
		return PsbtErrorInvalidPublicKey{ErrorMessage: p.text1}, nil
	case 21:
		return PsbtErrorInvalidSecp256k1PublicKey{
			Secp256k1Error: p.text1,
		}, nil
	case 23:
		return PsbtErrorInvalidEcdsaSignature{ErrorMessage: p.text1}, nil
	case 24:
		return PsbtErrorInvalidTaprootSignature{ErrorMessage: p.text1}, nil
	case 28:
		return PsbtErrorTapTree{ErrorMessage: p.text1}, nil
	case 30:
		return PsbtErrorVersion{ErrorMessage: p.text1}, nil
	case 32:
		return PsbtErrorIo{ErrorMessage: p.text1}, nil
	}

	// The remaining variants carry no payload, so the value listed for the
	// code is the lifted value.
	variants := PsbtErrorVariants()
	if code >= 1 && int(code) <= len(variants) {
		return variants[code-1], nil
	}

	return PsbtErrorOther{}, nil
}
