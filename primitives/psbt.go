package primitives

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/btcffi/btcffi/build"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

var (
	// ErrInvalidSeparator is returned when the magic bytes of a PSBT are not
	// followed by the 0xff separator.
	ErrInvalidSeparator = errors.New("invalid separator after magic bytes")

	// ErrMissingUnsignedTx is returned when the global map of a PSBT has no
	// unsigned transaction.
	ErrMissingUnsignedTx = errors.New("psbt must have an unsigned " +
		"transaction")

	// ErrNoMorePairs is returned when a PSBT map ends before its separator.
	ErrNoMorePairs = errors.New("no more key-value pairs for this psbt map")

	// ErrInvalidProprietaryKey is returned when a proprietary key has a
	// malformed identifier or subtype.
	ErrInvalidProprietaryKey = errors.New("invalid proprietary key")

	// ErrInvalidXPubKey is returned when a global xpub key is not a
	// serialized extended public key.
	ErrInvalidXPubKey = errors.New("invalid xpub key")

	// ErrFeeOverflow is returned when summing input or output values of a
	// PSBT overflows.
	ErrFeeOverflow = errors.New("integer overflow in fee calculation")

	// ErrNegativeFee is returned when the outputs of a PSBT spend more than
	// its inputs.
	ErrNegativeFee = errors.New("psbt has a negative fee")
)

// Base64Error is returned when a PSBT string is not valid base64.
type Base64Error struct {
	Err error
}

// Error returns a human readable description of the error.
func (e *Base64Error) Error() string {
	return fmt.Sprintf("base64 encoding error: %v", e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *Base64Error) Unwrap() error {
	return e.Err
}

// PsbtDiagnosisError pairs the error found by scanning a rejected PSBT with
// the error the psbt package rejected it with.
type PsbtDiagnosisError struct {
	// Err is the attributed error.
	Err error

	// Cause is the error returned by the psbt package.
	Cause error
}

// Error returns the description of the attributed error.
func (e *PsbtDiagnosisError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the attributed error followed by the cause.
func (e *PsbtDiagnosisError) Unwrap() []error {
	return []error{e.Err, e.Cause}
}

// PartialDataConsumptionError is returned when a PSBT parses but is followed
// by trailing bytes.
type PartialDataConsumptionError struct {
	Remaining int
}

// Error returns a human readable description of the error.
func (e *PartialDataConsumptionError) Error() string {
	return fmt.Sprintf("data not consumed entirely when explicitly "+
		"deserializing: %d bytes left", e.Remaining)
}

// DuplicateKeyError is returned when the same key appears twice in one PSBT
// map. It matches psbt.ErrDuplicateKey under errors.Is.
type DuplicateKeyError struct {
	KeyType uint64
	KeyData []byte
}

// Error returns a human readable description of the error.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s", e.Key())
}

// Key returns the display form of the duplicated key.
func (e *DuplicateKeyError) Key() string {
	return formatPsbtKey(e.KeyType, e.KeyData)
}

// Is reports whether target is the psbt duplicate key sentinel.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == psbt.ErrDuplicateKey
}

// InvalidKeyError is returned when a PSBT key carries key data its type does
// not allow. It matches psbt.ErrInvalidKeyData under errors.Is.
type InvalidKeyError struct {
	KeyType uint64
	KeyData []byte
}

// Error returns a human readable description of the error.
func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key: %s", e.Key())
}

// Key returns the display form of the rejected key.
func (e *InvalidKeyError) Key() string {
	return formatPsbtKey(e.KeyType, e.KeyData)
}

// Is reports whether target is the psbt invalid key sentinel.
func (e *InvalidKeyError) Is(target error) bool {
	return target == psbt.ErrInvalidKeyData
}

// SignedUnsignedTxError is returned when the unsigned transaction of a PSBT
// carries script sigs or witnesses. It matches psbt.ErrInvalidRawTxSigned
// under errors.Is.
type SignedUnsignedTxError struct {
	HasScriptSigs bool
	HasWitnesses  bool
}

// Error returns a human readable description of the error.
func (e *SignedUnsignedTxError) Error() string {
	if e.HasScriptSigs {
		return "the unsigned transaction has script sigs"
	}

	return "the unsigned transaction has script witnesses"
}

// Is reports whether target is the psbt signed raw tx sentinel.
func (e *SignedUnsignedTxError) Is(target error) bool {
	return target == psbt.ErrInvalidRawTxSigned
}

// VersionError is returned when a PSBT declares a version this package does
// not understand.
type VersionError struct {
	Version uint32
	Reason  string
}

// Error returns a human readable description of the error.
func (e *VersionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("psbt version error: %s", e.Reason)
	}

	return fmt.Sprintf("psbt version %d is not supported", e.Version)
}

// InvalidHashError is returned when a non-witness utxo does not hash to the
// txid its input spends. It matches
// psbt.ErrInvalidPrevOutNonWitnessTransaction under errors.Is.
type InvalidHashError struct {
	Hash chainhash.Hash
}

// Error returns a human readable description of the error.
func (e *InvalidHashError) Error() string {
	return fmt.Sprintf("hash of non-witness utxo does not match "+
		"outpoint: %v", e.Hash)
}

// Is reports whether target is the psbt non-witness utxo sentinel.
func (e *InvalidHashError) Is(target error) bool {
	return target == psbt.ErrInvalidPrevOutNonWitnessTransaction
}

// formatPsbtKey renders a PSBT key the way it is reported in errors.
func formatPsbtKey(keyType uint64, keyData []byte) string {
	return fmt.Sprintf("type: %#x, key: %x", keyType, keyData)
}

// ParsePsbt parses a PSBT in its binary encoding. The whole input must be
// consumed. When the psbt package rejects the input, the framing is scanned
// to attribute the failure more precisely.
func ParsePsbt(raw []byte) (*psbt.Packet, error) {
	r := bytes.NewReader(raw)
	packet, err := psbt.NewFromRawBytes(r, false)
	if err != nil {
		diagnosed := diagnosePsbt(raw, err)
		log.Debugf("Unable to parse psbt: %v (diagnosed as %v)", err,
			diagnosed)

		return nil, diagnosed
	}

	if r.Len() != 0 {
		return nil, &PartialDataConsumptionError{Remaining: r.Len()}
	}

	log.Tracef("Parsed psbt: %v", build.SpewLogClosure(packet))

	return packet, nil
}

// ParsePsbtBase64 parses a base64 encoded PSBT.
func ParsePsbtBase64(s string) (*psbt.Packet, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &Base64Error{Err: err}
	}

	return ParsePsbt(raw)
}

// SerializePsbt returns the binary encoding of a PSBT.
func SerializePsbt(p *psbt.Packet) ([]byte, error) {
	var b bytes.Buffer
	if err := p.Serialize(&b); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// NewPsbtFromUnsignedTx creates a PSBT with empty input and output maps for
// tx. The transaction must not carry any signature data.
func NewPsbtFromUnsignedTx(tx *wire.MsgTx) (*psbt.Packet, error) {
	if err := checkUnsignedTx(tx); err != nil {
		return nil, err
	}

	return psbt.NewFromUnsignedTx(tx)
}

// checkUnsignedTx makes sure no input of tx carries script sigs or witnesses.
func checkUnsignedTx(tx *wire.MsgTx) error {
	for _, txIn := range tx.TxIn {
		switch {
		case len(txIn.SignatureScript) != 0:
			return &SignedUnsignedTxError{HasScriptSigs: true}

		case len(txIn.Witness) != 0:
			return &SignedUnsignedTxError{HasWitnesses: true}
		}
	}

	return nil
}
