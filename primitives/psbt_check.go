package primitives

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

const (
	psbtInRipemd160 = 0x0a
	psbtInSha256    = 0x0b
	psbtInHash160   = 0x0c
	psbtInHash256   = 0x0d

	// maxTapTreeDepth is the deepest a leaf can sit in a taproot tree.
	maxTapTreeDepth = 128

	// annexTag is reserved and can never be a leaf version.
	annexTag = 0x50
)

var (
	// ErrInvalidTapTree is returned when an output tap tree can not be
	// decoded.
	ErrInvalidTapTree = errors.New("invalid taproot tree encoding")
)

// NonStandardSighashError is returned when a PSBT input requests a sighash
// type that is not one of the standard flags. It matches
// psbt.ErrInvalidSigHashFlags under errors.Is.
type NonStandardSighashError struct {
	SigHash uint32
}

// Error returns a human readable description of the error.
func (e *NonStandardSighashError) Error() string {
	return fmt.Sprintf("non-standard sighash type %d", e.SigHash)
}

// Is reports whether target is the psbt sighash sentinel.
func (e *NonStandardSighashError) Is(target error) bool {
	return target == psbt.ErrInvalidSigHashFlags
}

// InvalidPublicKeyError is returned when a serialized ECDSA public key has a
// length no encoding uses.
type InvalidPublicKeyError struct {
	Length int
}

// Error returns a human readable description of the error.
func (e *InvalidPublicKeyError) Error() string {
	return fmt.Sprintf("invalid public key length %d", e.Length)
}

// InvalidXOnlyPublicKeyError is returned when an x-only public key is not a
// valid point.
type InvalidXOnlyPublicKeyError struct {
	Err error
}

// Error returns a human readable description of the error.
func (e *InvalidXOnlyPublicKeyError) Error() string {
	return fmt.Sprintf("invalid xonly public key: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *InvalidXOnlyPublicKeyError) Unwrap() error {
	return e.Err
}

// InvalidEcdsaSignatureError is returned when a partial signature is not a
// valid DER signature with a sighash byte.
type InvalidEcdsaSignatureError struct {
	Err error
}

// Error returns a human readable description of the error.
func (e *InvalidEcdsaSignatureError) Error() string {
	return fmt.Sprintf("invalid ecdsa signature: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *InvalidEcdsaSignatureError) Unwrap() error {
	return e.Err
}

// InvalidTaprootSignatureError is returned when a key or script spend
// signature is not a valid schnorr signature.
type InvalidTaprootSignatureError struct {
	Err error
}

// Error returns a human readable description of the error.
func (e *InvalidTaprootSignatureError) Error() string {
	return fmt.Sprintf("invalid taproot signature: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *InvalidTaprootSignatureError) Unwrap() error {
	return e.Err
}

// InvalidControlBlockError is returned when a tap leaf script carries a
// control block that can not be parsed.
type InvalidControlBlockError struct {
	Err error
}

// Error returns a human readable description of the error.
func (e *InvalidControlBlockError) Error() string {
	return fmt.Sprintf("invalid control block: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *InvalidControlBlockError) Unwrap() error {
	return e.Err
}

// InvalidLeafVersionError is returned when a tap leaf uses a leaf version
// that can never be valid.
type InvalidLeafVersionError struct {
	Version uint8
}

// Error returns a human readable description of the error.
func (e *InvalidLeafVersionError) Error() string {
	return fmt.Sprintf("invalid leaf version %#x", e.Version)
}

// TaprootError is returned for malformed taproot input fields that have no
// more specific error.
type TaprootError struct {
	Reason string
}

// Error returns a human readable description of the error.
func (e *TaprootError) Error() string {
	return fmt.Sprintf("taproot error: %s", e.Reason)
}

// TapTreeError is returned when an output tap tree is malformed.
type TapTreeError struct {
	Reason string
}

// Error returns a human readable description of the error.
func (e *TapTreeError) Error() string {
	return fmt.Sprintf("taproot tree error: %s", e.Reason)
}

// Unwrap returns ErrInvalidTapTree.
func (e *TapTreeError) Unwrap() error {
	return ErrInvalidTapTree
}

// InvalidPreimageHashPairError is returned when a preimage in a PSBT input
// does not hash to the hash it is keyed by.
type InvalidPreimageHashPairError struct {
	HashType uint8
	Hash     []byte
}

// Error returns a human readable description of the error.
func (e *InvalidPreimageHashPairError) Error() string {
	return fmt.Sprintf("preimage does not match hash %x of type %#x",
		e.Hash, e.HashType)
}

// ValidatePsbt checks the content of every map of p beyond what decoding
// enforces: sighash flags, keys, signatures, taproot fields and preimages.
func ValidatePsbt(p *psbt.Packet) error {
	if err := checkGlobalVersion(p.Unknowns); err != nil {
		return err
	}

	for i := range p.Inputs {
		if err := checkInput(&p.Inputs[i]); err != nil {
			log.Debugf("Psbt input %d is invalid: %v", i, err)
			return err
		}
	}

	for i := range p.Outputs {
		if err := checkOutput(&p.Outputs[i]); err != nil {
			log.Debugf("Psbt output %d is invalid: %v", i, err)
			return err
		}
	}

	return nil
}

// checkGlobalVersion rejects a version entry the psbt package left among the
// unknown global pairs.
func checkGlobalVersion(unknowns []*psbt.Unknown) error {
	for _, u := range unknowns {
		if !bytes.Equal(u.Key, []byte{psbtGlobalVersion}) {
			continue
		}

		if len(u.Value) != 4 {
			return &VersionError{Reason: "invalid version value length"}
		}

		version := binary.LittleEndian.Uint32(u.Value)
		if version > psbtHighestKnownVersion {
			return &VersionError{Version: version}
		}
	}

	return nil
}

// isStandardSighash reports whether sigHash is one of the flags BIP 174
// signers are expected to produce.
func isStandardSighash(sigHash txscript.SigHashType) bool {
	switch sigHash &^ txscript.SigHashAnyOneCanPay {
	case txscript.SigHashAll, txscript.SigHashNone,
		txscript.SigHashSingle:

		return true

	case txscript.SigHashDefault:
		return sigHash == txscript.SigHashDefault
	}

	return false
}

func checkInput(in *psbt.PInput) error {
	if !isStandardSighash(in.SighashType) {
		return &NonStandardSighashError{SigHash: uint32(in.SighashType)}
	}

	for _, sig := range in.PartialSigs {
		if err := checkEcdsaPubKey(sig.PubKey); err != nil {
			return err
		}

		if len(sig.Signature) < 2 {
			return &InvalidEcdsaSignatureError{
				Err: errors.New("signature too short"),
			}
		}

		der := sig.Signature[:len(sig.Signature)-1]
		if _, err := ecdsa.ParseDERSignature(der); err != nil {
			return &InvalidEcdsaSignatureError{Err: err}
		}

		sigHash := txscript.SigHashType(
			sig.Signature[len(sig.Signature)-1],
		)
		if !isStandardSighash(sigHash) {
			return &NonStandardSighashError{SigHash: uint32(sigHash)}
		}
	}

	for _, d := range in.Bip32Derivation {
		if err := checkEcdsaPubKey(d.PubKey); err != nil {
			return err
		}
	}

	if len(in.TaprootKeySpendSig) != 0 {
		if err := checkSchnorrSig(in.TaprootKeySpendSig); err != nil {
			return err
		}
	}

	for _, sig := range in.TaprootScriptSpendSig {
		if err := checkXOnlyPubKey(sig.XOnlyPubKey); err != nil {
			return err
		}
		if err := checkSchnorrSig(sig.Signature); err != nil {
			return err
		}
	}

	for _, leaf := range in.TaprootLeafScript {
		_, err := txscript.ParseControlBlock(leaf.ControlBlock)
		if err != nil {
			return &InvalidControlBlockError{Err: err}
		}

		if err := checkLeafVersion(uint8(leaf.LeafVersion)); err != nil {
			return err
		}
	}

	for _, d := range in.TaprootBip32Derivation {
		if err := checkXOnlyPubKey(d.XOnlyPubKey); err != nil {
			return err
		}
	}

	if len(in.TaprootInternalKey) != 0 {
		if err := checkXOnlyPubKey(in.TaprootInternalKey); err != nil {
			return err
		}
	}

	if len(in.TaprootMerkleRoot) != 0 &&
		len(in.TaprootMerkleRoot) != sha256.Size {

		return &TaprootError{
			Reason: fmt.Sprintf("invalid merkle root length %d",
				len(in.TaprootMerkleRoot)),
		}
	}

	return checkPreimages(in.Unknowns)
}

func checkOutput(out *psbt.POutput) error {
	for _, d := range out.Bip32Derivation {
		if err := checkEcdsaPubKey(d.PubKey); err != nil {
			return err
		}
	}

	if len(out.TaprootInternalKey) != 0 {
		if err := checkXOnlyPubKey(out.TaprootInternalKey); err != nil {
			return err
		}
	}

	for _, d := range out.TaprootBip32Derivation {
		if err := checkXOnlyPubKey(d.XOnlyPubKey); err != nil {
			return err
		}
	}

	if len(out.TaprootTapTree) != 0 {
		return checkTapTree(out.TaprootTapTree)
	}

	return nil
}

// checkEcdsaPubKey parses a compressed or uncompressed public key. Curve
// errors are returned as is.
func checkEcdsaPubKey(pubKey []byte) error {
	switch len(pubKey) {
	case secp256k1.PubKeyBytesLenCompressed,
		secp256k1.PubKeyBytesLenUncompressed:

	default:
		return &InvalidPublicKeyError{Length: len(pubKey)}
	}

	_, err := btcec.ParsePubKey(pubKey)

	return err
}

func checkXOnlyPubKey(pubKey []byte) error {
	if _, err := schnorr.ParsePubKey(pubKey); err != nil {
		return &InvalidXOnlyPublicKeyError{Err: err}
	}

	return nil
}

// checkSchnorrSig parses a 64 byte signature, optionally followed by a
// non-default sighash byte.
func checkSchnorrSig(sig []byte) error {
	switch {
	case len(sig) == schnorr.SignatureSize:

	case len(sig) == schnorr.SignatureSize+1:
		sigHash := txscript.SigHashType(sig[schnorr.SignatureSize])
		if sigHash == txscript.SigHashDefault {
			return &InvalidTaprootSignatureError{
				Err: errors.New("explicit default sighash byte"),
			}
		}
		if !isStandardSighash(sigHash) {
			return &NonStandardSighashError{SigHash: uint32(sigHash)}
		}

	default:
		return &InvalidTaprootSignatureError{
			Err: fmt.Errorf("invalid signature length %d", len(sig)),
		}
	}

	_, err := schnorr.ParseSignature(sig[:schnorr.SignatureSize])
	if err != nil {
		return &InvalidTaprootSignatureError{Err: err}
	}

	return nil
}

func checkLeafVersion(version uint8) error {
	if version&0x01 != 0 || version == annexTag {
		return &InvalidLeafVersionError{Version: version}
	}

	return nil
}

// checkTapTree walks the depth, leaf version and script triples of a BIP 371
// tap tree.
func checkTapTree(tree []byte) error {
	r := bytes.NewReader(tree)
	for r.Len() > 0 {
		depth, _ := r.ReadByte()
		if depth > maxTapTreeDepth {
			return &TapTreeError{
				Reason: fmt.Sprintf("leaf depth %d exceeds %d",
					depth, maxTapTreeDepth),
			}
		}

		version, err := r.ReadByte()
		if err != nil {
			return &TapTreeError{Reason: "missing leaf version"}
		}
		if version&0x01 != 0 || version == annexTag {
			return &TapTreeError{
				Reason: fmt.Sprintf("invalid leaf version %#x",
					version),
			}
		}

		_, err = wire.ReadVarBytes(
			r, 0, txscript.MaxScriptSize, "leaf script",
		)
		if err != nil {
			return &TapTreeError{
				Reason: fmt.Sprintf("invalid leaf script: %v", err),
			}
		}
	}

	return nil
}

// checkPreimages verifies hash preimage pairs stored among the unknown input
// pairs.
func checkPreimages(unknowns []*psbt.Unknown) error {
	for _, u := range unknowns {
		if len(u.Key) < 2 {
			continue
		}

		var digest []byte
		switch u.Key[0] {
		case psbtInRipemd160:
			h := ripemd160.New()
			h.Write(u.Value)
			digest = h.Sum(nil)

		case psbtInSha256:
			sum := sha256.Sum256(u.Value)
			digest = sum[:]

		case psbtInHash160:
			digest = btcutil.Hash160(u.Value)

		case psbtInHash256:
			digest = chainhash.DoubleHashB(u.Value)

		default:
			continue
		}

		if !bytes.Equal(digest, u.Key[1:]) {
			return &InvalidPreimageHashPairError{
				HashType: u.Key[0],
				Hash:     u.Key[1:],
			}
		}
	}

	return nil
}
