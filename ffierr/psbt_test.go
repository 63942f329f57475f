package ffierr

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

// TestNewPsbtError checks the mapping of every psbt error source.
func TestNewPsbtError(t *testing.T) {
	t.Parallel()

	var (
		secpErr = secp256k1.Error{
			Err:         secp256k1.ErrPubKeyInvalidLen,
			Description: "malformed public key: invalid length: 31",
		}
		publicKey = &primitives.InvalidPublicKeyError{Length: 31}
		ecdsaSig  = &primitives.InvalidEcdsaSignatureError{
			Err: errors.New("malformed signature"),
		}
		taprootSig = &primitives.InvalidTaprootSignatureError{
			Err: errors.New("invalid schnorr sig"),
		}
		tapTree = &primitives.TapTreeError{Reason: "depth"}
		version = &primitives.VersionError{
			Version: 2,
			Reason:  "unsupported",
		}
		hash = chainhash.Hash{0x01}
	)

	cases := []mapperCase{{
		name:     "invalid magic",
		err:      psbt.ErrInvalidMagicBytes,
		expected: PsbtErrorInvalidMagic{},
	}, {
		name:     "missing utxo",
		err:      &primitives.MissingUtxoError{Index: 1},
		expected: PsbtErrorMissingUtxo{},
	}, {
		name:     "invalid separator",
		err:      primitives.ErrInvalidSeparator,
		expected: PsbtErrorInvalidSeparator{},
	}, {
		name: "utxo out of bounds",
		err: &primitives.UtxoOutOfBoundsError{
			Index: 0, Vout: 3, NumOutputs: 1,
		},
		expected: PsbtErrorPsbtUtxoOutOfBounds{},
	}, {
		name: "invalid key",
		err: &primitives.InvalidKeyError{
			KeyType: 0, KeyData: []byte{0xaa},
		},
		expected: PsbtErrorInvalidKey{Key: "type: 0x0, key: aa"},
	}, {
		name:     "invalid key sentinel",
		err:      psbt.ErrInvalidKeyData,
		expected: PsbtErrorInvalidKey{Key: psbt.ErrInvalidKeyData.Error()},
	}, {
		name:     "proprietary key",
		err:      primitives.ErrInvalidProprietaryKey,
		expected: PsbtErrorInvalidProprietaryKey{},
	}, {
		name: "duplicate key",
		err: &primitives.DuplicateKeyError{
			KeyType: 1, KeyData: []byte{0x02},
		},
		expected: PsbtErrorDuplicateKey{Key: "type: 0x1, key: 02"},
	}, {
		name: "duplicate key sentinel",
		err:  psbt.ErrDuplicateKey,
		expected: PsbtErrorDuplicateKey{
			Key: psbt.ErrDuplicateKey.Error(),
		},
	}, {
		name:     "script sigs",
		err:      &primitives.SignedUnsignedTxError{HasScriptSigs: true},
		expected: PsbtErrorUnsignedTxHasScriptSigs{},
	}, {
		name:     "script witnesses",
		err:      &primitives.SignedUnsignedTxError{HasWitnesses: true},
		expected: PsbtErrorUnsignedTxHasScriptWitnesses{},
	}, {
		name:     "signed sentinel",
		err:      psbt.ErrInvalidRawTxSigned,
		expected: PsbtErrorUnsignedTxHasScriptSigs{},
	}, {
		name:     "missing unsigned tx",
		err:      primitives.ErrMissingUnsignedTx,
		expected: PsbtErrorMustHaveUnsignedTx{},
	}, {
		name:     "no more pairs",
		err:      primitives.ErrNoMorePairs,
		expected: PsbtErrorNoMorePairs{},
	}, {
		name: "unexpected unsigned tx",
		err: &primitives.UnexpectedUnsignedTxError{
			Expected: chainhash.Hash{0x01},
			Actual:   chainhash.Hash{0x02},
		},
		expected: PsbtErrorUnexpectedUnsignedTx{},
	}, {
		name:     "non-standard sighash",
		err:      &primitives.NonStandardSighashError{SigHash: 0x84},
		expected: PsbtErrorNonStandardSighashType{Sighash: 0x84},
	}, {
		name:     "sighash sentinel",
		err:      psbt.ErrInvalidSigHashFlags,
		expected: PsbtErrorOther{},
	}, {
		name:     "invalid hash",
		err:      &primitives.InvalidHashError{Hash: hash},
		expected: PsbtErrorInvalidHash{Hash: hash.String()},
	}, {
		name:     "invalid hash sentinel",
		err:      psbt.ErrInvalidPrevOutNonWitnessTransaction,
		expected: PsbtErrorOther{},
	}, {
		name: "preimage",
		err: &primitives.InvalidPreimageHashPairError{
			HashType: 0x0b, Hash: make([]byte, 32),
		},
		expected: PsbtErrorInvalidPreimageHashPair{},
	}, {
		name: "inconsistent key sources",
		err: &primitives.InconsistentKeySourcesError{
			PubKey: []byte{0x02, 0xab},
		},
		expected: PsbtErrorCombineInconsistentKeySources{Xpub: "02ab"},
	}, {
		name: "consensus encoding",
		err:  messageError("bad tx"),
		expected: PsbtErrorConsensusEncoding{
			EncodingError: "parse failed: bad tx",
		},
	}, {
		name:     "negative fee",
		err:      primitives.ErrNegativeFee,
		expected: PsbtErrorNegativeFee{},
	}, {
		name:     "fee overflow",
		err:      primitives.ErrFeeOverflow,
		expected: PsbtErrorFeeOverflow{},
	}, {
		name: "invalid public key",
		err:  publicKey,
		expected: PsbtErrorInvalidPublicKey{
			ErrorMessage: publicKey.Error(),
		},
	}, {
		name: "secp256k1",
		err:  secpErr,
		expected: PsbtErrorInvalidSecp256k1PublicKey{
			Secp256k1Error: secpErr.Error(),
		},
	}, {
		name: "x-only key wrapping secp256k1",
		err: &primitives.InvalidXOnlyPublicKeyError{
			Err: secpErr,
		},
		expected: PsbtErrorInvalidXOnlyPublicKey{},
	}, {
		name: "ecdsa signature",
		err:  ecdsaSig,
		expected: PsbtErrorInvalidEcdsaSignature{
			ErrorMessage: ecdsaSig.Error(),
		},
	}, {
		name: "ecdsa signature sentinel",
		err:  psbt.ErrInvalidSignatureForInput,
		expected: PsbtErrorInvalidEcdsaSignature{
			ErrorMessage: psbt.ErrInvalidSignatureForInput.Error(),
		},
	}, {
		name: "taproot signature",
		err:  taprootSig,
		expected: PsbtErrorInvalidTaprootSignature{
			ErrorMessage: taprootSig.Error(),
		},
	}, {
		name: "control block",
		err: &primitives.InvalidControlBlockError{
			Err: errors.New("short"),
		},
		expected: PsbtErrorInvalidControlBlock{},
	}, {
		name:     "leaf version",
		err:      &primitives.InvalidLeafVersionError{Version: 0xc1},
		expected: PsbtErrorInvalidLeafVersion{},
	}, {
		name:     "taproot",
		err:      &primitives.TaprootError{Reason: "merkle root"},
		expected: PsbtErrorTaproot{},
	}, {
		name: "tap tree",
		err:  tapTree,
		expected: PsbtErrorTapTree{
			ErrorMessage: tapTree.Error(),
		},
	}, {
		name:     "xpub",
		err:      primitives.ErrInvalidXPubKey,
		expected: PsbtErrorXPubKey{},
	}, {
		name:     "version",
		err:      version,
		expected: PsbtErrorVersion{ErrorMessage: version.Error()},
	}, {
		name:     "partial data",
		err:      &primitives.PartialDataConsumptionError{Remaining: 1},
		expected: PsbtErrorPartialDataConsumption{},
	}, {
		name:     "io",
		err:      io.ErrUnexpectedEOF,
		expected: PsbtErrorIo{ErrorMessage: "unexpected EOF"},
	}, {
		name:     "not finalizable",
		err:      psbt.ErrNotFinalizable,
		expected: PsbtErrorOther{},
	}, {
		name:     "unknown",
		err:      errors.New("unknown"),
		expected: PsbtErrorOther{},
	}}

	runMapperCases(t, func(err error) StableError {
		return NewPsbtError(err)
	}, cases)

	// Every variant is reachable from some upstream error.
	reached := make(map[uint32]struct{})
	for _, tc := range cases {
		reached[NewPsbtError(tc.err).Code()] = struct{}{}
	}
	for _, v := range PsbtErrorVariants() {
		require.Contains(t, reached, v.Code(), VariantName(v))
	}
}

// TestParsePsbtErrors checks the variants produced for corrupt psbts.
func TestParsePsbtErrors(t *testing.T) {
	t.Parallel()

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: chainhash.Hash{0x01}},
	})
	tx.AddTxOut(wire.NewTxOut(1000, []byte{0x51}))

	var txBuf bytes.Buffer
	require.NoError(t, tx.Serialize(&txBuf))

	// A global map holding the unsigned transaction twice.
	var dup bytes.Buffer
	dup.Write([]byte{0x70, 0x73, 0x62, 0x74, 0xff})
	for i := 0; i < 2; i++ {
		require.NoError(t, wire.WriteVarBytes(&dup, 0, []byte{0x00}))
		require.NoError(t, wire.WriteVarBytes(&dup, 0, txBuf.Bytes()))
	}
	dup.WriteByte(0x00)

	tests := []struct {
		name     string
		raw      []byte
		expected PsbtError
	}{{
		name:     "magic",
		raw:      []byte("nope!"),
		expected: PsbtErrorInvalidMagic{},
	}, {
		name:     "separator",
		raw:      []byte{0x70, 0x73, 0x62, 0x74, 0x00, 0x00},
		expected: PsbtErrorInvalidSeparator{},
	}, {
		name:     "duplicate key",
		raw:      dup.Bytes(),
		expected: PsbtErrorDuplicateKey{Key: "type: 0x0, key: "},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := primitives.ParsePsbt(test.raw)
			require.Error(t, err)
			require.Equal(t, test.expected, NewPsbtError(err))

			encoded := base64.StdEncoding.EncodeToString(test.raw)
			_, err = primitives.ParsePsbtBase64(encoded)
			require.Equal(t, PsbtParseErrorPsbtEncoding{
				ErrorMessage: test.expected.Error(),
			}, NewPsbtParseError(err))
		})
	}
}

// TestNewPsbtParseError checks that only base64 failures select the base64
// variant.
func TestNewPsbtParseError(t *testing.T) {
	t.Parallel()

	_, err := primitives.ParsePsbtBase64("not base64!")
	mapped := NewPsbtParseError(err)
	require.Equal(t, "Base64Encoding", VariantName(mapped))

	var corrupt base64.CorruptInputError
	require.ErrorAs(t, err, &corrupt)
	require.Equal(t, PsbtParseErrorBase64Encoding{
		ErrorMessage: corrupt.Error(),
	}, mapped)

	require.Equal(t, PsbtParseErrorBase64Encoding{
		ErrorMessage: base64.CorruptInputError(3).Error(),
	}, NewPsbtParseError(base64.CorruptInputError(3)))

	require.Equal(t, PsbtParseErrorPsbtEncoding{
		ErrorMessage: PsbtErrorNoMorePairs{}.Error(),
	}, NewPsbtParseError(primitives.ErrNoMorePairs))
}
