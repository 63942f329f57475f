package primitives

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

// generatorX is the x coordinate of the secp256k1 generator, a valid x-only
// public key.
const generatorX = "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f281" +
	"5b16f81798"

func newTestPsbt(t *testing.T, values ...int64) *psbt.Packet {
	t.Helper()

	p, err := NewPsbtFromUnsignedTx(testTx(values...))
	require.NoError(t, err)

	return p
}

func testPubKey(t *testing.T) []byte {
	t.Helper()

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	return priv.PubKey().SerializeCompressed()
}

// writePair appends a raw key-value pair to b.
func writePair(t *testing.T, b *bytes.Buffer, key, value []byte) {
	t.Helper()

	require.NoError(t, wire.WriteVarBytes(b, 0, key))
	require.NoError(t, wire.WriteVarBytes(b, 0, value))
}

// TestParsePsbt checks round tripping and the failures attributed while
// parsing.
func TestParsePsbt(t *testing.T) {
	t.Parallel()

	p := newTestPsbt(t, 1000)
	raw, err := SerializePsbt(p)
	require.NoError(t, err)

	parsed, err := ParsePsbt(raw)
	require.NoError(t, err)
	require.Equal(t, p.UnsignedTx.TxHash(), parsed.UnsignedTx.TxHash())

	parsed, err = ParsePsbtBase64(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Equal(t, p.UnsignedTx.TxHash(), parsed.UnsignedTx.TxHash())

	_, err = ParsePsbtBase64("not base64!")
	var b64Err *Base64Error
	require.ErrorAs(t, err, &b64Err)

	_, err = ParsePsbt(append(bytes.Clone(raw), 0x00))
	var partialErr *PartialDataConsumptionError
	require.ErrorAs(t, err, &partialErr)
	require.Equal(t, 1, partialErr.Remaining)

	_, err = ParsePsbt([]byte("nope!"))
	require.ErrorIs(t, err, psbt.ErrInvalidMagicBytes)

	_, err = ParsePsbt([]byte{0x70, 0x73, 0x62, 0x74, 0x00, 0x00})
	require.ErrorIs(t, err, ErrInvalidSeparator)
	require.ErrorIs(t, err, psbt.ErrInvalidMagicBytes)
}

// TestDiagnosePsbt feeds hand built framing to the scanner and checks the
// cause it attributes.
func TestDiagnosePsbt(t *testing.T) {
	t.Parallel()

	unsignedTx := serializeTx(t, testTx(1000))
	header := []byte{0x70, 0x73, 0x62, 0x74, 0xff}

	t.Run("missing unsigned tx", func(t *testing.T) {
		t.Parallel()

		raw := append(bytes.Clone(header), 0x00)
		err := diagnosePsbt(raw, psbt.ErrInvalidPsbtFormat)
		require.ErrorIs(t, err, ErrMissingUnsignedTx)
	})

	t.Run("truncated map", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		b.Write(header)
		writePair(t, &b, []byte{psbtGlobalUnsignedTx}, unsignedTx)

		err := diagnosePsbt(b.Bytes(), psbt.ErrInvalidPsbtFormat)
		require.ErrorIs(t, err, ErrNoMorePairs)
	})

	t.Run("duplicate output key", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		b.Write(header)
		writePair(t, &b, []byte{psbtGlobalUnsignedTx}, unsignedTx)
		b.WriteByte(0x00)
		b.WriteByte(0x00)
		writePair(t, &b, []byte{0x42, 0x02}, []byte{0x01})
		writePair(t, &b, []byte{0x42, 0x02}, []byte{0x02})
		b.WriteByte(0x00)

		err := diagnosePsbt(b.Bytes(), psbt.ErrInvalidPsbtFormat)
		require.ErrorIs(t, err, psbt.ErrDuplicateKey)

		var target *DuplicateKeyError
		require.ErrorAs(t, err, &target)
		require.Equal(t, "type: 0x42, key: 02", target.Key())
	})

	t.Run("signed unsigned tx", func(t *testing.T) {
		t.Parallel()

		signed := testTx(1000)
		signed.TxIn[0].SignatureScript = []byte{0x51}

		var b bytes.Buffer
		b.Write(header)
		writePair(
			t, &b, []byte{psbtGlobalUnsignedTx},
			serializeTx(t, signed),
		)
		b.WriteByte(0x00)

		err := diagnosePsbt(b.Bytes(), psbt.ErrInvalidRawTxSigned)
		require.ErrorIs(t, err, psbt.ErrInvalidRawTxSigned)

		var target *SignedUnsignedTxError
		require.ErrorAs(t, err, &target)
		require.True(t, target.HasScriptSigs)
	})

	t.Run("unsupported version", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		b.Write(header)
		writePair(t, &b, []byte{psbtGlobalUnsignedTx}, unsignedTx)
		writePair(
			t, &b, []byte{psbtGlobalVersion},
			[]byte{0x02, 0x00, 0x00, 0x00},
		)
		b.WriteByte(0x00)

		err := diagnosePsbt(b.Bytes(), psbt.ErrInvalidPsbtFormat)
		var target *VersionError
		require.ErrorAs(t, err, &target)
		require.EqualValues(t, 2, target.Version)
	})

	t.Run("short xpub", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		b.Write(header)
		writePair(t, &b, []byte{psbtGlobalXpub, 0x01}, []byte{0x00})
		b.WriteByte(0x00)

		err := diagnosePsbt(b.Bytes(), psbt.ErrInvalidPsbtFormat)
		require.ErrorIs(t, err, ErrInvalidXPubKey)
	})

	t.Run("proprietary key", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		b.Write(header)
		writePair(t, &b, []byte{psbtProprietary, 0x05}, []byte{0x00})
		b.WriteByte(0x00)

		err := diagnosePsbt(b.Bytes(), psbt.ErrInvalidPsbtFormat)
		require.ErrorIs(t, err, ErrInvalidProprietaryKey)
	})

	t.Run("nothing more specific", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		b.Write(header)
		writePair(t, &b, []byte{psbtGlobalUnsignedTx}, unsignedTx)
		b.Write([]byte{0x00, 0x00, 0x00})

		err := diagnosePsbt(b.Bytes(), psbt.ErrInvalidPsbtFormat)
		require.Equal(t, psbt.ErrInvalidPsbtFormat, err)
	})
}

// TestDiagnosePsbtMatchesCause checks that an attributed error still matches
// the error the psbt package returned, while keeping its own description.
func TestDiagnosePsbtMatchesCause(t *testing.T) {
	t.Parallel()

	unsignedTx := serializeTx(t, testTx(1000))
	header := []byte{0x70, 0x73, 0x62, 0x74, 0xff}

	withGlobals := func(pairs ...[2][]byte) []byte {
		var b bytes.Buffer
		b.Write(header)
		for _, pair := range pairs {
			writePair(t, &b, pair[0], pair[1])
		}
		b.WriteByte(0x00)

		return b.Bytes()
	}

	tests := []struct {
		name   string
		raw    []byte
		cause  error
		target error
	}{{
		name:   "invalid separator",
		raw:    []byte{0x70, 0x73, 0x62, 0x74, 0x00, 0x00},
		cause:  psbt.ErrInvalidMagicBytes,
		target: ErrInvalidSeparator,
	}, {
		name:   "missing unsigned tx",
		raw:    append(bytes.Clone(header), 0x00),
		cause:  psbt.ErrInvalidPsbtFormat,
		target: ErrMissingUnsignedTx,
	}, {
		name:   "truncated map",
		raw:    append(bytes.Clone(header), 0x05, 0x00),
		cause:  io.ErrUnexpectedEOF,
		target: ErrNoMorePairs,
	}, {
		name: "short xpub",
		raw: withGlobals(
			[2][]byte{{psbtGlobalXpub, 0x01}, {0x00}},
		),
		cause:  psbt.ErrInvalidPsbtFormat,
		target: ErrInvalidXPubKey,
	}, {
		name: "unsupported version",
		raw: withGlobals(
			[2][]byte{{psbtGlobalUnsignedTx}, unsignedTx},
			[2][]byte{
				{psbtGlobalVersion},
				{0x02, 0x00, 0x00, 0x00},
			},
		),
		cause: psbt.ErrInvalidPsbtFormat,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			err := diagnosePsbt(test.raw, test.cause)
			require.ErrorIs(t, err, test.cause)

			var diagnosis *PsbtDiagnosisError
			require.ErrorAs(t, err, &diagnosis)
			require.Equal(t, diagnosis.Err.Error(), err.Error())

			if test.target != nil {
				require.ErrorIs(t, err, test.target)
				return
			}

			var version *VersionError
			require.ErrorAs(t, err, &version)
			require.EqualValues(t, 2, version.Version)
		})
	}
}

// TestNewPsbtFromUnsignedTx checks that signature data is attributed to
// script sigs or witnesses.
func TestNewPsbtFromUnsignedTx(t *testing.T) {
	t.Parallel()

	tx := testTx(1000)
	tx.TxIn[0].Witness = wire.TxWitness{{0x01}}

	_, err := NewPsbtFromUnsignedTx(tx)
	require.ErrorIs(t, err, psbt.ErrInvalidRawTxSigned)

	var target *SignedUnsignedTxError
	require.ErrorAs(t, err, &target)
	require.True(t, target.HasWitnesses)
	require.False(t, target.HasScriptSigs)
}

// TestCombinePsbt checks merging and the two combiner conflicts.
func TestCombinePsbt(t *testing.T) {
	t.Parallel()

	pubKey := testPubKey(t)

	a := newTestPsbt(t, 1000)
	a.Inputs[0].WitnessUtxo = wire.NewTxOut(2000, []byte{0x51})
	a.Inputs[0].Bip32Derivation = []*psbt.Bip32Derivation{{
		PubKey:               pubKey,
		MasterKeyFingerprint: 1,
		Bip32Path:            []uint32{0, 1},
	}}

	b := newTestPsbt(t, 1000)
	b.Inputs[0].SighashType = txscript.SigHashAll
	b.Outputs[0].Unknowns = []*psbt.Unknown{{
		Key:   []byte{0x42},
		Value: []byte{0x01},
	}}

	combined, err := CombinePsbt(a, b)
	require.NoError(t, err)
	require.NotNil(t, combined.Inputs[0].WitnessUtxo)
	require.Equal(t, txscript.SigHashAll, combined.Inputs[0].SighashType)
	require.Len(t, combined.Inputs[0].Bip32Derivation, 1)
	require.Len(t, combined.Outputs[0].Unknowns, 1)

	// The inputs are left untouched.
	require.Zero(t, a.Inputs[0].SighashType)

	_, err = CombinePsbt(a, newTestPsbt(t, 999))
	var unexpected *UnexpectedUnsignedTxError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, a.UnsignedTx.TxHash(), unexpected.Expected)

	conflict := newTestPsbt(t, 1000)
	conflict.Inputs[0].Bip32Derivation = []*psbt.Bip32Derivation{{
		PubKey:               pubKey,
		MasterKeyFingerprint: 2,
		Bip32Path:            []uint32{0, 1},
	}}

	_, err = CombinePsbt(a, conflict)
	var inconsistent *InconsistentKeySourcesError
	require.ErrorAs(t, err, &inconsistent)
	require.Equal(t, pubKey, inconsistent.PubKey)
}

// TestValidatePsbt checks each content rule on an otherwise valid packet.
func TestValidatePsbt(t *testing.T) {
	t.Parallel()

	xOnly, err := hex.DecodeString(generatorX)
	require.NoError(t, err)

	invalidXOnly := bytes.Repeat([]byte{0xff}, 32)
	validControlBlock := append(
		[]byte{byte(txscript.BaseLeafVersion)}, xOnly...,
	)

	validPubKey := testPubKey(t)
	preimage := []byte("preimage")
	preimageHash := sha256.Sum256(preimage)

	tests := []struct {
		name    string
		mutate  func(p *psbt.Packet)
		checkFn func(t *testing.T, err error)
	}{
		{
			name:   "valid",
			mutate: func(p *psbt.Packet) {},
		},
		{
			name: "matching preimage",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].Unknowns = []*psbt.Unknown{{
					Key: append(
						[]byte{psbtInSha256},
						preimageHash[:]...,
					),
					Value: preimage,
				}}
			},
		},
		{
			name: "non-standard sighash",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].SighashType = 0x04
			},
			checkFn: func(t *testing.T, err error) {
				require.ErrorIs(t, err, psbt.ErrInvalidSigHashFlags)

				var target *NonStandardSighashError
				require.ErrorAs(t, err, &target)
				require.EqualValues(t, 4, target.SigHash)
			},
		},
		{
			name: "public key length",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].PartialSigs = []*psbt.PartialSig{{
					PubKey:    []byte{0x02, 0x01},
					Signature: []byte{0x30, 0x01},
				}}
			},
			checkFn: func(t *testing.T, err error) {
				var target *InvalidPublicKeyError
				require.ErrorAs(t, err, &target)
				require.Equal(t, 2, target.Length)
			},
		},
		{
			name: "public key off curve",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].Bip32Derivation = []*psbt.Bip32Derivation{{
					PubKey: append(
						[]byte{0x02}, invalidXOnly...,
					),
				}}
			},
			checkFn: func(t *testing.T, err error) {
				var target secp256k1.Error
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "ecdsa signature",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].PartialSigs = []*psbt.PartialSig{{
					PubKey:    validPubKey,
					Signature: []byte{0x30, 0x00, 0x01},
				}}
			},
			checkFn: func(t *testing.T, err error) {
				var target *InvalidEcdsaSignatureError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "taproot signature length",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].TaprootKeySpendSig = make([]byte, 63)
			},
			checkFn: func(t *testing.T, err error) {
				var target *InvalidTaprootSignatureError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "x-only key",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].TaprootInternalKey = invalidXOnly
			},
			checkFn: func(t *testing.T, err error) {
				var target *InvalidXOnlyPublicKeyError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "control block",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].TaprootLeafScript = []*psbt.TaprootTapLeafScript{{
					ControlBlock: []byte{0xc0},
					LeafVersion:  txscript.BaseLeafVersion,
				}}
			},
			checkFn: func(t *testing.T, err error) {
				var target *InvalidControlBlockError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "leaf version",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].TaprootLeafScript = []*psbt.TaprootTapLeafScript{{
					ControlBlock: validControlBlock,
					Script:       []byte{0x51},
					LeafVersion:  0xc1,
				}}
			},
			checkFn: func(t *testing.T, err error) {
				var target *InvalidLeafVersionError
				require.ErrorAs(t, err, &target)
				require.EqualValues(t, 0xc1, target.Version)
			},
		},
		{
			name: "merkle root length",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].TaprootMerkleRoot = make([]byte, 31)
			},
			checkFn: func(t *testing.T, err error) {
				var target *TaprootError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "tap tree depth",
			mutate: func(p *psbt.Packet) {
				p.Outputs[0].TaprootTapTree = []byte{
					0xff, 0xc0, 0x01, 0x51,
				}
			},
			checkFn: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrInvalidTapTree)
			},
		},
		{
			name: "tap tree truncated script",
			mutate: func(p *psbt.Packet) {
				p.Outputs[0].TaprootTapTree = []byte{
					0x01, 0xc0, 0x05, 0x51,
				}
			},
			checkFn: func(t *testing.T, err error) {
				var target *TapTreeError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "preimage mismatch",
			mutate: func(p *psbt.Packet) {
				p.Inputs[0].Unknowns = []*psbt.Unknown{{
					Key: append(
						[]byte{psbtInHash160},
						make([]byte, 20)...,
					),
					Value: preimage,
				}}
			},
			checkFn: func(t *testing.T, err error) {
				var target *InvalidPreimageHashPairError
				require.ErrorAs(t, err, &target)
				require.EqualValues(
					t, psbtInHash160, target.HashType,
				)
			},
		},
		{
			name: "global version",
			mutate: func(p *psbt.Packet) {
				p.Unknowns = []*psbt.Unknown{{
					Key:   []byte{psbtGlobalVersion},
					Value: []byte{0x01, 0x00, 0x00, 0x00},
				}}
			},
			checkFn: func(t *testing.T, err error) {
				var target *VersionError
				require.ErrorAs(t, err, &target)
				require.EqualValues(t, 1, target.Version)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			p := newTestPsbt(t, 1000)
			test.mutate(p)

			err := ValidatePsbt(p)
			if test.checkFn == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			test.checkFn(t, err)
		})
	}
}

// TestPsbtFee checks fee computation and its failures.
func TestPsbtFee(t *testing.T) {
	t.Parallel()

	p := newTestPsbt(t, 9000)
	_, err := PsbtFee(p)
	var missing *MissingUtxoError
	require.ErrorAs(t, err, &missing)
	require.Zero(t, missing.Index)

	p.Inputs[0].WitnessUtxo = wire.NewTxOut(10_000, []byte{0x51})
	fee, err := PsbtFee(p)
	require.NoError(t, err)
	require.Equal(t, btcutil.Amount(1000), fee)

	negative := newTestPsbt(t, 20_000)
	negative.Inputs[0].WitnessUtxo = wire.NewTxOut(10_000, []byte{0x51})
	_, err = PsbtFee(negative)
	require.ErrorIs(t, err, ErrNegativeFee)

	overflow := newTestPsbt(t, btcutil.MaxSatoshi, btcutil.MaxSatoshi)
	overflow.Inputs[0].WitnessUtxo = wire.NewTxOut(1, []byte{0x51})
	_, err = PsbtFee(overflow)
	require.ErrorIs(t, err, ErrFeeOverflow)

	bounds := newTestPsbt(t, 1000)
	bounds.UnsignedTx.TxIn[0].PreviousOutPoint.Index = 5
	bounds.Inputs[0].NonWitnessUtxo = testTx(2000)
	_, err = PsbtFee(bounds)
	var outOfBounds *UtxoOutOfBoundsError
	require.ErrorAs(t, err, &outOfBounds)
	require.EqualValues(t, 5, outOfBounds.Vout)
	require.Equal(t, 1, outOfBounds.NumOutputs)
}

// finalizedPsbt returns a PSBT whose only input is final and spends value.
func finalizedPsbt(t *testing.T, value int64, outputs ...int64) *psbt.Packet {
	t.Helper()

	p := newTestPsbt(t, outputs...)
	p.Inputs[0].WitnessUtxo = wire.NewTxOut(value, []byte{0x51})
	p.Inputs[0].FinalScriptWitness = []byte{0x01, 0x01, 0x51}

	return p
}

// TestExtractTx checks the extraction guards in the order they apply.
func TestExtractTx(t *testing.T) {
	t.Parallel()

	tx, err := ExtractTx(finalizedPsbt(t, 10_000, 9_000), DefaultMaxFeeRate)
	require.NoError(t, err)
	require.Len(t, tx.TxIn[0].Witness, 1)

	_, err = ExtractTx(newTestPsbt(t, 1000), DefaultMaxFeeRate)
	var missing *MissingInputValueError
	require.ErrorAs(t, err, &missing)

	_, err = ExtractTx(finalizedPsbt(t, 1000, 2000), DefaultMaxFeeRate)
	var tooMuch *SendingTooMuchError
	require.ErrorAs(t, err, &tooMuch)
	require.Equal(t, btcutil.Amount(2000), tooMuch.Outputs)

	incomplete := finalizedPsbt(t, 10_000, 9_000)
	incomplete.Inputs[0].FinalScriptWitness = nil
	_, err = ExtractTx(incomplete, DefaultMaxFeeRate)
	require.ErrorIs(t, err, psbt.ErrIncompletePSBT)

	_, err = ExtractTx(
		finalizedPsbt(t, btcutil.SatoshiPerBitcoin, 0),
		DefaultMaxFeeRate,
	)
	var absurd *AbsurdFeeRateError
	require.ErrorAs(t, err, &absurd)
	require.Greater(t, absurd.FeeRate, DefaultMaxFeeRate)
	require.Equal(t, DefaultMaxFeeRate, absurd.Max)
}
