package ffierr

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

func messageError(desc string) *wire.MessageError {
	return &wire.MessageError{Func: "test", Description: desc}
}

// TestNewEncodeError checks the mapping of every consensus decoding error.
func TestNewEncodeError(t *testing.T) {
	t.Parallel()

	checksumDesc := fmt.Sprintf("payload checksum failed - header "+
		"indicates %v, but actual checksum is %v.",
		[4]byte{0xde, 0xad, 0xbe, 0xef},
		[]byte{0xfe, 0xed, 0xfa, 0xce})

	cases := []mapperCase{{
		name:     "eof",
		err:      io.EOF,
		expected: EncodeErrorIo{},
	}, {
		name:     "unexpected eof",
		err:      io.ErrUnexpectedEOF,
		expected: EncodeErrorIo{},
	}, {
		name: "typed checksum",
		err: &primitives.ChecksumMismatchError{
			Expected: [4]byte{0xde, 0xad, 0xbe, 0xef},
			Actual:   [4]byte{0xfe, 0xed, 0xfa, 0xce},
		},
		expected: EncodeErrorInvalidChecksum{
			Expected: "deadbeef",
			Actual:   "feedface",
		},
	}, {
		name: "wire checksum",
		err:  messageError(checksumDesc),
		expected: EncodeErrorInvalidChecksum{
			Expected: "deadbeef",
			Actual:   "feedface",
		},
	}, {
		name: "typed oversized",
		err: &primitives.OversizedAllocationError{
			Requested: 1 << 40,
			Max:       wire.MaxMessagePayload,
		},
		expected: EncodeErrorOversizedVectorAllocation{},
	}, {
		name: "wire count guard",
		err: messageError("too many input transactions to fit into " +
			"max message size [count 100000000, max 1000000]"),
		expected: EncodeErrorOversizedVectorAllocation{},
	}, {
		name: "wire var bytes guard",
		err: messageError("sigScript is larger than the max allowed " +
			"size [count 99999999, max 32000000]"),
		expected: EncodeErrorOversizedVectorAllocation{},
	}, {
		name: "non-canonical varint",
		err: messageError("non-canonical varint fd - discriminant fd " +
			"must encode a value greater than fd"),
		expected: EncodeErrorNonMinimalVarInt{},
	}, {
		name:     "segwit flag",
		err:      messageError("witness tx but flag byte is 2"),
		expected: EncodeErrorUnsupportedSegwitFlag{Flag: 2},
	}, {
		name:     "segwit flag hex",
		err:      messageError("witness tx but flag byte is ff"),
		expected: EncodeErrorUnsupportedSegwitFlag{Flag: 0xff},
	}, {
		name: "other message error",
		err:  messageError("something unexpected"),
		expected: EncodeErrorParseFailed{
			ErrorMessage: "something unexpected",
		},
	}, {
		name: "data not consumed",
		err:  primitives.ErrDataNotConsumed,
		expected: EncodeErrorParseFailed{
			ErrorMessage: primitives.ErrDataNotConsumed.Error(),
		},
	}, {
		name:     "unknown",
		err:      errors.New("unknown"),
		expected: EncodeErrorOther{},
	}}

	runMapperCases(t, func(err error) StableError {
		return NewEncodeError(err)
	}, cases)
}

// TestInvalidChecksumDisplay checks the rendering of a checksum mismatch.
func TestInvalidChecksumDisplay(t *testing.T) {
	t.Parallel()

	err := EncodeErrorInvalidChecksum{
		Expected: "deadbeef",
		Actual:   "feedface",
	}
	require.Equal(
		t, "invalid checksum: expected=deadbeef actual=feedface",
		err.Error(),
	)
}

// TestDecodeMessageErrors checks the variants produced for corrupt
// network messages.
func TestDecodeMessageErrors(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	err := wire.WriteMessage(
		&b, wire.NewMsgPing(7), wire.ProtocolVersion, wire.MainNet,
	)
	require.NoError(t, err)
	raw := b.Bytes()

	t.Run("checksum", func(t *testing.T) {
		t.Parallel()

		corrupt := bytes.Clone(raw)
		copy(corrupt[20:24], []byte{0xde, 0xad, 0xbe, 0xef})

		_, err := primitives.DecodeMessage(
			corrupt, wire.ProtocolVersion, wire.MainNet,
		)
		actual := chainhash.DoubleHashB(raw[24:])[:4]

		require.Equal(t, EncodeErrorInvalidChecksum{
			Expected: "deadbeef",
			Actual:   hex.EncodeToString(actual),
		}, NewEncodeError(err))
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		_, err := primitives.DecodeMessage(
			raw[:len(raw)-2], wire.ProtocolVersion, wire.MainNet,
		)
		require.Equal(t, EncodeErrorIo{}, NewEncodeError(err))
	})

	t.Run("transaction trailing data", func(t *testing.T) {
		t.Parallel()

		tx := wire.NewMsgTx(2)
		tx.AddTxIn(&wire.TxIn{})
		tx.AddTxOut(wire.NewTxOut(1000, []byte{0x51}))

		var txBuf bytes.Buffer
		require.NoError(t, tx.Serialize(&txBuf))

		_, err := primitives.DecodeTransaction(
			append(txBuf.Bytes(), 0x00),
		)
		require.Equal(t, "ParseFailed", VariantName(NewEncodeError(err)))
	})
}
