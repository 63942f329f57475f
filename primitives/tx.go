package primitives

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcffi/btcffi/build"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// messageHeaderSize is the size of a P2P message envelope: magic,
	// command, payload length and checksum.
	messageHeaderSize = 24

	// commandSize is the fixed width of the command field.
	commandSize = 12
)

var (
	// ErrDataNotConsumed is returned when a decoder stops before the end of
	// its input.
	ErrDataNotConsumed = errors.New("data not consumed entirely when " +
		"explicitly deserializing")
)

// ChecksumMismatchError is returned when the checksum in a message header
// does not commit to the payload.
type ChecksumMismatchError struct {
	Expected [4]byte
	Actual   [4]byte
}

// Error returns a human readable description of the error.
func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("invalid checksum: expected %x, actual %x",
		e.Expected, e.Actual)
}

// OversizedAllocationError is returned when a length prefix asks for more
// memory than a decoder is willing to allocate.
type OversizedAllocationError struct {
	Requested uint64
	Max       uint64
}

// Error returns a human readable description of the error.
func (e *OversizedAllocationError) Error() string {
	return fmt.Sprintf("allocation of oversized vector: requested %d, "+
		"maximum %d", e.Requested, e.Max)
}

// DecodeTransaction deserializes a transaction in either the legacy or the
// segwit encoding. The whole input must be consumed.
func DecodeTransaction(raw []byte) (*wire.MsgTx, error) {
	if uint64(len(raw)) > wire.MaxMessagePayload {
		return nil, &OversizedAllocationError{
			Requested: uint64(len(raw)),
			Max:       wire.MaxMessagePayload,
		}
	}

	r := bytes.NewReader(raw)
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(r); err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		log.Debugf("Transaction decode left %d trailing bytes", r.Len())
		return nil, ErrDataNotConsumed
	}

	log.Tracef("Decoded transaction %v: %v", tx.TxHash(),
		build.SpewLogClosure(tx))

	return tx, nil
}

// DecodeMessage decodes a single P2P message envelope for the given network.
// The envelope is checked before the payload is handed to the wire package
// so that a bad length or checksum surfaces as a typed error.
func DecodeMessage(raw []byte, pver uint32,
	net wire.BitcoinNet) (wire.Message, error) {

	r := bytes.NewReader(raw)

	var header [messageHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	magic := wire.BitcoinNet(binary.LittleEndian.Uint32(header[0:4]))
	if magic != net {
		return nil, &wire.MessageError{
			Func: "primitives.DecodeMessage",
			Description: fmt.Sprintf("message from other network "+
				"[%v]", magic),
		}
	}

	command := string(bytes.TrimRight(
		header[4:4+commandSize], "\x00",
	))

	length := binary.LittleEndian.Uint32(header[16:20])
	if length > wire.MaxMessagePayload {
		return nil, &OversizedAllocationError{
			Requested: uint64(length),
			Max:       wire.MaxMessagePayload,
		}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	var expected, actual [4]byte
	copy(expected[:], header[20:24])
	copy(actual[:], chainhash.DoubleHashB(payload)[:4])
	if expected != actual {
		return nil, &ChecksumMismatchError{
			Expected: expected,
			Actual:   actual,
		}
	}

	if r.Len() != 0 {
		return nil, ErrDataNotConsumed
	}

	// The envelope is sound, so the wire package only has the payload
	// itself left to reject.
	_, msg, _, err := wire.ReadMessageWithEncodingN(
		bytes.NewReader(raw), pver, net, wire.WitnessEncoding,
	)
	if err != nil {
		return nil, err
	}

	log.Debugf("Decoded %s message of %d bytes", command, length)

	return msg, nil
}
