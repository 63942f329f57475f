package ffi

import (
	"github.com/btcffi/btcffi/ffierr"
	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/wire"
)

// Message is a decoded peer to peer network message.
type Message struct {
	msg wire.Message
}

// DecodeMessage decodes a network message sent on network, envelope
// included. The error is an ffierr.EncodeError.
func DecodeMessage(raw []byte, network Network) (*Message, error) {
	params, err := network.Params()
	if err != nil {
		return nil, ffierr.NewEncodeError(err)
	}

	msg, err := primitives.DecodeMessage(
		raw, wire.ProtocolVersion, params.Net,
	)
	if err != nil {
		return nil, ffierr.NewEncodeError(err)
	}

	return &Message{msg: msg}, nil
}

// Command returns the command of the message.
func (m *Message) Command() string {
	return m.msg.Command()
}

// Transaction returns the transaction carried by a tx message.
func (m *Message) Transaction() (*Transaction, bool) {
	tx, ok := m.msg.(*wire.MsgTx)
	if !ok {
		return nil, false
	}

	return TransactionFromCore(tx), true
}

// Core returns the wire message.
func (m *Message) Core() wire.Message {
	return m.msg
}
