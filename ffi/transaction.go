package ffi

import (
	"bytes"

	"github.com/btcffi/btcffi/ffierr"
	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

const (
	// maxRbfSequence is the highest sequence number that signals
	// replaceability.
	maxRbfSequence = wire.MaxTxInSequenceNum - 2
)

// TxIn is an input of a transaction.
type TxIn struct {
	PreviousOutput OutPoint
	ScriptSig      Script
	Sequence       uint32
	Witness        [][]byte
}

// TxOut is an output of a transaction.
type TxOut struct {
	Value        Amount
	ScriptPubkey Script
}

// Transaction is an immutable bitcoin transaction.
type Transaction struct {
	tx *wire.MsgTx
}

// NewTransaction decodes a serialized transaction. The error is an
// ffierr.EncodeError.
func NewTransaction(raw []byte) (*Transaction, error) {
	tx, err := primitives.DecodeTransaction(raw)
	if err != nil {
		return nil, ffierr.NewEncodeError(err)
	}

	return &Transaction{tx: tx}, nil
}

// TransactionFromCore wraps a copy of tx.
func TransactionFromCore(tx *wire.MsgTx) *Transaction {
	return &Transaction{tx: tx.Copy()}
}

// Core returns a copy of the wire transaction.
func (t *Transaction) Core() *wire.MsgTx {
	return t.tx.Copy()
}

// ComputeTxid returns the txid of the transaction.
func (t *Transaction) ComputeTxid() Txid {
	return TxidFromCore(t.tx.TxHash())
}

// Serialize returns the transaction in the segwit encoding when it has
// witness data and in the legacy encoding otherwise.
func (t *Transaction) Serialize() []byte {
	var b bytes.Buffer
	b.Grow(t.tx.SerializeSize())

	// Writing to a bytes.Buffer cannot fail.
	_ = t.tx.Serialize(&b)

	return b.Bytes()
}

// Weight returns the weight of the transaction in weight units.
func (t *Transaction) Weight() uint64 {
	return uint64(blockchain.GetTransactionWeight(btcutil.NewTx(t.tx)))
}

// Vsize returns the virtual size of the transaction, rounded up.
func (t *Transaction) Vsize() uint64 {
	return (t.Weight() + blockchain.WitnessScaleFactor - 1) /
		blockchain.WitnessScaleFactor
}

// TotalSize returns the serialized size of the transaction.
func (t *Transaction) TotalSize() uint64 {
	return uint64(t.tx.SerializeSize())
}

// IsExplicitlyRbf reports whether any input signals replaceability.
func (t *Transaction) IsExplicitlyRbf() bool {
	for _, in := range t.tx.TxIn {
		if in.Sequence <= maxRbfSequence {
			return true
		}
	}

	return false
}

// IsLockTimeEnabled reports whether any input leaves the lock time in
// force.
func (t *Transaction) IsLockTimeEnabled() bool {
	for _, in := range t.tx.TxIn {
		if in.Sequence != wire.MaxTxInSequenceNum {
			return true
		}
	}

	return false
}

// Version returns the version of the transaction.
func (t *Transaction) Version() int32 {
	return t.tx.Version
}

// LockTime returns the lock time of the transaction.
func (t *Transaction) LockTime() uint32 {
	return t.tx.LockTime
}

// Inputs returns the inputs of the transaction.
func (t *Transaction) Inputs() []TxIn {
	inputs := make([]TxIn, 0, len(t.tx.TxIn))
	for _, in := range t.tx.TxIn {
		witness := make([][]byte, 0, len(in.Witness))
		for _, item := range in.Witness {
			witness = append(witness, bytes.Clone(item))
		}

		inputs = append(inputs, TxIn{
			PreviousOutput: OutPointFromCore(in.PreviousOutPoint),
			ScriptSig:      NewScript(in.SignatureScript),
			Sequence:       in.Sequence,
			Witness:        witness,
		})
	}

	return inputs
}

// Outputs returns the outputs of the transaction.
func (t *Transaction) Outputs() []TxOut {
	outputs := make([]TxOut, 0, len(t.tx.TxOut))
	for _, out := range t.tx.TxOut {
		outputs = append(outputs, TxOut{
			Value:        AmountFromCore(btcutil.Amount(out.Value)),
			ScriptPubkey: NewScript(out.PkScript),
		})
	}

	return outputs
}
