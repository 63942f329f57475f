package ffi

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Txid is the identifier of a transaction. Its string form is the byte
// reversed hex used by block explorers.
type Txid struct {
	hash chainhash.Hash
}

// TxidFromString parses the string form of a txid.
func TxidFromString(s string) (Txid, error) {
	hash, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return Txid{}, fmt.Errorf("invalid txid %q: %w", s, err)
	}

	return Txid{hash: *hash}, nil
}

// TxidFromCore wraps a chainhash.
func TxidFromCore(hash chainhash.Hash) Txid {
	return Txid{hash: hash}
}

// Core returns the chainhash of the txid.
func (t Txid) Core() chainhash.Hash {
	return t.hash
}

// String returns the string form of the txid.
func (t Txid) String() string {
	return t.hash.String()
}

// OutPoint references an output of a transaction.
type OutPoint struct {
	Txid Txid
	Vout uint32
}

// OutPointFromCore converts a wire outpoint.
func OutPointFromCore(op wire.OutPoint) OutPoint {
	return OutPoint{Txid: TxidFromCore(op.Hash), Vout: op.Index}
}

// Core returns the wire outpoint.
func (o OutPoint) Core() wire.OutPoint {
	return wire.OutPoint{Hash: o.Txid.hash, Index: o.Vout}
}

// String returns the outpoint as txid:vout.
func (o OutPoint) String() string {
	return fmt.Sprintf("%v:%d", o.Txid, o.Vout)
}
