package ffi

import (
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/btcffi/btcffi/ffierr"
	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil/psbt"
)

// Psbt is a partially signed transaction. It is safe for concurrent use.
type Psbt struct {
	mu     sync.Mutex
	packet *psbt.Packet
}

// NewPsbt parses a base64 encoded psbt. The error is an
// ffierr.PsbtParseError.
func NewPsbt(psbtBase64 string) (*Psbt, error) {
	packet, err := primitives.ParsePsbtBase64(psbtBase64)
	if err != nil {
		log.Debugf("Rejected psbt: %v", err)

		return nil, ffierr.NewPsbtParseError(err)
	}

	return &Psbt{packet: packet}, nil
}

// PsbtFromUnsignedTx creates a psbt spending the inputs of tx. The error is
// an ffierr.PsbtError.
func PsbtFromUnsignedTx(tx *Transaction) (*Psbt, error) {
	packet, err := primitives.NewPsbtFromUnsignedTx(tx.Core())
	if err != nil {
		return nil, ffierr.NewPsbtError(err)
	}

	return &Psbt{packet: packet}, nil
}

// Serialize returns the psbt encoded as base64. The error is an
// ffierr.PsbtError.
func (p *Psbt) Serialize() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	encoded, err := p.packet.B64Encode()
	if err != nil {
		return "", ffierr.NewPsbtError(err)
	}

	return encoded, nil
}

// Combine returns a new psbt holding the data of both p and other. The
// error is an ffierr.PsbtError.
func (p *Psbt) Combine(other *Psbt) (*Psbt, error) {
	// The packet of other is copied before p is locked, since p and other
	// may be the same psbt.
	otherPacket, err := other.snapshot()
	if err != nil {
		return nil, ffierr.NewPsbtError(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	combined, err := primitives.CombinePsbt(p.packet, otherPacket)
	if err != nil {
		return nil, ffierr.NewPsbtError(err)
	}

	return &Psbt{packet: combined}, nil
}

// snapshot returns a deep copy of the packet of p taken under its lock, so
// the copy can be read after the lock is released.
func (p *Psbt) snapshot() (*psbt.Packet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return primitives.CopyPsbt(p.packet)
}

// Fee returns the fee paid by the psbt in satoshis. The error is an
// ffierr.PsbtError.
func (p *Psbt) Fee() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fee, err := primitives.PsbtFee(p.packet)
	if err != nil {
		return 0, ffierr.NewPsbtError(err)
	}

	return uint64(fee), nil
}

// Finalize validates the psbt and finalizes every input it can. The error
// is an ffierr.PsbtError.
func (p *Psbt) Finalize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := primitives.FinalizePsbt(p.packet); err != nil {
		return ffierr.NewPsbtError(err)
	}

	return nil
}

// ExtractTx returns the final transaction, refusing fee rates above the
// default maximum. The error is an ffierr.ExtractTxError.
func (p *Psbt) ExtractTx() (*Transaction, error) {
	return p.ExtractTxWithFeeRateLimit(
		FeeRate{rate: primitives.DefaultMaxFeeRate},
	)
}

// ExtractTxWithFeeRateLimit returns the final transaction, refusing fee
// rates above maxFeeRate. The error is an ffierr.ExtractTxError.
func (p *Psbt) ExtractTxWithFeeRateLimit(maxFeeRate FeeRate) (*Transaction,
	error) {

	p.mu.Lock()
	defer p.mu.Unlock()

	tx, err := primitives.ExtractTx(p.packet, maxFeeRate.rate)
	if err != nil {
		return nil, ffierr.NewExtractTxError(err)
	}

	return &Transaction{tx: tx}, nil
}

// psbtInputJSON is the JSON form of a psbt input.
type psbtInputJSON struct {
	PreviousOutput    string   `json:"previous_output"`
	WitnessUtxoValue  *int64   `json:"witness_utxo_value,omitempty"`
	HasNonWitnessUtxo bool     `json:"has_non_witness_utxo"`
	PartialSigs       []string `json:"partial_sigs,omitempty"`
	SighashType       uint32   `json:"sighash_type,omitempty"`
	Bip32Derivations  []string `json:"bip32_derivations,omitempty"`
	Final             bool     `json:"final"`
}

// psbtOutputJSON is the JSON form of a psbt output.
type psbtOutputJSON struct {
	Value            int64    `json:"value"`
	ScriptPubkey     string   `json:"script_pubkey"`
	Bip32Derivations []string `json:"bip32_derivations,omitempty"`
}

// psbtJSON is the JSON form of a psbt.
type psbtJSON struct {
	Txid     string           `json:"txid"`
	Version  int32            `json:"version"`
	LockTime uint32           `json:"lock_time"`
	Inputs   []psbtInputJSON  `json:"inputs"`
	Outputs  []psbtOutputJSON `json:"outputs"`
	Fee      *uint64          `json:"fee,omitempty"`
	Unknowns int              `json:"unknowns"`
}

// JSONSerialize returns a JSON description of the psbt.
func (p *Psbt) JSONSerialize() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx := p.packet.UnsignedTx
	view := psbtJSON{
		Txid:     tx.TxHash().String(),
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Inputs:   make([]psbtInputJSON, 0, len(p.packet.Inputs)),
		Outputs:  make([]psbtOutputJSON, 0, len(p.packet.Outputs)),
		Unknowns: len(p.packet.Unknowns),
	}

	for i, in := range p.packet.Inputs {
		input := psbtInputJSON{
			PreviousOutput:    tx.TxIn[i].PreviousOutPoint.String(),
			HasNonWitnessUtxo: in.NonWitnessUtxo != nil,
			SighashType:       uint32(in.SighashType),
			Final: len(in.FinalScriptSig) != 0 ||
				len(in.FinalScriptWitness) != 0,
		}
		if in.WitnessUtxo != nil {
			value := in.WitnessUtxo.Value
			input.WitnessUtxoValue = &value
		}
		for _, sig := range in.PartialSigs {
			input.PartialSigs = append(
				input.PartialSigs, hex.EncodeToString(sig.PubKey),
			)
		}
		for _, derivation := range in.Bip32Derivation {
			input.Bip32Derivations = append(
				input.Bip32Derivations,
				hex.EncodeToString(derivation.PubKey),
			)
		}

		view.Inputs = append(view.Inputs, input)
	}

	for i, out := range p.packet.Outputs {
		output := psbtOutputJSON{
			Value:        tx.TxOut[i].Value,
			ScriptPubkey: hex.EncodeToString(tx.TxOut[i].PkScript),
		}
		for _, derivation := range out.Bip32Derivation {
			output.Bip32Derivations = append(
				output.Bip32Derivations,
				hex.EncodeToString(derivation.PubKey),
			)
		}

		view.Outputs = append(view.Outputs, output)
	}

	if fee, err := primitives.PsbtFee(p.packet); err == nil {
		sats := uint64(fee)
		view.Fee = &sats
	}

	b, err := json.MarshalIndent(view, "", "    ")
	if err != nil {
		return "", err
	}

	return string(b), nil
}
