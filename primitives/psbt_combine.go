package primitives

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// UnexpectedUnsignedTxError is returned when two PSBTs that are combined do
// not share the same unsigned transaction.
type UnexpectedUnsignedTxError struct {
	Expected chainhash.Hash
	Actual   chainhash.Hash
}

// Error returns a human readable description of the error.
func (e *UnexpectedUnsignedTxError) Error() string {
	return fmt.Sprintf("different unsigned transaction: expected %v, "+
		"actual %v", e.Expected, e.Actual)
}

// InconsistentKeySourcesError is returned when two PSBTs that are combined
// assign different key origins to the same public key.
type InconsistentKeySourcesError struct {
	PubKey []byte
}

// Error returns a human readable description of the error.
func (e *InconsistentKeySourcesError) Error() string {
	return fmt.Sprintf("combine conflict: inconsistent key sources for "+
		"%x", e.PubKey)
}

// CombinePsbt merges the data of other into a copy of p as a BIP 174
// combiner. Values present in p win over values present in other, except
// for key origins, which must agree.
func CombinePsbt(p, other *psbt.Packet) (*psbt.Packet, error) {
	expected := p.UnsignedTx.TxHash()
	actual := other.UnsignedTx.TxHash()
	if expected != actual {
		return nil, &UnexpectedUnsignedTxError{
			Expected: expected,
			Actual:   actual,
		}
	}

	combined, err := CopyPsbt(p)
	if err != nil {
		return nil, err
	}

	combined.Unknowns = mergeUnknowns(combined.Unknowns, other.Unknowns)

	for i := range combined.Inputs {
		if err := mergeInput(
			&combined.Inputs[i], &other.Inputs[i],
		); err != nil {
			return nil, err
		}
	}

	for i := range combined.Outputs {
		if err := mergeOutput(
			&combined.Outputs[i], &other.Outputs[i],
		); err != nil {
			return nil, err
		}
	}

	log.Debugf("Combined psbts for unsigned tx %v", expected)

	return combined, nil
}

// CopyPsbt returns a deep copy of p by round tripping its encoding. The copy
// shares no memory with p.
func CopyPsbt(p *psbt.Packet) (*psbt.Packet, error) {
	raw, err := SerializePsbt(p)
	if err != nil {
		return nil, err
	}

	return psbt.NewFromRawBytes(bytes.NewReader(raw), false)
}

func mergeInput(dst, src *psbt.PInput) error {
	if dst.NonWitnessUtxo == nil {
		dst.NonWitnessUtxo = src.NonWitnessUtxo
	}
	if dst.WitnessUtxo == nil {
		dst.WitnessUtxo = src.WitnessUtxo
	}
	if dst.SighashType == 0 {
		dst.SighashType = src.SighashType
	}

	dst.RedeemScript = firstNonEmpty(dst.RedeemScript, src.RedeemScript)
	dst.WitnessScript = firstNonEmpty(dst.WitnessScript, src.WitnessScript)
	dst.FinalScriptSig = firstNonEmpty(
		dst.FinalScriptSig, src.FinalScriptSig,
	)
	dst.FinalScriptWitness = firstNonEmpty(
		dst.FinalScriptWitness, src.FinalScriptWitness,
	)
	dst.TaprootKeySpendSig = firstNonEmpty(
		dst.TaprootKeySpendSig, src.TaprootKeySpendSig,
	)
	dst.TaprootInternalKey = firstNonEmpty(
		dst.TaprootInternalKey, src.TaprootInternalKey,
	)
	dst.TaprootMerkleRoot = firstNonEmpty(
		dst.TaprootMerkleRoot, src.TaprootMerkleRoot,
	)

	for _, sig := range src.PartialSigs {
		idx := slices.IndexFunc(
			dst.PartialSigs, func(s *psbt.PartialSig) bool {
				return bytes.Equal(s.PubKey, sig.PubKey)
			},
		)
		if idx == -1 {
			dst.PartialSigs = append(dst.PartialSigs, sig)
		}
	}

	var err error
	dst.Bip32Derivation, err = mergeDerivations(
		dst.Bip32Derivation, src.Bip32Derivation,
	)
	if err != nil {
		return err
	}

	dst.Unknowns = mergeUnknowns(dst.Unknowns, src.Unknowns)

	return nil
}

func mergeOutput(dst, src *psbt.POutput) error {
	dst.RedeemScript = firstNonEmpty(dst.RedeemScript, src.RedeemScript)
	dst.WitnessScript = firstNonEmpty(dst.WitnessScript, src.WitnessScript)
	dst.TaprootInternalKey = firstNonEmpty(
		dst.TaprootInternalKey, src.TaprootInternalKey,
	)
	dst.TaprootTapTree = firstNonEmpty(
		dst.TaprootTapTree, src.TaprootTapTree,
	)

	var err error
	dst.Bip32Derivation, err = mergeDerivations(
		dst.Bip32Derivation, src.Bip32Derivation,
	)
	if err != nil {
		return err
	}

	dst.Unknowns = mergeUnknowns(dst.Unknowns, src.Unknowns)

	return nil
}

// mergeDerivations adds the derivations of src missing from dst. A public
// key present in both must have the same origin.
func mergeDerivations(dst,
	src []*psbt.Bip32Derivation) ([]*psbt.Bip32Derivation, error) {

	for _, d := range src {
		idx := slices.IndexFunc(
			dst, func(existing *psbt.Bip32Derivation) bool {
				return bytes.Equal(existing.PubKey, d.PubKey)
			},
		)
		if idx == -1 {
			dst = append(dst, d)
			continue
		}

		existing := dst[idx]
		if existing.MasterKeyFingerprint != d.MasterKeyFingerprint ||
			!slices.Equal(existing.Bip32Path, d.Bip32Path) {

			return nil, &InconsistentKeySourcesError{
				PubKey: d.PubKey,
			}
		}
	}

	return dst, nil
}

// mergeUnknowns adds the unknown pairs of src whose keys are missing from dst.
func mergeUnknowns(dst, src []*psbt.Unknown) []*psbt.Unknown {
	for _, u := range src {
		idx := slices.IndexFunc(dst, func(existing *psbt.Unknown) bool {
			return bytes.Equal(existing.Key, u.Key)
		})
		if idx == -1 {
			dst = append(dst, u)
		}
	}

	return dst
}

func firstNonEmpty(a, b []byte) []byte {
	if len(a) != 0 {
		return a
	}

	return b
}
