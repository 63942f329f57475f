package primitives

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

// MissingUtxoError is returned when a PSBT input has neither a witness nor a
// non-witness utxo.
type MissingUtxoError struct {
	Index int
}

// Error returns a human readable description of the error.
func (e *MissingUtxoError) Error() string {
	return fmt.Sprintf("input %d is missing its utxo", e.Index)
}

// UtxoOutOfBoundsError is returned when the outpoint of a PSBT input points
// past the outputs of its non-witness utxo.
type UtxoOutOfBoundsError struct {
	Index      int
	Vout       uint32
	NumOutputs int
}

// Error returns a human readable description of the error.
func (e *UtxoOutOfBoundsError) Error() string {
	return fmt.Sprintf("input %d spends output %d of a transaction with "+
		"%d outputs", e.Index, e.Vout, e.NumOutputs)
}

// MissingInputValueError is returned when a transaction can not be extracted
// because the value an input spends is unknown.
type MissingInputValueError struct {
	Index int
}

// Error returns a human readable description of the error.
func (e *MissingInputValueError) Error() string {
	return fmt.Sprintf("input %d value is missing", e.Index)
}

// SendingTooMuchError is returned when the outputs of a PSBT being extracted
// spend more than its inputs.
type SendingTooMuchError struct {
	Inputs  btcutil.Amount
	Outputs btcutil.Amount
}

// Error returns a human readable description of the error.
func (e *SendingTooMuchError) Error() string {
	return fmt.Sprintf("transaction would send %v from %v of inputs",
		e.Outputs, e.Inputs)
}

// AbsurdFeeRateError is returned when an extracted transaction pays a fee rate
// above the configured maximum.
type AbsurdFeeRateError struct {
	FeeRate SatPerKWeight
	Max     SatPerKWeight
}

// Error returns a human readable description of the error.
func (e *AbsurdFeeRateError) Error() string {
	return fmt.Sprintf("an absurdly high fee rate of %v", e.FeeRate)
}

// inputValue returns the value spent by input i of p.
func inputValue(p *psbt.Packet, i int) (btcutil.Amount, error) {
	in := &p.Inputs[i]
	switch {
	case in.WitnessUtxo != nil:
		return btcutil.Amount(in.WitnessUtxo.Value), nil

	case in.NonWitnessUtxo != nil:
		vout := p.UnsignedTx.TxIn[i].PreviousOutPoint.Index
		if int(vout) >= len(in.NonWitnessUtxo.TxOut) {
			return 0, &UtxoOutOfBoundsError{
				Index:      i,
				Vout:       vout,
				NumOutputs: len(in.NonWitnessUtxo.TxOut),
			}
		}

		return btcutil.Amount(in.NonWitnessUtxo.TxOut[vout].Value), nil
	}

	return 0, &MissingUtxoError{Index: i}
}

// sumAmounts adds the amounts, failing on negative values or overflow.
func sumAmounts(amounts []btcutil.Amount) (btcutil.Amount, error) {
	var total uint64
	for _, amt := range amounts {
		if amt < 0 {
			return 0, ErrFeeOverflow
		}

		var carry uint64
		total, carry = bits.Add64(total, uint64(amt), 0)
		if carry != 0 || total > uint64(btcutil.MaxSatoshi) {
			return 0, ErrFeeOverflow
		}
	}

	return btcutil.Amount(total), nil
}

// psbtTotals returns the total input and output values of p.
func psbtTotals(p *psbt.Packet) (btcutil.Amount, btcutil.Amount, error) {
	ins := make([]btcutil.Amount, 0, len(p.Inputs))
	for i := range p.Inputs {
		value, err := inputValue(p, i)
		if err != nil {
			return 0, 0, err
		}
		ins = append(ins, value)
	}

	outs := make([]btcutil.Amount, 0, len(p.UnsignedTx.TxOut))
	for _, txOut := range p.UnsignedTx.TxOut {
		outs = append(outs, btcutil.Amount(txOut.Value))
	}

	totalIn, err := sumAmounts(ins)
	if err != nil {
		return 0, 0, err
	}

	totalOut, err := sumAmounts(outs)
	if err != nil {
		return 0, 0, err
	}

	return totalIn, totalOut, nil
}

// PsbtFee returns the fee paid by p, which requires the utxo of every input.
func PsbtFee(p *psbt.Packet) (btcutil.Amount, error) {
	totalIn, totalOut, err := psbtTotals(p)
	if err != nil {
		return 0, err
	}

	if totalOut > totalIn {
		return 0, ErrNegativeFee
	}

	return totalIn - totalOut, nil
}

// FinalizePsbt validates p and finalizes every input it can.
func FinalizePsbt(p *psbt.Packet) error {
	if err := ValidatePsbt(p); err != nil {
		return err
	}

	return psbt.MaybeFinalizeAll(p)
}

// ExtractTx returns the signed transaction of a finalized PSBT. The
// extraction is refused when the transaction would pay more than maxFeeRate.
func ExtractTx(p *psbt.Packet, maxFeeRate SatPerKWeight) (*wire.MsgTx,
	error) {

	totalIn, totalOut, err := psbtTotals(p)
	var missing *MissingUtxoError
	switch {
	case errors.As(err, &missing):
		return nil, &MissingInputValueError{Index: missing.Index}

	case err != nil:
		return nil, err

	case totalOut > totalIn:
		return nil, &SendingTooMuchError{
			Inputs:  totalIn,
			Outputs: totalOut,
		}
	}

	tx, err := psbt.Extract(p)
	if err != nil {
		return nil, err
	}

	weight := blockchain.GetTransactionWeight(btcutil.NewTx(tx))
	fee := totalIn - totalOut
	feeRate := SatPerKWeight(uint64(fee) * 1000 / uint64(weight))

	if feeRate > maxFeeRate {
		log.Warnf("Refusing to extract tx %v paying %v", tx.TxHash(),
			feeRate)

		return nil, &AbsurdFeeRateError{
			FeeRate: feeRate,
			Max:     maxFeeRate,
		}
	}

	return tx, nil
}
