package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcffi/btcffi/ffi"
	"github.com/urfave/cli"
)

var decodeTxCommand = cli.Command{
	Name:      "decodetx",
	Category:  "Transactions",
	Usage:     "Decode a serialized transaction.",
	ArgsUsage: "tx_hex",
	Action:    stableAction(decodeTx),
}

type txInResp struct {
	PreviousOutput string   `json:"previous_output"`
	ScriptSig      string   `json:"script_sig"`
	Sequence       uint32   `json:"sequence"`
	Witness        []string `json:"witness,omitempty"`
}

type txOutResp struct {
	Value        uint64 `json:"value"`
	ScriptPubkey string `json:"script_pubkey"`
	Address      string `json:"address,omitempty"`
}

type txResp struct {
	Txid            string      `json:"txid"`
	Version         int32       `json:"version"`
	LockTime        uint32      `json:"lock_time"`
	Size            uint64      `json:"size"`
	Vsize           uint64      `json:"vsize"`
	Weight          uint64      `json:"weight"`
	Rbf             bool        `json:"rbf"`
	LockTimeEnabled bool        `json:"lock_time_enabled"`
	Inputs          []txInResp  `json:"inputs"`
	Outputs         []txOutResp `json:"outputs"`
}

// newTxResp describes tx. Output addresses are derived for network where
// the script has an address form.
func newTxResp(tx *ffi.Transaction, network ffi.Network) txResp {
	resp := txResp{
		Txid:            tx.ComputeTxid().String(),
		Version:         tx.Version(),
		LockTime:        tx.LockTime(),
		Size:            tx.TotalSize(),
		Vsize:           tx.Vsize(),
		Weight:          tx.Weight(),
		Rbf:             tx.IsExplicitlyRbf(),
		LockTimeEnabled: tx.IsLockTimeEnabled(),
	}

	for _, in := range tx.Inputs() {
		input := txInResp{
			PreviousOutput: in.PreviousOutput.String(),
			ScriptSig:      in.ScriptSig.String(),
			Sequence:       in.Sequence,
		}
		for _, item := range in.Witness {
			input.Witness = append(
				input.Witness, hex.EncodeToString(item),
			)
		}

		resp.Inputs = append(resp.Inputs, input)
	}

	for _, out := range tx.Outputs() {
		output := txOutResp{
			Value:        out.Value.ToSat(),
			ScriptPubkey: out.ScriptPubkey.String(),
		}

		addr, err := ffi.AddressFromScript(out.ScriptPubkey, network)
		if err == nil {
			output.Address = addr.String()
		}

		resp.Outputs = append(resp.Outputs, output)
	}

	return resp
}

func decodeTx(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	network, err := getConfig(ctx).ChainNetwork()
	if err != nil {
		return err
	}

	raw, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return fmt.Errorf("invalid transaction hex: %w", err)
	}

	tx, err := ffi.NewTransaction(raw)
	if err != nil {
		return err
	}

	return printJSON(ctx, newTxResp(tx, network))
}

var decodeMsgCommand = cli.Command{
	Name:      "decodemsg",
	Category:  "Transactions",
	Usage:     "Decode a peer to peer message, envelope included.",
	ArgsUsage: "msg_hex",
	Action:    stableAction(decodeMsg),
}

type msgResp struct {
	Command string  `json:"command"`
	Tx      *txResp `json:"tx,omitempty"`
}

func decodeMsg(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	network, err := getConfig(ctx).ChainNetwork()
	if err != nil {
		return err
	}

	raw, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return fmt.Errorf("invalid message hex: %w", err)
	}

	msg, err := ffi.DecodeMessage(raw, network)
	if err != nil {
		return err
	}

	resp := msgResp{Command: msg.Command()}
	if tx, ok := msg.Transaction(); ok {
		txDesc := newTxResp(tx, network)
		resp.Tx = &txDesc
	}

	return printJSON(ctx, resp)
}
