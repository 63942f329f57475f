package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcffi/btcffi/ffi"
	"github.com/urfave/cli"
)

var decodePsbtCommand = cli.Command{
	Name:      "decodepsbt",
	Category:  "PSBT",
	Usage:     "Decode a base64 encoded psbt.",
	ArgsUsage: "psbt_base64",
	Action:    stableAction(decodePsbt),
}

func decodePsbt(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	packet, err := ffi.NewPsbt(ctx.Args().First())
	if err != nil {
		return err
	}

	desc, err := packet.JSONSerialize()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(ctx.App.Writer, desc)

	return err
}

type psbtResp struct {
	Psbt string `json:"psbt"`
}

var combinePsbtCommand = cli.Command{
	Name:      "combinepsbt",
	Category:  "PSBT",
	Usage:     "Combine two psbts of the same transaction.",
	ArgsUsage: "psbt_base64 other_psbt_base64",
	Action:    stableAction(combinePsbt),
}

func combinePsbt(ctx *cli.Context) error {
	if err := checkArgs(ctx, 2); err != nil {
		return err
	}

	packet, err := ffi.NewPsbt(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	other, err := ffi.NewPsbt(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	combined, err := packet.Combine(other)
	if err != nil {
		return err
	}

	encoded, err := combined.Serialize()
	if err != nil {
		return err
	}

	return printJSON(ctx, psbtResp{Psbt: encoded})
}

var psbtFeeCommand = cli.Command{
	Name:      "psbtfee",
	Category:  "PSBT",
	Usage:     "Compute the fee paid by a psbt.",
	ArgsUsage: "psbt_base64",
	Action:    stableAction(psbtFee),
}

type feeResp struct {
	FeeSat uint64 `json:"fee_sat"`
}

func psbtFee(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	packet, err := ffi.NewPsbt(ctx.Args().First())
	if err != nil {
		return err
	}

	fee, err := packet.Fee()
	if err != nil {
		return err
	}

	return printJSON(ctx, feeResp{FeeSat: fee})
}

var finalizePsbtCommand = cli.Command{
	Name:      "finalizepsbt",
	Category:  "PSBT",
	Usage:     "Validate a psbt and finalize every input it can.",
	ArgsUsage: "psbt_base64",
	Action:    stableAction(finalizePsbt),
}

func finalizePsbt(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	packet, err := ffi.NewPsbt(ctx.Args().First())
	if err != nil {
		return err
	}

	if err := packet.Finalize(); err != nil {
		return err
	}

	encoded, err := packet.Serialize()
	if err != nil {
		return err
	}

	return printJSON(ctx, psbtResp{Psbt: encoded})
}

var extractTxCommand = cli.Command{
	Name:     "extracttx",
	Category: "PSBT",
	Usage: "Extract the final transaction of a psbt, refusing fee rates " +
		"above --maxfeerate.",
	ArgsUsage: "psbt_base64",
	Action:    stableAction(extractTx),
}

type extractResp struct {
	Txid string `json:"txid"`
	Tx   string `json:"tx"`
}

func extractTx(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	maxFeeRate, err := getConfig(ctx).MaxFeeRateLimit()
	if err != nil {
		return err
	}

	packet, err := ffi.NewPsbt(ctx.Args().First())
	if err != nil {
		return err
	}

	tx, err := packet.ExtractTxWithFeeRateLimit(maxFeeRate)
	if err != nil {
		return err
	}

	return printJSON(ctx, extractResp{
		Txid: tx.ComputeTxid().String(),
		Tx:   hex.EncodeToString(tx.Serialize()),
	})
}
