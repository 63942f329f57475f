package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcffi/btcffi/ffi"
	"github.com/btcffi/btcffi/ffierr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli"
)

var (
	// errMissingArgs is returned when a command is run without its
	// positional arguments.
	errMissingArgs = errors.New("missing arguments")

	// errUnknownFamily is returned when lifting an error of a family that
	// does not exist.
	errUnknownFamily = errors.New("unknown error family")
)

// failure is printed when a command fails with a stable error.
type failure struct {
	ffierr.Description

	// Lowered is the hex encoding of the error as it crosses the
	// boundary.
	Lowered string `json:"lowered"`
}

// stableAction runs f and prints the stable error it returns, if any,
// before handing it back to the app.
func stableAction(f func(*cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		err := f(ctx)
		stable, ok := ffi.AsStableError(err)
		if !ok {
			return err
		}

		lowered, lowerErr := ffi.LowerError(err)
		if lowerErr != nil {
			return lowerErr
		}

		printErr := printJSON(ctx, failure{
			Description: ffierr.Describe(stable),
			Lowered:     hex.EncodeToString(lowered),
		})
		if printErr != nil {
			return printErr
		}

		return fmt.Errorf("%s.%s: %w", stable.Family(),
			ffierr.VariantName(stable), err)
	}
}

// checkArgs makes sure the command got n positional arguments, showing its
// help otherwise.
func checkArgs(ctx *cli.Context, n int) error {
	if ctx.NArg() >= n {
		return nil
	}

	_ = cli.ShowCommandHelp(ctx, ctx.Command.Name)

	return fmt.Errorf("%w: %s needs %d", errMissingArgs,
		ctx.Command.Name, n)
}

var parseAddressCommand = cli.Command{
	Name:      "parseaddress",
	Category:  "Addresses",
	Usage:     "Parse an address for the configured network.",
	ArgsUsage: "address",
	Action:    stableAction(parseAddress),
}

type addressResp struct {
	Address      string `json:"address"`
	Network      string `json:"network"`
	ScriptPubkey string `json:"script_pubkey"`
}

func parseAddress(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	network, err := getConfig(ctx).ChainNetwork()
	if err != nil {
		return err
	}

	addr, err := ffi.NewAddress(ctx.Args().First(), network)
	if err != nil {
		return err
	}

	script, err := addr.ScriptPubkey()
	if err != nil {
		return err
	}

	return printJSON(ctx, addressResp{
		Address:      addr.String(),
		Network:      addr.Network().String(),
		ScriptPubkey: script.String(),
	})
}

var scriptAddressCommand = cli.Command{
	Name:      "scriptaddress",
	Category:  "Addresses",
	Usage:     "Derive the address paying to an output script.",
	ArgsUsage: "script_hex",
	Action:    stableAction(scriptAddress),
}

func scriptAddress(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	network, err := getConfig(ctx).ChainNetwork()
	if err != nil {
		return err
	}

	raw, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return fmt.Errorf("invalid script hex: %w", err)
	}

	script := ffi.NewScript(raw)
	addr, err := ffi.AddressFromScript(script, network)
	if err != nil {
		return err
	}

	return printJSON(ctx, addressResp{
		Address:      addr.String(),
		Network:      addr.Network().String(),
		ScriptPubkey: script.String(),
	})
}

var parseAmountCommand = cli.Command{
	Name:      "parseamount",
	Category:  "Amounts",
	Usage:     "Parse a decimal amount.",
	ArgsUsage: "amount",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "unit",
			Usage: "The unit of the amount: btc, mbtc, ubtc or sat.",
			Value: "btc",
		},
	},
	Action: stableAction(parseAmount),
}

type amountResp struct {
	Sat uint64 `json:"sat"`
	Btc string `json:"btc"`
}

// parseUnit returns the amount unit with the given name.
func parseUnit(name string) (btcutil.AmountUnit, error) {
	switch strings.ToLower(name) {
	case "btc":
		return btcutil.AmountBTC, nil
	case "mbtc":
		return btcutil.AmountMilliBTC, nil
	case "ubtc":
		return btcutil.AmountMicroBTC, nil
	case "sat":
		return btcutil.AmountSatoshi, nil
	default:
		return 0, fmt.Errorf("unknown unit %q", name)
	}
}

func parseAmount(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	unit, err := parseUnit(ctx.String("unit"))
	if err != nil {
		return err
	}

	amt, err := ffi.ParseAmount(ctx.Args().First(), unit)
	if err != nil {
		return err
	}

	return printJSON(ctx, amountResp{
		Sat: amt.ToSat(),
		Btc: amt.String(),
	})
}

var feeRateCommand = cli.Command{
	Name:      "feerate",
	Category:  "Amounts",
	Usage:     "Convert a fee rate in sat/vB.",
	ArgsUsage: "sat_per_vbyte",
	Flags: []cli.Flag{
		cli.Uint64Flag{
			Name:  "weight",
			Usage: "If set, the fee paid by this many weight units.",
		},
	},
	Action: stableAction(feeRate),
}

type feeRateResp struct {
	SatPerKwu   uint64  `json:"sat_per_kwu"`
	SatPerVbyte uint64  `json:"sat_per_vbyte"`
	FeeSat      *uint64 `json:"fee_sat,omitempty"`
}

func feeRate(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}

	satPerVb, err := strconv.ParseUint(ctx.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid fee rate: %w", err)
	}

	rate, err := ffi.FeeRateFromSatPerVb(satPerVb)
	if err != nil {
		return err
	}

	resp := feeRateResp{
		SatPerKwu:   rate.ToSatPerKwu(),
		SatPerVbyte: rate.ToSatPerVbCeil(),
	}

	if ctx.IsSet("weight") {
		fee, feeErr := ffierr.FeeRateFromOption(
			rate.FeeWu(ctx.Uint64("weight")),
		)
		if feeErr != nil {
			return feeErr
		}

		sats := fee.ToSat()
		resp.FeeSat = &sats
	}

	return printJSON(ctx, resp)
}

var liftErrorCommand = cli.Command{
	Name:      "lifterror",
	Category:  "Errors",
	Usage:     "Decode an error lowered across the boundary.",
	ArgsUsage: "family lowered_hex",
	Description: "Lift the hex encoded bytes of a lowered error back " +
		"into a\n   variant of the named family, e.g. " +
		"AddressParseError, and print it.",
	Action: liftError,
}

// lifter decodes a lowered error of one family.
type lifter func([]byte) (ffierr.StableError, error)

// lifters maps every family name to its lift function.
var lifters = map[string]lifter{
	ffierr.AddressParseErrorOther{}.Family(): func(b []byte) (
		ffierr.StableError, error) {

		return ffierr.LiftAddressParseError(b)
	},
	ffierr.ParseAmountErrorOther{}.Family(): func(b []byte) (
		ffierr.StableError, error) {

		return ffierr.LiftParseAmountError(b)
	},
	ffierr.FromScriptErrorOther{}.Family(): func(b []byte) (
		ffierr.StableError, error) {

		return ffierr.LiftFromScriptError(b)
	},
	ffierr.FeeRateErrorArithmeticOverflow{}.Family(): func(b []byte) (
		ffierr.StableError, error) {

		return ffierr.LiftFeeRateError(b)
	},
	ffierr.EncodeErrorOther{}.Family(): func(b []byte) (
		ffierr.StableError, error) {

		return ffierr.LiftEncodeError(b)
	},
	ffierr.PsbtErrorOther{}.Family(): func(b []byte) (
		ffierr.StableError, error) {

		return ffierr.LiftPsbtError(b)
	},
	ffierr.PsbtParseErrorPsbtEncoding{}.Family(): func(b []byte) (
		ffierr.StableError, error) {

		return ffierr.LiftPsbtParseError(b)
	},
	ffierr.ExtractTxErrorOther{}.Family(): func(b []byte) (
		ffierr.StableError, error) {

		return ffierr.LiftExtractTxError(b)
	},
}

func liftError(ctx *cli.Context) error {
	if err := checkArgs(ctx, 2); err != nil {
		return err
	}

	family := ctx.Args().Get(0)
	lift, ok := lifters[family]
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownFamily, family)
	}

	raw, err := hex.DecodeString(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid lowered error hex: %w", err)
	}

	stable, err := lift(raw)
	if err != nil {
		return err
	}

	return printJSON(ctx, ffierr.Describe(stable))
}
