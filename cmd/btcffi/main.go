package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/btcffi/btcffi/build"
	"github.com/btcffi/btcffi/ffcfg"
	"github.com/urfave/cli"
)

const (
	appName    = "btcffi"
	appVersion = "0.1.0"

	// configKey is the app metadata key holding the loaded config.
	configKey = "config"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[%s] %v\n", appName, err)
	os.Exit(1)
}

// newApp returns the command line app writing its output to w.
func newApp(w io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = appVersion
	app.Usage = "decode and check bitcoin primitives, reporting failures " +
		"as stable errors"
	app.Writer = w
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:      "configfile",
			Value:     ffcfg.DefaultConfigFile,
			Usage:     "The path to the configuration file.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name: "network, n",
			Usage: "The network addresses and messages are checked " +
				"against, e.g. mainnet, testnet, signet, regtest.",
		},
		cli.Uint64Flag{
			Name: "maxfeerate",
			Usage: "The highest fee rate in sat/vB a transaction " +
				"extracted from a psbt may pay.",
		},
		cli.StringFlag{
			Name: "debuglevel",
			Usage: "The logging level for all subsystems, or " +
				"<subsystem>=<level>,... pairs.",
		},
	}
	app.Before = setup
	app.Commands = []cli.Command{
		parseAddressCommand,
		scriptAddressCommand,
		parseAmountCommand,
		feeRateCommand,
		decodeTxCommand,
		decodeMsgCommand,
		decodePsbtCommand,
		combinePsbtCommand,
		psbtFeeCommand,
		finalizePsbtCommand,
		extractTxCommand,
		liftErrorCommand,
	}

	return app
}

// setup loads the config, applies the global flags on top of it and wires
// the loggers of every subsystem.
func setup(ctx *cli.Context) error {
	cfg, err := ffcfg.LoadConfig(ctx.GlobalString("configfile"))
	if err != nil {
		return err
	}

	if ctx.GlobalIsSet("network") {
		cfg.Network = ctx.GlobalString("network")
	}
	if ctx.GlobalIsSet("maxfeerate") {
		cfg.MaxFeeRate = ctx.GlobalUint64("maxfeerate")
	}
	if ctx.GlobalIsSet("debuglevel") {
		cfg.DebugLevel = ctx.GlobalString("debuglevel")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	mgr := build.NewSubLoggerManager(
		build.NewDefaultLogHandler(cfg.LogConfig),
	)
	SetupLoggers(mgr)

	err = build.ParseAndSetDebugLevels(cfg.DebugLevel, mgr)
	if err != nil {
		return err
	}

	log.Debugf("Using network %v, max fee rate %d sat/vB", cfg.Network,
		cfg.MaxFeeRate)

	if ctx.App.Metadata == nil {
		ctx.App.Metadata = make(map[string]interface{})
	}
	ctx.App.Metadata[configKey] = cfg

	return nil
}

// getConfig returns the config loaded by setup.
func getConfig(ctx *cli.Context) *ffcfg.Config {
	cfg, ok := ctx.App.Metadata[configKey].(*ffcfg.Config)
	if !ok {
		return &ffcfg.Config{}
	}

	return cfg
}

// printJSON writes resp to the app writer as indented JSON.
func printJSON(ctx *cli.Context, resp interface{}) error {
	b, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(ctx.App.Writer, "%s\n", b)

	return err
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fatal(err)
	}
}
