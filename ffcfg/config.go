// Package ffcfg holds the configuration of the btcffi command line tool.
package ffcfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/btcffi/btcffi/build"
	"github.com/btcffi/btcffi/ffi"
	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
)

const (
	// DefaultConfigFilename is the name of the config file inside the
	// application directory.
	DefaultConfigFilename = "btcffi.conf"

	defaultNetwork    = "mainnet"
	defaultDebugLevel = "info"
)

var (
	// DefaultAppDir is the default directory of the config file.
	DefaultAppDir = btcutil.AppDataDir("btcffi", false)

	// DefaultConfigFile is the default full path of the config file.
	DefaultConfigFile = filepath.Join(DefaultAppDir, DefaultConfigFilename)

	// DefaultMaxFeeRate is the default extraction limit in sat/vB.
	DefaultMaxFeeRate = primitives.DefaultMaxFeeRate.FloorSatPerVByte()

	// ErrInvalidMaxFeeRate is returned when the configured extraction
	// limit is zero or cannot be represented.
	ErrInvalidMaxFeeRate = errors.New("invalid max fee rate")
)

// Config holds the options of the btcffi tool.
//
//nolint:lll
type Config struct {
	ConfigFile string `long:"configfile" description:"Path to the configuration file."`

	Network string `long:"network" description:"The network addresses and messages are checked against." choice:"mainnet" choice:"testnet" choice:"signet" choice:"regtest"`

	MaxFeeRate uint64 `long:"maxfeerate" description:"The highest fee rate in sat/vB a transaction extracted from a psbt may pay."`

	DebugLevel string `long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems."`

	LogConfig *build.LogConfig `group:"logging" namespace:"logging"`
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		ConfigFile: DefaultConfigFile,
		Network:    defaultNetwork,
		MaxFeeRate: DefaultMaxFeeRate,
		DebugLevel: defaultDebugLevel,
		LogConfig:  build.DefaultLogConfig(),
	}
}

// LoadConfig returns the default config overwritten by the options of the
// config file at path. A missing file is only an error when the path is not
// the default one.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	cfg.ConfigFile = CleanAndExpandPath(path)
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = DefaultConfigFile
	}

	err := flags.IniParse(cfg.ConfigFile, &cfg)
	switch {
	case err == nil:

	// The default file is optional.
	case errors.Is(err, fs.ErrNotExist) &&
		cfg.ConfigFile == DefaultConfigFile:

	default:
		return nil, fmt.Errorf("unable to load config file %v: %w",
			cfg.ConfigFile, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the options make sense.
func (c *Config) Validate() error {
	if _, err := ffi.ParseNetwork(c.Network); err != nil {
		return err
	}

	if _, err := c.MaxFeeRateLimit(); err != nil {
		return err
	}

	if c.LogConfig == nil {
		return fmt.Errorf("logging config missing")
	}

	return c.LogConfig.Validate()
}

// ChainNetwork returns the configured network.
func (c *Config) ChainNetwork() (ffi.Network, error) {
	return ffi.ParseNetwork(c.Network)
}

// MaxFeeRateLimit returns the configured extraction limit.
func (c *Config) MaxFeeRateLimit() (ffi.FeeRate, error) {
	if c.MaxFeeRate == 0 {
		return ffi.FeeRate{}, fmt.Errorf("%w: must be positive",
			ErrInvalidMaxFeeRate)
	}

	rate, err := ffi.FeeRateFromSatPerVb(c.MaxFeeRate)
	if err != nil {
		return ffi.FeeRate{}, fmt.Errorf("%w: %v", ErrInvalidMaxFeeRate,
			err)
	}

	return rate, nil
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
