package ffi

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// ErrUnknownNetwork is returned when converting a network the wrappers do
// not support.
var ErrUnknownNetwork = errors.New("unknown network")

// Network is one of the bitcoin networks an address or message can belong
// to.
type Network uint8

const (
	// Mainnet is the main bitcoin network.
	Mainnet Network = iota

	// Testnet is the version 3 test network.
	Testnet

	// Signet is the default signet.
	Signet

	// Regtest is the local regression test network.
	Regtest
)

// String returns the name of the network.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Signet:
		return "signet"
	case Regtest:
		return "regtest"
	default:
		return fmt.Sprintf("Network(%d)", uint8(n))
	}
}

// Params returns the chain parameters of the network.
func (n Network) Params() (*chaincfg.Params, error) {
	switch n {
	case Mainnet:
		return &chaincfg.MainNetParams, nil
	case Testnet:
		return &chaincfg.TestNet3Params, nil
	case Signet:
		return &chaincfg.SigNetParams, nil
	case Regtest:
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownNetwork, n)
	}
}

// NetworkFromParams returns the network of the given chain parameters.
func NetworkFromParams(params *chaincfg.Params) (Network, error) {
	if params == nil {
		return 0, ErrUnknownNetwork
	}

	switch params.Net {
	case chaincfg.MainNetParams.Net:
		return Mainnet, nil
	case chaincfg.TestNet3Params.Net:
		return Testnet, nil
	case chaincfg.SigNetParams.Net:
		return Signet, nil
	case chaincfg.RegressionNetParams.Net:
		return Regtest, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownNetwork, params.Name)
	}
}

// ParseNetwork returns the network with the given name. Both the short
// names and the chaincfg names are accepted.
func ParseNetwork(name string) (Network, error) {
	switch name {
	case "mainnet", "bitcoin":
		return Mainnet, nil
	case "testnet", "testnet3":
		return Testnet, nil
	case "signet":
		return Signet, nil
	case "regtest", "regnet":
		return Regtest, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
}
