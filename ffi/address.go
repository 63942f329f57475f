package ffi

import (
	"github.com/btcffi/btcffi/ffierr"
	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

// Address is a bitcoin address valid for one network.
type Address struct {
	addr    btcutil.Address
	network Network
}

// NewAddress parses s as an address of network. The error is an
// ffierr.AddressParseError.
func NewAddress(s string, network Network) (*Address, error) {
	params, err := network.Params()
	if err != nil {
		return nil, ffierr.NewAddressParseError(err)
	}

	addr, err := primitives.ParseAddress(s, params)
	if err != nil {
		log.Debugf("Rejected address %q for %v: %v", s, network, err)

		return nil, ffierr.NewAddressParseError(err)
	}

	return &Address{addr: addr, network: network}, nil
}

// AddressFromScript returns the address paying to script on network. The
// error is an ffierr.FromScriptError.
func AddressFromScript(script Script, network Network) (*Address, error) {
	params, err := network.Params()
	if err != nil {
		return nil, ffierr.NewFromScriptError(err)
	}

	addr, err := primitives.AddressFromScript(script.raw, params)
	if err != nil {
		return nil, ffierr.NewFromScriptError(err)
	}

	return &Address{addr: addr, network: network}, nil
}

// ScriptPubkey returns the output script paying to the address.
func (a *Address) ScriptPubkey() (Script, error) {
	pkScript, err := txscript.PayToAddrScript(a.addr)
	if err != nil {
		return Script{}, err
	}

	return Script{raw: pkScript}, nil
}

// Network returns the network the address was parsed for.
func (a *Address) Network() Network {
	return a.network
}

// IsValidForNetwork reports whether the address encodes for network.
func (a *Address) IsValidForNetwork(network Network) bool {
	params, err := network.Params()
	if err != nil {
		return false
	}

	return a.addr.IsForNet(params)
}

// Core returns the btcutil address.
func (a *Address) Core() btcutil.Address {
	return a.addr
}

// String returns the encoded address.
func (a *Address) String() string {
	return a.addr.EncodeAddress()
}
