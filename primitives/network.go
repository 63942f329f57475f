package primitives

import "github.com/btcsuite/btcd/chaincfg"

// KnownNetworks lists the chains an address may be decoded against before the
// caller's network requirement is applied.
var KnownNetworks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.SigNetParams,
	&chaincfg.RegressionNetParams,
}

// isKnownHRP reports whether hrp is the bech32 segwit prefix of one of the
// known networks.
func isKnownHRP(hrp string) bool {
	for _, params := range KnownNetworks {
		if params.Bech32HRPSegwit == hrp {
			return true
		}
	}

	return false
}
