package primitives

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const (
	// maxLegacyAddressLen is the longest base58 string accepted as a
	// legacy address.
	maxLegacyAddressLen = 50

	// legacyPayloadLen is the length of a decoded legacy address payload,
	// not counting the version byte.
	legacyPayloadLen = 20

	// maxWitnessVersion is the highest witness version a segwit address
	// can encode.
	maxWitnessVersion = 16
)

var (
	// ErrUnrecognizedScript is returned when an output script is not a
	// p2pkh, p2sh or witness program.
	ErrUnrecognizedScript = errors.New("script is not a p2pkh, p2sh or " +
		"witness program")
)

// Base58Error is returned when the base58check stage of legacy address
// decoding fails.
type Base58Error struct {
	Err error
}

// Error returns a human readable description of the error.
func (e *Base58Error) Error() string {
	return fmt.Sprintf("base58 address encoding error: %v", e.Err)
}

// Unwrap returns the underlying base58 error.
func (e *Base58Error) Unwrap() error {
	return e.Err
}

// Bech32Error is returned when the bech32 stage of segwit address decoding
// fails.
type Bech32Error struct {
	Err error
}

// Error returns a human readable description of the error.
func (e *Bech32Error) Error() string {
	return fmt.Sprintf("bech32 address encoding error: %v", e.Err)
}

// Unwrap returns the underlying bech32 error.
func (e *Bech32Error) Unwrap() error {
	return e.Err
}

// UnknownHrpError is returned when a well formed bech32 string carries a
// human-readable part that belongs to none of the known networks.
type UnknownHrpError struct {
	Hrp string
}

// Error returns a human readable description of the error.
func (e *UnknownHrpError) Error() string {
	return fmt.Sprintf("unknown hrp: %s", e.Hrp)
}

// LegacyAddressTooLongError is returned when a legacy address string is
// longer than any valid base58 address.
type LegacyAddressTooLongError struct {
	Length int
}

// Error returns a human readable description of the error.
func (e *LegacyAddressTooLongError) Error() string {
	return fmt.Sprintf("base58 string too long: %d characters, max %d",
		e.Length, maxLegacyAddressLen)
}

// InvalidBase58PayloadLengthError is returned when the base58check payload,
// including its version byte, has the wrong length for an address.
type InvalidBase58PayloadLengthError struct {
	Length int
}

// Error returns a human readable description of the error.
func (e *InvalidBase58PayloadLengthError) Error() string {
	return fmt.Sprintf("decoded base58 data was an invalid length: %d "+
		"bytes, want %d", e.Length, legacyPayloadLen+1)
}

// InvalidWitnessVersionError is returned when a segwit address carries no
// witness version or one above 16.
type InvalidWitnessVersionError struct {
	Version uint8
	Missing bool
}

// Error returns a human readable description of the error.
func (e *InvalidWitnessVersionError) Error() string {
	if e.Missing {
		return "missing witness version"
	}

	return fmt.Sprintf("invalid witness script version: %d", e.Version)
}

// InvalidWitnessProgramLengthError is returned when a witness program has a
// length its witness version does not allow.
type InvalidWitnessProgramLengthError struct {
	Version uint8
	Length  int
}

// Error returns a human readable description of the error.
func (e *InvalidWitnessProgramLengthError) Error() string {
	return fmt.Sprintf("invalid witness program length %d for witness "+
		"version %d", e.Length, e.Version)
}

// NetworkValidationError is returned when an address decodes correctly but
// is not valid for the required network.
type NetworkValidationError struct {
	Address  string
	Required string
}

// Error returns a human readable description of the error.
func (e *NetworkValidationError) Error() string {
	return fmt.Sprintf("address %s is not valid on %s", e.Address,
		e.Required)
}

// ParseAddress decodes s against every known network and then requires the
// result to be valid for params. The decode is staged so that each failure
// surfaces as a typed error naming the stage that rejected the input.
func ParseAddress(s string, params *chaincfg.Params) (btcutil.Address, error) {
	addr, err := decodeAnyNetwork(s)
	if err != nil {
		log.Tracef("Unable to decode address %q: %v", s, err)
		return nil, err
	}

	if !addr.IsForNet(params) {
		return nil, &NetworkValidationError{
			Address:  s,
			Required: params.Name,
		}
	}

	return addr, nil
}

// decodeAnyNetwork decodes s without any network requirement.
func decodeAnyNetwork(s string) (btcutil.Address, error) {
	hrp, data, version, err := bech32.DecodeGeneric(s)
	switch {
	case err == nil:
		return decodeSegwit(s, hrp, data, version)

	// The string carries a known segwit prefix, so a bech32 failure is the
	// real cause and the base58 path would only obscure it.
	case hasKnownSegwitPrefix(s):
		return nil, &Bech32Error{Err: err}
	}

	return decodeLegacy(s)
}

// hasKnownSegwitPrefix reports whether the part of s before the last '1' is
// the segwit HRP of a known network.
func hasKnownSegwitPrefix(s string) bool {
	lower := strings.ToLower(s)
	idx := strings.LastIndexByte(lower, '1')
	if idx < 1 {
		return false
	}

	return isKnownHRP(lower[:idx])
}

// decodeSegwit validates the witness version and program of a decoded bech32
// string before handing it to btcutil.
func decodeSegwit(s, hrp string, data []byte,
	version bech32.Version) (btcutil.Address, error) {

	hrp = strings.ToLower(hrp)
	if !isKnownHRP(hrp) {
		return nil, &UnknownHrpError{Hrp: hrp}
	}

	if len(data) < 1 {
		return nil, &InvalidWitnessVersionError{Missing: true}
	}

	witnessVer := data[0]
	if witnessVer > maxWitnessVersion {
		return nil, &InvalidWitnessVersionError{Version: witnessVer}
	}

	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, &Bech32Error{Err: err}
	}

	switch {
	case len(program) < 2 || len(program) > 40:
		return nil, &InvalidWitnessProgramLengthError{
			Version: witnessVer,
			Length:  len(program),
		}

	case witnessVer == 0 && len(program) != 20 && len(program) != 32:
		return nil, &InvalidWitnessProgramLengthError{
			Version: witnessVer,
			Length:  len(program),
		}

	case witnessVer == 0 && version != bech32.Version0:
		return nil, &Bech32Error{
			Err: errors.New("witness version 0 requires the bech32 " +
				"checksum"),
		}

	case witnessVer != 0 && version != bech32.VersionM:
		return nil, &Bech32Error{
			Err: fmt.Errorf("witness version %d requires the "+
				"bech32m checksum", witnessVer),
		}
	}

	// btcutil derives the network from the HRP of segwit addresses, so the
	// params only need to be any registered network.
	return btcutil.DecodeAddress(s, &chaincfg.MainNetParams)
}

// decodeLegacy decodes a base58check p2pkh or p2sh address.
func decodeLegacy(s string) (btcutil.Address, error) {
	if len(s) > maxLegacyAddressLen {
		return nil, &LegacyAddressTooLongError{Length: len(s)}
	}

	payload, netID, err := base58.CheckDecode(s)
	if err != nil {
		return nil, &Base58Error{Err: err}
	}

	if len(payload) != legacyPayloadLen {
		return nil, &InvalidBase58PayloadLengthError{
			Length: len(payload) + 1,
		}
	}

	for _, params := range KnownNetworks {
		if netID == params.PubKeyHashAddrID ||
			netID == params.ScriptHashAddrID {

			return btcutil.DecodeAddress(s, params)
		}
	}

	return nil, btcutil.ErrUnknownAddressType
}

// AddressFromScript returns the address paying to the given output script.
// Only p2pkh, p2sh and witness programs have an address form.
func AddressFromScript(script []byte,
	params *chaincfg.Params) (btcutil.Address, error) {

	class, addrs, _, err := txscript.ExtractPkScriptAddrs(script, params)
	if err != nil {
		return nil, err
	}

	switch class {
	case txscript.PubKeyHashTy, txscript.ScriptHashTy,
		txscript.WitnessV0PubKeyHashTy, txscript.WitnessV0ScriptHashTy,
		txscript.WitnessV1TaprootTy:

		if len(addrs) == 1 {
			return addrs[0], nil
		}
	}

	if !txscript.IsWitnessProgram(script) {
		return nil, ErrUnrecognizedScript
	}

	version, program, err := txscript.ExtractWitnessProgramInfo(script)
	if err != nil {
		return nil, err
	}

	// Standard v0 and v1 programs were handled above, so what is left is
	// either a malformed length or a version btcutil cannot encode.
	switch version {
	case 0, 1:
		return nil, btcutil.UnsupportedWitnessProgLenError(len(program))

	default:
		return nil, btcutil.UnsupportedWitnessVerError(byte(version))
	}
}
