package ffierr

import (
	"errors"
	"testing"

	"github.com/btcffi/btcffi/primitives"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

// TestNewAddressParseError checks the mapping of every upstream address
// error.
func TestNewAddressParseError(t *testing.T) {
	t.Parallel()

	var (
		witnessVer     = &primitives.InvalidWitnessVersionError{Version: 17}
		unsupportedVer = btcutil.UnsupportedWitnessVerError(2)
		witnessProg    = &primitives.InvalidWitnessProgramLengthError{
			Version: 0,
			Length:  16,
		}
		unsupportedLen = btcutil.UnsupportedWitnessProgLenError(41)
	)

	cases := []mapperCase{{
		name:     "base58 checksum",
		err:      base58.ErrChecksum,
		expected: AddressParseErrorBase58{},
	}, {
		name:     "base58 format",
		err:      base58.ErrInvalidFormat,
		expected: AddressParseErrorBase58{},
	}, {
		name:     "btcutil checksum",
		err:      btcutil.ErrChecksumMismatch,
		expected: AddressParseErrorBase58{},
	}, {
		name: "base58 stage",
		err: &primitives.Base58Error{
			Err: errors.New("decode"),
		},
		expected: AddressParseErrorBase58{},
	}, {
		name:     "bech32 mixed case",
		err:      bech32.ErrMixedCase{},
		expected: AddressParseErrorBech32{},
	}, {
		name:     "bech32 checksum",
		err:      bech32.ErrInvalidChecksum{},
		expected: AddressParseErrorBech32{},
	}, {
		name:     "bech32 length",
		err:      bech32.ErrInvalidLength(91),
		expected: AddressParseErrorBech32{},
	}, {
		name:     "bech32 character",
		err:      bech32.ErrInvalidCharacter('b'),
		expected: AddressParseErrorBech32{},
	}, {
		name:     "bech32 charset",
		err:      bech32.ErrNonCharsetChar('b'),
		expected: AddressParseErrorBech32{},
	}, {
		name: "bech32 stage",
		err: &primitives.Bech32Error{
			Err: bech32.ErrMixedCase{},
		},
		expected: AddressParseErrorBech32{},
	}, {
		name: "witness version",
		err:  witnessVer,
		expected: AddressParseErrorWitnessVersion{
			ErrorMessage: witnessVer.Error(),
		},
	}, {
		name: "unsupported witness version",
		err:  unsupportedVer,
		expected: AddressParseErrorWitnessVersion{
			ErrorMessage: unsupportedVer.Error(),
		},
	}, {
		name: "witness program",
		err:  witnessProg,
		expected: AddressParseErrorWitnessProgram{
			ErrorMessage: witnessProg.Error(),
		},
	}, {
		name: "unsupported witness program",
		err:  unsupportedLen,
		expected: AddressParseErrorWitnessProgram{
			ErrorMessage: unsupportedLen.Error(),
		},
	}, {
		name:     "unknown hrp",
		err:      &primitives.UnknownHrpError{Hrp: "ltc"},
		expected: AddressParseErrorUnknownHrp{},
	}, {
		name:     "legacy too long",
		err:      &primitives.LegacyAddressTooLongError{Length: 51},
		expected: AddressParseErrorLegacyAddressTooLong{},
	}, {
		name: "payload length",
		err: &primitives.InvalidBase58PayloadLengthError{
			Length: 22,
		},
		expected: AddressParseErrorInvalidBase58PayloadLength{},
	}, {
		name:     "legacy prefix",
		err:      btcutil.ErrUnknownAddressType,
		expected: AddressParseErrorInvalidLegacyPrefix{},
	}, {
		name: "network",
		err: &primitives.NetworkValidationError{
			Address:  "tb1q",
			Required: "mainnet",
		},
		expected: AddressParseErrorNetworkValidation{},
	}, {
		name:     "unknown",
		err:      errors.New("unknown"),
		expected: AddressParseErrorOther{},
	}, {
		name:     "nil",
		err:      nil,
		expected: AddressParseErrorOther{},
	}}

	runMapperCases(t, func(err error) StableError {
		return NewAddressParseError(err)
	}, cases)
}

// TestParseAddressErrors checks the variants produced for address strings
// rejected at each stage of parsing.
func TestParseAddressErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		addr     string
		params   *chaincfg.Params
		expected string
	}{{
		name:     "base58 checksum",
		addr:     "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN3",
		params:   &chaincfg.MainNetParams,
		expected: "Base58",
	}, {
		name:     "bech32 checksum",
		addr:     "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5",
		params:   &chaincfg.MainNetParams,
		expected: "Bech32",
	}, {
		name:     "witness version",
		addr:     "BC13W508D6QEJXTDG4Y5R3ZARVARY0C5XW7KN40WF2",
		params:   &chaincfg.MainNetParams,
		expected: "WitnessVersion",
	}, {
		name:     "witness program",
		addr:     "BC1QR508D6QEJXTDG4Y5R3ZARVARYV98GJ9P",
		params:   &chaincfg.MainNetParams,
		expected: "WitnessProgram",
	}, {
		name:     "unknown hrp",
		addr:     "tc1qw508d6qejxtdg4y5r3zarvary0c5xw7kg3g4ty",
		params:   &chaincfg.MainNetParams,
		expected: "UnknownHrp",
	}, {
		name:     "network",
		addr:     "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx",
		params:   &chaincfg.MainNetParams,
		expected: "NetworkValidation",
	}, {
		name:     "legacy prefix",
		addr:     base58.CheckEncode(make([]byte, 20), 0x42),
		params:   &chaincfg.MainNetParams,
		expected: "InvalidLegacyPrefix",
	}, {
		name:     "payload length",
		addr:     base58.CheckEncode(make([]byte, 19), 0x00),
		params:   &chaincfg.MainNetParams,
		expected: "InvalidBase58PayloadLength",
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := primitives.ParseAddress(test.addr, test.params)
			require.Error(t, err)

			mapped := NewAddressParseError(err)
			require.Equal(t, test.expected, VariantName(mapped))
		})
	}
}
