package primitives

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

const (
	psbtGlobalUnsignedTx    = 0x00
	psbtGlobalXpub          = 0x01
	psbtGlobalVersion       = 0xfb
	psbtProprietary         = 0xfc
	psbtInputNonWitnessTx   = 0x00
	psbtXpubKeyDataLen      = 78
	psbtHighestKnownVersion = 0
)

// psbtMagic is the magic prefix of every PSBT, not counting the separator.
var psbtMagic = []byte{0x70, 0x73, 0x62, 0x74}

// psbtPair is a single key-value pair of a PSBT map.
type psbtPair struct {
	keyType uint64
	keyData []byte
	value   []byte
}

// psbtScanner walks the BIP 174 key-value framing of a PSBT.
type psbtScanner struct {
	r *bytes.Reader
}

// nextPair returns the next pair of the current map, or nil once the map
// separator is reached.
func (s *psbtScanner) nextPair() (*psbtPair, error) {
	keyLen, err := wire.ReadVarInt(s.r, 0)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, ErrNoMorePairs

	case err != nil:
		return nil, err

	case keyLen == 0:
		return nil, nil

	case keyLen > uint64(s.r.Len()):
		return nil, ErrNoMorePairs
	}

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(s.r, key); err != nil {
		return nil, ErrNoMorePairs
	}

	keyReader := bytes.NewReader(key)
	keyType, err := wire.ReadVarInt(keyReader, 0)
	if err != nil {
		return nil, err
	}
	keyData := key[len(key)-keyReader.Len():]

	valueLen, err := wire.ReadVarInt(s.r, 0)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, ErrNoMorePairs

	case err != nil:
		return nil, err

	case valueLen > uint64(s.r.Len()):
		return nil, ErrNoMorePairs
	}

	value := make([]byte, valueLen)
	if _, err := io.ReadFull(s.r, value); err != nil {
		return nil, ErrNoMorePairs
	}

	return &psbtPair{
		keyType: keyType,
		keyData: keyData,
		value:   value,
	}, nil
}

// scanMap reads one map up to its separator, calling check for every pair
// and rejecting duplicate keys.
func (s *psbtScanner) scanMap(check func(*psbtPair) error) error {
	seen := make(map[string]struct{})
	for {
		pair, err := s.nextPair()
		if err != nil {
			return err
		}
		if pair == nil {
			return nil
		}

		var keyBuf bytes.Buffer
		_ = wire.WriteVarInt(&keyBuf, 0, pair.keyType)
		keyBuf.Write(pair.keyData)

		if _, ok := seen[keyBuf.String()]; ok {
			return &DuplicateKeyError{
				KeyType: pair.keyType,
				KeyData: pair.keyData,
			}
		}
		seen[keyBuf.String()] = struct{}{}

		if pair.keyType == psbtProprietary {
			if err := checkProprietaryKey(pair.keyData); err != nil {
				return err
			}
		}

		if check != nil {
			if err := check(pair); err != nil {
				return err
			}
		}
	}
}

// checkProprietaryKey makes sure a proprietary key holds a length prefixed
// identifier followed by a subtype.
func checkProprietaryKey(keyData []byte) error {
	r := bytes.NewReader(keyData)
	if _, err := wire.ReadVarBytes(r, 0, uint32(len(keyData)),
		"identifier"); err != nil {

		return ErrInvalidProprietaryKey
	}

	if _, err := wire.ReadVarInt(r, 0); err != nil {
		return ErrInvalidProprietaryKey
	}

	return nil
}

// diagnosePsbt attributes the rejection of raw by the psbt package. The
// result matches both the attributed error and cause under errors.Is. The
// cause is returned as is when the scan finds nothing more specific.
func diagnosePsbt(raw []byte, cause error) error {
	diagnosed := scanPsbt(raw, cause)
	if errors.Is(diagnosed, cause) {
		return diagnosed
	}

	return &PsbtDiagnosisError{Err: diagnosed, Cause: cause}
}

// scanPsbt scans raw for the first framing or content error that explains
// why the psbt package rejected it, falling back to cause.
func scanPsbt(raw []byte, cause error) error {
	if errors.Is(cause, psbt.ErrInvalidMagicBytes) {
		if len(raw) >= 5 && bytes.Equal(raw[:4], psbtMagic) &&
			raw[4] != 0xff {

			return ErrInvalidSeparator
		}

		return cause
	}

	if len(raw) < 5 {
		return cause
	}

	s := &psbtScanner{r: bytes.NewReader(raw[5:])}

	var unsignedTx *wire.MsgTx
	err := s.scanMap(func(pair *psbtPair) error {
		switch pair.keyType {
		case psbtGlobalUnsignedTx:
			if len(pair.keyData) != 0 {
				return &InvalidKeyError{
					KeyType: pair.keyType,
					KeyData: pair.keyData,
				}
			}

			tx := wire.NewMsgTx(wire.TxVersion)
			err := tx.Deserialize(bytes.NewReader(pair.value))
			if err != nil {
				return err
			}
			if err := checkUnsignedTx(tx); err != nil {
				return err
			}
			unsignedTx = tx

		case psbtGlobalXpub:
			if len(pair.keyData) != psbtXpubKeyDataLen {
				return ErrInvalidXPubKey
			}

		case psbtGlobalVersion:
			if len(pair.value) != 4 {
				return &VersionError{
					Reason: "invalid version value length",
				}
			}

			version := binary.LittleEndian.Uint32(pair.value)
			if version > psbtHighestKnownVersion {
				return &VersionError{Version: version}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if unsignedTx == nil {
		return ErrMissingUnsignedTx
	}

	for i := range unsignedTx.TxIn {
		prevOut := unsignedTx.TxIn[i].PreviousOutPoint
		err := s.scanMap(func(pair *psbtPair) error {
			if pair.keyType != psbtInputNonWitnessTx {
				return nil
			}

			tx := wire.NewMsgTx(wire.TxVersion)
			err := tx.Deserialize(bytes.NewReader(pair.value))
			if err != nil {
				return err
			}

			if tx.TxHash() != prevOut.Hash {
				return &InvalidHashError{Hash: tx.TxHash()}
			}

			return nil
		})
		if err != nil {
			return err
		}
	}

	for range unsignedTx.TxOut {
		if err := s.scanMap(nil); err != nil {
			return err
		}
	}

	return cause
}
