package ffi

import (
	"bytes"
	"encoding/hex"
)

// Script is a raw output script.
type Script struct {
	raw []byte
}

// NewScript wraps a copy of raw.
func NewScript(raw []byte) Script {
	return Script{raw: bytes.Clone(raw)}
}

// ToBytes returns a copy of the script bytes.
func (s Script) ToBytes() []byte {
	return bytes.Clone(s.raw)
}

// String returns the script as hex.
func (s Script) String() string {
	return hex.EncodeToString(s.raw)
}
