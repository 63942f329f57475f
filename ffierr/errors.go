// Package ffierr translates the open set of errors raised by the bitcoin
// libraries into closed error families that can be matched exhaustively and
// carried across a foreign function boundary.
//
// Every family is a sealed interface. Its variants are comparable value
// structs holding only primitive payloads, so a variant never retains the
// upstream error it was built from. Every family has a total constructor,
// NewXxxError, that classifies any error value, including nil, without
// panicking.
package ffierr

import (
	"errors"

	"github.com/lightningnetwork/lnd/fn/v2"
)

var (
	// ErrUnknownVariant is returned when lifting a variant code that a
	// family without a catch-all variant does not define.
	ErrUnknownVariant = errors.New("unknown error variant")
)

// StableError is implemented by every variant of every family.
type StableError interface {
	error

	// Family returns the name of the family the variant belongs to.
	Family() string

	// Code returns the wire code of the variant. Codes are 1-based and
	// follow declaration order within the family.
	Code() uint32

	// variants returns the names of all variants of the family, indexed
	// by code minus one.
	variants() []string

	// payload returns the primitive payload carried by the variant.
	payload() payload
}

// VariantName returns the name of the variant err is.
func VariantName(err StableError) string {
	names := err.variants()
	code := err.Code()
	if code == 0 || int(code) > len(names) {
		return ""
	}

	return names[code-1]
}

// payload is the primitive content of a variant as it crosses the boundary.
type payload struct {
	text1 string
	text2 string
	num   fn.Option[uint64]
}

// noPayload is embedded by the family base types so that variants without
// content need no payload method of their own.
type noPayload struct{}

func (noPayload) payload() payload {
	return payload{}
}

// textPayload is the payload of a variant carrying a single text field.
func textPayload(s string) payload {
	return payload{text1: s}
}

// errText returns the display string of err, or the empty string for nil.
func errText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

// logCollapse records an upstream error that only the catch-all of family
// could represent.
func logCollapse(family string, err error) {
	log.Debugf("Unmapped %s source collapsed to catch-all: %T: %v",
		family, err, err)
}

// Description is the portable rendering of a variant.
type Description struct {
	Family  string `json:"family"`
	Variant string `json:"variant"`
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

// Describe returns the portable rendering of err.
func Describe(err StableError) Description {
	return Description{
		Family:  err.Family(),
		Variant: VariantName(err),
		Code:    err.Code(),
		Message: err.Error(),
	}
}
