package idcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseIDCode parses a raw 32-bit IDCODE into its component fields
func ParseIDCode(raw uint32) IDCode {
	return IDCode{
		Raw:              raw,
		Version:          uint8((raw >> 28) & 0xF),
		PartNumber:       uint16((raw >> 12) & 0xFFFF),
		ManufacturerCode: uint16((raw >> 1) & 0x7FF),
		HasIDCode:        (raw & 0x1) == 0x1,
	}
}

// ParseString parses an IDCODE written in hex, with or without a 0x prefix.
// A version nibble written as "X" is read as zero.
func ParseString(s string) (IDCode, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if len(s) == 8 && s[0] == 'x' {
		s = "0" + s[1:]
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return IDCode{}, errors.Wrapf(err, "idcode: invalid IDCODE %q", s)
	}
	return ParseIDCode(uint32(v)), nil
}

// Pattern renders the IDCODE with the version nibble as a wildcard, the way
// device tables list it: "0xX6e1c093".
func (id IDCode) Pattern() string {
	return fmt.Sprintf("0xX%04x%03x", id.PartNumber, id.Raw&0xFFF)
}

// String renders the full IDCODE in hex.
func (id IDCode) String() string {
	return fmt.Sprintf("0x%08x", id.Raw)
}
