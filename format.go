package fixedwidth

import (
	"strings"

	"github.com/pkg/errors"
)

// PadPlacement is the side of a value on which padding is added.
type PadPlacement int

const (
	// PadRight left-aligns values and pads on the right.
	PadRight PadPlacement = iota
	// PadLeft right-aligns values and pads on the left.
	PadLeft
)

const (
	defaultPadChar = ' '
	numericPadChar = '0'

	// TypeNumeric is the field-spec type that forces zero padding on the left.
	TypeNumeric = "numeric"
)

func (p PadPlacement) Valid() bool {
	switch p {
	case PadRight, PadLeft:
		return true
	default:
		return false
	}
}

func (p PadPlacement) String() string {
	switch p {
	case PadRight:
		return "right"
	case PadLeft:
		return "left"
	default:
		return "PadPlacement(invalid)"
	}
}

// ParsePadPlacement parses a placement token. "left" and "right" are
// accepted, as are the STR_PAD_LEFT and STR_PAD_RIGHT spellings. Matching
// is case insensitive.
func ParsePadPlacement(s string) (PadPlacement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "str_pad_right":
		return PadRight, nil
	case "left", "str_pad_left":
		return PadLeft, nil
	}
	return PadRight, errors.Errorf("fixedwidth: unknown pad placement %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p PadPlacement) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.Errorf("fixedwidth: invalid pad placement %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PadPlacement) UnmarshalText(text []byte) error {
	v, err := ParsePadPlacement(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
