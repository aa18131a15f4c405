package fixedwidth

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Float is a float64 that spends whatever width its integer part leaves on
// decimal places. Float(11.234) in a field of length 10 encodes as
// "11.2340000".
type Float float64

// MarshalFixedWidth implements Marshaler. It fails when the integer part
// alone does not fit in width.
func (f Float) MarshalFixedWidth(width int) ([]byte, error) {
	whole := strconv.FormatFloat(math.Trunc(float64(f)), 'f', 0, 64)
	if len(whole) > width {
		return nil, errors.Errorf("fixedwidth: float %s needs %d characters, field has %d", whole, len(whole), width)
	}

	// one character goes to the decimal point
	prec := width - len(whole) - 1
	if prec < 0 {
		prec = 0
	}
	return strconv.AppendFloat(nil, float64(f), 'f', prec, 64), nil
}
