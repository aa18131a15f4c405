package fixedwidth

import (
	"strconv"
)

// A FieldOverflowError describes a value that does not fit its field.
// Values are never truncated.
type FieldOverflowError struct {
	Key    string // key of the field being encoded
	Value  string // the value after callback and string conversion
	Length int    // the configured field length
}

func (e *FieldOverflowError) Error() string {
	return "fixedwidth: value " + strconv.Quote(e.Value) + " overflows field " + e.Key +
		" (" + strconv.Itoa(runeLen(e.Value)) + " > " + strconv.Itoa(e.Length) + ")"
}

// An InvalidCharacterError describes a value holding a character outside
// of a field's valid characters.
type InvalidCharacterError struct {
	Key   string
	Value string
	Char  rune
	Index int // character index of Char in Value
}

func (e *InvalidCharacterError) Error() string {
	return "fixedwidth: invalid character " + strconv.QuoteRune(e.Char) + " at index " +
		strconv.Itoa(e.Index) + " of " + strconv.Quote(e.Value) + " in field " + e.Key
}

// An InvalidFieldError describes a field definition that could not be
// registered.
type InvalidFieldError struct {
	Key    string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return "fixedwidth: invalid field " + strconv.Quote(e.Key) + ": " + e.Reason
}

// A MalformedSampleDataError describes sample data that cannot be used to
// infer a schema. Index is the position of the offending record, or -1 when
// the payload as a whole is malformed.
type MalformedSampleDataError struct {
	Index  int
	Reason string
	Cause  error
}

func (e *MalformedSampleDataError) Error() string {
	s := "fixedwidth: malformed sample data"
	if e.Index >= 0 {
		s += " at record " + strconv.Itoa(e.Index)
	}
	s += ": " + e.Reason
	if e.Cause != nil {
		return s + ": " + e.Cause.Error()
	}
	return s
}

func (e *MalformedSampleDataError) Unwrap() error {
	return e.Cause
}

// A LineLengthError describes a line whose length does not match the
// schema's total line length.
type LineLengthError struct {
	Want, Have int
}

func (e *LineLengthError) Error() string {
	return "fixedwidth: line length " + strconv.Itoa(e.Have) + ", want " + strconv.Itoa(e.Want)
}

// A DelimiterMismatchError describes a line missing the schema delimiter
// after a field.
type DelimiterMismatchError struct {
	Key      string // field preceding the delimiter
	Position int    // character position of the expected delimiter
	Have     string
}

func (e *DelimiterMismatchError) Error() string {
	return "fixedwidth: expected delimiter after field " + e.Key + " at position " +
		strconv.Itoa(e.Position) + ", have " + strconv.Quote(e.Have)
}

// MarshalInvalidTypeError describes a value that has no string form.
type MarshalInvalidTypeError struct {
	typeName string
}

func (e *MarshalInvalidTypeError) Error() string {
	return "fixedwidth: cannot marshal unknown Type " + e.typeName
}
