package fixedwidth

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Field describes one fixed-width column. Fields are created by a Schema
// and are not modified after registration.
type Field struct {
	key          string
	length       int
	padChar      rune
	padPlacement PadPlacement
	callback     Callback
	validChars   string
	validSet     map[rune]struct{}
}

func newField(key string, length int, o fieldOptions) (*Field, error) {
	switch {
	case key == "":
		return nil, &InvalidFieldError{Key: key, Reason: "key is empty"}
	case length <= 0:
		return nil, &InvalidFieldError{Key: key, Reason: "length must be positive"}
	case !o.padPlacement.Valid():
		return nil, &InvalidFieldError{Key: key, Reason: "unknown pad placement"}
	case o.padChar == utf8.RuneError:
		return nil, &InvalidFieldError{Key: key, Reason: "invalid pad character"}
	}

	f := &Field{
		key:          key,
		length:       length,
		padChar:      o.padChar,
		padPlacement: o.padPlacement,
		callback:     o.callback,
		validChars:   o.validChars,
	}
	if o.validChars != "" {
		f.validSet = make(map[rune]struct{}, len(o.validChars))
		for _, r := range o.validChars {
			f.validSet[r] = struct{}{}
		}
	}
	return f, nil
}

func (f *Field) Key() string                { return f.key }
func (f *Field) Length() int                { return f.length }
func (f *Field) PadCharacter() rune         { return f.padChar }
func (f *Field) PadPlacement() PadPlacement { return f.padPlacement }
func (f *Field) Callback() Callback         { return f.callback }

// ValidCharacters returns the characters allowed in the field, or the empty
// string when any character is allowed.
func (f *Field) ValidCharacters() string { return f.validChars }

// Pad applies the field callback to value, converts the result to its string
// form and pads it to exactly the field length.
//
// A value longer than the field is never truncated; Pad returns a
// *FieldOverflowError instead.
func (f *Field) Pad(value interface{}) (string, error) {
	if f.callback != nil {
		value = f.callback(value)
	}

	s, err := f.format(value)
	if err != nil {
		return "", err
	}

	n := runeLen(s)
	if n > f.length {
		return "", &FieldOverflowError{Key: f.key, Value: s, Length: f.length}
	}
	padding := strings.Repeat(string(f.padChar), f.length-n)
	if f.padPlacement == PadLeft {
		return padding + s, nil
	}
	return s + padding, nil
}

func (f *Field) format(value interface{}) (string, error) {
	m, ok := value.(Marshaler)
	if !ok || isNilPointer(value) {
		return stringify(value)
	}
	data, err := m.MarshalFixedWidth(f.length)
	if err != nil {
		return "", errors.Wrapf(err, "fixedwidth: marshal field %s", f.key)
	}
	return string(data), nil
}

// Unpad strips the pad character from the padded side of raw.
//
// Unpad cannot tell padding from a value that itself begins (PadLeft) or
// ends (PadRight) with the pad character; those characters are removed too.
func (f *Field) Unpad(raw string) string {
	cutset := string(f.padChar)
	if f.padPlacement == PadLeft {
		return strings.TrimLeft(raw, cutset)
	}
	return strings.TrimRight(raw, cutset)
}

// Validate reports whether every character of value is one of the field's
// valid characters. Fields without valid characters accept any value.
func (f *Field) Validate(value string) bool {
	return f.CheckCharacters(value) == nil
}

// CheckCharacters is like Validate but returns an *InvalidCharacterError
// describing the first character that is not allowed.
func (f *Field) CheckCharacters(value string) error {
	if len(f.validSet) == 0 {
		return nil
	}
	i := 0
	for _, r := range value {
		if _, ok := f.validSet[r]; !ok {
			return &InvalidCharacterError{Key: f.key, Value: value, Char: r, Index: i}
		}
		i++
	}
	return nil
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isNilPointer(i interface{}) bool {
	v := reflect.ValueOf(i)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
