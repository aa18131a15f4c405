package fixedwidth

import (
	"bufio"
	"bytes"
	"encoding"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DecodeLine splits a fixed-width line into a Record holding the unpadded
// value of each field, in field order.
//
// A trailing line ending is ignored. The line must be exactly
// TotalLineLength characters long and hold the delimiter after every field.
// Each raw field value is checked against the field's valid characters
// before it is unpadded.
func (s *Schema) DecodeLine(line string) (*Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	line = trimLineEnding(line)

	raw, err := newRawValue(line)
	if err != nil {
		return nil, err
	}
	if raw.len() != s.TotalLineLength() {
		return nil, &LineLengthError{Want: s.TotalLineLength(), Have: raw.len()}
	}

	record := NewRecord()
	delimLen := runeLen(s.delimiter)
	pos := 0
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		value := raw.slice(pos, pos+f.length-1)
		if err := f.CheckCharacters(value); err != nil {
			return nil, err
		}
		record.Set(f.key, f.Unpad(value))
		pos += f.length

		if delimLen > 0 {
			if d := raw.slice(pos, pos+delimLen-1); d != s.delimiter {
				return nil, &DelimiterMismatchError{Key: f.key, Position: pos, Have: d}
			}
			pos += delimLen
		}
	}
	return record, nil
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Unmarshal decodes every line of data using s. Empty lines are skipped.
func Unmarshal(s *Schema, data []byte) ([]*Record, error) {
	return NewDecoder(bytes.NewReader(data), s).ReadAll()
}

// A Decoder reads and decodes fixed-width lines from an input stream.
type Decoder struct {
	data *bufio.Reader
	s    *Schema
	line int
	done bool
}

// NewDecoder returns a new decoder that reads lines described by s from r.
func NewDecoder(r io.Reader, s *Schema) *Decoder {
	return &Decoder{
		data: bufio.NewReader(r),
		s:    s,
	}
}

// Decode reads the next non-empty line and decodes it. If there is no data
// remaining, Decode returns io.EOF.
func (d *Decoder) Decode() (*Record, error) {
	for !d.done {
		line, err := d.data.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err == io.EOF {
			d.done = true
		}
		d.line++

		line = trimLineEnding(line)
		if line == "" {
			continue
		}
		record, err := d.s.DecodeLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", d.line)
		}
		return record, nil
	}
	return nil, io.EOF
}

// ReadAll decodes the remaining lines.
func (d *Decoder) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		record, err := d.Decode()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// An InvalidUnmarshalError describes an invalid argument passed to
// UnmarshalLine. (The argument must be a non-nil pointer to a struct.)
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "fixedwidth: Unmarshal(nil)"
	}

	if e.Type.Kind() != reflect.Ptr {
		return "fixedwidth: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "fixedwidth: Unmarshal(nil " + e.Type.String() + ")"
}

// An UnmarshalTypeError describes a value that was
// not appropriate for a value of a specific Go type.
type UnmarshalTypeError struct {
	Value  string       // the unpadded value
	Type   reflect.Type // type of Go value it could not be assigned to
	Struct string       // name of the struct type containing the field
	Field  string       // name of the field holding the Go value
	Cause  error        // original error
}

func (e *UnmarshalTypeError) Error() string {
	s := "fixedwidth: cannot unmarshal " + e.Value + " into Go struct field " + e.Struct + "." + e.Field + " of type " + e.Type.String()
	if e.Cause != nil {
		return s + ":" + e.Cause.Error()
	}
	return s
}

func (e *UnmarshalTypeError) Unwrap() error {
	return e.Cause
}

// UnmarshalLine decodes line and stores the values in the struct pointed to
// by v. Struct fields are matched to schema fields through their fixed tag
// key; fields with no matching value are left untouched.
func (s *Schema) UnmarshalLine(line string, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}

	record, err := s.DecodeLine(line)
	if err != nil {
		return err
	}

	sv := rv.Elem()
	t := sv.Type()
	for _, fs := range cachedStructSpec(t).fieldSpecs {
		raw, ok := record.Get(fs.spec.Key)
		if !ok {
			continue
		}
		value := raw.(string)
		sf := t.Field(fs.index)
		if err := newValueSetter(sf.Type)(sv.Field(fs.index), value); err != nil {
			return &UnmarshalTypeError{value, sf.Type, t.Name(), sf.Name, err}
		}
	}
	return nil
}

type valueSetter func(v reflect.Value, raw string) error

var textUnmarshalerType = reflect.TypeOf(new(encoding.TextUnmarshaler)).Elem()

func newValueSetter(t reflect.Type) valueSetter {
	if t.Implements(textUnmarshalerType) {
		return textUnmarshalerSetter(t, false)
	}
	if reflect.PtrTo(t).Implements(textUnmarshalerType) {
		return textUnmarshalerSetter(t, true)
	}

	switch t.Kind() {
	case reflect.Ptr:
		return ptrSetter(t)
	case reflect.Interface:
		return interfaceSetter
	case reflect.String:
		return stringSetter
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		return intSetter
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		return uintSetter
	case reflect.Float32:
		return floatSetter(32)
	case reflect.Float64:
		return floatSetter(64)
	case reflect.Bool:
		return boolSetter
	}
	return unknownSetter
}

func unknownSetter(v reflect.Value, raw string) error {
	return errors.New("fixedwidth: unknown type")
}

func nilSetter(v reflect.Value, _ string) error {
	v.Set(reflect.Zero(v.Type()))
	return nil
}

func textUnmarshalerSetter(t reflect.Type, shouldAddr bool) valueSetter {
	return func(v reflect.Value, raw string) error {
		if shouldAddr {
			v = v.Addr()
		}
		if t.Kind() == reflect.Interface && v.IsNil() {
			return errors.Errorf("fixedwidth: cannot unmarshal into nil %s", t)
		}
		// set to zero value if this is nil
		if t.Kind() == reflect.Ptr && v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}
}

// interfaceSetter stores the raw string in an empty interface.
func interfaceSetter(v reflect.Value, raw string) error {
	if v.NumMethod() != 0 {
		return errors.Errorf("fixedwidth: cannot unmarshal into %s", v.Type())
	}
	v.Set(reflect.ValueOf(raw))
	return nil
}

func ptrSetter(t reflect.Type) valueSetter {
	return func(v reflect.Value, raw string) error {
		if len(raw) <= 0 {
			return nilSetter(v, raw)
		}
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return newValueSetter(v.Elem().Type())(reflect.Indirect(v), raw)
	}
}

func stringSetter(v reflect.Value, raw string) error {
	v.SetString(raw)
	return nil
}

func intSetter(v reflect.Value, raw string) error {
	if len(raw) < 1 {
		return nil
	}
	i, err := strconv.ParseInt(raw, 10, v.Type().Bits())
	if err != nil {
		return err
	}
	v.SetInt(i)
	return nil
}

func uintSetter(v reflect.Value, raw string) error {
	if len(raw) < 1 {
		return nil
	}
	i, err := strconv.ParseUint(raw, 10, v.Type().Bits())
	if err != nil {
		return err
	}
	v.SetUint(i)
	return nil
}

func floatSetter(bitSize int) valueSetter {
	return func(v reflect.Value, raw string) error {
		if len(raw) < 1 {
			return nil
		}
		f, err := strconv.ParseFloat(raw, bitSize)
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	}
}

func boolSetter(v reflect.Value, raw string) error {
	if len(raw) < 1 {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return err
	}
	v.SetBool(b)
	return nil
}
