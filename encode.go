package fixedwidth

import (
	"bufio"
	"bytes"
	"io"
	"reflect"
	"strings"
)

// EncodeRecord returns the fixed-width line for record.
//
// record may be a *Record, a map[string]interface{}, a map[string]string or
// a struct (or pointer to struct) with `fixed` tags. Each field is padded,
// checked against its valid characters and followed by the delimiter. Keys
// missing from the record encode as empty values; keys without a field are
// ignored.
//
// The returned line is always TotalLineLength characters long.
func (s *Schema) EncodeRecord(record interface{}) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	lookup, err := newRecordLookup(record)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(s.TotalLineLength())
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		f := pair.Value
		padded, err := f.Pad(lookup(f.key))
		if err != nil {
			return "", err
		}
		if err := f.CheckCharacters(padded); err != nil {
			return "", err
		}
		b.WriteString(padded)
		b.WriteString(s.delimiter)
	}
	return b.String(), nil
}

// recordLookup returns the value stored under key, or nil.
type recordLookup func(key string) interface{}

func newRecordLookup(record interface{}) (recordLookup, error) {
	switch r := record.(type) {
	case *Record:
		return func(key string) interface{} {
			if r == nil {
				return nil
			}
			v, _ := r.Get(key)
			return v
		}, nil
	case map[string]interface{}:
		return func(key string) interface{} { return r[key] }, nil
	case map[string]string:
		return func(key string) interface{} {
			if v, ok := r[key]; ok {
				return v
			}
			return nil
		}, nil
	case nil:
		return func(string) interface{} { return nil }, nil
	}

	v := reflect.Indirect(reflect.ValueOf(record))
	if v.Kind() != reflect.Struct {
		return nil, &MarshalInvalidTypeError{typeName: reflect.TypeOf(record).String()}
	}
	values := structRecord(v)
	return func(key string) interface{} {
		v, _ := values.Get(key)
		return v
	}, nil
}

// Marshal returns the fixed-width encoding of v using s.
//
// v may be a single record or a slice of records; see EncodeRecord for the
// accepted record types. Each record is encoded to a line and lines are
// separated by a newline. nil encodes to nothing.
func Marshal(s *Schema, v interface{}) ([]byte, error) {
	buff := bytes.NewBuffer(nil)
	err := NewEncoder(buff, s).Encode(v)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// An Encoder writes fixed-width lines to an output stream.
type Encoder struct {
	w     *bufio.Writer
	s     *Schema
	lines int
}

// NewEncoder returns a new encoder that writes lines described by s to w.
func NewEncoder(w io.Writer, s *Schema) *Encoder {
	return &Encoder{
		w: bufio.NewWriter(w),
		s: s,
	}
}

// Encode writes the fixed-width encoding of v to the stream. Lines written
// by successive calls are separated by a newline; no newline follows the
// last line.
// See the documentation for Marshal for details about encoding behavior.
func (e *Encoder) Encode(v interface{}) (err error) {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	if _, ok := v.(*Record); !ok && rv.Kind() == reflect.Slice {
		// encode each slice element to a line
		err = e.writeLines(rv)
	} else {
		err = e.writeLine(v)
	}
	if err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *Encoder) writeLines(v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		if err := e.writeLine(v.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeLine(record interface{}) error {
	line, err := e.s.EncodeRecord(record)
	if err != nil {
		return err
	}
	if e.lines > 0 {
		if err := e.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	e.lines++
	_, err = e.w.WriteString(line)
	return err
}
