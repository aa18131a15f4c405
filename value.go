package fixedwidth

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// valueEncoder returns the canonical string form of a value.
type valueEncoder func(v reflect.Value) (string, error)

var (
	textMarshalerType = reflect.TypeOf(new(encoding.TextMarshaler)).Elem()
	stringerType      = reflect.TypeOf(new(fmt.Stringer)).Elem()
	rawMessageType    = reflect.TypeOf(json.RawMessage(nil))
	jsonNumberType    = reflect.TypeOf(json.Number(""))
)

// stringify converts a loosely typed value to its canonical string form.
// nil values (and nil pointers) are the empty string.
func stringify(i interface{}) (string, error) {
	if i == nil {
		return "", nil
	}
	v := reflect.ValueOf(i)
	return newValueEncoder(v.Type())(v)
}

func newValueEncoder(t reflect.Type) valueEncoder {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface:
		return ptrInterfaceEncoder
	}
	if enc := methodEncoder(t); enc != nil {
		return enc
	}

	switch t.Kind() {
	case reflect.String:
		return stringEncoder
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesEncoder
		}
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		return intEncoder
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		return uintEncoder
	case reflect.Float64:
		return floatEncoder(64)
	case reflect.Float32:
		return floatEncoder(32)
	case reflect.Bool:
		return boolEncoder
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return unknownTypeEncoder(t)
	}
	return sprintEncoder
}

// methodEncoder returns an encoder for types that know their own string
// form, or nil.
func methodEncoder(t reflect.Type) valueEncoder {
	switch {
	case t == rawMessageType:
		return rawMessageEncoder
	case t == jsonNumberType, t == reflect.PtrTo(jsonNumberType):
		return jsonNumberEncoder
	case t.Implements(textMarshalerType):
		return textMarshalerEncoder
	case t.Implements(stringerType):
		return stringerEncoder
	}
	return nil
}

func ptrInterfaceEncoder(v reflect.Value) (string, error) {
	if v.IsNil() {
		return "", nil
	}
	if v.Kind() == reflect.Ptr {
		if enc := methodEncoder(v.Type()); enc != nil {
			return enc(v)
		}
	}
	return newValueEncoder(v.Elem().Type())(v.Elem())
}

func textMarshalerEncoder(v reflect.Value) (string, error) {
	b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	return string(b), err
}

func stringerEncoder(v reflect.Value) (string, error) {
	return v.Interface().(fmt.Stringer).String(), nil
}

// rawMessageEncoder converts an undecoded JSON value. Strings are unquoted,
// null is empty, numbers go through formatJSONNumber, and arrays and objects
// keep their compact JSON text.
func rawMessageEncoder(v reflect.Value) (string, error) {
	raw := bytes.TrimSpace(v.Bytes())
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.Wrap(err, "fixedwidth: invalid JSON string")
		}
		return s, nil
	case raw[0] == '{' || raw[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", errors.Wrap(err, "fixedwidth: invalid JSON value")
		}
		return buf.String(), nil
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		return formatJSONNumber(string(raw))
	}
	return string(raw), nil
}

func jsonNumberEncoder(v reflect.Value) (string, error) {
	return formatJSONNumber(reflect.Indirect(v).String())
}

// formatJSONNumber writes a JSON number the way it reads once decoded:
// integers keep their digits, anything with a fraction or exponent is a
// float in its shortest form. 12.50 is "12.5" and 1e3 is "1000".
func formatJSONNumber(n string) (string, error) {
	if !strings.ContainsAny(n, ".eE") {
		return n, nil
	}
	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return "", errors.Wrapf(err, "fixedwidth: invalid JSON number %q", n)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func stringEncoder(v reflect.Value) (string, error) {
	return v.String(), nil
}

func bytesEncoder(v reflect.Value) (string, error) {
	return string(v.Bytes()), nil
}

func intEncoder(v reflect.Value) (string, error) {
	return strconv.FormatInt(v.Int(), 10), nil
}

func uintEncoder(v reflect.Value) (string, error) {
	return strconv.FormatUint(v.Uint(), 10), nil
}

func floatEncoder(bitSize int) valueEncoder {
	return func(v reflect.Value) (string, error) {
		return strconv.FormatFloat(v.Float(), 'f', -1, bitSize), nil
	}
}

func boolEncoder(v reflect.Value) (string, error) {
	return strconv.FormatBool(v.Bool()), nil
}

func sprintEncoder(v reflect.Value) (string, error) {
	return fmt.Sprint(v.Interface()), nil
}

func unknownTypeEncoder(t reflect.Type) valueEncoder {
	return func(value reflect.Value) (string, error) {
		return "", &MarshalInvalidTypeError{typeName: t.String()}
	}
}
