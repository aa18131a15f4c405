package fixedwidth

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func ExampleUnmarshal() {
	// define the schema
	s := NewSchema().SetFields([]FieldSpec{
		{Key: "id", Length: 5, Type: TypeNumeric},
		{Key: "first", Length: 10},
		{Key: "last", Length: 10},
		{Key: "grade", Length: 5, PadPlacement: PadLeft},
	})

	// define some fixed-with data to parse
	data := []byte("" +
		"00001Ian       Lopshire   99.5" + "\n" +
		"00002John      Doe        89.5" + "\n" +
		"00003Jane      Doe        79.5" + "\n")

	records, err := Unmarshal(s, data)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range records {
		var values []string
		for pair := r.Oldest(); pair != nil; pair = pair.Next() {
			values = append(values, fmt.Sprintf("%s=%v", pair.Key, pair.Value))
		}
		fmt.Println(strings.Join(values, " "))
	}
	// Output:
	// id=1 first=Ian last=Lopshire grade=99.5
	// id=2 first=John last=Doe grade=89.5
	// id=3 first=Jane last=Doe grade=79.5
}

func recordValues(r *Record) map[string]interface{} {
	values := make(map[string]interface{}, r.Len())
	for pair := r.Oldest(); pair != nil; pair = pair.Next() {
		values[pair.Key] = pair.Value
	}
	return values
}

func TestSchema_DecodeLine(t *testing.T) {
	s := NewSchema().
		SetDelimiter("|").
		SetField("name", 5).
		SetField("id", 5, WithPadCharacter('0'), WithPadPlacement(PadLeft)).
		SetField("code", 2, WithValidCharacters("AB "))

	for _, tt := range []struct {
		name      string
		line      string
		expected  map[string]interface{}
		shouldErr bool
	}{
		{
			name:     "basic",
			line:     "foo  |00123|A |",
			expected: map[string]interface{}{"name": "foo", "id": "123", "code": "A"},
		},
		{
			name:     "line ending",
			line:     "foo  |00123|AB|\n",
			expected: map[string]interface{}{"name": "foo", "id": "123", "code": "AB"},
		},
		{
			name:     "crlf line ending",
			line:     "foo  |00123|AB|\r\n",
			expected: map[string]interface{}{"name": "foo", "id": "123", "code": "AB"},
		},
		{
			name:     "multi-byte characters",
			line:     "PIÑA |00000|  |",
			expected: map[string]interface{}{"name": "PIÑA", "id": "", "code": ""},
		},
		{
			name:      "too short",
			line:      "foo  |00123|A |"[:14],
			shouldErr: true,
		},
		{
			name:      "too long",
			line:      "foo  |00123|A | ",
			shouldErr: true,
		},
		{
			name:      "missing trailing delimiter",
			line:      "foo  |00123|A  ",
			shouldErr: true,
		},
		{
			name:      "delimiter mismatch",
			line:      "foo  ,00123|A |",
			shouldErr: true,
		},
		{
			name:      "invalid characters",
			line:      "foo  |00123|C |",
			shouldErr: true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			record, err := s.DecodeLine(tt.line)
			if tt.shouldErr != (err != nil) {
				t.Fatalf("DecodeLine() err want %v, have %v (%v)", tt.shouldErr, err != nil, err)
			}
			if tt.shouldErr {
				return
			}
			if have := recordValues(record); !reflect.DeepEqual(have, tt.expected) {
				t.Errorf("DecodeLine() want %v, have %v", tt.expected, have)
			}
			if have := record.Len(); have != s.Len() {
				t.Errorf("DecodeLine() want %d values, have %d", s.Len(), have)
			}
		})
	}
}

func TestSchema_DecodeLine_Errors(t *testing.T) {
	s := NewSchema().SetDelimiter("|").SetField("a", 2).SetField("b", 2)

	var length *LineLengthError
	if _, err := s.DecodeLine("ab|"); !errors.As(err, &length) || length.Want != 6 || length.Have != 3 {
		t.Errorf("DecodeLine() want *LineLengthError{6, 3}, have %v", err)
	}

	var mismatch *DelimiterMismatchError
	if _, err := s.DecodeLine("ab|cd;"); !errors.As(err, &mismatch) || mismatch.Key != "b" || mismatch.Position != 5 {
		t.Errorf("DecodeLine() want *DelimiterMismatchError after b at 5, have %v", err)
	}
}

func TestSchema_RoundTrip(t *testing.T) {
	s := NewSchema().
		SetDelimiter("☃").
		SetField("name", 8).
		SetField("amount", 6, WithPadCharacter('0'), WithPadPlacement(PadLeft)).
		SetField("flag", 1)

	in := newTestRecord("name", "Zoë", "amount", 1050, "flag", "Y")
	line, err := s.EncodeRecord(in)
	if err != nil {
		t.Fatalf("EncodeRecord() unexpected err %v", err)
	}
	if want := "Zoë     ☃001050☃Y☃"; line != want {
		t.Fatalf("EncodeRecord() want %q, have %q", want, line)
	}

	out, err := s.DecodeLine(line)
	if err != nil {
		t.Fatalf("DecodeLine() unexpected err %v", err)
	}
	expected := map[string]interface{}{"name": "Zoë", "amount": "1050", "flag": "Y"}
	if have := recordValues(out); !reflect.DeepEqual(have, expected) {
		t.Errorf("DecodeLine(EncodeRecord()) want %v, have %v", expected, have)
	}
}

func TestDecoder_Decode(t *testing.T) {
	s := NewSchema().SetField("a", 1).SetField("b", 1).SetField("c", 1)

	t.Run("lines", func(t *testing.T) {
		records, err := Unmarshal(s, []byte("ABC\n\nDEF\r\nGHI\n\n"))
		if err != nil {
			t.Fatalf("Unmarshal() unexpected err %v", err)
		}
		var have []map[string]interface{}
		for _, r := range records {
			have = append(have, recordValues(r))
		}
		expected := []map[string]interface{}{
			{"a": "A", "b": "B", "c": "C"},
			{"a": "D", "b": "E", "c": "F"},
			{"a": "G", "b": "H", "c": "I"},
		}
		if !reflect.DeepEqual(have, expected) {
			t.Errorf("Unmarshal() want %v, have %v", expected, have)
		}
	})

	// Decode returns io.EOF once the input is exhausted.
	t.Run("EOF", func(t *testing.T) {
		d := NewDecoder(bytes.NewReader([]byte("")), s)
		if _, err := d.Decode(); err != io.EOF {
			t.Errorf("Decode should have returned an EOF error. Returned: %v", err)
		}

		d = NewDecoder(bytes.NewReader([]byte("ABC\n")), s)
		if _, err := d.Decode(); err != nil {
			t.Errorf("Unexpected error from decode: %v", err)
		}
		if _, err := d.Decode(); err != io.EOF {
			t.Errorf("Decode should have returned an EOF error. Returned: %v", err)
		}
	})

	t.Run("error names the line", func(t *testing.T) {
		_, err := Unmarshal(s, []byte("ABC\nDE\n"))
		var length *LineLengthError
		if !errors.As(err, &length) {
			t.Fatalf("Unmarshal() want *LineLengthError, have %v", err)
		}
		if want := "line 2: fixedwidth: line length 2, want 3"; err.Error() != want {
			t.Errorf("Unmarshal() err want %q, have %q", want, err.Error())
		}
	})
}

func TestSchema_UnmarshalLine(t *testing.T) {
	type allTypes struct {
		String          string          `fixed:"s,5"`
		Int             int             `fixed:"i,5,numeric"`
		Float           float64         `fixed:"f,5"`
		TextUnmarshaler EncodableString `fixed:"t,5"`
		Ptr             *int            `fixed:"p,3,numeric"`
		Bool            bool            `fixed:"b,5"`
		Untagged        string
	}
	s, err := CreateFromStruct(&allTypes{})
	if err != nil {
		t.Fatalf("CreateFromStruct() unexpected err %v", err)
	}

	for _, tt := range []struct {
		name      string
		line      string
		target    interface{}
		expected  interface{}
		shouldErr bool
	}{
		{
			name:     "Basic Struct Case",
			line:     "foo  001231.2  bar  007true ",
			target:   &allTypes{},
			expected: &allTypes{"foo", 123, 1.2, EncodableString{"bar", nil}, intp(7), true, ""},
		},
		{
			name:     "Zero Values",
			line:     "     00000     " + "     000     ",
			target:   &allTypes{Untagged: "kept"},
			expected: &allTypes{"", 0, 0, EncodableString{"", nil}, nil, false, "kept"},
		},
		{
			name:      "Unmarshal Error",
			line:      "foo  00nanddd  bar  007true ",
			target:    &allTypes{},
			shouldErr: true,
		},
		{
			name:      "Line Error",
			line:      "foo",
			target:    &allTypes{},
			shouldErr: true,
		},
		{
			name:      "Invalid Target",
			line:      "foo  001231.2  bar  007true ",
			target:    allTypes{},
			shouldErr: true,
		},
		{
			name:      "Nil Target",
			line:      "foo  001231.2  bar  007true ",
			target:    (*allTypes)(nil),
			shouldErr: true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UnmarshalLine(tt.line, tt.target)
			if tt.shouldErr != (err != nil) {
				t.Errorf("UnmarshalLine() err want %v, have %v (%v)", tt.shouldErr, err != nil, err)
			}
			if !tt.shouldErr && !reflect.DeepEqual(tt.target, tt.expected) {
				t.Errorf("UnmarshalLine() want %+v, have %+v", tt.expected, tt.target)
			}
		})
	}
}

func TestNewValueSetter(t *testing.T) {
	for _, tt := range []struct {
		name      string
		raw       string
		expected  interface{}
		shouldErr bool
	}{
		{"invalid type", "foo", []string{}, true},

		{"textUnmarshaler implementation", "foo", &EncodableString{"foo", nil}, false},
		{"textUnmarshaler implementation if addressed", "foo", EncodableString{"foo", nil}, false},
		{"textUnmarshaler interface", "foo", encoding.TextUnmarshaler(nil), true},

		{"string", "foo", string("foo"), false},
		{"string empty", "", string(""), false},
		{"*string", "foo", stringp("foo"), false},
		{"*string empty", "", (*string)(nil), false},
		{"empty interface", "foo", interface{}("foo"), false},

		{"int", "1", int(1), false},
		{"int zero", "0", int(0), false},
		{"int empty", "", int(0), false},
		{"*int", "1", intp(1), false},
		{"*int empty", "", (*int)(nil), false},
		{"int Invalid", "foo", int(0), true},
		{"int8 overflow", "300", int8(0), true},
		{"uint", "5", uint(5), false},
		{"uint negative", "-5", uint(0), true},

		{"float64", "1.23", float64(1.23), false},
		{"*float64", "1.23", float64p(1.23), false},
		{"*float64 empty", "", (*float64)(nil), false},
		{"float64 Invalid", "foo", float64(0), true},
		{"float32", "1.23", float32(1.23), false},
		{"Float", "1.5", Float(1.5), false},

		{"bool", "true", true, false},
		{"bool empty", "", false, false},
		{"bool Invalid", "yes", false, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var typ reflect.Type
			if tt.expected == nil {
				typ = reflect.TypeOf(new(encoding.TextUnmarshaler)).Elem()
			} else {
				typ = reflect.TypeOf(tt.expected)
			}
			if tt.name == "empty interface" {
				typ = reflect.TypeOf(new(interface{})).Elem()
			}
			// ensure we have an addressable target
			var i = reflect.Indirect(reflect.New(typ))

			err := newValueSetter(i.Type())(i, tt.raw)
			if tt.shouldErr != (err != nil) {
				t.Errorf("newValueSetter(%s)() err want %v, have %v (%v)", typ, tt.shouldErr, err != nil, err)
			}
			if !tt.shouldErr && !reflect.DeepEqual(tt.expected, i.Interface()) {
				t.Errorf("newValueSetter(%s)() want %v, have %v", typ, tt.expected, i)
			}
		})
	}
}
