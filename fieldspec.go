package fixedwidth

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// FieldSpec is the record form of a field definition, as used for bulk
// registration.
//
// Only Key and Length are required. An empty PadCharacter means a space and
// the zero PadPlacement is PadRight. When Type is "numeric" the field is
// padded with '0' on the left, whatever PadCharacter and PadPlacement say.
type FieldSpec struct {
	Key             string       `mapstructure:"key" json:"key" yaml:"key" jsonschema:"required,minLength=1"`
	Length          int          `mapstructure:"length" json:"length" yaml:"length" jsonschema:"required,minimum=1"`
	Type            string       `mapstructure:"type" json:"type,omitempty" yaml:"type,omitempty" jsonschema:"enum=numeric"`
	PadCharacter    string       `mapstructure:"padCharacter" json:"padCharacter,omitempty" yaml:"padCharacter,omitempty" jsonschema:"minLength=1,maxLength=1"`
	PadPlacement    PadPlacement `mapstructure:"padPlacement" json:"padPlacement,omitempty" yaml:"padPlacement,omitempty"`
	Callback        Callback     `mapstructure:"callback" json:"-" yaml:"-"`
	ValidCharacters string       `mapstructure:"validCharacters" json:"validCharacters,omitempty" yaml:"validCharacters,omitempty"`
}

func (spec FieldSpec) options() ([]FieldOption, error) {
	opts := []FieldOption{
		WithCallback(spec.Callback),
		WithValidCharacters(spec.ValidCharacters),
	}
	if spec.Type == TypeNumeric {
		return append(opts, WithPadCharacter(numericPadChar), WithPadPlacement(PadLeft)), nil
	}

	padChar := rune(defaultPadChar)
	if spec.PadCharacter != "" {
		r, size := utf8.DecodeRuneInString(spec.PadCharacter)
		if r == utf8.RuneError || size != len(spec.PadCharacter) {
			return nil, &InvalidFieldError{Key: spec.Key, Reason: "pad character must be a single character"}
		}
		padChar = r
	}
	return append(opts, WithPadCharacter(padChar), WithPadPlacement(spec.PadPlacement)), nil
}

// field builds the field spec describes without registering it.
func (spec FieldSpec) field() (*Field, error) {
	opts, err := spec.options()
	if err != nil {
		return nil, err
	}
	o := defaultFieldOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newField(spec.Key, spec.Length, o)
}

// SetFieldMaps registers fields from associative field-spec records, such
// as those decoded from JSON or YAML. Recognized keys are key, length, type,
// padCharacter, padPlacement, callback and validCharacters; see FieldSpec.
//
// padPlacement may be "left", "right", "STR_PAD_LEFT", "STR_PAD_RIGHT" or a
// PadPlacement. validCharacters may be a string or a list of characters.
// Records of type numeric ignore padCharacter and padPlacement.
//
// Every record is checked before any is registered: on error the schema's
// fields are left as they were and the error is returned and kept by Err.
func (s *Schema) SetFieldMaps(records []map[string]interface{}) error {
	fields := make([]*Field, len(records))
	for i, record := range records {
		var spec FieldSpec
		err := decodeFieldSpec(record, &spec)
		if err == nil {
			fields[i], err = spec.field()
		}
		if err != nil {
			err = errors.Wrapf(err, "fixedwidth: field spec %d", i)
			s.setErr(err)
			return err
		}
	}
	for _, f := range fields {
		s.fields.Set(f.key, f)
	}
	return nil
}

func decodeFieldSpec(record map[string]interface{}, spec *FieldSpec) error {
	if typ, _ := record["type"].(string); typ == TypeNumeric {
		record = withoutPadding(record)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			padPlacementHook,
			characterListHook,
		),
		WeaklyTypedInput: true,
		Result:           spec,
	})
	if err != nil {
		return err
	}
	return dec.Decode(record)
}

// withoutPadding copies record without its padding keys.
func withoutPadding(record map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(record))
	for k, v := range record {
		if k != "padCharacter" && k != "padPlacement" {
			out[k] = v
		}
	}
	return out
}

var padPlacementType = reflect.TypeOf(PadPlacement(0))

func padPlacementHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != padPlacementType {
		return data, nil
	}
	switch v := data.(type) {
	case PadPlacement:
		return v, nil
	case string:
		return ParsePadPlacement(v)
	}
	return nil, errors.Errorf("pad placement must be a string, have %T", data)
}

// characterListHook joins a list of characters into a single string.
func characterListHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.String || from.Kind() != reflect.Slice {
		return data, nil
	}
	v := reflect.ValueOf(data)
	if v.Type().Elem().Kind() == reflect.Uint8 {
		return data, nil
	}

	var b strings.Builder
	for i := 0; i < v.Len(); i++ {
		s, ok := reflect.Indirect(v.Index(i)).Interface().(string)
		if !ok {
			return nil, errors.Errorf("character list element %d is %T, not a string", i, v.Index(i).Interface())
		}
		b.WriteString(s)
	}
	return b.String(), nil
}
