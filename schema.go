package fixedwidth

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema is an ordered collection of fields and the delimiter written after
// each of them.
//
// Registration methods return the schema so calls can be chained. A field
// definition that cannot be registered is skipped and the first such error
// is reported by Err and by every encode or decode call.
//
// A Schema must not be modified concurrently. A fully built Schema may be
// used to encode and decode from multiple goroutines.
type Schema struct {
	delimiter string
	fields    *orderedmap.OrderedMap[string, *Field]
	err       error
}

// NewSchema returns an empty schema with no delimiter.
func NewSchema() *Schema {
	return &Schema{
		fields: orderedmap.New[string, *Field](),
	}
}

// SetDelimiter sets the string written after every field.
func (s *Schema) SetDelimiter(delimiter string) *Schema {
	s.delimiter = delimiter
	return s
}

func (s *Schema) Delimiter() string {
	return s.delimiter
}

// Err returns the first field registration error, if any.
func (s *Schema) Err() error {
	return s.err
}

// FieldOption configures a field registered with SetField.
type FieldOption func(*fieldOptions)

type fieldOptions struct {
	padChar      rune
	padPlacement PadPlacement
	callback     Callback
	validChars   string
}

func defaultFieldOptions() fieldOptions {
	return fieldOptions{
		padChar:      defaultPadChar,
		padPlacement: PadRight,
	}
}

// WithPadCharacter sets the character used to fill unused width.
// The default is a space.
func WithPadCharacter(c rune) FieldOption {
	return func(o *fieldOptions) { o.padChar = c }
}

// WithPadPlacement sets the side padding is added on. The default is
// PadRight.
func WithPadPlacement(p PadPlacement) FieldOption {
	return func(o *fieldOptions) { o.padPlacement = p }
}

// WithCallback sets a transform applied to values before they are padded.
func WithCallback(cb Callback) FieldOption {
	return func(o *fieldOptions) { o.callback = cb }
}

// WithValidCharacters restricts the characters a padded value may hold.
func WithValidCharacters(chars string) FieldOption {
	return func(o *fieldOptions) { o.validChars = chars }
}

// SetField registers a field of the given length under key. A field already
// registered under key is replaced and keeps its position.
func (s *Schema) SetField(key string, length int, opts ...FieldOption) *Schema {
	o := defaultFieldOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f, err := newField(key, length, o)
	if err != nil {
		s.setErr(err)
		return s
	}
	s.fields.Set(key, f)
	return s
}

// SetFields registers each spec in order. See FieldSpec for how specs map to
// field options.
func (s *Schema) SetFields(specs []FieldSpec) *Schema {
	for _, spec := range specs {
		f, err := spec.field()
		if err != nil {
			s.setErr(err)
			continue
		}
		s.fields.Set(f.key, f)
	}
	return s
}

// Field returns the field registered under key. ok is false when no such
// field exists.
func (s *Schema) Field(key string) (f *Field, ok bool) {
	return s.fields.Get(key)
}

// Fields returns the fields in registration order.
func (s *Schema) Fields() []*Field {
	fields := make([]*Field, 0, s.fields.Len())
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, pair.Value)
	}
	return fields
}

// Keys returns the field keys in registration order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, s.fields.Len())
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return s.fields.Len()
}

// TotalLineLength returns the length of an encoded line: the sum of all
// field lengths plus one delimiter per field. The delimiter is counted after
// the last field too.
func (s *Schema) TotalLineLength() int {
	length := runeLen(s.delimiter) * s.fields.Len()
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		length += pair.Value.length
	}
	return length
}

func (s *Schema) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}
