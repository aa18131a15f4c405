// Package specfile reads and writes field-spec files: YAML or JSON documents
// listing the fields of a fixed-width schema.
//
//	delimiter: "|"
//	fields:
//	  - key: id
//	    length: 5
//	    type: numeric
//	  - key: name
//	    length: 20
//	    padCharacter: "_"
//	    padPlacement: left
package specfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ianlopshire/go-fixedwidth-schema"
)

// Format is a spec file encoding.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatFor picks the format from a file extension. Anything but .json is
// read as YAML.
func FormatFor(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return JSON
	}
	return YAML
}

// File is the typed form of a spec file.
type File struct {
	Delimiter string                 `yaml:"delimiter,omitempty" json:"delimiter,omitempty" jsonschema:"description=String written after every field"`
	Fields    []fixedwidth.FieldSpec `yaml:"fields" json:"fields" jsonschema:"description=Fields in line order"`
}

// rawFile keeps field specs as plain maps so they are decoded by the schema
// itself.
type rawFile struct {
	Delimiter string                   `yaml:"delimiter" json:"delimiter"`
	Fields    []map[string]interface{} `yaml:"fields" json:"fields"`
}

// Load reads the spec file at path and builds its schema.
func Load(path string) (*fixedwidth.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read spec file")
	}
	s, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return s, nil
}

// Parse builds a schema from spec file contents.
func Parse(data []byte, format Format) (*fixedwidth.Schema, error) {
	var raw rawFile
	switch format {
	case JSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON spec")
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML spec")
		}
	}

	s := fixedwidth.NewSchema().SetDelimiter(raw.Delimiter)
	if err := s.SetFieldMaps(raw.Fields); err != nil {
		return nil, err
	}
	return s, nil
}

// FromSchema describes s as a spec file. Callbacks are not representable
// and are dropped.
func FromSchema(s *fixedwidth.Schema) File {
	f := File{
		Delimiter: s.Delimiter(),
		Fields:    make([]fixedwidth.FieldSpec, 0, s.Len()),
	}
	for _, field := range s.Fields() {
		spec := fixedwidth.FieldSpec{
			Key:             field.Key(),
			Length:          field.Length(),
			PadPlacement:    field.PadPlacement(),
			ValidCharacters: field.ValidCharacters(),
		}
		if field.PadCharacter() != ' ' {
			spec.PadCharacter = string(field.PadCharacter())
		}
		f.Fields = append(f.Fields, spec)
	}
	return f
}

// Marshal encodes f in the given format.
func (f File) Marshal(format Format) ([]byte, error) {
	if format == JSON {
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode JSON spec")
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode YAML spec")
	}
	return data, nil
}
