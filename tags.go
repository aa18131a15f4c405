package fixedwidth

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// parseTag parses a struct field's fixed tag. The tag is formatted as
// `fixed:"{key},{length}[,{placement}[,{padChar}]]"` where placement is
// left, right or numeric. An empty key means the struct field name. If the
// tag is not valid, ok will be false.
func parseTag(name, tag string) (spec FieldSpec, ok bool) {
	parts := strings.Split(tag, ",")
	if len(parts) < 2 || len(parts) > 4 {
		return spec, false
	}

	spec.Key = parts[0]
	if spec.Key == "" {
		spec.Key = name
	}

	var err error
	if spec.Length, err = strconv.Atoi(parts[1]); err != nil || spec.Length <= 0 {
		return spec, false
	}

	if len(parts) > 2 && parts[2] != "" {
		if parts[2] == TypeNumeric {
			spec.Type = TypeNumeric
		} else if spec.PadPlacement, err = ParsePadPlacement(parts[2]); err != nil {
			return spec, false
		}
	}

	if len(parts) > 3 {
		if runeLen(parts[3]) != 1 {
			return spec, false
		}
		spec.PadCharacter = parts[3]
	}

	return spec, true
}

type structSpec struct {
	fieldSpecs []structFieldSpec
}

type structFieldSpec struct {
	index int
	spec  FieldSpec
}

func buildStructSpec(t reflect.Type) structSpec {
	var ss structSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			// unexported
			continue
		}
		spec, ok := parseTag(f.Name, f.Tag.Get("fixed"))
		if !ok {
			continue
		}
		ss.fieldSpecs = append(ss.fieldSpecs, structFieldSpec{index: i, spec: spec})
	}
	return ss
}

var fieldSpecCache sync.Map // map[reflect.Type]structSpec

// cachedStructSpec is like buildStructSpec but cached to prevent duplicate work.
func cachedStructSpec(t reflect.Type) structSpec {
	if f, ok := fieldSpecCache.Load(t); ok {
		return f.(structSpec)
	}
	f, _ := fieldSpecCache.LoadOrStore(t, buildStructSpec(t))
	return f.(structSpec)
}

// CreateFromStruct builds a schema from the fixed tags of a struct type.
// v may be a struct value or a pointer to one; its contents are not used.
// Fields without a valid tag are ignored.
func CreateFromStruct(v interface{}) (*Schema, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.Errorf("fixedwidth: CreateFromStruct(non-struct %v)", reflect.TypeOf(v))
	}

	ss := cachedStructSpec(t)
	specs := make([]FieldSpec, len(ss.fieldSpecs))
	for i, fs := range ss.fieldSpecs {
		specs[i] = fs.spec
	}

	s := NewSchema().SetFields(specs)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// structRecord collects the tagged fields of a struct value into a Record.
func structRecord(v reflect.Value) *Record {
	ss := cachedStructSpec(v.Type())
	record := NewRecord()
	for _, fs := range ss.fieldSpecs {
		record.Set(fs.spec.Key, v.Field(fs.index).Interface())
	}
	return record
}
